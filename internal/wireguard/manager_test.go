package wireguard

import (
	"errors"
	"strings"
	"testing"
)

// fakeDevice records peer operations without touching the kernel.
type fakeDevice struct {
	iface     string
	publicKey string
	applied   map[string]string
	applyErr  error
	removeErr error
}

func newFakeDevice() *fakeDevice {
	_, pub, _ := GenerateKeyPair()
	return &fakeDevice{
		iface:     "wg0",
		publicKey: pub,
		applied:   make(map[string]string),
	}
}

func (f *fakeDevice) Interface() string          { return f.iface }
func (f *fakeDevice) PublicKey() (string, error) { return f.publicKey, nil }

func (f *fakeDevice) ApplyPeer(publicKey, allowedIP string) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied[publicKey] = allowedIP
	return nil
}

func (f *fakeDevice) RemovePeer(publicKey string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.applied, publicKey)
	return nil
}

func newTestManager(t *testing.T, device *fakeDevice, applyPeer bool) *Manager {
	t.Helper()
	mgr, err := NewManager(ManagerParams{
		Store:           NewStore(t.TempDir()),
		Device:          device,
		ServerPublicKey: device.publicKey,
		ServerIP:        "203.0.113.10",
		ServerPort:      "51820",
		ApplyPeer:       applyPeer,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return mgr
}

func TestCreateClient(t *testing.T) {
	device := newFakeDevice()
	mgr := newTestManager(t, device, true)

	client, err := mgr.CreateClient("laptop")
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	if client.Address != "10.0.0.2/32" {
		t.Errorf("Address = %s, want 10.0.0.2/32", client.Address)
	}
	if !strings.Contains(client.Conf, "Endpoint = 203.0.113.10:51820") {
		t.Errorf("config missing endpoint:\n%s", client.Conf)
	}
	if got := device.applied[client.PublicKey]; got != client.Address {
		t.Errorf("device peer allowed IP = %q, want %q", got, client.Address)
	}

	names, err := mgr.ListClients()
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if len(names) != 1 || names[0] != "laptop" {
		t.Errorf("ListClients = %v, want [laptop]", names)
	}
}

func TestCreateClientDuplicateName(t *testing.T) {
	mgr := newTestManager(t, newFakeDevice(), true)

	if _, err := mgr.CreateClient("laptop"); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if _, err := mgr.CreateClient("laptop"); !errors.Is(err, ErrClientExists) {
		t.Errorf("duplicate CreateClient = %v, want ErrClientExists", err)
	}
}

func TestCreateClientUniqueAddresses(t *testing.T) {
	mgr := newTestManager(t, newFakeDevice(), true)

	seen := make(map[string]bool)
	for _, name := range []string{"a", "b", "c"} {
		client, err := mgr.CreateClient(name)
		if err != nil {
			t.Fatalf("CreateClient(%s) failed: %v", name, err)
		}
		if seen[client.Address] {
			t.Errorf("address %s allocated twice", client.Address)
		}
		seen[client.Address] = true
	}
}

func TestCreateClientApplyFailureRollsBack(t *testing.T) {
	device := newFakeDevice()
	device.applyErr = errors.New("netlink: permission denied")
	mgr := newTestManager(t, device, true)

	if _, err := mgr.CreateClient("laptop"); err == nil {
		t.Fatal("expected error when peer apply fails")
	}

	names, err := mgr.ListClients()
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("config left behind after failed apply: %v", names)
	}
}

func TestCreateClientWithoutApply(t *testing.T) {
	device := newFakeDevice()
	mgr := newTestManager(t, device, false)

	client, err := mgr.CreateClient("laptop")
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if len(device.applied) != 0 {
		t.Error("peer applied to device with ApplyPeer disabled")
	}
	if client.Conf == "" {
		t.Error("config not rendered")
	}
}

func TestRevokeClient(t *testing.T) {
	device := newFakeDevice()
	mgr := newTestManager(t, device, true)

	client, err := mgr.CreateClient("laptop")
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	if err := mgr.RevokeClient("laptop"); err != nil {
		t.Fatalf("RevokeClient failed: %v", err)
	}
	if _, ok := device.applied[client.PublicKey]; ok {
		t.Error("peer still on device after revoke")
	}

	names, err := mgr.ListClients()
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("ListClients after revoke = %v, want empty", names)
	}
}

func TestRevokeUnknownClient(t *testing.T) {
	mgr := newTestManager(t, newFakeDevice(), true)

	if err := mgr.RevokeClient("ghost"); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("RevokeClient(ghost) = %v, want ErrClientNotFound", err)
	}
}
