package wireguard

import (
	"errors"
	"fmt"
	"net"
)

// DeviceController is the part of Device the manager needs. Tests provide
// a fake so client provisioning can run without a kernel interface.
type DeviceController interface {
	Interface() string
	PublicKey() (string, error)
	ApplyPeer(publicKey, allowedIP string) error
	RemovePeer(publicKey string) error
}

// Manager implements the peer lifecycle: create a client (keys, address,
// config file, kernel peer), list clients, revoke a client.
type Manager struct {
	store     *Store
	device    DeviceController
	serverKey string
	endpoint  string
	subnet    string
	applyPeer bool
}

// ManagerParams configures a Manager.
type ManagerParams struct {
	Store           *Store
	Device          DeviceController
	ServerPublicKey string
	ServerIP        string
	ServerPort      string
	ClientSubnet    string // empty selects 10.0.0.0/24
	ApplyPeer       bool
}

// NewManager creates a Manager.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("client store is required")
	}
	if params.Device == nil {
		return nil, fmt.Errorf("device controller is required")
	}
	if params.ServerPublicKey == "" {
		return nil, fmt.Errorf("server public key is required")
	}
	if params.ServerIP == "" || params.ServerPort == "" {
		return nil, fmt.Errorf("server endpoint is required")
	}

	return &Manager{
		store:     params.Store,
		device:    params.Device,
		serverKey: params.ServerPublicKey,
		endpoint:  net.JoinHostPort(params.ServerIP, params.ServerPort),
		subnet:    params.ClientSubnet,
		applyPeer: params.ApplyPeer,
	}, nil
}

// Client describes a provisioned client.
type Client struct {
	Name      string
	PublicKey string
	Address   string
	Conf      string
	Path      string
}

// ErrClientExists is returned when creating a client whose name is taken.
var ErrClientExists = errors.New("client already exists")

// CreateClient provisions a new client: fresh key pair, next free tunnel
// address, rendered config saved to the store, and (when enabled) the peer
// applied to the kernel device.
func (m *Manager) CreateClient(name string) (*Client, error) {
	exists, err := m.store.Exists(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrClientExists, name)
	}

	privateKey, publicKey, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	address, err := m.store.NextAddress(m.subnet)
	if err != nil {
		return nil, err
	}

	conf, err := RenderClientConf(ClientParams{
		PrivateKey:      privateKey,
		Address:         address,
		ServerPublicKey: m.serverKey,
		Endpoint:        m.endpoint,
	})
	if err != nil {
		return nil, err
	}

	path, err := m.store.Save(name, conf)
	if err != nil {
		return nil, err
	}

	if m.applyPeer {
		if err := m.device.ApplyPeer(publicKey, address); err != nil {
			// Keep the store consistent with the device
			_ = m.store.Delete(name)
			return nil, err
		}
	}

	return &Client{
		Name:      name,
		PublicKey: publicKey,
		Address:   address,
		Conf:      conf,
		Path:      path,
	}, nil
}

// ListClients returns the names of all provisioned clients.
func (m *Manager) ListClients() ([]string, error) {
	return m.store.List()
}

// RevokeClient removes a client's peer from the device (when peers are
// applied) and deletes its config. Returns ErrClientNotFound for unknown
// names.
func (m *Manager) RevokeClient(name string) error {
	publicKey, err := m.store.PublicKey(name)
	if err != nil {
		return err
	}

	if m.applyPeer {
		if err := m.device.RemovePeer(publicKey); err != nil {
			return err
		}
	}

	return m.store.Delete(name)
}

// ClientConf returns the stored config for a client.
func (m *Manager) ClientConf(name string) (string, error) {
	return m.store.Read(name)
}
