package wireguard

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultClientDir is where client configs are stored on the server.
const DefaultClientDir = "/etc/wireguard/clients"

// ErrClientNotFound is returned when a named client config does not exist.
var ErrClientNotFound = errors.New("client not found")

// ErrSubnetExhausted is returned when no free tunnel address remains.
var ErrSubnetExhausted = errors.New("no free address left in client subnet")

// Store keeps one .conf file per client under a single directory. The file
// name is the client name; the file holds the full tunnel config handed to
// the client, so the directory must stay root-only.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. An empty dir selects the default
// server location.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultClientDir
	}
	return &Store{dir: dir}
}

// EnsureDir creates the client config directory with restrictive
// permissions.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create client config directory: %w", err)
	}
	return nil
}

// Dir returns the client config directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) confPath(name string) string {
	return filepath.Join(s.dir, name+".conf")
}

// Path returns the config file path for a client name.
func (s *Store) Path(name string) string {
	return s.confPath(name)
}

// Exists reports whether a client config is present.
func (s *Store) Exists(name string) (bool, error) {
	_, err := os.Stat(s.confPath(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check client %s: %w", name, err)
}

// Save writes a client config with mode 0600 and returns its path.
func (s *Store) Save(name, conf string) (string, error) {
	if err := s.EnsureDir(); err != nil {
		return "", err
	}

	path := s.confPath(name)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(conf)+"\n"), 0600); err != nil {
		return "", fmt.Errorf("failed to save client config %s: %w", name, err)
	}
	return path, nil
}

// Read returns the stored config for a client.
func (s *Store) Read(name string) (string, error) {
	content, err := os.ReadFile(s.confPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrClientNotFound
		}
		return "", fmt.Errorf("failed to read client config %s: %w", name, err)
	}
	return string(content), nil
}

// Delete removes a client config.
func (s *Store) Delete(name string) error {
	err := os.Remove(s.confPath(name))
	if os.IsNotExist(err) {
		return ErrClientNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete client config %s: %w", name, err)
	}
	return nil
}

// List returns all client names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read client config directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".conf") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".conf"))
	}
	sort.Strings(names)
	return names, nil
}

// PublicKey derives a stored client's public key from the private key in
// its config. Revocation needs it to drop the peer from the device.
func (s *Store) PublicKey(name string) (string, error) {
	conf, err := s.Read(name)
	if err != nil {
		return "", err
	}

	privateKey, ok := ParseConfValue(conf, "PrivateKey")
	if !ok {
		return "", fmt.Errorf("client config %s has no PrivateKey", name)
	}
	return DerivePublicKey(privateKey)
}

// usedAddresses collects the tunnel addresses held by stored clients.
func (s *Store) usedAddresses() (map[string]bool, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool)
	for _, name := range names {
		conf, err := s.Read(name)
		if err != nil {
			return nil, err
		}
		addr, ok := ParseConfValue(conf, "Address")
		if !ok {
			continue
		}
		ip := strings.TrimSpace(strings.SplitN(addr, "/", 2)[0])
		if net.ParseIP(ip) != nil {
			used[ip] = true
		}
	}
	return used, nil
}

// NextAddress allocates the lowest free host address in the client subnet,
// starting at .2 (.1 is the server). The result is in CIDR /32 form.
func (s *Store) NextAddress(subnet string) (string, error) {
	if subnet == "" {
		subnet = "10.0.0.0/24"
	}
	ip, ipNet, err := net.ParseCIDR(subnet)
	if err != nil {
		return "", fmt.Errorf("invalid client subnet %s: %w", subnet, err)
	}
	base := ip.Mask(ipNet.Mask).To4()
	if base == nil {
		return "", fmt.Errorf("client subnet must be IPv4: %s", subnet)
	}

	used, err := s.usedAddresses()
	if err != nil {
		return "", err
	}

	for host := 2; host <= 254; host++ {
		candidate := net.IPv4(base[0], base[1], base[2], byte(host))
		if !ipNet.Contains(candidate) {
			break
		}
		if !used[candidate.String()] {
			return candidate.String() + "/32", nil
		}
	}
	return "", ErrSubnetExhausted
}
