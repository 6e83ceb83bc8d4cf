package steps

import (
	"fmt"

	"github.com/mvolkov/wg-peer-bot/internal/common"
	"github.com/mvolkov/wg-peer-bot/internal/config"
	"github.com/mvolkov/wg-peer-bot/internal/ui"
	"github.com/mvolkov/wg-peer-bot/internal/wireguard"
)

// PublicKeyReader reads the public key of a WireGuard interface. The
// default implementation asks the kernel through wgctrl; tests substitute
// a fake.
type PublicKeyReader func(iface string) (string, error)

func devicePublicKey(iface string) (string, error) {
	return wireguard.NewDevice(iface).PublicKey()
}

// ConfigureAnswers carries pre-seeded answers for non-interactive runs.
// Empty fields fall back to prompting (or to defaults in non-interactive
// mode).
type ConfigureAnswers struct {
	BotToken    string
	ServerIP    string
	AdminChatID string
	Interface   string
	Port        string
	ApplyPeer   string
}

// Configure collects the bot configuration and writes the environment
// file. The server public key is read from the live interface before
// anything is persisted: a server without a configured interface cannot
// hand out client configs, so the step aborts with the env file untouched.
type Configure struct {
	env     *config.EnvFile
	ui      *ui.UI
	markers *config.Markers

	readPublicKey PublicKeyReader
	answers       ConfigureAnswers
}

// NewConfigure creates a Configure step.
func NewConfigure(env *config.EnvFile, ui *ui.UI, markers *config.Markers) *Configure {
	return &Configure{
		env:           env,
		ui:            ui,
		markers:       markers,
		readPublicKey: devicePublicKey,
	}
}

// SetPublicKeyReader overrides how the server public key is read.
func (s *Configure) SetPublicKeyReader(reader PublicKeyReader) {
	s.readPublicKey = reader
}

// SetAnswers pre-seeds prompt answers (flags or tests).
func (s *Configure) SetAnswers(answers ConfigureAnswers) {
	s.answers = answers
}

func (s *Configure) askOr(seeded, prompt, defaultValue string, check func(string) error) (string, error) {
	if seeded != "" {
		if err := check(seeded); err != nil {
			return "", err
		}
		return seeded, nil
	}
	return s.ui.PromptInputWithValidation(prompt, defaultValue, ui.Validator(check))
}

// collect gathers all configuration values, prompting where needed.
func (s *Configure) collect() (map[string]string, error) {
	iface, err := s.askOr(s.answers.Interface, "WireGuard interface",
		s.env.GetOrDefault(config.KeyServerInterface, "wg0"), common.ValidateInterfaceName)
	if err != nil {
		return nil, err
	}

	port, err := s.askOr(s.answers.Port, "WireGuard listen port",
		s.env.GetOrDefault(config.KeyServerWGPort, "51820"), common.ValidatePort)
	if err != nil {
		return nil, err
	}

	serverIP, err := s.askOr(s.answers.ServerIP, "Server public IP",
		s.env.GetOrDefault(config.KeyServerPublicIP, ""), common.ValidateIP)
	if err != nil {
		return nil, err
	}

	token := s.answers.BotToken
	if token == "" {
		token, err = s.ui.PromptSecret("Telegram bot token")
		if err != nil {
			return nil, err
		}
	}
	if err := common.ValidateBotToken(token); err != nil {
		return nil, err
	}

	adminChat := s.answers.AdminChatID
	if adminChat == "" && !s.ui.IsNonInteractive() {
		adminChat, err = s.ui.PromptInputWithValidation(
			"Admin chat id (empty disables the admin gate)", "",
			ui.Validator(common.ValidateChatID))
		if err != nil {
			return nil, err
		}
	}
	if err := common.ValidateChatID(adminChat); err != nil {
		return nil, err
	}

	applyPeer := s.answers.ApplyPeer
	if applyPeer == "" {
		apply, err := s.ui.PromptYesNo("Apply peers to the live interface?", true)
		if err != nil {
			return nil, err
		}
		applyPeer = fmt.Sprintf("%t", apply)
	}
	if applyPeer != "true" && applyPeer != "false" {
		return nil, fmt.Errorf("apply-peer must be true or false, got %q", applyPeer)
	}

	// The interface must be up and keyed before the env file is worth
	// writing; this is the fatal "no discoverable public key" case.
	s.ui.Infof("Reading public key of interface %s...", iface)
	publicKey, err := s.readPublicKey(iface)
	if err != nil {
		return nil, fmt.Errorf("wireguard interface %s has no discoverable public key: %w", iface, err)
	}
	s.ui.Successf("Server public key: %s", publicKey)

	return map[string]string{
		config.KeyBotToken:        token,
		config.KeyServerPublicIP:  serverIP,
		config.KeyServerPublicKey: publicKey,
		config.KeyServerWGPort:    port,
		config.KeyServerInterface: iface,
		config.KeyApplyPeer:       applyPeer,
		config.KeyAdminChatID:     adminChat,
	}, nil
}

// Run executes the configuration step.
func (s *Configure) Run() error {
	s.ui.Step("Collecting bot configuration")

	values, err := s.collect()
	if err != nil {
		return err
	}

	if err := s.env.SetAll(values); err != nil {
		return err
	}
	s.ui.Successf("Configuration written to %s", s.env.FilePath())

	if err := s.markers.Create(MarkerConfigure); err != nil {
		return fmt.Errorf("failed to create completion marker: %w", err)
	}
	return nil
}
