package bot

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v3"

	"github.com/mvolkov/wg-peer-bot/internal/common"
	"github.com/mvolkov/wg-peer-bot/internal/wireguard"
)

// pollTimeout is the Telegram long-poll timeout.
const pollTimeout = 10 * time.Second

// connectTimeout bounds the initial connection retries against the
// Telegram API.
const connectTimeout = 2 * time.Minute

// Bot wires Telegram commands to the WireGuard peer manager.
type Bot struct {
	tb          *tele.Bot
	manager     *wireguard.Manager
	adminChatID int64
	log         *logrus.Logger
}

// New connects to the Telegram API and registers the command handlers.
// The first getMe call retries with exponential backoff so the service
// survives starting before the network is up.
func New(cfg *Config, manager *wireguard.Manager, log *logrus.Logger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
	}

	var tb *tele.Bot
	connect := func() error {
		var err error
		tb, err = tele.NewBot(pref)
		if err == nil {
			return nil
		}
		err = classifyConnectError(err)
		var permanent *backoff.PermanentError
		if !errors.As(err, &permanent) {
			log.WithError(err).Warn("telegram connection failed, retrying")
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = connectTimeout
	if err := backoff.Retry(connect, policy); err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}

	b := &Bot{
		tb:          tb,
		manager:     manager,
		adminChatID: cfg.AdminChatID,
		log:         log,
	}
	b.registerHandlers()
	return b, nil
}

// classifyConnectError marks Telegram API rejections (e.g. 401 for a bad
// token) as permanent: the API answered, so retrying the same credentials
// cannot succeed. Transport errors stay retryable.
func classifyConnectError(err error) error {
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return backoff.Permanent(err)
	}
	return err
}

func (b *Bot) registerHandlers() {
	b.tb.Handle("/start", b.handleStart)
	b.tb.Handle("/newclient", b.handleNewClient)
	b.tb.Handle("/list", b.handleList)
	b.tb.Handle("/revoke", b.handleRevoke)
}

// Start runs the long poller until Stop is called.
func (b *Bot) Start() {
	b.log.WithField("bot", b.tb.Me.Username).Info("bot started")
	b.tb.Start()
}

// Stop stops the long poller.
func (b *Bot) Stop() {
	b.tb.Stop()
}

// isAdmin reports whether a chat may use the admin-gated commands. With no
// admin chat configured the gate is open.
func (b *Bot) isAdmin(chatID int64) bool {
	return b.adminChatID == 0 || chatID == b.adminChatID
}

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send("Welcome! Use /newclient <name> to create a new client.")
}

func (b *Bot) handleNewClient(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /newclient <name>")
	}

	name := args[0]
	if err := common.ValidateClientName(name); err != nil {
		return c.Send(fmt.Sprintf("Invalid client name: %v", err))
	}

	log := b.log.WithFields(logrus.Fields{
		"client": name,
		"chat":   c.Chat().ID,
	})

	client, err := b.manager.CreateClient(name)
	if err != nil {
		if errors.Is(err, wireguard.ErrClientExists) {
			return c.Send(fmt.Sprintf("Client %s already exists.", name))
		}
		log.WithError(err).Error("failed to create client")
		return c.Send("Failed to create client, see server logs.")
	}
	log.WithField("address", client.Address).Info("client created")

	document := &tele.Document{
		File:     tele.FromReader(strings.NewReader(client.Conf)),
		FileName: name + ".conf",
	}
	if err := c.Send(document); err != nil {
		return err
	}

	png, err := ConfQRCode(client.Conf)
	if err != nil {
		log.WithError(err).Error("failed to render QR code")
		return c.Send("Config sent, but the QR code could not be generated.")
	}
	photo := &tele.Photo{File: tele.FromReader(bytes.NewReader(png))}
	return c.Send(photo)
}

func (b *Bot) handleList(c tele.Context) error {
	if !b.isAdmin(c.Chat().ID) {
		return c.Send("Access denied.")
	}

	names, err := b.manager.ListClients()
	if err != nil {
		b.log.WithError(err).Error("failed to list clients")
		return c.Send("Failed to list clients, see server logs.")
	}

	if len(names) == 0 {
		return c.Send("No clients found.")
	}
	return c.Send(strings.Join(names, "\n"))
}

func (b *Bot) handleRevoke(c tele.Context) error {
	if !b.isAdmin(c.Chat().ID) {
		return c.Send("Access denied.")
	}

	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /revoke <name>")
	}

	name := args[0]
	if err := common.ValidateClientName(name); err != nil {
		return c.Send(fmt.Sprintf("Invalid client name: %v", err))
	}

	log := b.log.WithFields(logrus.Fields{
		"client": name,
		"chat":   c.Chat().ID,
	})

	if err := b.manager.RevokeClient(name); err != nil {
		if errors.Is(err, wireguard.ErrClientNotFound) {
			return c.Send("Client not found.")
		}
		log.WithError(err).Error("failed to revoke client")
		return c.Send("Failed to revoke client, see server logs.")
	}
	log.Info("client revoked")

	return c.Send(fmt.Sprintf("Client %s revoked.", name))
}
