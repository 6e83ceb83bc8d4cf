// wg-bot is the Telegram bot daemon. It reads its configuration from the
// environment (injected by systemd from the file wg-bot-setup writes),
// talks to the kernel WireGuard interface through wgctrl, and hands out
// client configs over Telegram.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/mvolkov/wg-peer-bot/internal/bot"
	"github.com/mvolkov/wg-peer-bot/internal/wireguard"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	cfg, err := bot.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	store := wireguard.NewStore(cfg.ClientDir)
	if err := store.EnsureDir(); err != nil {
		log.WithError(err).Fatal("client config directory unavailable")
	}

	manager, err := wireguard.NewManager(wireguard.ManagerParams{
		Store:           store,
		Device:          wireguard.NewDevice(cfg.ServerInterface),
		ServerPublicKey: cfg.ServerPublicKey,
		ServerIP:        cfg.ServerPublicIP,
		ServerPort:      cfg.ServerWGPort,
		ApplyPeer:       cfg.ApplyPeer,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to build peer manager")
	}

	b, err := bot.New(cfg, manager, log)
	if err != nil {
		log.WithError(err).Fatal("failed to start bot")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sig
		log.WithField("signal", s.String()).Info("shutting down")
		b.Stop()
	}()

	b.Start()
}
