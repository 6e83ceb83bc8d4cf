package main

import (
	"strings"
	"testing"
)

// Client names become file names under the client config directory, so
// both peer commands must reject anything that could escape it before
// touching the store.
func TestPeerCommandsRejectBadNames(t *testing.T) {
	commands := map[string]func(args []string) error{
		"add": func(args []string) error {
			return peerAddCmd.RunE(peerAddCmd, args)
		},
		"remove": func(args []string) error {
			return peerRemoveCmd.RunE(peerRemoveCmd, args)
		},
	}

	for cmd, run := range commands {
		for _, name := range []string{"../evil", "a/b", "", "name with spaces"} {
			err := run([]string{name})
			if err == nil {
				t.Errorf("peer %s accepted client name %q", cmd, name)
				continue
			}
			if !strings.Contains(err.Error(), "client name") {
				t.Errorf("peer %s %q failed with %v, want a name validation error", cmd, name, err)
			}
		}
	}
}
