package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommandShowsHelp(t *testing.T) {
	run := func(t *testing.T, args []string) string {
		t.Helper()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(args)
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("Execute(%v) error = %v", args, err)
		}
		return out.String()
	}

	t.Run("no verb", func(t *testing.T) {
		if got := run(t, []string{}); !strings.Contains(got, "Usage:") {
			t.Errorf("help text not printed: %q", got)
		}
	})

	t.Run("unrecognized verb", func(t *testing.T) {
		if got := run(t, []string{"bogus"}); !strings.Contains(got, "Usage:") {
			t.Errorf("help text not printed: %q", got)
		}
	})
}
