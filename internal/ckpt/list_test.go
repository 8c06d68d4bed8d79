package ckpt_test

import (
	"strings"
	"testing"
	"time"

	"ckpt-go/internal/store"
)

func TestService_List(t *testing.T) {
	t.Run("empty store yields an empty listing", func(t *testing.T) {
		svc, _ := newService(t)

		summaries, err := svc.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(summaries) != 0 {
			t.Errorf("List() = %d entries, want 0", len(summaries))
		}
	})

	t.Run("lists checkpoints newest-first with archive names", func(t *testing.T) {
		svc, deps := newService(t)
		deps.changes.Files = []string{"a.txt"}
		if _, err := svc.Create("old"); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		deps.clock.Advance(time.Hour)
		deps.changes.Files = []string{"a.txt", "b.txt"}
		if _, err := svc.Create("new"); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		summaries, err := svc.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(summaries) != 2 {
			t.Fatalf("List() = %d entries, want 2", len(summaries))
		}
		if summaries[0].Message != "new" || summaries[1].Message != "old" {
			t.Errorf("ordering = [%s, %s], want [new, old]", summaries[0].Message, summaries[1].Message)
		}
		if !strings.HasSuffix(summaries[0].Name, store.ArchiveExt) {
			t.Errorf("Name = %q, want %s suffix", summaries[0].Name, store.ArchiveExt)
		}
		if summaries[0].FileCount != 2 {
			t.Errorf("FileCount = %d, want 2", summaries[0].FileCount)
		}
	})

	t.Run("long messages are truncated for display only", func(t *testing.T) {
		svc, deps := newService(t)
		long := strings.Repeat("x", 80)
		deps.changes.Files = []string{"a.txt"}
		if _, err := svc.Create(long); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		summaries, err := svc.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if got := len([]rune(summaries[0].Message)); got != 50 {
			t.Errorf("displayed message length = %d, want 50", got)
		}

		// The stored record keeps the full message.
		rec, _ := deps.store.Latest()
		if rec.Message != long {
			t.Error("stored message was mutated by display truncation")
		}
	})
}
