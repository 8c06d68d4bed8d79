package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ckpt-go/internal/store"
)

func writeRecord(t *testing.T, s *store.FilesystemStore, timestamp, message string, files []string) {
	t.Helper()
	err := s.Write(&store.Record{
		Timestamp: timestamp,
		Message:   message,
		CreatedBy: "testuser",
		Date:      "Mon Jan 15 10:30:00 UTC 2024",
		FileCount: len(files),
		Files:     files,
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
}

func TestFilesystemStore_WriteAndLatest(t *testing.T) {
	t.Run("round-trips a record", func(t *testing.T) {
		s := store.NewFilesystemStore(filepath.Join(t.TempDir(), "storage"))
		writeRecord(t, s, "2024-01-15_10-30-00", "first", []string{"a.txt", "b.txt"})

		rec, err := s.Latest()
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if rec == nil {
			t.Fatal("Latest() = nil after Write")
		}
		if rec.Timestamp != "2024-01-15_10-30-00" || rec.Message != "first" {
			t.Errorf("Latest() = %+v", rec)
		}
		if rec.FileCount != 2 || len(rec.Files) != 2 {
			t.Errorf("FileCount = %d, Files = %v", rec.FileCount, rec.Files)
		}
	})

	t.Run("uses the durable field names on disk", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "storage")
		s := store.NewFilesystemStore(dir)
		writeRecord(t, s, "2024-01-15_10-30-00", "first", []string{"a.txt"})

		data, err := os.ReadFile(filepath.Join(dir, "2024-01-15_10-30-00.json"))
		if err != nil {
			t.Fatalf("reading record file: %v", err)
		}
		for _, field := range []string{`"timestamp"`, `"message"`, `"created_by"`, `"date"`, `"file_count"`, `"files"`} {
			if !strings.Contains(string(data), field) {
				t.Errorf("record file missing field %s", field)
			}
		}
	})

	t.Run("empty store has no latest", func(t *testing.T) {
		s := store.NewFilesystemStore(filepath.Join(t.TempDir(), "nope"))
		rec, err := s.Latest()
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if rec != nil {
			t.Errorf("Latest() = %+v, want nil", rec)
		}
	})

	t.Run("latest picks the greatest timestamp", func(t *testing.T) {
		s := store.NewFilesystemStore(filepath.Join(t.TempDir(), "storage"))
		writeRecord(t, s, "2024-01-15_10-30-00", "old", []string{"a"})
		writeRecord(t, s, "2024-01-15_11-00-00", "new", []string{"b"})

		rec, err := s.Latest()
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if rec.Message != "new" {
			t.Errorf("Latest().Message = %q, want new", rec.Message)
		}
	})
}

func TestFilesystemStore_List(t *testing.T) {
	t.Run("missing storage directory lists empty", func(t *testing.T) {
		s := store.NewFilesystemStore(filepath.Join(t.TempDir(), "nope"))
		entries, err := s.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("List() = %d entries, want 0", len(entries))
		}
	})

	t.Run("lists newest-first with archive details", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "storage")
		s := store.NewFilesystemStore(dir)
		writeRecord(t, s, "2024-01-15_10-30-00", "old", []string{"a"})
		writeRecord(t, s, "2024-01-15_11-00-00", "new", []string{"b"})

		// Archive exists only for the older checkpoint.
		archive := filepath.Join(dir, "2024-01-15_10-30-00"+store.ArchiveExt)
		if err := os.WriteFile(archive, []byte("blob"), 0644); err != nil {
			t.Fatalf("writing archive: %v", err)
		}

		entries, err := s.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("List() = %d entries, want 2", len(entries))
		}
		if entries[0].Record.Message != "new" || entries[1].Record.Message != "old" {
			t.Errorf("ordering = [%s, %s], want [new, old]",
				entries[0].Record.Message, entries[1].Record.Message)
		}
		if entries[0].ArchiveSize != -1 {
			t.Errorf("orphaned metadata ArchiveSize = %d, want -1", entries[0].ArchiveSize)
		}
		if entries[1].ArchiveSize != 4 {
			t.Errorf("ArchiveSize = %d, want 4", entries[1].ArchiveSize)
		}
		if entries[1].ArchiveName != "2024-01-15_10-30-00"+store.ArchiveExt {
			t.Errorf("ArchiveName = %q", entries[1].ArchiveName)
		}
	})

	t.Run("a corrupt record hides only itself", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "storage")
		s := store.NewFilesystemStore(dir)
		writeRecord(t, s, "2024-01-15_10-30-00", "valid-old", []string{"a"})
		writeRecord(t, s, "2024-01-15_12-00-00", "valid-new", []string{"b"})

		corrupt := filepath.Join(dir, "2024-01-15_11-00-00.json")
		if err := os.WriteFile(corrupt, []byte("{not json"), 0644); err != nil {
			t.Fatalf("writing corrupt record: %v", err)
		}

		entries, err := s.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("List() = %d entries, want 2 valid", len(entries))
		}
		if entries[0].Record.Message != "valid-new" || entries[1].Record.Message != "valid-old" {
			t.Errorf("ordering = [%s, %s]", entries[0].Record.Message, entries[1].Record.Message)
		}
	})

	t.Run("a corrupt latest record does not wedge Latest", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "storage")
		s := store.NewFilesystemStore(dir)
		writeRecord(t, s, "2024-01-15_10-30-00", "valid", []string{"a"})
		corrupt := filepath.Join(dir, "2024-01-15_12-00-00.json")
		if err := os.WriteFile(corrupt, []byte("garbage"), 0644); err != nil {
			t.Fatalf("writing corrupt record: %v", err)
		}

		rec, err := s.Latest()
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if rec == nil || rec.Message != "valid" {
			t.Errorf("Latest() = %+v, want the valid record", rec)
		}
	})
}

func TestFilesystemStore_ResolveArchive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "storage")
	s := store.NewFilesystemStore(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	archive := filepath.Join(dir, "2024-01-15_10-30-00"+store.ArchiveExt)
	if err := os.WriteFile(archive, []byte("blob"), 0644); err != nil {
		t.Fatalf("writing archive: %v", err)
	}

	t.Run("resolves an existing archive", func(t *testing.T) {
		path, err := s.ResolveArchive("2024-01-15_10-30-00" + store.ArchiveExt)
		if err != nil {
			t.Fatalf("ResolveArchive() error = %v", err)
		}
		if path != archive {
			t.Errorf("path = %q, want %q", path, archive)
		}
	})

	t.Run("appends the archive extension when omitted", func(t *testing.T) {
		path, err := s.ResolveArchive("2024-01-15_10-30-00")
		if err != nil {
			t.Fatalf("ResolveArchive() error = %v", err)
		}
		if path != archive {
			t.Errorf("path = %q, want %q", path, archive)
		}
	})

	t.Run("missing archive is ErrNotFound", func(t *testing.T) {
		if _, err := s.ResolveArchive("2030-01-01_00-00-00"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("rejects traversal and separators", func(t *testing.T) {
		for _, name := range []string{"", "..", "../etc/passwd", "a/b.tar.lz4", "..postfix..", "/abs"} {
			if _, err := s.ResolveArchive(name); !errors.Is(err, store.ErrInvalidName) {
				t.Errorf("ResolveArchive(%q) error = %v, want ErrInvalidName", name, err)
			}
		}
	})
}

func TestFilesystemStore_Lock(t *testing.T) {
	s := store.NewFilesystemStore(filepath.Join(t.TempDir(), "storage"))

	if err := s.Lock(); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if err := s.Lock(); !errors.Is(err, store.ErrLocked) {
		t.Errorf("second Lock() error = %v, want ErrLocked", err)
	}
	if err := s.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := s.Lock(); err != nil {
		t.Errorf("Lock() after Unlock() error = %v", err)
	}
	s.Unlock()
}
