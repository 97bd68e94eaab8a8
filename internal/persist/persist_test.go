package persist

import (
	"path/filepath"
	"testing"
)

func TestPutGetDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "resume.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("expected missing key to be absent, got ok=%v err=%v", ok, err)
	}

	if err := s.Put("session-1", []byte("payload")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, ok, err := s.Get("session-1")
	if err != nil || !ok || string(v) != "payload" {
		t.Fatalf("Get after Put: v=%q ok=%v err=%v", v, ok, err)
	}

	if err := s.Put("session-1", []byte("overwritten")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	v, _, _ = s.Get("session-1")
	if string(v) != "overwritten" {
		t.Fatalf("expected overwrite, got %q", v)
	}

	keys, err := s.Keys()
	if err != nil || len(keys) != 1 || keys[0] != "session-1" {
		t.Fatalf("Keys: %v %v", keys, err)
	}

	if err := s.Delete("session-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get("session-1"); ok {
		t.Fatalf("expected key gone after Delete")
	}
}
