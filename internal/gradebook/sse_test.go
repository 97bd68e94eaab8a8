package gradebook

import (
	"strings"
	"testing"
)

func TestClientUpdateEncode(t *testing.T) {
	u := newClientUpdate("submission_list", "{\"a\":1}\nsecondline", true)
	wire := u.Encode()
	if !strings.HasPrefix(wire, "id: ") {
		t.Fatalf("expected id: prefix, got %q", wire)
	}
	if !strings.Contains(wire, "event: submission_list\n") {
		t.Fatalf("missing event line, got %q", wire)
	}
	if !strings.Contains(wire, "data: {\"a\":1}\n") || !strings.Contains(wire, "data: secondline\n") {
		t.Fatalf("missing multi-line data framing, got %q", wire)
	}
	if !strings.HasSuffix(wire, "\n\n") {
		t.Fatalf("expected trailing blank line, got %q", wire)
	}
}

func TestClientUpdateEncodeEmpty(t *testing.T) {
	u := newClientUpdate("noop", "", true)
	if got := u.Encode(); got != "" {
		t.Fatalf("expected empty encoding for empty data, got %q", got)
	}
}

func TestSubscriberOfferDropsWhenFull(t *testing.T) {
	s := newSubscriber("sub-1", "127.0.0.1", "test-agent")
	for i := 0; i < 300; i++ {
		s.offer(newClientUpdate("x", "1", false))
	}
	if len(s.queue) == 0 {
		t.Fatal("expected queue to retain buffered updates")
	}
}

func TestSubscriberAuthenticate(t *testing.T) {
	s := newSubscriber("sub-2", "127.0.0.1", "test-agent")
	if s.isAuthenticated() {
		t.Fatal("expected new subscriber to be unauthenticated")
	}
	s.authenticate()
	if !s.isAuthenticated() {
		t.Fatal("expected subscriber to be authenticated after authenticate()")
	}
}
