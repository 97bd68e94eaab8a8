package gradebook

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// ClientUpdate is one message pushed down an SSE stream.
type ClientUpdate struct {
	ID           int
	EventName    string
	Data         string // JSON-encoded payload
	RequiresAuth bool
}

var lastClientUpdateID int64

func newClientUpdate(name, data string, requiresAuth bool) ClientUpdate {
	return ClientUpdate{
		ID:           int(atomic.AddInt64(&lastClientUpdateID, 1)),
		EventName:    name,
		Data:         data,
		RequiresAuth: requiresAuth,
	}
}

// Encode renders u in the SSE wire format:
//
//	id: N
//	event: NAME
//	data: line1
//	data: line2
//
//	(blank line terminator)
//
// An empty Data means no emission at all (the caller should skip sending).
func (u ClientUpdate) Encode() string {
	if u.Data == "" {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "id: %d\n", u.ID)
	if u.EventName != "" {
		fmt.Fprintf(&b, "event: %s\n", u.EventName)
	}
	for _, line := range strings.Split(u.Data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}

// subscriber is one open SSE connection's bounded, FIFO delivery queue;
// per-subscriber ordering is preserved.
type subscriber struct {
	id            string
	queue         chan ClientUpdate
	authenticated int32 // atomic bool
	remoteIP      string
	userAgent     string
}

func newSubscriber(id, remoteIP, userAgent string) *subscriber {
	return &subscriber{
		id:        id,
		queue:     make(chan ClientUpdate, 256),
		remoteIP:  remoteIP,
		userAgent: userAgent,
	}
}

func (s *subscriber) isAuthenticated() bool {
	return atomic.LoadInt32(&s.authenticated) != 0
}

func (s *subscriber) authenticate() {
	atomic.StoreInt32(&s.authenticated, 1)
}

// offer enqueues u, dropping it if the subscriber's queue is full rather
// than blocking the broadcaster on a slow or stalled client.
func (s *subscriber) offer(u ClientUpdate) {
	select {
	case s.queue <- u:
	default:
	}
}
