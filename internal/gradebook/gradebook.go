// Package gradebook implements the gradebook server: an HTTP +
// Server-Sent-Events service that fans out authenticated client updates,
// accepts mutation "actions" from browser clients, applies them to a
// submission's grade tree, rebroadcasts the resulting state, and
// serializes final exports. New SSE clients are admitted through a
// trust-on-first-use handshake answered on the grader's terminal. The SSE
// wire framing is written by hand in sse.go to keep the exact "id: N"
// byte layout browser clients were built against.
package gradebook

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/antigravity-dev/gradefast/internal/eventbus"
	"github.com/antigravity-dev/gradefast/internal/grade"
	"github.com/antigravity-dev/gradefast/internal/submissions"
)

// BadSubmissionError is returned when a client references a submission id
// that doesn't exist.
type BadSubmissionError struct {
	SubmissionID string
}

func (e *BadSubmissionError) Error() string {
	return fmt.Sprintf("no such submission %q", e.SubmissionID)
}

// Gradebook is the HTTP+SSE server. One instance backs one grading
// session; it is constructed once and registered on the shared event bus
// that the Grader also uses.
type Gradebook struct {
	bus         *eventbus.Bus
	subs        *submissions.Manager
	feedback    *grade.FeedbackRenderer
	projectName string
	log         *slog.Logger

	// mutationMu serializes client actions against the same grade tree:
	// last-writer-wins at the granularity of each action. Actions mutate
	// directly under this lock rather than re-routing through the event
	// bus, keeping their latency independent of the grader thread.
	mutationMu sync.Mutex

	mu          sync.Mutex
	clients     map[string]*subscriber
	pendingAuth map[int]string // AuthRequestedEvent id -> subscriber id

	doneMu sync.Mutex
	done   bool
}

// New builds a Gradebook and registers its event-bus handlers. A nil
// logger falls back to slog.Default() so there is always a logger in
// hand.
func New(bus *eventbus.Bus, subs *submissions.Manager, feedback *grade.FeedbackRenderer, projectName string, logger *slog.Logger) *Gradebook {
	if logger == nil {
		logger = slog.Default()
	}
	gb := &Gradebook{
		bus:         bus,
		subs:        subs,
		feedback:    feedback,
		projectName: projectName,
		log:         logger,
		clients:     make(map[string]*subscriber),
		pendingAuth: make(map[int]string),
	}
	gb.registerHandlers()
	return gb
}

func (gb *Gradebook) registerHandlers() {
	gb.bus.Register(eventbus.HandlerFunc{
		AcceptFn: func(e eventbus.Event) bool { _, ok := e.(eventbus.NewSubmissionsEvent); return ok },
		HandleFn: func(eventbus.Event) { gb.broadcastSubmissionList() },
	})
	gb.bus.Register(eventbus.HandlerFunc{
		AcceptFn: func(e eventbus.Event) bool { _, ok := e.(eventbus.SubmissionStartedEvent); return ok },
		HandleFn: func(e eventbus.Event) {
			gb.broadcastSubmissionStarted(e.(eventbus.SubmissionStartedEvent).SubmissionID)
		},
	})
	gb.bus.Register(eventbus.HandlerFunc{
		AcceptFn: func(e eventbus.Event) bool { _, ok := e.(eventbus.SubmissionFinishedEvent); return ok },
		HandleFn: func(e eventbus.Event) {
			gb.markFinished(e.(eventbus.SubmissionFinishedEvent).SubmissionID)
		},
	})
	gb.bus.Register(eventbus.HandlerFunc{
		AcceptFn: func(e eventbus.Event) bool { _, ok := e.(eventbus.EndOfSubmissionsEvent); return ok },
		HandleFn: func(eventbus.Event) { gb.setDone() },
	})
	gb.bus.Register(eventbus.HandlerFunc{
		AcceptFn: func(e eventbus.Event) bool { _, ok := e.(eventbus.AuthGrantedEvent); return ok },
		HandleFn: func(e eventbus.Event) {
			gb.authGranted(e.(eventbus.AuthGrantedEvent).AuthEventID)
		},
	})
}

func (gb *Gradebook) isDone() bool {
	gb.doneMu.Lock()
	defer gb.doneMu.Unlock()
	return gb.done
}

func (gb *Gradebook) setDone() {
	gb.doneMu.Lock()
	gb.done = true
	gb.doneMu.Unlock()
	gb.broadcast(newClientUpdate("done", `{"done":true}`, false))
}

// broadcast fans u out to every subscriber currently allowed to see it:
// everyone, when u.RequiresAuth is false, or only authenticated
// subscribers otherwise.
func (gb *Gradebook) broadcast(u ClientUpdate) {
	gb.mu.Lock()
	targets := make([]*subscriber, 0, len(gb.clients))
	for _, s := range gb.clients {
		targets = append(targets, s)
	}
	gb.mu.Unlock()

	for _, s := range targets {
		if u.RequiresAuth && !s.isAuthenticated() {
			continue
		}
		s.offer(u)
	}
}

func (gb *Gradebook) broadcastSubmissionList() {
	subs := gb.subs.All()
	list := make([]map[string]any, 0, len(subs))
	for _, s := range subs {
		list = append(list, map[string]any{"id": s.ID, "name": s.Name, "finished": s.Finished})
	}
	gb.broadcast(newClientUpdate("submission_list", string(jsonMarshal(list)), true))
}

func (gb *Gradebook) broadcastSubmissionStarted(submissionID int) {
	gb.broadcast(newClientUpdate("submission_started",
		string(jsonMarshal(map[string]any{"submission_id": submissionID})), true))
}

func (gb *Gradebook) markFinished(submissionID int) {
	if sub, ok := gb.subs.GetSubmission(submissionID); ok {
		sub.Finished = true
	}
	gb.broadcast(newClientUpdate("submission_finished",
		string(jsonMarshal(map[string]any{"submission_id": submissionID})), true))
}

// authGranted marks the subscriber awaiting authEventID as authenticated,
// completing the trust-on-first-use handshake.
func (gb *Gradebook) authGranted(authEventID int) {
	gb.mu.Lock()
	subID, ok := gb.pendingAuth[authEventID]
	if ok {
		delete(gb.pendingAuth, authEventID)
	}
	sub := gb.clients[subID]
	gb.mu.Unlock()

	if ok && sub != nil {
		sub.authenticate()
		gb.broadcastSubmissionList()
	}
}

func jsonMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return b
}

// Router builds the gin engine serving the gradebook's endpoints.
func (gb *Gradebook) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gb.recoveryMiddleware())

	r.GET("/gradefast/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/gradefast/gradebook.HTM")
	})
	r.GET("/gradefast/gradebook.HTM", gb.handleGradebookPage)
	r.GET("/gradefast/log/:id", gb.handleLog)
	r.POST("/gradefast/_update", gb.handleUpdate)
	r.GET("/gradefast/grades.csv", gb.handleGradesCSV)
	r.GET("/gradefast/grades.json", gb.handleGradesJSON)
	r.GET("/gradefast/events.stream", gb.handleEventsStream)
	return r
}

// Serve blocks listening on addr; intended to run in its own goroutine
// alongside the grader's interactive loop.
func (gb *Gradebook) Serve(addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: gb.Router(),
	}
	return srv.ListenAndServe()
}

// recoveryMiddleware replaces gin's default panic recovery with one that
// routes the stack trace through slog rather than stderr; the client only
// ever sees a vague status message.
func (gb *Gradebook) recoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				gb.log.Error("panic handling request",
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"panic", rec,
					"stack", string(debug.Stack()))
				c.AbortWithStatusJSON(http.StatusOK, updateResponse{Status: "Internal error"})
			}
		}()
		c.Next()
	}
}

func (gb *Gradebook) handleGradebookPage(c *gin.Context) {
	html, err := gb.renderPage()
	if err != nil {
		c.String(http.StatusInternalServerError, "template error: %v", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (gb *Gradebook) handleLog(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	sub, ok := gb.subs.GetSubmission(id)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	html, err := renderLogPage(fmt.Sprintf("Log for %s", sub.Name), sub.HTMLLog)
	if err != nil {
		c.String(http.StatusInternalServerError, "template error: %v", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

type updateResponse struct {
	Status               string            `json:"status"`
	SubmissionID         int               `json:"submission_id,omitempty"`
	Grade                []grade.PlainItem `json:"grade,omitempty"`
	OriginatingClientID  string            `json:"originating_client_id,omitempty"`
	OriginatingClientSeq string            `json:"originating_client_seq,omitempty"`
}

func (gb *Gradebook) handleUpdate(c *gin.Context) {
	submissionIDStr := c.PostForm("submission_id")
	clientID := c.PostForm("client_id")
	clientSeq := c.PostForm("client_seq")
	actionJSON := c.PostForm("action")

	submissionID, err := strconv.Atoi(submissionIDStr)
	if err != nil {
		c.JSON(http.StatusOK, updateResponse{Status: (&BadSubmissionError{SubmissionID: submissionIDStr}).Error()})
		return
	}
	sub, ok := gb.subs.GetSubmission(submissionID)
	if !ok {
		c.JSON(http.StatusOK, updateResponse{Status: (&BadSubmissionError{SubmissionID: submissionIDStr}).Error()})
		return
	}

	gb.mutationMu.Lock()
	err = applyAction(actionJSON, sub.Grade)
	plain := sub.Grade.ToPlainData()
	gb.mutationMu.Unlock()

	if err != nil {
		status := statusFor(err)
		if status == "Invalid value" {
			gb.log.Error("unexpected error applying client action",
				"submission_id", submissionID, "error", err)
		}
		c.JSON(http.StatusOK, updateResponse{Status: status})
		return
	}

	gb.broadcast(newClientUpdate("grade_updated",
		string(jsonMarshal(map[string]any{"submission_id": submissionID, "grade": plain})), true))

	c.JSON(http.StatusOK, updateResponse{
		Status:               "ok",
		SubmissionID:         submissionID,
		Grade:                plain,
		OriginatingClientID:  clientID,
		OriginatingClientSeq: clientSeq,
	})
}

func statusFor(err error) string {
	switch err.(type) {
	case *grade.BadPathError:
		return "Invalid path"
	case *BadActionError:
		return err.Error()
	default:
		return "Invalid value"
	}
}

func (gb *Gradebook) handleGradesCSV(c *gin.Context) {
	filename := fmt.Sprintf(`attachment; filename="%s.csv"`, sanitizeFilename(gb.projectName))
	c.Header("Content-Disposition", filename)
	c.Header("Content-Type", "text/csv")
	if err := gb.WriteCSV(c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "csv export error: %v", err)
	}
}

func (gb *Gradebook) handleGradesJSON(c *gin.Context) {
	c.Header("Content-Type", "application/json")
	if err := gb.WriteJSON(c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "json export error: %v", err)
	}
}

func sanitizeFilename(name string) string {
	if name == "" {
		return "grades"
	}
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r == '\\' || r == '"' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// handleEventsStream is the SSE endpoint: a new subscriber publishes
// AuthRequestedEvent (the trust-on-first-use handshake) and then streams
// ClientUpdates in FIFO order until the client disconnects or a "done"
// update lands.
func (gb *Gradebook) handleEventsStream(c *gin.Context) {
	sub := newSubscriber(uuid.NewString(), c.ClientIP(), c.Request.UserAgent())

	gb.mu.Lock()
	gb.clients[sub.id] = sub
	gb.mu.Unlock()

	defer func() {
		gb.mu.Lock()
		delete(gb.clients, sub.id)
		gb.mu.Unlock()
	}()

	eventID := eventbus.NextEventID()
	gb.mu.Lock()
	gb.pendingAuth[eventID] = sub.id
	gb.mu.Unlock()

	// Dispatched on its own goroutine: the grader's handler blocks on a
	// terminal prompt until the operator answers, and must not stall
	// this HTTP handler goroutine while it waits.
	go gb.bus.Dispatch(eventbus.AuthRequestedEvent{
		EventID:   eventID,
		RemoteIP:  sub.remoteIP,
		UserAgent: sub.userAgent,
	})

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-sub.queue:
			wire := u.Encode()
			if wire == "" {
				continue
			}
			if _, err := c.Writer.WriteString(wire); err != nil {
				return
			}
			c.Writer.Flush()
			if u.EventName == "done" {
				return
			}
		}
	}
}
