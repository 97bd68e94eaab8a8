// Package submissions implements the SubmissionManager: an insertion-ordered
// registry of per-submission state, plus the grading/timing statistics
// summarized at the end of a run.
package submissions

import (
	"time"

	"github.com/antigravity-dev/gradefast/internal/eventbus"
	"github.com/antigravity-dev/gradefast/internal/gfpath"
	"github.com/antigravity-dev/gradefast/internal/grade"
)

// Interval is one start/stop pair recorded by StartTimer/StopTimer. End is
// the zero time while the timer is still running.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Submission is one student's grading session: its folder, its grade tree,
// accumulated logs, and every timer interval recorded against it.
type Submission struct {
	ID       int
	Name     string
	Folder   gfpath.Path
	Grade    *grade.Grade
	HTMLLog  string
	TextLog  string
	Finished bool

	intervals []Interval
}

// Intervals returns a copy of every recorded start/stop pair.
func (s *Submission) Intervals() []Interval {
	out := make([]Interval, len(s.intervals))
	copy(out, s.intervals)
	return out
}

// TotalDuration sums every closed interval, ignoring one still in progress.
func (s *Submission) TotalDuration() time.Duration {
	var total time.Duration
	for _, iv := range s.intervals {
		if !iv.End.IsZero() {
			total += iv.End.Sub(iv.Start)
		}
	}
	return total
}

// Manager is the insertion-ordered id -> Submission registry. It is not
// internally synchronized: the grader loop and the gradebook's mutation
// handlers run under their own locks, and the manager is only ever
// touched from those single-writer contexts plus read-only statistics
// calls.
type Manager struct {
	order  []int
	byID   map[int]*Submission
	lastID int
	bus    *eventbus.Bus
}

// New builds an empty Manager publishing lifecycle events on bus.
func New(bus *eventbus.Bus) *Manager {
	return &Manager{byID: make(map[int]*Submission), bus: bus}
}

// AddSubmission registers a new submission and dispatches
// NewSubmissionsEvent unless suppressed (e.g. during bulk folder
// discovery).
func (m *Manager) AddSubmission(name string, folder gfpath.Path, g *grade.Grade) *Submission {
	m.lastID++
	s := &Submission{ID: m.lastID, Name: name, Folder: folder, Grade: g}
	m.byID[s.ID] = s
	m.order = append(m.order, s.ID)
	if m.bus != nil {
		m.bus.Dispatch(eventbus.NewSubmissionsEvent{})
	}
	return s
}

// SuppressEvents runs fn with event dispatch blocked on the bus, then
// dispatches exactly one NewSubmissionsEvent at the end. Used when adding
// a whole batch of submissions at once.
func (m *Manager) SuppressEvents(fn func()) {
	if m.bus == nil {
		fn()
		return
	}
	release := m.bus.BlockEventDispatching()
	fn()
	release()
	m.bus.Dispatch(eventbus.NewSubmissionsEvent{})
}

// DropSubmission removes a submission entirely.
func (m *Manager) DropSubmission(id int) {
	if _, ok := m.byID[id]; !ok {
		return
	}
	delete(m.byID, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.bus != nil {
		m.bus.Dispatch(eventbus.NewSubmissionsEvent{})
	}
}

// GetSubmission looks up a submission by id.
func (m *Manager) GetSubmission(id int) (*Submission, bool) {
	s, ok := m.byID[id]
	return s, ok
}

// All returns every submission in insertion order.
func (m *Manager) All() []*Submission {
	out := make([]*Submission, len(m.order))
	for i, id := range m.order {
		out[i] = m.byID[id]
	}
	return out
}

// GetFirstSubmissionID returns the id of the earliest-added submission.
func (m *Manager) GetFirstSubmissionID() (int, bool) {
	if len(m.order) == 0 {
		return 0, false
	}
	return m.order[0], true
}

// GetLastSubmissionID returns the id of the most-recently-added submission.
func (m *Manager) GetLastSubmissionID() (int, bool) {
	if len(m.order) == 0 {
		return 0, false
	}
	return m.order[len(m.order)-1], true
}

// GetNextSubmissionID returns the id immediately after id in insertion
// order, if any.
func (m *Manager) GetNextSubmissionID(id int) (int, bool) {
	for i, oid := range m.order {
		if oid == id && i+1 < len(m.order) {
			return m.order[i+1], true
		}
	}
	return 0, false
}

// GetPreviousSubmissionID returns the id immediately before id in
// insertion order, if any.
func (m *Manager) GetPreviousSubmissionID(id int) (int, bool) {
	for i, oid := range m.order {
		if oid == id && i > 0 {
			return m.order[i-1], true
		}
	}
	return 0, false
}

// StartTimer opens a new interval on sub, leaving its End zero until
// StopTimer closes it.
func (m *Manager) StartTimer(sub *Submission) {
	sub.intervals = append(sub.intervals, Interval{Start: time.Now()})
}

// StopTimer closes the most recently opened interval on sub, if one is
// still running.
func (m *Manager) StopTimer(sub *Submission) {
	for i := len(sub.intervals) - 1; i >= 0; i-- {
		if sub.intervals[i].End.IsZero() {
			sub.intervals[i].End = time.Now()
			return
		}
	}
}

// AddLogs appends accumulated HTML and text log content to sub.
func (m *Manager) AddLogs(sub *Submission, html, text string) {
	sub.HTMLLog += html
	sub.TextLog += text
}

// Snapshot is one Submission's persisted state, for the --resume flag.
// Folder is kept as a plain string rather than gfpath.Path so the type
// round-trips through encoding/json without a custom (Un)marshaler.
type Snapshot struct {
	ID        int
	Name      string
	Folder    string
	Grade     grade.GradeState
	HTMLLog   string
	TextLog   string
	Finished  bool
	Intervals []Interval
}

// Snapshot captures every submission's current state in insertion order.
func (m *Manager) Snapshot() []Snapshot {
	out := make([]Snapshot, len(m.order))
	for i, id := range m.order {
		s := m.byID[id]
		var gs grade.GradeState
		if s.Grade != nil {
			gs = s.Grade.Snapshot()
		}
		out[i] = Snapshot{
			ID: s.ID, Name: s.Name, Folder: s.Folder.String(),
			Grade: gs, HTMLLog: s.HTMLLog, TextLog: s.TextLog,
			Finished: s.Finished, Intervals: s.Intervals(),
		}
	}
	return out
}

// Restore replaces the manager's contents with a previously persisted
// snapshot, rebuilding each submission's grade tree against defs (the
// structure freshly parsed for this run) and preserving submission ids so
// client-visible references stay stable across a resume.
func (m *Manager) Restore(snaps []Snapshot, defs []*grade.ItemDef) {
	m.order = nil
	m.byID = make(map[int]*Submission, len(snaps))
	m.lastID = 0
	for _, sn := range snaps {
		s := &Submission{
			ID: sn.ID, Name: sn.Name, Folder: gfpath.New(sn.Folder),
			Grade: grade.RestoreGrade(defs, sn.Grade),
			HTMLLog: sn.HTMLLog, TextLog: sn.TextLog, Finished: sn.Finished,
			intervals: append([]Interval{}, sn.Intervals...),
		}
		m.byID[s.ID] = s
		m.order = append(m.order, s.ID)
		if s.ID > m.lastID {
			m.lastID = s.ID
		}
	}
	if m.bus != nil {
		m.bus.Dispatch(eventbus.NewSubmissionsEvent{})
	}
}
