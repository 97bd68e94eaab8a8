package eventbus

// SubmissionSummary is the minimal per-submission projection carried by
// NewSubmissionListEvent: just enough for the Gradebook to rebuild its
// client-facing list without importing the submissions package (which
// would otherwise import eventbus right back).
type SubmissionSummary struct {
	ID       int
	Name     string
	Finished bool
	Earned   float64
	Possible float64
}

// NewSubmissionListEvent carries a fresh snapshot of every submission, for
// handlers that want the whole list rather than re-pulling it themselves.
type NewSubmissionListEvent struct {
	Submissions []SubmissionSummary
}

// NewSubmissionsEvent signals that the submission list changed; the
// Gradebook's handler re-pulls the full list from the SubmissionManager
// rather than carrying a payload itself.
type NewSubmissionsEvent struct{}

// SubmissionStartedEvent announces that grading began on one submission.
// HTMLLog and TextLog are payload slots for the submission's mirror-log
// contents; the grader leaves them empty and the gradebook serves log
// bytes on demand instead.
type SubmissionStartedEvent struct {
	SubmissionID int
	HTMLLog      string
	TextLog      string
}

// SubmissionFinishedEvent announces that one submission's grading pass
// ended; LogHTML is the final rendered HTML log.
type SubmissionFinishedEvent struct {
	SubmissionID int
	LogHTML      string
}

// EndOfSubmissionsEvent signals the grader has processed every submission
// in the current batch.
type EndOfSubmissionsEvent struct{}

// AuthRequestedEvent is dispatched by the Gradebook when a new SSE
// subscriber appears, asking the grader's terminal handler to approve it.
type AuthRequestedEvent struct {
	EventID   int
	RemoteIP  string
	UserAgent string
}

// AuthGrantedEvent is dispatched by the grader's terminal handler once the
// operator approves an AuthRequestedEvent.
type AuthGrantedEvent struct {
	AuthEventID int
}
