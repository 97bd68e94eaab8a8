package channel

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Delegate is a read-only mirror of a Channel: it receives every Msg sent
// through Output but never participates in input.
type Delegate interface {
	Mirror(m *Msg)
}

// Channel presents the grader's CLI to one primary terminal and any number
// of attached Delegate mirrors.
type Channel struct {
	out      io.Writer
	useColor bool
	in       *bufio.Reader
	inFd     uintptr
	hasInFd  bool

	outMu sync.Mutex // serializes writes to out + delegates

	delegatesMu sync.RWMutex
	delegates   []Delegate

	blockingMu sync.Mutex // exclusive input/prompt vs blocking_input lease
}

// New builds a Channel writing to out and reading lines from in.
// useColor controls ANSI styling of the primary sink; pass
// isatty.IsTerminal(os.Stdout.Fd()) at the call site, or force it via
// settings.use_color.
func New(out io.Writer, in io.Reader, useColor bool) *Channel {
	return &Channel{out: out, useColor: useColor, in: bufio.NewReader(in)}
}

// WithStdinFd records the raw file descriptor backing in, enabling
// HiddenInput to switch the terminal to raw, no-echo mode for hidden
// prompt choices. Without it, HiddenInput falls back to an ordinary line
// read, the right behavior for pipes and tests.
func (c *Channel) WithStdinFd(fd uintptr) *Channel {
	c.inFd = fd
	c.hasInFd = true
	return c
}

// DetectColor reports whether styled output makes sense: color on only
// when stdout is an attached terminal.
func DetectColor(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Output atomically writes m to the primary sink and every delegate.
func (c *Channel) Output(m *Msg) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprint(c.out, renderANSI(m, c.useColor))

	c.delegatesMu.RLock()
	defer c.delegatesMu.RUnlock()
	for _, d := range c.delegates {
		d.Mirror(m)
	}
}

// Input prints prompt as PROMPT_QUESTION, reads one line, and echoes it as
// PROMPT_ANSWER into mirrors only (the primary terminal already displayed
// the user's own keystrokes).
func (c *Channel) Input(prompt string) (string, error) {
	c.blockingMu.Lock()
	defer c.blockingMu.Unlock()

	if prompt != "" {
		c.Output(NewMsg(PromptQuestion, prompt))
	}
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")

	c.delegatesMu.RLock()
	answer := NewMsg(PromptAnswer, line+"\n")
	for _, d := range c.delegates {
		d.Mirror(answer)
	}
	c.delegatesMu.RUnlock()

	return line, nil
}

// HiddenInput behaves like Input but reads without echoing the user's
// keystrokes, switching the terminal to raw mode for the duration when a
// real stdin fd is known. Falls back to an ordinary line read when no fd
// was registered via WithStdinFd, the normal case for pipes, tests, and
// mirrors.
func (c *Channel) HiddenInput(prompt string) (string, error) {
	c.blockingMu.Lock()
	defer c.blockingMu.Unlock()

	if prompt != "" {
		c.Output(NewMsg(PromptQuestion, prompt))
	}

	if !c.hasInFd || !term.IsTerminal(int(c.inFd)) {
		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	raw, err := term.ReadPassword(int(c.inFd))
	if err != nil {
		return "", err
	}
	c.Output(NewMsg(Plain, "\n"))
	return string(raw), nil
}

// Prompt repeats Input (or HiddenInput, when hiddenChoices is non-empty)
// until the trimmed, lower-cased reply matches one of choices. An empty
// reply resolves to "" when "" itself is an allowed choice, otherwise to
// def when given; failing both it's rejected and re-prompted.
func (c *Channel) Prompt(question string, choices []string, def string, showChoices bool, hiddenChoices []string) (string, error) {
	full := question
	if showChoices {
		full = fmt.Sprintf("%s [%s]", question, strings.Join(choices, "/"))
	}
	hidden := len(hiddenChoices) > 0
	for {
		var reply string
		var err error
		if hidden {
			reply, err = c.HiddenInput(full)
		} else {
			reply, err = c.Input(full)
		}
		if err != nil {
			return "", err
		}
		norm := strings.ToLower(strings.TrimSpace(reply))

		if norm == "" {
			if containsChoice(choices, "") {
				return "", nil
			}
			if def != "" {
				return def, nil
			}
			c.Output(NewMsg(ErrorPart, "please enter a value\n"))
			continue
		}
		if containsChoice(choices, norm) {
			return norm, nil
		}
		c.Output(NewMsg(ErrorPart, fmt.Sprintf("unrecognized reply %q\n", reply)))
	}
}

func containsChoice(choices []string, v string) bool {
	for _, c := range choices {
		if strings.ToLower(c) == v {
			return true
		}
	}
	return false
}

// Lease is the handle returned by BlockingInput; Release must be called
// exactly once to give Input/Prompt access back.
type Lease struct {
	ch *Channel
}

// BlockingInput acquires exclusive stdin access for subprocess
// pass-through. While held, Input and Prompt block; Output is unaffected.
func (c *Channel) BlockingInput() *Lease {
	c.blockingMu.Lock()
	return &Lease{ch: c}
}

// Release returns stdin access to Input/Prompt.
func (l *Lease) Release() {
	l.ch.blockingMu.Unlock()
}

// Reader exposes the buffered stdin reader for use by a held Lease, e.g.
// Host.RunCommand forwarding terminal lines into a subprocess's stdin.
func (l *Lease) Reader() *bufio.Reader {
	return l.ch.in
}

// AddDelegate attaches mirrors for the lifetime of the caller's grading
// session; it returns a function that detaches them again.
func (c *Channel) AddDelegate(logs ...Delegate) func() {
	c.delegatesMu.Lock()
	start := len(c.delegates)
	c.delegates = append(c.delegates, logs...)
	c.delegatesMu.Unlock()

	return func() {
		c.delegatesMu.Lock()
		defer c.delegatesMu.Unlock()
		c.delegates = append(c.delegates[:start], c.delegates[start+len(logs):]...)
	}
}
