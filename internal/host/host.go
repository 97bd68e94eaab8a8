// Package host abstracts a filesystem and process launcher behind a single
// interface: all path arguments are GradeFast Path values, and Host is
// the only component that converts to/from native paths.
package host

import (
	"context"
	"fmt"
	"runtime"

	"github.com/antigravity-dev/gradefast/internal/channel"
	"github.com/antigravity-dev/gradefast/internal/gfpath"
)

// EntryKind classifies one directory entry.
type EntryKind int

const (
	KindUnknown EntryKind = iota
	KindFile
	KindFolder
	KindOther
)

// Entry is one item returned by ListFolder.
type Entry struct {
	Name   string
	Kind   EntryKind
	IsLink bool
}

// CommandRunError is returned by RunCommand when the subprocess exits
// nonzero.
type CommandRunError struct {
	Cmd      string
	ExitCode int
	Output   string
}

func (e *CommandRunError) Error() string {
	return fmt.Sprintf("command %q exited %d", e.Cmd, e.ExitCode)
}

// CommandStartError is returned when a command or background command
// fails to even start (not found, bad working directory, …).
type CommandStartError struct {
	Cmd string
	Err error
}

func (e *CommandStartError) Error() string {
	return fmt.Sprintf("failed to start %q: %v", e.Cmd, e.Err)
}

func (e *CommandStartError) Unwrap() error { return e.Err }

// InterruptedError is returned by RunCommand when opts.Ctx is canceled
// while the subprocess is still running: the process was sent a terminate
// signal, then killed if it didn't exit in time.
type InterruptedError struct {
	Cmd string
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("command %q interrupted", e.Cmd)
}

// Host is the process-and-filesystem abstraction every grader and
// submission-discovery operation runs through.
type Host interface {
	ToNative(p gfpath.Path) string
	FromNative(s string) gfpath.Path

	RunCommand(opts RunOptions) (string, error)
	RunCommandPassthrough(opts RunOptions) error
	StartBackgroundCommand(opts RunOptions) (*BackgroundCommand, error)

	Exists(p gfpath.Path) bool
	FolderExists(p gfpath.Path) bool
	ReadTextFile(p gfpath.Path) (string, error)
	ListFolder(p gfpath.Path) ([]Entry, error)
	MoveToFolder(src, destFolder gfpath.Path) error
	Unzip(archive, dest gfpath.Path) error

	ChooseFolder(start *gfpath.Path, preferCLI bool, ch *channel.Channel) (*gfpath.Path, error)
	OpenShell(path gfpath.Path, env map[string]string) error
	OpenFolder(path gfpath.Path) error
}

// RunOptions bundles the arguments common to every command launch.
type RunOptions struct {
	Cmd         string
	Path        gfpath.Path
	Env         map[string]string
	Stdin       []byte // nil means "not pre-supplied"
	HasStdin    bool
	PrintOutput bool
	Channel     *channel.Channel

	// Ctx, when non-nil, scopes a foreground RunCommand call to a single
	// submission: canceling it terminates (then kills) the in-flight
	// subprocess and RunCommand returns an *InterruptedError, instead of
	// letting a Ctrl-C fall through to Go's process-wide default.
	Ctx context.Context
}

// New returns the Host implementation for the running platform.
func New(shellCommand string, shellArgs []string, terminalCommand string, terminalArgs []string) Host {
	base := newBase(shellCommand, shellArgs, terminalCommand, terminalArgs)
	switch runtime.GOOS {
	case "linux":
		return &linuxHost{base: base}
	case "darwin":
		return &darwinHost{base: base}
	case "windows":
		return &windowsHost{base: base}
	default:
		return &genericHost{base: base}
	}
}
