package grader

import (
	"fmt"

	"github.com/antigravity-dev/gradefast/internal/channel"
	"github.com/antigravity-dev/gradefast/internal/gfpath"
	"github.com/antigravity-dev/gradefast/internal/host"
)

// fakeHost is a minimal, in-memory host.Host stand-in: just enough to
// drive AddSubmissions and the run loop without touching a real
// filesystem or subprocess.
type fakeHost struct {
	chooseFolder func(start *gfpath.Path) (*gfpath.Path, error)
	entries      map[string][]host.Entry
	folderExists map[string]bool

	unzipped []string
	moved    []string

	runCommandOutput string
	runCommandErr    error

	// onRunCommand, if set, fires synchronously inside RunCommand before
	// it checks opts.Ctx -- tests use it to simulate a concurrent Ctrl-C
	// landing mid-command.
	onRunCommand func()
}

var _ host.Host = (*fakeHost)(nil)

func (h *fakeHost) ToNative(p gfpath.Path) string   { return p.String() }
func (h *fakeHost) FromNative(s string) gfpath.Path { return gfpath.New(s) }

func (h *fakeHost) RunCommand(opts host.RunOptions) (string, error) {
	if h.onRunCommand != nil {
		h.onRunCommand()
	}
	if opts.Ctx != nil {
		select {
		case <-opts.Ctx.Done():
			return h.runCommandOutput, &host.InterruptedError{Cmd: opts.Cmd}
		default:
		}
	}
	return h.runCommandOutput, h.runCommandErr
}
func (h *fakeHost) RunCommandPassthrough(opts host.RunOptions) error { return h.runCommandErr }
func (h *fakeHost) StartBackgroundCommand(opts host.RunOptions) (*host.BackgroundCommand, error) {
	return nil, fmt.Errorf("fakeHost: background commands not supported in tests")
}

func (h *fakeHost) Exists(p gfpath.Path) bool { return true }
func (h *fakeHost) FolderExists(p gfpath.Path) bool {
	return h.folderExists[p.String()]
}
func (h *fakeHost) ReadTextFile(p gfpath.Path) (string, error) { return "", nil }
func (h *fakeHost) ListFolder(p gfpath.Path) ([]host.Entry, error) {
	return h.entries[p.String()], nil
}
func (h *fakeHost) MoveToFolder(src, destFolder gfpath.Path) error {
	h.moved = append(h.moved, src.String()+"->"+destFolder.String())
	return nil
}
func (h *fakeHost) Unzip(archive, dest gfpath.Path) error {
	h.unzipped = append(h.unzipped, archive.String()+"->"+dest.String())
	return nil
}

func (h *fakeHost) ChooseFolder(start *gfpath.Path, preferCLI bool, ch *channel.Channel) (*gfpath.Path, error) {
	if h.chooseFolder != nil {
		return h.chooseFolder(start)
	}
	return start, nil
}

func (h *fakeHost) OpenShell(path gfpath.Path, env map[string]string) error { return nil }
func (h *fakeHost) OpenFolder(path gfpath.Path) error                       { return nil }
