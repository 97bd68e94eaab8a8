package host

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/antigravity-dev/gradefast/internal/channel"
	"github.com/antigravity-dev/gradefast/internal/gfpath"
)

type darwinHost struct{ *base }

var _ Host = (*darwinHost)(nil)

func (h *darwinHost) ToNative(p gfpath.Path) string   { return posixNative(p) }
func (h *darwinHost) FromNative(s string) gfpath.Path { return gfpath.New(s) }

func (h *darwinHost) RunCommand(opts RunOptions) (string, error) {
	return h.runCommand(h.ToNative(opts.Path), opts)
}

func (h *darwinHost) RunCommandPassthrough(opts RunOptions) error {
	return h.runCommandPassthrough(h.ToNative(opts.Path), opts)
}

func (h *darwinHost) StartBackgroundCommand(opts RunOptions) (*BackgroundCommand, error) {
	return h.startBackgroundCommand(h.ToNative(opts.Path), opts)
}

func (h *darwinHost) Exists(p gfpath.Path) bool       { return h.exists(h.ToNative(p)) }
func (h *darwinHost) FolderExists(p gfpath.Path) bool { return h.folderExists(h.ToNative(p)) }
func (h *darwinHost) ReadTextFile(p gfpath.Path) (string, error) {
	return h.readTextFile(h.ToNative(p))
}
func (h *darwinHost) ListFolder(p gfpath.Path) ([]Entry, error) { return h.listFolder(h.ToNative(p)) }
func (h *darwinHost) MoveToFolder(src, destFolder gfpath.Path) error {
	return h.moveToFolder(h.ToNative(src), h.ToNative(destFolder))
}
func (h *darwinHost) Unzip(archive, dest gfpath.Path) error {
	return h.unzip(h.ToNative(archive), h.ToNative(dest))
}

func (h *darwinHost) ChooseFolder(start *gfpath.Path, preferCLI bool, ch *channel.Channel) (*gfpath.Path, error) {
	s := gfpath.New("/")
	if start != nil {
		s = *start
	}
	if !preferCLI {
		if p, ok := h.osascriptChoose(s); ok {
			return p, nil
		}
	}
	return h.cliChooseFolder(s, h.ToNative, ch)
}

func (h *darwinHost) osascriptChoose(start gfpath.Path) (*gfpath.Path, bool) {
	if _, err := exec.LookPath("osascript"); err != nil {
		return nil, false
	}
	script := fmt.Sprintf(
		`POSIX path of (choose folder with prompt "Choose a folder" default location (POSIX file %q))`,
		h.ToNative(start))
	out, err := exec.Command("osascript", "-e", script).Output()
	if err != nil {
		return nil, false
	}
	chosen := strings.TrimSpace(string(out))
	if chosen == "" {
		return nil, false
	}
	p := h.FromNative(chosen)
	return &p, true
}

func (h *darwinHost) OpenShell(path gfpath.Path, env map[string]string) error {
	term := h.terminalCommand
	if term == "" {
		term = "open"
	}
	var cmd *exec.Cmd
	if h.terminalCommand == "" {
		cmd = exec.Command("open", "-a", "Terminal", h.ToNative(path))
	} else {
		args := append([]string{}, h.terminalArgs...)
		cmd = exec.Command(term, args...)
		cmd.Dir = h.ToNative(path)
	}
	cmd.Env = mergeEnv(env)
	return cmd.Start()
}

func (h *darwinHost) OpenFolder(path gfpath.Path) error {
	cmd := exec.Command("open", h.ToNative(path))
	return cmd.Start()
}
