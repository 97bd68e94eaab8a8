package host

import (
	"os/exec"
	"strings"

	"github.com/antigravity-dev/gradefast/internal/channel"
	"github.com/antigravity-dev/gradefast/internal/gfpath"
)

type linuxHost struct{ *base }

var _ Host = (*linuxHost)(nil)

func (h *linuxHost) ToNative(p gfpath.Path) string   { return posixNative(p) }
func (h *linuxHost) FromNative(s string) gfpath.Path { return gfpath.New(s) }

func (h *linuxHost) RunCommand(opts RunOptions) (string, error) {
	return h.runCommand(h.ToNative(opts.Path), opts)
}

func (h *linuxHost) RunCommandPassthrough(opts RunOptions) error {
	return h.runCommandPassthrough(h.ToNative(opts.Path), opts)
}

func (h *linuxHost) StartBackgroundCommand(opts RunOptions) (*BackgroundCommand, error) {
	return h.startBackgroundCommand(h.ToNative(opts.Path), opts)
}

func (h *linuxHost) Exists(p gfpath.Path) bool       { return h.exists(h.ToNative(p)) }
func (h *linuxHost) FolderExists(p gfpath.Path) bool { return h.folderExists(h.ToNative(p)) }
func (h *linuxHost) ReadTextFile(p gfpath.Path) (string, error) {
	return h.readTextFile(h.ToNative(p))
}
func (h *linuxHost) ListFolder(p gfpath.Path) ([]Entry, error) { return h.listFolder(h.ToNative(p)) }
func (h *linuxHost) MoveToFolder(src, destFolder gfpath.Path) error {
	return h.moveToFolder(h.ToNative(src), h.ToNative(destFolder))
}
func (h *linuxHost) Unzip(archive, dest gfpath.Path) error {
	return h.unzip(h.ToNative(archive), h.ToNative(dest))
}

func (h *linuxHost) ChooseFolder(start *gfpath.Path, preferCLI bool, ch *channel.Channel) (*gfpath.Path, error) {
	s := gfpath.New("/")
	if start != nil {
		s = *start
	}
	if !preferCLI {
		if p, ok := h.zenityChoose(s); ok {
			return p, nil
		}
	}
	return h.cliChooseFolder(s, h.ToNative, ch)
}

func (h *linuxHost) zenityChoose(start gfpath.Path) (*gfpath.Path, bool) {
	if _, err := exec.LookPath("zenity"); err != nil {
		return nil, false
	}
	out, err := exec.Command("zenity", "--file-selection", "--directory",
		"--filename="+h.ToNative(start)+"/").Output()
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

func (h *linuxHost) OpenShell(path gfpath.Path, env map[string]string) error {
	term := h.terminalCommand
	if term == "" {
		term = "x-terminal-emulator"
	}
	args := append([]string{}, h.terminalArgs...)
	cmd := exec.Command(term, args...)
	cmd.Dir = h.ToNative(path)
	cmd.Env = mergeEnv(env)
	return cmd.Start()
}

func (h *linuxHost) OpenFolder(path gfpath.Path) error {
	cmd := exec.Command("xdg-open", h.ToNative(path))
	return cmd.Start()
}

// posixNative returns the GradeFast Path string unchanged, since POSIX
// hosts already use "/" separators. A leading "~" is passed through as-is;
// it is not expanded to the home directory.
func posixNative(p gfpath.Path) string {
	return p.String()
}
