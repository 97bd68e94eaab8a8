package host

import (
	"os/exec"
	"strings"

	"github.com/antigravity-dev/gradefast/internal/channel"
	"github.com/antigravity-dev/gradefast/internal/gfpath"
)

type windowsHost struct{ *base }

var _ Host = (*windowsHost)(nil)

// ToNative converts a GradeFast Path (POSIX-separated, "~"-relative or
// drive-prefixed like "C:") to a native Windows path.
func (h *windowsHost) ToNative(p gfpath.Path) string {
	return strings.ReplaceAll(p.String(), "/", `\`)
}

func (h *windowsHost) FromNative(s string) gfpath.Path {
	return gfpath.New(strings.ReplaceAll(s, `\`, "/"))
}

func (h *windowsHost) RunCommand(opts RunOptions) (string, error) {
	return h.runCommand(h.ToNative(opts.Path), opts)
}

func (h *windowsHost) RunCommandPassthrough(opts RunOptions) error {
	return h.runCommandPassthrough(h.ToNative(opts.Path), opts)
}

func (h *windowsHost) StartBackgroundCommand(opts RunOptions) (*BackgroundCommand, error) {
	return h.startBackgroundCommand(h.ToNative(opts.Path), opts)
}

func (h *windowsHost) Exists(p gfpath.Path) bool       { return h.exists(h.ToNative(p)) }
func (h *windowsHost) FolderExists(p gfpath.Path) bool { return h.folderExists(h.ToNative(p)) }
func (h *windowsHost) ReadTextFile(p gfpath.Path) (string, error) {
	return h.readTextFile(h.ToNative(p))
}
func (h *windowsHost) ListFolder(p gfpath.Path) ([]Entry, error) {
	return h.listFolder(h.ToNative(p))
}
func (h *windowsHost) MoveToFolder(src, destFolder gfpath.Path) error {
	return h.moveToFolder(h.ToNative(src), h.ToNative(destFolder))
}
func (h *windowsHost) Unzip(archive, dest gfpath.Path) error {
	return h.unzip(h.ToNative(archive), h.ToNative(dest))
}

func (h *windowsHost) ChooseFolder(start *gfpath.Path, preferCLI bool, ch *channel.Channel) (*gfpath.Path, error) {
	s := gfpath.New("C:")
	if start != nil {
		s = *start
	}
	if !preferCLI {
		if p, ok := h.powershellChoose(); ok {
			return p, nil
		}
	}
	return h.cliChooseFolder(s, h.ToNative, ch)
}

func (h *windowsHost) powershellChoose() (*gfpath.Path, bool) {
	if _, err := exec.LookPath("powershell"); err != nil {
		return nil, false
	}
	script := `Add-Type -AssemblyName System.Windows.Forms
$dlg = New-Object System.Windows.Forms.FolderBrowserDialog
if ($dlg.ShowDialog() -eq 'OK') { Write-Output $dlg.SelectedPath }`
	out, err := exec.Command("powershell", "-NoProfile", "-Command", script).Output()
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

func (h *windowsHost) OpenShell(path gfpath.Path, env map[string]string) error {
	term := h.terminalCommand
	if term == "" {
		term = "cmd.exe"
	}
	args := append([]string{}, h.terminalArgs...)
	cmd := exec.Command(term, args...)
	cmd.Dir = h.ToNative(path)
	cmd.Env = mergeEnv(env)
	return cmd.Start()
}

func (h *windowsHost) OpenFolder(path gfpath.Path) error {
	cmd := exec.Command("explorer", h.ToNative(path))
	return cmd.Start()
}
