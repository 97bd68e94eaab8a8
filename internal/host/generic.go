package host

import (
	"fmt"

	"github.com/antigravity-dev/gradefast/internal/channel"
	"github.com/antigravity-dev/gradefast/internal/gfpath"
)

// genericHost is the fallback Host for platforms with no GUI chooser or
// terminal-launcher convention.
type genericHost struct{ *base }

var _ Host = (*genericHost)(nil)

func (h *genericHost) ToNative(p gfpath.Path) string   { return posixNative(p) }
func (h *genericHost) FromNative(s string) gfpath.Path { return gfpath.New(s) }

func (h *genericHost) RunCommand(opts RunOptions) (string, error) {
	return h.runCommand(h.ToNative(opts.Path), opts)
}

func (h *genericHost) RunCommandPassthrough(opts RunOptions) error {
	return h.runCommandPassthrough(h.ToNative(opts.Path), opts)
}

func (h *genericHost) StartBackgroundCommand(opts RunOptions) (*BackgroundCommand, error) {
	return h.startBackgroundCommand(h.ToNative(opts.Path), opts)
}

func (h *genericHost) Exists(p gfpath.Path) bool       { return h.exists(h.ToNative(p)) }
func (h *genericHost) FolderExists(p gfpath.Path) bool { return h.folderExists(h.ToNative(p)) }
func (h *genericHost) ReadTextFile(p gfpath.Path) (string, error) {
	return h.readTextFile(h.ToNative(p))
}
func (h *genericHost) ListFolder(p gfpath.Path) ([]Entry, error) {
	return h.listFolder(h.ToNative(p))
}
func (h *genericHost) MoveToFolder(src, destFolder gfpath.Path) error {
	return h.moveToFolder(h.ToNative(src), h.ToNative(destFolder))
}
func (h *genericHost) Unzip(archive, dest gfpath.Path) error {
	return h.unzip(h.ToNative(archive), h.ToNative(dest))
}

func (h *genericHost) ChooseFolder(start *gfpath.Path, preferCLI bool, ch *channel.Channel) (*gfpath.Path, error) {
	s := gfpath.New("/")
	if start != nil {
		s = *start
	}
	return h.cliChooseFolder(s, h.ToNative, ch)
}

func (h *genericHost) OpenShell(path gfpath.Path, env map[string]string) error {
	return fmt.Errorf("open_shell: no terminal launcher known for this platform")
}

func (h *genericHost) OpenFolder(path gfpath.Path) error {
	return fmt.Errorf("open_folder: no file manager launcher known for this platform")
}
