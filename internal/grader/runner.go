package grader

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antigravity-dev/gradefast/internal/channel"
	"github.com/antigravity-dev/gradefast/internal/eventbus"
	"github.com/antigravity-dev/gradefast/internal/gfpath"
	"github.com/antigravity-dev/gradefast/internal/grade"
	"github.com/antigravity-dev/gradefast/internal/host"
	"github.com/antigravity-dev/gradefast/internal/submissions"
)

// ErrSkipSubmission unwinds out of a submission's command-set recursion
// when the operator picks "skip submission" or declines a folder
// confirmation; it is caught at the submission boundary, never above it.
var ErrSkipSubmission = errors.New("grader: submission skipped")

// Settings bundles the grading-run knobs the Grader needs out of
// config.Settings. Kept as its own small struct rather than importing
// config directly so grader stays usable from tests without a YAML
// document on hand.
type Settings struct {
	SubmissionRegex      *regexp.Regexp
	CheckZipfiles        bool
	CheckFileExtensions  []string
	DiffFilePath         string
	PreferCLIFileChooser bool
	BaseEnv              map[string]string
}

type backgroundEntry struct {
	submissionID int
	name         string
	cmd          *host.BackgroundCommand
}

// Grader drives the grading session: submission discovery plus the
// interactive per-submission execution loop.
type Grader struct {
	ch        *channel.Channel
	h         host.Host
	bus       *eventbus.Bus
	subs      *submissions.Manager
	gradeDefs []*grade.ItemDef
	commands  []Node
	settings  Settings

	background []backgroundEntry

	// interruptMu guards cancelSubmission: the only state a concurrent
	// Interrupt() call (driven by main's SIGINT handler) touches, so that
	// Ctrl-C aborts whichever submission is currently running instead of
	// the whole process.
	interruptMu      sync.Mutex
	cancelSubmission context.CancelFunc
}

// New builds a Grader wired against the shared Channel, Host, Bus and
// SubmissionManager.
func New(ch *channel.Channel, h host.Host, bus *eventbus.Bus, subs *submissions.Manager, gradeDefs []*grade.ItemDef, commands []Node, settings Settings) *Grader {
	return &Grader{ch: ch, h: h, bus: bus, subs: subs, gradeDefs: gradeDefs, commands: commands, settings: settings}
}

// Interrupt cancels whichever submission is currently running: a SIGINT
// aborts the current submission, not the whole program. A no-op when no
// submission is in flight (e.g. the operator is sitting at the top menu).
func (g *Grader) Interrupt() {
	g.interruptMu.Lock()
	cancel := g.cancelSubmission
	g.interruptMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// RegisterAuthHandler subscribes to AuthRequestedEvent: when the
// Gradebook sees a new SSE client, the request is answered synchronously
// on the terminal.
func (g *Grader) RegisterAuthHandler() {
	g.bus.Register(eventbus.HandlerFunc{
		AcceptFn: func(e eventbus.Event) bool { _, ok := e.(eventbus.AuthRequestedEvent); return ok },
		HandleFn: func(e eventbus.Event) { g.handleAuthRequest(e.(eventbus.AuthRequestedEvent)) },
	})
}

func (g *Grader) handleAuthRequest(req eventbus.AuthRequestedEvent) {
	question := fmt.Sprintf("\nNew gradebook client: %s / %s -- allow it to connect? ", req.RemoteIP, req.UserAgent)
	reply, err := g.ch.Prompt(question, []string{"y", "n", ""}, "n", true, nil)
	if err != nil {
		g.ch.Output(channel.NewMsg(channel.ErrorPart, fmt.Sprintf("auth prompt failed: %v\n", err)))
		return
	}
	if reply == "y" {
		g.bus.Dispatch(eventbus.AuthGrantedEvent{AuthEventID: req.EventID})
	}
}

// PromptForSubmissions repeats AddSubmissions(nil) until at least one
// submission has been registered or the operator gives up on the folder
// chooser.
func (g *Grader) PromptForSubmissions() error {
	for {
		if _, ok := g.subs.GetFirstSubmissionID(); ok {
			return nil
		}
		added, err := g.AddSubmissions(nil)
		if err != nil {
			return err
		}
		if !added {
			return fmt.Errorf("grader: no submissions folder chosen")
		}
	}
}

// AddSubmissions prompts for a folder (starting the browse at base, if
// given), scans its entries against SubmissionRegex, unzips/relocates
// loose files into sibling folders, and registers each accepted entry as
// a new Submission in one batch. The bool return reports whether the
// operator actually picked a folder (false means cancelled).
func (g *Grader) AddSubmissions(base *gfpath.Path) (bool, error) {
	folder, err := g.h.ChooseFolder(base, g.settings.PreferCLIFileChooser, g.ch)
	if err != nil {
		return false, err
	}
	if folder == nil {
		return false, nil
	}

	entries, err := g.h.ListFolder(*folder)
	if err != nil {
		g.ch.Output(channel.NewMsg(channel.ErrorPart, fmt.Sprintf("cannot list %s: %v\n", folder.String(), err)))
		return true, nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	type accepted struct {
		folder gfpath.Path
		name   string
	}
	var found []accepted

	for _, e := range entries {
		displayName := e.Name
		if g.settings.SubmissionRegex != nil {
			m := g.settings.SubmissionRegex.FindStringSubmatch(e.Name)
			if m == nil {
				continue
			}
			if grp := firstNonEmpty(m[1:]); grp != "" {
				displayName = grp
			}
		}

		switch e.Kind {
		case host.KindFolder:
			found = append(found, accepted{folder: folder.Append(e.Name), name: displayName})
		case host.KindFile:
			stem, ext := splitExt(e.Name)
			sibling := folder.Append(stem)
			if g.h.FolderExists(sibling) {
				continue
			}
			switch {
			case g.settings.CheckZipfiles && strings.EqualFold(ext, "zip"):
				if err := g.h.Unzip(folder.Append(e.Name), sibling); err != nil {
					g.ch.Output(channel.NewMsg(channel.ErrorPart, fmt.Sprintf("unzip %s: %v\n", e.Name, err)))
					continue
				}
			case containsFold(g.settings.CheckFileExtensions, ext):
				if err := g.h.MoveToFolder(folder.Append(e.Name), sibling); err != nil {
					g.ch.Output(channel.NewMsg(channel.ErrorPart, fmt.Sprintf("move %s: %v\n", e.Name, err)))
					continue
				}
			default:
				continue
			}
			found = append(found, accepted{folder: sibling, name: displayName})
		}
	}

	g.subs.SuppressEvents(func() {
		for _, a := range found {
			g.subs.AddSubmission(a.name, a.folder, grade.NewGrade(g.gradeDefs))
		}
	})
	return true, nil
}

func firstNonEmpty(groups []string) string {
	for _, s := range groups {
		if s != "" {
			return s
		}
	}
	return ""
}

func splitExt(name string) (stem, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// RunCommands drives the interactive submission loop: a 1-based cursor
// over the current submission list, a top menu, and end-of-list
// loop-around prompting. It always dispatches
// EndOfSubmissionsEvent and drains queued background commands before
// returning, even when the operator quits early.
func (g *Grader) RunCommands() error {
	cursor := 1
	err := g.runLoop(&cursor)
	g.bus.Dispatch(eventbus.EndOfSubmissionsEvent{})
	g.drainBackground()
	g.printSummary()
	return err
}

func (g *Grader) runLoop(cursor *int) error {
	for {
		ids := g.submissionIDs()
		n := len(ids)
		if n == 0 {
			return nil
		}
		if *cursor > n {
			reply, err := g.ch.Prompt("end of submissions -- loop around to the beginning? ", []string{"y", "n"}, "n", true, nil)
			if err != nil {
				return err
			}
			if reply != "y" {
				return nil
			}
			*cursor = 1
			continue
		}
		if *cursor < 1 {
			*cursor = 1
		}

		g.ch.Output((&channel.Msg{}).
			AddAccent(channel.Status, fmt.Sprintf("[%d/%d] ", *cursor, n)).
			Add(channel.Status, g.submissionLabel(ids[*cursor-1])+"\n"))
		reply, err := g.ch.Input("[Enter] run  g) goto  b) back  s) skip  l) list  a) add  q) quit  h) help > ")
		if err != nil {
			return err
		}
		reply = strings.ToLower(strings.TrimSpace(reply))

		switch reply {
		case "":
			if serr := g.runSubmission(ids[*cursor-1]); serr != nil {
				return serr
			}
			*cursor++
		case "s", "skip":
			*cursor++
		case "b", "back":
			*cursor--
			if *cursor < 1 {
				*cursor = 1
			}
		case "l", "list":
			g.printList(ids, *cursor)
		case "a", "add":
			if _, err := g.AddSubmissions(nil); err != nil {
				return err
			}
		case "q", "quit":
			return nil
		case "h", "?":
			g.printHelp()
		case "g", "goto":
			target, err := g.ch.Input("goto (n, +n, -n): ")
			if err != nil {
				return err
			}
			next, ok := parseGoto(target, *cursor, n)
			if !ok {
				g.ch.Output(channel.NewMsg(channel.ErrorPart, fmt.Sprintf("invalid goto target %q\n", target)))
				continue
			}
			*cursor = next
		default:
			g.ch.Output(channel.NewMsg(channel.ErrorPart, fmt.Sprintf("unrecognized command %q\n", reply)))
		}
	}
}

// parseGoto resolves a goto target: a bare number is an absolute, 1-based
// target that must already land in [1, n] or is rejected outright; a
// signed "+n"/"-n" is a cursor-relative offset that always clamps into
// range instead of being rejected.
func parseGoto(s string, cursor, n int) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	relative := s[0] == '+' || s[0] == '-'
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if relative {
		target := cursor + v
		if target < 1 {
			target = 1
		}
		if target > n {
			target = n
		}
		return target, true
	}
	if v < 1 || v > n {
		return 0, false
	}
	return v, true
}

func (g *Grader) submissionIDs() []int {
	subs := g.subs.All()
	ids := make([]int, len(subs))
	for i, s := range subs {
		ids[i] = s.ID
	}
	return ids
}

func (g *Grader) submissionLabel(id int) string {
	sub, ok := g.subs.GetSubmission(id)
	if !ok {
		return fmt.Sprintf("#%d", id)
	}
	return sub.Name
}

func (g *Grader) printList(ids []int, cursor int) {
	var b strings.Builder
	for i, id := range ids {
		marker := "  "
		if i+1 == cursor {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%d. %s\n", marker, i+1, g.submissionLabel(id))
	}
	g.ch.Output(channel.NewMsg(channel.Print, b.String()))
}

func (g *Grader) printHelp() {
	g.ch.Output(channel.NewMsg(channel.Print,
		"Enter: run next submission\n"+
			"g, goto: jump to a submission (n, +n, -n)\n"+
			"b, back: previous submission\n"+
			"s, skip: skip this submission without running it\n"+
			"l, list: list all submissions\n"+
			"a, add: add more submissions from a folder\n"+
			"q, quit: stop grading\n"))
}

// runSubmission confirms the submission's folder, recurses the command
// tree against it, and brackets the whole pass with the per-submission
// lifecycle events and log mirrors.
func (g *Grader) runSubmission(id int) error {
	sub, ok := g.subs.GetSubmission(id)
	if !ok {
		return nil
	}

	folder, err := g.h.ChooseFolder(&sub.Folder, g.settings.PreferCLIFileChooser, g.ch)
	if err != nil {
		return err
	}
	if folder == nil {
		g.ch.Output(channel.NewMsg(channel.Status, fmt.Sprintf("skipping %s: no folder confirmed\n", sub.Name)))
		return nil
	}
	sub.Folder = *folder

	htmlLog := channel.NewHTMLLog()
	textLog := channel.NewPlainLog()
	detach := g.ch.AddDelegate(htmlLog, textLog)

	ctx, cancel := context.WithCancel(context.Background())
	g.interruptMu.Lock()
	g.cancelSubmission = cancel
	g.interruptMu.Unlock()

	started := time.Now()
	g.subs.StartTimer(sub)
	g.bus.Dispatch(eventbus.SubmissionStartedEvent{SubmissionID: sub.ID})

	defer func() {
		cancel()
		g.interruptMu.Lock()
		g.cancelSubmission = nil
		g.interruptMu.Unlock()

		g.subs.StopTimer(sub)
		detach()
		g.subs.AddLogs(sub, htmlLog.HTML(), textLog.Text())
		g.ch.Output(channel.NewMsg(channel.Status,
			fmt.Sprintf("finished %s\n", channel.StatusLine(sub.Name, started))))
		g.bus.Dispatch(eventbus.SubmissionFinishedEvent{SubmissionID: sub.ID, LogHTML: htmlLog.HTML()})
	}()

	env := cloneEnv(g.settings.BaseEnv)
	env["SUBMISSION_NAME"] = sub.Name

	for _, node := range g.commands {
		if serr := g.runNode(ctx, sub, node, *folder, env); serr != nil {
			var interrupted *host.InterruptedError
			if errors.Is(serr, ErrSkipSubmission) || errors.As(serr, &interrupted) {
				break
			}
			return serr
		}
	}
	return nil
}

func (g *Grader) runNode(ctx context.Context, sub *submissions.Submission, node Node, path gfpath.Path, env map[string]string) error {
	switch n := node.(type) {
	case *CommandSet:
		return g.runSet(ctx, sub, n, path, env)
	case *CommandItem:
		return g.runItem(ctx, sub, n, path, env)
	default:
		return nil
	}
}

func (g *Grader) runSet(ctx context.Context, sub *submissions.Submission, set *CommandSet, path gfpath.Path, env map[string]string) error {
	newPath := path
	switch {
	case set.Folder != nil:
		p, err := g.findFolder(path, set.Folder)
		if err != nil {
			return err
		}
		newPath = p
	case set.ConfirmFolder:
		p, err := g.h.ChooseFolder(&path, g.settings.PreferCLIFileChooser, g.ch)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrSkipSubmission
		}
		newPath = *p
	}

	mergedEnv := mergeEnv(env, set.Environment)
	if set.Name != "" {
		g.ch.Output(channel.NewMsg(channel.Status, fmt.Sprintf("-- %s --\n", set.Name)))
	}
	for _, child := range set.Children {
		if err := g.runNode(ctx, sub, child, newPath, mergedEnv); err != nil {
			return err
		}
	}
	if set.Name != "" {
		g.ch.Output(channel.NewMsg(channel.Status, fmt.Sprintf("-- end %s --\n", set.Name)))
	}
	return nil
}

// findFolder resolves a CommandSet's folder spec: a literal subpath is
// just appended and confirmed; a list of regexes is matched in turn
// against path's subdirectories.
func (g *Grader) findFolder(path gfpath.Path, spec *FolderSpec) (gfpath.Path, error) {
	var candidate gfpath.Path
	if spec.Literal != "" {
		candidate = path.Append(spec.Literal)
	} else {
		p, err := g.findFolderFromRegex(path, spec.Regexes)
		if err != nil {
			return gfpath.Path{}, err
		}
		candidate = p
	}
	return g.confirmFolder(candidate)
}

func (g *Grader) findFolderFromRegex(path gfpath.Path, patterns []string) (gfpath.Path, error) {
	entries, err := g.h.ListFolder(path)
	if err != nil {
		return gfpath.Path{}, err
	}
	var dirNames []string
	for _, e := range entries {
		if e.Kind == host.KindFolder {
			dirNames = append(dirNames, e.Name)
		}
	}

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return gfpath.Path{}, fmt.Errorf("grader: bad folder regex %q: %w", pattern, err)
		}
		var matches []string
		for _, name := range dirNames {
			if re.MatchString(name) {
				matches = append(matches, name)
			}
		}
		switch len(matches) {
		case 0:
			continue
		case 1:
			return path.Append(matches[0]), nil
		default:
			choices := append([]string{}, matches...)
			chosen, err := g.ch.Prompt(
				fmt.Sprintf("multiple folders match %q (%s) -- pick one: ", pattern, strings.Join(matches, ", ")),
				choices, "", false, nil)
			if err != nil {
				return gfpath.Path{}, err
			}
			for _, m := range matches {
				if strings.EqualFold(m, chosen) {
					return path.Append(m), nil
				}
			}
			return path.Append(chosen), nil
		}
	}
	return gfpath.Path{}, fmt.Errorf("grader: no folder under %s matched any of %v", path.String(), patterns)
}

func (g *Grader) confirmFolder(p gfpath.Path) (gfpath.Path, error) {
	reply, err := g.ch.Prompt(fmt.Sprintf("use folder %q? ", p.String()), []string{"y", "n"}, "y", true, nil)
	if err != nil {
		return gfpath.Path{}, err
	}
	if reply == "n" {
		return gfpath.Path{}, ErrSkipSubmission
	}
	return p, nil
}

// runItem presents the pre-run menu, then dispatches the command through
// the background / passthrough / captured-and-diffed paths.
func (g *Grader) runItem(ctx context.Context, sub *submissions.Submission, item *CommandItem, path gfpath.Path, env map[string]string) error {
	for {
		reply, err := g.ch.Prompt(
			fmt.Sprintf("%s -- [Enter] run  o) shell  f) folder  m) modify  s) skip  ss) skip submission  ?) help: ", item.DisplayName()),
			[]string{"", "o", "f", "m", "s", "ss", "?"}, "", false, nil)
		if err != nil {
			return err
		}
		switch reply {
		case "o":
			if err := g.h.OpenShell(path, mergeEnv(env, item.Environment)); err != nil {
				g.ch.Output(channel.NewMsg(channel.ErrorPart, err.Error()+"\n"))
			}
			continue
		case "f":
			if err := g.h.OpenFolder(path); err != nil {
				g.ch.Output(channel.NewMsg(channel.ErrorPart, err.Error()+"\n"))
			}
			continue
		case "m":
			newCmd, err := g.ch.Input("new command line: ")
			if err != nil {
				return err
			}
			item.Command = newCmd
			item.Version++
			continue
		case "s":
			return nil
		case "ss":
			return ErrSkipSubmission
		case "?":
			g.ch.Output(channel.NewMsg(channel.Print,
				"o: open a shell in the current folder\n"+
					"f: open the current folder\n"+
					"m: modify this command's command line before running it\n"+
					"s: skip this command\n"+
					"ss: skip the rest of this submission\n"))
			continue
		}
		break
	}
	return g.execItem(ctx, sub, item, path, env)
}

func (g *Grader) execItem(ctx context.Context, sub *submissions.Submission, item *CommandItem, path gfpath.Path, env map[string]string) error {
	mergedEnv := mergeEnv(env, item.Environment)
	mergedEnv["SUBMISSION_NAME"] = sub.Name

	if item.IsBackground {
		bc, err := g.h.StartBackgroundCommand(host.RunOptions{
			Cmd: item.Command, Path: path, Env: mergedEnv,
			HasStdin: item.HasStdin, Stdin: []byte(item.Stdin),
		})
		if err != nil {
			g.ch.Output(channel.NewMsg(channel.ErrorPart, err.Error()+"\n"))
			return nil
		}
		g.background = append(g.background, backgroundEntry{submissionID: sub.ID, name: item.DisplayName(), cmd: bc})
		return nil
	}

	if item.IsPassthrough {
		if err := g.h.RunCommandPassthrough(host.RunOptions{Cmd: item.Command, Path: path, Env: mergedEnv}); err != nil {
			g.ch.Output(channel.NewMsg(channel.ErrorPart, err.Error()+"\n"))
		}
		return g.postRunMenu(ctx, sub, item, path, env)
	}

	var reference string
	if item.Diff != nil {
		ref, err := g.resolveDiffReference(ctx, item.Diff, path)
		if err != nil {
			g.ch.Output(channel.NewMsg(channel.ErrorPart, fmt.Sprintf("diff reference: %v\n", err)))
		} else {
			reference = ref
		}
	}

	output, err := g.h.RunCommand(host.RunOptions{
		Cmd: item.Command, Path: path, Env: mergedEnv,
		HasStdin: item.HasStdin, Stdin: []byte(item.Stdin),
		PrintOutput: true, Channel: g.ch,
		Ctx: ctx,
	})
	if err != nil {
		g.ch.Output(channel.NewMsg(channel.ErrorPart, err.Error()+"\n"))
		var interrupted *host.InterruptedError
		if errors.As(err, &interrupted) {
			return err
		}
	}
	if item.Diff != nil {
		g.ch.Output(RenderDiff(reference, output, item.Diff.CollapseWhitespace))
	}

	return g.postRunMenu(ctx, sub, item, path, env)
}

func (g *Grader) postRunMenu(ctx context.Context, sub *submissions.Submission, item *CommandItem, path gfpath.Path, env map[string]string) error {
	reply, err := g.ch.Prompt("[Enter] next command  y) repeat: ", []string{"", "y"}, "", false, nil)
	if err != nil {
		return err
	}
	if reply == "y" {
		return g.execItem(ctx, sub, item, path, env)
	}
	return nil
}

// resolveDiffReference resolves the diff reference in order: content
// literal, a file under diff_file_path, a file relative to the
// submission's current working folder, or a command run with output
// suppressed.
func (g *Grader) resolveDiffReference(ctx context.Context, d *Diff, path gfpath.Path) (string, error) {
	switch {
	case d.Content != "":
		return d.Content, nil
	case d.File != "":
		if g.settings.DiffFilePath == "" {
			return "", fmt.Errorf("diff_file_path is not configured")
		}
		return g.h.ReadTextFile(gfpath.New(g.settings.DiffFilePath).Append(d.File))
	case d.SubmissionFile != "":
		return g.h.ReadTextFile(path.Append(d.SubmissionFile))
	case d.Command != "":
		return g.h.RunCommand(host.RunOptions{Cmd: d.Command, Path: path, PrintOutput: false, Ctx: ctx})
	default:
		return "", fmt.Errorf("diff has no reference source configured")
	}
}

// drainBackground waits on every queued background command in order and
// prints its captured output/error.
func (g *Grader) drainBackground() {
	for _, b := range g.background {
		err := b.cmd.Wait()
		out := b.cmd.GetOutput()
		g.ch.Output(channel.NewMsg(channel.Status, fmt.Sprintf("[background] %s\n", b.name)))
		if out != "" {
			g.ch.Output(channel.NewMsg(channel.Print, out))
		}
		if err != nil {
			g.ch.Output(channel.NewMsg(channel.ErrorPart, err.Error()+"\n"))
		}
	}
	g.background = nil
}

// printSummary prints end-of-run grading and timing statistics over every
// submission that has a grade or a recorded interval.
func (g *Grader) printSummary() {
	var scores, times []submissions.ValueWithID
	for _, s := range g.subs.All() {
		if s.Grade != nil {
			earned, _, _ := s.Grade.GetScore()
			scores = append(scores, submissions.ValueWithID{Value: float64(earned), ID: s.ID})
		}
		if d := s.TotalDuration(); d > 0 {
			times = append(times, submissions.ValueWithID{Value: d.Seconds(), ID: s.ID})
		}
	}

	grading := submissions.GetGradingStats(scores)
	timing := submissions.GetTimingStats(times)
	if grading.Empty && timing.Empty {
		return
	}

	var b strings.Builder
	b.WriteString("-- summary --\n")
	if !grading.Empty {
		fmt.Fprintf(&b, "scores: min %g, max %g, median %g, mean %.2f, stddev %.2f\n",
			grading.Min, grading.Max, grading.Median, grading.Mean, grading.StdDev)
	}
	if !timing.Empty {
		fmt.Fprintf(&b, "time per submission: min %s, max %s, mean %s\n",
			channel.Elapsed(secondsToDuration(timing.Min)),
			channel.Elapsed(secondsToDuration(timing.Max)),
			channel.Elapsed(secondsToDuration(timing.Mean)))
	}
	g.ch.Output(channel.NewMsg(channel.Status, b.String()))
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func cloneEnv(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func mergeEnv(base, extra map[string]string) map[string]string {
	out := cloneEnv(base)
	for k, v := range extra {
		out[k] = v
	}
	return out
}
