// Command gradefast is GradeFast's entry point: it loads a grading
// session's YAML configuration, wires the channel/host/event-bus/
// submission-manager/gradebook/grader dependency graph, starts the
// gradebook's HTTP+SSE server on its own goroutine, and runs the grader's
// interactive loop on the main goroutine until the operator quits or
// every submission has been graded.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"strconv"

	"github.com/antigravity-dev/gradefast/internal/channel"
	"github.com/antigravity-dev/gradefast/internal/config"
	"github.com/antigravity-dev/gradefast/internal/eventbus"
	"github.com/antigravity-dev/gradefast/internal/grade"
	"github.com/antigravity-dev/gradefast/internal/gradebook"
	"github.com/antigravity-dev/gradefast/internal/grader"
	"github.com/antigravity-dev/gradefast/internal/host"
	"github.com/antigravity-dev/gradefast/internal/markdown"
	"github.com/antigravity-dev/gradefast/internal/persist"
	"github.com/antigravity-dev/gradefast/internal/submissions"
)

// usageError marks a CLI-argument mistake; it maps to exit code 2.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

// defaultResumeKey is used when --resume is given without a key, or when
// autosaving a session that was never explicitly keyed.
const defaultResumeKey = "autosave"

func main() {
	os.Exit(run(os.Args[1:]))
}

// configureLogger builds the process-wide slog.Logger: JSON by default,
// human-readable text under --dev. GradeFast's CLI has no flag parser
// beyond its fixed positional line, so "--dev" is pulled out the same way
// "--resume" is, rather than introducing a flag package layer on top.
func configureLogger(dev bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if dev {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// extractDevFlag pulls a trailing "--dev" out of args, switching the
// process logger to human-readable text instead of JSON.
func extractDevFlag(args []string) (remaining []string, dev bool) {
	for _, a := range args {
		if a == "--dev" {
			dev = true
			continue
		}
		remaining = append(remaining, a)
	}
	return remaining, dev
}

func run(args []string) int {
	args, dev := extractDevFlag(args)
	logger := configureLogger(dev)
	slog.SetDefault(logger)

	positional, resumeKey, resume := extractResumeFlag(args)

	settings, err := parseArgs(positional)
	if err != nil {
		if _, ok := err.(*usageError); ok || errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "usage: gradefast <config-file> [host [port]] [--resume [key]]\n%v\n", err)
			return 2
		}
		fmt.Fprintf(os.Stderr, "gradefast: %v\n", err)
		return 1
	}

	gradeDefs, commandTree, err := loadStructures(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gradefast: %v\n", err)
		return 1
	}

	var store *persist.Store
	if settings.SaveFile != "" {
		store, err = persist.Open(settings.SaveFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gradefast: %v\n", err)
			return 1
		}
		defer store.Close()
	}
	if resume && store == nil {
		fmt.Fprintf(os.Stderr, "usage: --resume requires save_file to be set in the config\n")
		return 2
	}

	ch := channel.New(os.Stdout, os.Stdin, settings.UseColor && channel.DetectColor(os.Stdout.Fd())).
		WithStdinFd(os.Stdin.Fd())

	// A session-long mirror backs settings.log_file; it is flushed to disk
	// once the grading run ends.
	var sessionHTML *channel.HTMLLog
	var sessionText *channel.PlainLog
	if settings.LogFile != "" {
		if settings.LogAsHTML {
			sessionHTML = channel.NewHTMLLog()
			ch.AddDelegate(sessionHTML)
		} else {
			sessionText = channel.NewPlainLog()
			ch.AddDelegate(sessionText)
		}
	}

	var submissionRegex *regexp.Regexp
	if settings.SubmissionRegex != "" {
		submissionRegex, err = regexp.Compile(settings.SubmissionRegex)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gradefast: bad submission_regex: %v\n", err)
			return 1
		}
	}

	h := host.New(settings.ShellCommand, settings.ShellArgs, settings.TerminalCommand, settings.TerminalArgs)
	bus := eventbus.New()
	subs := submissions.New(bus)

	if resume {
		if err := loadResume(store, resumeKey, subs, gradeDefs); err != nil {
			fmt.Fprintf(os.Stderr, "gradefast: %v\n", err)
			return 1
		}
	}

	logger.Info("gradefast starting", "project", settings.ProjectName)

	feedback := &grade.FeedbackRenderer{MD: markdown.Blackfriday{}}
	gb := gradebook.New(bus, subs, feedback, settings.ProjectName, logger)

	g := grader.New(ch, h, bus, subs, gradeDefs, commandTree, grader.Settings{
		SubmissionRegex:      submissionRegex,
		CheckZipfiles:        settings.CheckZipfiles,
		CheckFileExtensions:  settings.CheckFileExtensions,
		DiffFilePath:         settings.DiffFilePath,
		PreferCLIFileChooser: settings.PreferCLIFileChooser,
		BaseEnv:              settings.BaseEnv,
	})
	g.RegisterAuthHandler()

	if settings.GradebookEnabled {
		addr := fmt.Sprintf("%s:%d", settings.Host, settings.Port)
		go func() {
			if err := gb.Serve(addr); err != nil {
				logger.Error("gradebook server stopped", "addr", addr, "error", err)
				ch.Output(channel.NewMsg(channel.ErrorPart, fmt.Sprintf("gradebook server stopped: %v\n", err)))
			}
		}()
		ch.Output(channel.NewMsg(channel.Status, fmt.Sprintf("gradebook listening on http://%s/gradefast/\n", addr)))
	}

	if !resume {
		if err := g.PromptForSubmissions(); err != nil {
			fmt.Fprintf(os.Stderr, "gradefast: %v\n", err)
			return 1
		}
	}

	// A Ctrl-C aborts whatever submission is currently running, not the
	// whole process: the grader loop then just moves on to the next id.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			g.Interrupt()
		}
	}()

	runErr := g.RunCommands()

	if settings.LogFile != "" {
		data := []byte{}
		if sessionHTML != nil {
			data = []byte(sessionHTML.HTML())
		} else if sessionText != nil {
			data = []byte(sessionText.Text())
		}
		if err := os.WriteFile(settings.LogFile, data, 0o644); err != nil {
			ch.Output(channel.NewMsg(channel.ErrorPart, fmt.Sprintf("writing log file: %v\n", err)))
		}
	}

	if store != nil {
		key := resumeKey
		if key == "" {
			key = defaultResumeKey
		}
		if err := saveResume(store, key, subs); err != nil {
			ch.Output(channel.NewMsg(channel.ErrorPart, fmt.Sprintf("saving resume state: %v\n", err)))
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "gradefast: %v\n", runErr)
		return 1
	}
	return 0
}

// extractResumeFlag pulls a trailing "--resume [key]" out of args,
// returning the remaining positional arguments unchanged. A bare
// "--resume" resumes defaultResumeKey.
func extractResumeFlag(args []string) (positional []string, key string, resume bool) {
	for i := 0; i < len(args); i++ {
		if args[i] != "--resume" {
			positional = append(positional, args[i])
			continue
		}
		rest := args[i+1:]
		if len(rest) > 0 {
			key = rest[0]
			rest = rest[1:]
		}
		positional = append(positional, rest...)
		return positional, key, true
	}
	return args, "", false
}

// loadResume reloads a previously saved submission batch instead of
// scanning a folder for new ones.
func loadResume(store *persist.Store, key string, subs *submissions.Manager, defs []*grade.ItemDef) error {
	if key == "" {
		key = defaultResumeKey
	}
	blob, ok, err := store.Get(key)
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	if !ok {
		return fmt.Errorf("resume: no saved session under key %q", key)
	}
	var snaps []submissions.Snapshot
	if err := json.Unmarshal(blob, &snaps); err != nil {
		return fmt.Errorf("resume: decoding saved session: %w", err)
	}
	subs.Restore(snaps, defs)
	return nil
}

// saveResume persists the current submission batch under key so a later
// --resume run can pick the session back up.
func saveResume(store *persist.Store, key string, subs *submissions.Manager) error {
	blob, err := json.Marshal(subs.Snapshot())
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return store.Put(key, blob)
}

// parseArgs loads the config file named by args[0] and applies the
// optional host/port positional overrides.
func parseArgs(args []string) (*config.Settings, error) {
	if len(args) < 1 {
		return nil, &usageError{msg: "missing <config-file> argument"}
	}
	settings, err := config.Load(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) >= 2 {
		settings.Host = args[1]
	}
	if len(args) >= 3 {
		port, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, &usageError{msg: fmt.Sprintf("invalid port %q", args[2])}
		}
		settings.Port = port
	}
	return settings, nil
}

func loadStructures(settings *config.Settings) ([]*grade.ItemDef, []grader.Node, error) {
	gradeYAML, err := settings.GradeStructureYAML()
	if err != nil {
		return nil, nil, fmt.Errorf("re-encoding grade structure: %w", err)
	}
	gradeDefs, err := grader.ParseGradeStructure(gradeYAML)
	if err != nil {
		return nil, nil, err
	}

	commandsYAML, err := settings.CommandsYAML()
	if err != nil {
		return nil, nil, fmt.Errorf("re-encoding commands: %w", err)
	}
	commandTree, err := grader.ParseCommands(commandsYAML)
	if err != nil {
		return nil, nil, err
	}
	return gradeDefs, commandTree, nil
}
