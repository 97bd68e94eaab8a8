// Package grader implements the command runner: submission discovery, the
// interactive run loop, per-command-set folder resolution, diff
// rendering, and background-command queueing.
package grader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Diff describes how to resolve the reference text a command's output is
// compared against. Exactly one of Content/File/SubmissionFile/Command is
// set. A bare string in the YAML is shorthand for {file: ...}.
type Diff struct {
	Content            string
	File               string
	SubmissionFile     string
	Command            string
	CollapseWhitespace bool
}

type rawDiff struct {
	Content            string `yaml:"content"`
	File               string `yaml:"file"`
	SubmissionFile     string `yaml:"submission file"`
	Command            string `yaml:"command"`
	CollapseWhitespace bool   `yaml:"collapse whitespace"`
}

func (d *Diff) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&d.File)
	}
	var raw rawDiff
	if err := value.Decode(&raw); err != nil {
		return err
	}
	d.Content = raw.Content
	d.File = raw.File
	d.SubmissionFile = raw.SubmissionFile
	d.Command = raw.Command
	d.CollapseWhitespace = raw.CollapseWhitespace

	sources := 0
	for _, s := range []string{d.Content, d.File, d.SubmissionFile, d.Command} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return fmt.Errorf("diff must have one and only one of: content, file, submission file, command")
	}
	return nil
}

// Node is either a CommandItem or a CommandSet; ParseCommands discriminates
// on whether a "commands" key is present.
type Node interface {
	nodeName() string
}

// CommandItem is one runnable step.
type CommandItem struct {
	Name          string
	Command       string
	Environment   map[string]string
	IsBackground  bool
	IsPassthrough bool
	HasStdin      bool
	Stdin         string
	Diff          *Diff

	// Version is incremented each time a user modifies this item
	// in-flight; the display name becomes "name (modified N)".
	Version int
}

func (c *CommandItem) nodeName() string { return c.Name }

// DisplayName reflects the current modification version.
func (c *CommandItem) DisplayName() string {
	if c.Version == 0 {
		return c.Name
	}
	return fmt.Sprintf("%s (modified %d)", c.Name, c.Version)
}

// CommandSet groups child nodes under a shared folder and environment.
type CommandSet struct {
	Name          string
	Children      []Node
	Folder        *FolderSpec
	ConfirmFolder bool
	Environment   map[string]string
}

func (c *CommandSet) nodeName() string { return c.Name }

// FolderSpec is either a literal subpath string or an ordered list of
// regexes to search subdirectories for.
type FolderSpec struct {
	Literal string
	Regexes []string
}

func (f *FolderSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&f.Literal)
	}
	return value.Decode(&f.Regexes)
}

// rawNode mirrors the on-disk YAML shape for both items and sets. Key
// names follow the documented configuration format ("confirm folder",
// "collapse whitespace", etc. use spaces, and "input"/"stdin" and
// "passthrough"/"passthru" are aliases).
type rawNode struct {
	Name          string            `yaml:"name"`
	Command       string            `yaml:"command"`
	Environment   map[string]string `yaml:"environment"`
	IsBackground  bool              `yaml:"background"`
	IsPassthrough bool              `yaml:"passthrough"`
	Passthru      bool              `yaml:"passthru"`
	Stdin         *string           `yaml:"stdin"`
	Input         *string           `yaml:"input"`
	Diff          *Diff             `yaml:"diff"`

	Commands      []rawNode   `yaml:"commands"`
	Folder        *FolderSpec `yaml:"folder"`
	ConfirmFolder *bool       `yaml:"confirm folder"`
}

// ParseCommands decodes a YAML commands document into the Node tree the
// runner walks.
func ParseCommands(data []byte) ([]Node, error) {
	var raw []rawNode
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing commands: %w", err)
	}
	out := make([]Node, 0, len(raw))
	for i, r := range raw {
		n, err := buildNode(r, fmt.Sprintf("#%d", i+1))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func buildNode(r rawNode, subject string) (Node, error) {
	if r.Name != "" {
		subject = fmt.Sprintf("%s (%s)", subject, r.Name)
	}
	isSet := r.Commands != nil
	if isSet && r.Command != "" {
		return nil, fmt.Errorf(`command %s has both "command" and "commands"`, subject)
	}
	if !isSet && r.Command == "" {
		return nil, fmt.Errorf(`command %s has neither "command" nor "commands"`, subject)
	}

	if isSet {
		children := make([]Node, 0, len(r.Commands))
		for i, c := range r.Commands {
			n, err := buildNode(c, fmt.Sprintf("%s.%d", subject, i+1))
			if err != nil {
				return nil, err
			}
			children = append(children, n)
		}
		// "confirm folder" defaults to true whenever a folder is given.
		confirm := r.Folder != nil
		if r.ConfirmFolder != nil {
			confirm = *r.ConfirmFolder
		}
		return &CommandSet{
			Name:          r.Name,
			Children:      children,
			Folder:        r.Folder,
			ConfirmFolder: confirm,
			Environment:   r.Environment,
		}, nil
	}

	if r.Name == "" {
		return nil, fmt.Errorf(`command item %s missing "name"`, subject)
	}
	item := &CommandItem{
		Name:          r.Name,
		Command:       r.Command,
		Environment:   r.Environment,
		IsBackground:  r.IsBackground,
		IsPassthrough: r.IsPassthrough || r.Passthru,
		Diff:          r.Diff,
	}
	stdin := r.Input
	if stdin == nil {
		stdin = r.Stdin
	}
	if stdin != nil {
		item.HasStdin = true
		item.Stdin = *stdin
	}
	if item.IsPassthrough {
		if item.IsBackground {
			return nil, fmt.Errorf(`command item %s has both "background" and "passthrough" set`, subject)
		}
		if item.HasStdin {
			return nil, fmt.Errorf(`command item %s has both "passthrough" and "input" set`, subject)
		}
		if item.Diff != nil {
			return nil, fmt.Errorf(`command item %s has both "passthrough" and "diff" set`, subject)
		}
	}
	return item, nil
}
