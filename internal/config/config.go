// Package config loads and validates GradeFast's YAML configuration file
// into an immutable Settings record.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the immutable record every component is wired from.
type Settings struct {
	ProjectName    string
	SaveFile       string
	LogFile        string
	LogAsHTML      bool
	GradeStructure yaml.Node
	Host           string
	Port           int
	Commands       yaml.Node

	SubmissionRegex      string
	CheckZipfiles        bool
	CheckFileExtensions  []string
	DiffFilePath         string
	UseReadline          bool
	UseColor             bool
	BaseEnv              map[string]string
	PreferCLIFileChooser bool
	ShellCommand         string
	ShellArgs            []string
	TerminalCommand      string
	TerminalArgs         []string

	GradebookEnabled bool
}

// GradeStructureYAML re-encodes the "grades" section back to YAML bytes
// for internal/grader.ParseGradeStructure, which owns the grade-item
// decoding rules; config only owns the top-level document shape.
func (s *Settings) GradeStructureYAML() ([]byte, error) {
	return yaml.Marshal(&s.GradeStructure)
}

// CommandsYAML re-encodes the "commands" section back to YAML bytes for
// internal/grader.ParseCommands.
func (s *Settings) CommandsYAML() ([]byte, error) {
	return yaml.Marshal(&s.Commands)
}

// document mirrors the on-disk top-level YAML shape: grades, commands,
// and an optional settings block.
type document struct {
	Grades   yaml.Node        `yaml:"grades"`
	Commands yaml.Node        `yaml:"commands"`
	Settings *settingsSection `yaml:"settings"`
}

type settingsSection struct {
	ProjectName          string            `yaml:"project_name"`
	SaveFile             string            `yaml:"save_file"`
	LogFile              string            `yaml:"log_file"`
	LogAsHTML            bool              `yaml:"log_as_html"`
	Host                 string            `yaml:"host"`
	Port                 int               `yaml:"port"`
	SubmissionRegex      string            `yaml:"submission regex"`
	CheckZipfiles        bool              `yaml:"check zipfiles"`
	CheckFileExtensions  []string          `yaml:"check file extensions"`
	DiffFilePath         string            `yaml:"diff_file_path"`
	UseReadline          bool              `yaml:"use_readline"`
	UseColor             *bool             `yaml:"use_color"`
	BaseEnv              map[string]string `yaml:"base_env"`
	PreferCLIFileChooser bool              `yaml:"prefer_cli_file_chooser"`
	ShellCommand         string            `yaml:"shell_command"`
	ShellArgs            []string          `yaml:"shell_args"`
	TerminalCommand      string            `yaml:"terminal_command"`
	TerminalArgs         []string          `yaml:"terminal_args"`
	GradebookEnabled     *bool             `yaml:"gradebook_enabled"`
}

// StructureError reports a malformed top-level document.
type StructureError struct {
	Msg string
}

func (e *StructureError) Error() string { return e.Msg }

// Load reads and parses path into a Settings record, applying defaults
// for host/port, use_color, and gradebook_enabled.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document's bytes into Settings.
func Parse(data []byte) (*Settings, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parsing YAML: %w", err)
	}
	if doc.Grades.Kind == 0 {
		return nil, &StructureError{Msg: `missing "grades" section`}
	}
	if doc.Commands.Kind == 0 {
		return nil, &StructureError{Msg: `missing "commands" section`}
	}

	s := &Settings{
		GradeStructure:   doc.Grades,
		Commands:         doc.Commands,
		Host:             "localhost",
		Port:             8051,
		UseColor:         true,
		GradebookEnabled: true,
	}

	if doc.Settings != nil {
		applySettingsSection(s, doc.Settings)
	}
	return s, nil
}

func applySettingsSection(s *Settings, sec *settingsSection) {
	if sec.ProjectName != "" {
		s.ProjectName = sec.ProjectName
	}
	s.SaveFile = sec.SaveFile
	s.LogFile = sec.LogFile
	s.LogAsHTML = sec.LogAsHTML
	if sec.Host != "" {
		s.Host = sec.Host
	}
	if sec.Port != 0 {
		s.Port = sec.Port
	}
	s.SubmissionRegex = sec.SubmissionRegex
	s.CheckZipfiles = sec.CheckZipfiles
	s.CheckFileExtensions = sec.CheckFileExtensions
	s.DiffFilePath = sec.DiffFilePath
	s.UseReadline = sec.UseReadline
	if sec.UseColor != nil {
		s.UseColor = *sec.UseColor
	}
	s.BaseEnv = sec.BaseEnv
	s.PreferCLIFileChooser = sec.PreferCLIFileChooser
	s.ShellCommand = sec.ShellCommand
	s.ShellArgs = sec.ShellArgs
	s.TerminalCommand = sec.TerminalCommand
	s.TerminalArgs = sec.TerminalArgs
	if sec.GradebookEnabled != nil {
		s.GradebookEnabled = *sec.GradebookEnabled
	}
}
