package config

import "testing"

func TestParseDefaults(t *testing.T) {
	data := []byte(`
grades:
  - name: A
    points: 10
commands:
  - name: build
    command: "make"
`)
	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Host != "localhost" || s.Port != 8051 {
		t.Fatalf("unexpected defaults: host=%q port=%d", s.Host, s.Port)
	}
	if !s.UseColor || !s.GradebookEnabled {
		t.Fatalf("expected use_color and gradebook_enabled to default true")
	}

	gy, err := s.GradeStructureYAML()
	if err != nil {
		t.Fatalf("GradeStructureYAML: %v", err)
	}
	if len(gy) == 0 {
		t.Fatalf("expected non-empty grade structure YAML")
	}
}

func TestParseMissingSections(t *testing.T) {
	if _, err := Parse([]byte(`commands: []`)); err == nil {
		t.Fatalf("expected error for missing grades section")
	}
	if _, err := Parse([]byte(`grades: []`)); err == nil {
		t.Fatalf("expected error for missing commands section")
	}
}

func TestParseSettingsOverrides(t *testing.T) {
	data := []byte(`
grades: []
commands: []
settings:
  host: 0.0.0.0
  port: 9000
  use_color: false
  gradebook_enabled: false
  check zipfiles: true
  check file extensions: [zip, tar]
`)
	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Host != "0.0.0.0" || s.Port != 9000 {
		t.Fatalf("settings overrides not applied: %+v", s)
	}
	if s.UseColor || s.GradebookEnabled {
		t.Fatalf("expected overridden false values to stick")
	}
	if !s.CheckZipfiles || len(s.CheckFileExtensions) != 2 {
		t.Fatalf("expected check_zipfiles/check_file_extensions applied")
	}
}
