// Package gfpath implements GradeFast's POSIX-style path value, kept
// separate from native OS paths so that Host is the only component that
// ever has to reason about platform path syntax.
package gfpath

import "strings"

// Path is an immutable POSIX-style path. The zero value is the empty path.
type Path struct {
	p string
}

// New builds a Path from a raw string, exactly as provided. Callers coming
// from YAML/CLI input should pass the value through unmodified; Append is
// where normalization happens.
func New(p string) Path {
	return Path{p: p}
}

// String returns the GradeFast path as written.
func (p Path) String() string {
	return p.p
}

// IsEmpty reports whether this is the zero-value path.
func (p Path) IsEmpty() bool {
	return p.p == ""
}

// Append joins subpart onto p, normalizing "." and ".." components from the
// third component onward only. The first component (and the boundary
// between it and the second) is never touched, so a leading "~" or a
// drive-style prefix like "C:" survives arbitrarily deep appends.
func (p Path) Append(subpart string) Path {
	left := splitNonEmpty(p.p)
	right := splitNonEmpty(subpart)
	combined := append(append([]string{}, left...), right...)

	out := make([]string, 0, len(combined))
	for i, c := range combined {
		if c == "." {
			// "." carries no positional information: always safe to drop.
			continue
		}
		if i < 2 {
			// Never resolve ".." against the first component or its
			// immediate child; that's where a relativity marker like "~"
			// or a drive spec lives.
			out = append(out, c)
			continue
		}
		if c == ".." {
			if len(out) > 2 {
				out = out[:len(out)-1]
			} else {
				out = append(out, c)
			}
			continue
		}
		out = append(out, c)
	}

	leadingSlash := strings.HasPrefix(p.p, "/")
	joined := strings.Join(out, "/")
	if leadingSlash && !strings.HasPrefix(joined, "/") {
		joined = "/" + joined
	}
	return Path{p: joined}
}

// RelativeStr returns the suffix of p relative to base, if p starts with
// base. It returns ("", false) when p does not start with base, or when the
// resulting suffix is empty or itself a ".."-escape.
func (p Path) RelativeStr(base Path) (string, bool) {
	self := p.p
	prefix := base.p
	if !strings.HasPrefix(self, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(self, prefix)
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		return "", false
	}
	if rest == ".." || strings.HasPrefix(rest, "../") {
		return "", false
	}
	return rest, true
}

// Basename returns the last "/"-delimited segment of p.
func (p Path) Basename() string {
	parts := splitNonEmpty(p.p)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func splitNonEmpty(s string) []string {
	raw := strings.Split(s, "/")
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		if c == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}
