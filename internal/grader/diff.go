package grader

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/antigravity-dev/gradefast/internal/channel"
)

// cleanLine lowercases a line and, when collapse is set, collapses runs of
// whitespace to a single space, so the diff compares content rather than
// case or spacing.
func cleanLine(line string, collapse bool) string {
	l := strings.ToLower(line)
	if !collapse {
		return l
	}
	return strings.Join(strings.Fields(l), " ")
}

func cleanLines(lines []string, collapse bool) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = cleanLine(l, collapse)
	}
	return out
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// RenderDiff builds a styled line-level diff over lower-cased (optionally
// whitespace-collapsed) lines, with each opcode mapped back to the
// corresponding original reference or output lines. Matched stretches
// emit bg-meh, reference-only stretches (deletes, and the left half of a
// replace) emit bg-happy, and output-only stretches (inserts, and the
// right half of a replace) emit bg-sad. Built from
// SequenceMatcher.GetOpCodes since go-difflib has no ndiff of its own.
func RenderDiff(reference, output string, collapseWhitespace bool) *channel.Msg {
	refLines := splitLines(reference)
	outLines := splitLines(output)
	cleanRef := cleanLines(refLines, collapseWhitespace)
	cleanOut := cleanLines(outLines, collapseWhitespace)

	m := &channel.Msg{}
	matcher := difflib.NewMatcher(cleanRef, cleanOut)
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			for i := op.I1; i < op.I2; i++ {
				m.Add(channel.BgMeh, refLines[i]+"\n")
			}
		case 'd':
			for i := op.I1; i < op.I2; i++ {
				m.Add(channel.BgHappy, refLines[i]+"\n")
			}
		case 'i':
			for j := op.J1; j < op.J2; j++ {
				m.Add(channel.BgSad, outLines[j]+"\n")
			}
		case 'r':
			for i := op.I1; i < op.I2; i++ {
				m.Add(channel.BgHappy, refLines[i]+"\n")
			}
			for j := op.J1; j < op.J2; j++ {
				m.Add(channel.BgSad, outLines[j]+"\n")
			}
		}
	}
	return m
}
