// Package diagram inspects mermaid source text before it reaches the
// rendering engine: diagram-type detection and type-specific sizing
// heuristics. The grammar itself is owned by the engine; this package only
// looks at the leading declaration line.
package diagram

import (
	"bufio"
	"strings"
)

// Type identifies one of the diagram families the pre-processor recognizes.
type Type string

const (
	TypeUnknown  Type = ""
	TypeFlow     Type = "flowchart"
	TypeSequence Type = "sequence"
	TypeClass    Type = "class"
	TypeState    Type = "state"
	TypeER       Type = "er"
	TypeJourney  Type = "journey"
	TypeGantt    Type = "gantt"
	TypePie      Type = "pie"
	TypeGit      Type = "git"
	TypeMindmap  Type = "mindmap"
	TypeTimeline Type = "timeline"
)

// typeKeywords maps the lowercase keyword a declaration line must start with
// to the diagram type it declares. Longer keywords are checked before their
// prefixes so "gitGraph" is not swallowed by a shorter match.
var typeKeywords = []struct {
	keyword string
	typ     Type
}{
	{"flowchart", TypeFlow},
	{"graph", TypeFlow},
	{"sequencediagram", TypeSequence},
	{"classdiagram", TypeClass},
	{"statediagram", TypeState},
	{"erdiagram", TypeER},
	{"journey", TypeJourney},
	{"gantt", TypeGantt},
	{"pie", TypePie},
	{"gitgraph", TypeGit},
	{"mindmap", TypeMindmap},
	{"timeline", TypeTimeline},
}

// Detect scans the source for its declaration line and reports the diagram
// type it declares, or TypeUnknown when nothing is recognized. Blank lines,
// comment lines and a leading front-matter block are skipped.
func Detect(source string) Type {
	line, ok := declarationLine(source)
	if !ok {
		return TypeUnknown
	}
	line = strings.ToLower(line)
	for _, tk := range typeKeywords {
		if strings.HasPrefix(line, tk.keyword) {
			return tk.typ
		}
	}
	return TypeUnknown
}

// IsGantt reports whether the source declares a Gantt chart.
func IsGantt(source string) bool {
	return Detect(source) == TypeGantt
}

// declarationLine returns the first substantive line of the source: the
// first line that is not blank, not a comment, and not part of a well-formed
// front-matter block delimited by lines consisting solely of "---".
func declarationLine(source string) (string, bool) {
	sc := bufio.NewScanner(strings.NewReader(source))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	inFrontMatter := false
	seenAny := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "---" {
			if !seenAny {
				inFrontMatter = true
				seenAny = true
				continue
			}
			if inFrontMatter {
				inFrontMatter = false
				continue
			}
		}
		seenAny = true
		if inFrontMatter {
			continue
		}
		if isCommentLine(line) {
			continue
		}
		return line, true
	}
	return "", false
}

// isCommentLine reports whether the line is a mermaid comment. Directive
// lines ("%%{ ... }%%") configure the engine and are not comments, but they
// are not declaration lines either, so both are skipped during detection.
func isCommentLine(line string) bool {
	return strings.HasPrefix(line, "%%")
}
