package diagram

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// GanttOptions holds the sizing constants for Gantt auto-width derivation.
// They are tuned against mermaid's default Gantt layout; a different engine
// likely needs different values, so they are configuration, not code.
type GanttOptions struct {
	PixelsPerDay float64
	MinWidth     int
	MaxWidth     int
}

// DefaultGanttOptions returns the sizing constants used when no
// configuration overrides them.
func DefaultGanttOptions() GanttOptions {
	return GanttOptions{
		PixelsPerDay: 30,
		MinWidth:     800,
		MaxWidth:     2400,
	}
}

// minSpanDays is the floor applied to the estimated date span when the
// source carries no usable dates.
const minSpanDays = 7

// GanttMetrics describes the estimated shape of a Gantt chart, derived from
// a cheap textual scan of its source.
type GanttMetrics struct {
	TotalDays int
	TaskCount int
}

var (
	isoDateRe  = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	durationRe = regexp.MustCompile(`(?i)\b(\d+)\s*(d|day|days|w|week|weeks)\b`)
)

// AnalyzeGantt scans Gantt source for ISO dates and relative durations and
// estimates the total date span and the number of tasks. The span never
// drops below the seven-day floor.
func AnalyzeGantt(source string) GanttMetrics {
	var (
		minDate, maxDate time.Time
		haveDate         bool
	)
	for _, m := range isoDateRe.FindAllString(source, -1) {
		d, err := time.Parse("2006-01-02", m)
		if err != nil {
			continue
		}
		if !haveDate {
			minDate, maxDate = d, d
			haveDate = true
			continue
		}
		if d.Before(minDate) {
			minDate = d
		}
		if d.After(maxDate) {
			maxDate = d
		}
	}

	maxDuration := 0
	for _, m := range durationRe.FindAllStringSubmatch(source, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if strings.HasPrefix(strings.ToLower(m[2]), "w") {
			n *= 7
		}
		if n > maxDuration {
			maxDuration = n
		}
	}

	days := 0
	if haveDate {
		days = int(maxDate.Sub(minDate).Hours()/24) + maxDuration
	}
	if days < minSpanDays {
		days = minSpanDays
	}

	return GanttMetrics{
		TotalDays: days,
		TaskCount: countGanttTasks(source),
	}
}

// ganttKeywords are section-level lines that carry a colon but are not tasks.
var ganttKeywords = []string{
	"title", "dateformat", "axisformat", "tickinterval", "excludes",
	"includes", "todaymarker", "section", "gantt", "%%",
}

func countGanttTasks(source string) int {
	count := 0
	for _, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || !strings.Contains(line, ":") {
			continue
		}
		lower := strings.ToLower(line)
		keyword := false
		for _, kw := range ganttKeywords {
			if strings.HasPrefix(lower, kw) {
				keyword = true
				break
			}
		}
		if !keyword {
			count++
		}
	}
	return count
}

// Width derives the target pixel width for the chart, clamped to the
// configured bounds.
func (m GanttMetrics) Width(opts GanttOptions) int {
	w := int(float64(m.TotalDays) * opts.PixelsPerDay)
	if w < opts.MinWidth {
		w = opts.MinWidth
	}
	if w > opts.MaxWidth {
		w = opts.MaxWidth
	}
	return w
}

// TickInterval picks the axis tick granularity for the estimated span:
// daily up to a month, weekly up to half a year, monthly beyond that.
func (m GanttMetrics) TickInterval() string {
	switch {
	case m.TotalDays <= 31:
		return "1day"
	case m.TotalDays <= 180:
		return "1week"
	default:
		return "1month"
	}
}

// InjectSizingDirective prepends an engine init directive carrying the
// derived width and tick interval. A leading front-matter block is
// preserved: the directive is inserted immediately after it.
func InjectSizingDirective(source string, opts GanttOptions) string {
	m := AnalyzeGantt(source)
	directive := fmt.Sprintf(`%%%%{init: {"gantt": {"useWidth": %d, "tickInterval": "%s"}}}%%%%`,
		m.Width(opts), m.TickInterval())

	head, tail := splitFrontMatter(source)
	if head == "" {
		return directive + "\n" + tail
	}
	return head + directive + "\n" + tail
}

// splitFrontMatter splits the source into a leading front-matter block
// (including its delimiters and trailing newline) and the rest. The head is
// empty when the source has no well-formed front-matter block.
func splitFrontMatter(source string) (head, tail string) {
	lines := strings.SplitAfter(source, "\n")
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) || strings.TrimSpace(lines[i]) != "---" {
		return "", source
	}
	for j := i + 1; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == "---" {
			return strings.Join(lines[:j+1], ""), strings.Join(lines[j+1:], "")
		}
	}
	return "", source
}
