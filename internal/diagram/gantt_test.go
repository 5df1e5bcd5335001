package diagram

import (
	"strings"
	"testing"
)

func TestAnalyzeGantt(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		wantDays  int
		wantTasks int
	}{
		{
			name: "two dates two weeks apart",
			source: `gantt
    dateFormat YYYY-MM-DD
    section Work
    Design :a1, 2024-01-01, 2024-01-15
`,
			wantDays:  14,
			wantTasks: 1,
		},
		{
			name: "date plus duration",
			source: `gantt
    section Work
    Design :a1, 2024-03-01, 10d
    Build  :a2, after a1, 2w
`,
			wantDays:  14, // single date spans 0, longest duration 2w
			wantTasks: 2,
		},
		{
			name:      "no dates uses floor",
			source:    "gantt\n    title Empty\n",
			wantDays:  minSpanDays,
			wantTasks: 0,
		},
		{
			name: "keywords with colons are not tasks",
			source: `gantt
    title Release :plan
    dateFormat YYYY-MM-DD
    axisFormat %d
    section Phase
    Ship :s1, 2024-06-01, 3d
`,
			wantDays:  minSpanDays,
			wantTasks: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := AnalyzeGantt(tt.source)
			if m.TotalDays != tt.wantDays {
				t.Errorf("TotalDays = %d, want %d", m.TotalDays, tt.wantDays)
			}
			if m.TaskCount != tt.wantTasks {
				t.Errorf("TaskCount = %d, want %d", m.TaskCount, tt.wantTasks)
			}
		})
	}
}

func TestGanttMetricsWidth(t *testing.T) {
	opts := DefaultGanttOptions()

	tests := []struct {
		name string
		days int
		want int
	}{
		{"clamped to minimum", 7, opts.MinWidth},
		{"within range", 40, 1200},
		{"clamped to maximum", 365, opts.MaxWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := GanttMetrics{TotalDays: tt.days}
			if got := m.Width(opts); got != tt.want {
				t.Errorf("Width(%d days) = %d, want %d", tt.days, got, tt.want)
			}
		})
	}
}

func TestGanttMetricsTickInterval(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{7, "1day"},
		{31, "1day"},
		{32, "1week"},
		{180, "1week"},
		{181, "1month"},
		{400, "1month"},
	}

	for _, tt := range tests {
		m := GanttMetrics{TotalDays: tt.days}
		if got := m.TickInterval(); got != tt.want {
			t.Errorf("TickInterval(%d days) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestInjectSizingDirective(t *testing.T) {
	opts := DefaultGanttOptions()

	t.Run("prepends directive", func(t *testing.T) {
		src := "gantt\n    title Plan\n"
		out := InjectSizingDirective(src, opts)
		if !strings.HasPrefix(out, `%%{init: {"gantt": {"useWidth": `) {
			t.Fatalf("directive not prepended: %q", out)
		}
		if !strings.HasSuffix(out, src) {
			t.Errorf("original source not preserved: %q", out)
		}
	})

	t.Run("preserves front matter", func(t *testing.T) {
		src := "---\ntitle: Plan\n---\ngantt\n    title Plan\n"
		out := InjectSizingDirective(src, opts)
		wantPrefix := "---\ntitle: Plan\n---\n%%{init:"
		if !strings.HasPrefix(out, wantPrefix) {
			t.Fatalf("directive not placed after front matter:\n%q", out)
		}
		if !strings.Contains(out, "gantt\n    title Plan\n") {
			t.Errorf("body lost: %q", out)
		}
	})

	t.Run("carries tick interval", func(t *testing.T) {
		src := "gantt\n    A :a, 2024-01-01, 2024-12-01\n"
		out := InjectSizingDirective(src, opts)
		if !strings.Contains(out, `"tickInterval": "1month"`) {
			t.Errorf("expected monthly ticks for a year-long span: %q", out)
		}
	})
}
