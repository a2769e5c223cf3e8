// Package observ measures how long the phases of a command take (--timings).
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase records the duration and metadata of one phase.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks phases. A nil *Timer is valid and records nothing, so callers
// can pass it around unconditionally. Safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Summary returns a human-readable table, one line per phase name.
// Phases with the same name (one per file in a parallel check) are summed.
func (t *Timer) Summary() string {
	report := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&b, "  (x%d)", p.Count)
		} else if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", report.TotalMS)
	return b.String()
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report группирует фазы по имени в порядке первого появления.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phases) == 0 {
		return Report{}
	}

	var report Report
	index := make(map[string]int, len(t.phases))
	var total time.Duration
	for _, phase := range t.phases {
		total += phase.Dur
		i, ok := index[phase.Name]
		if !ok {
			index[phase.Name] = len(report.Phases)
			report.Phases = append(report.Phases, PhaseReport{Name: phase.Name, Note: phase.Note})
			i = len(report.Phases) - 1
		}
		report.Phases[i].DurationMS += durationToMillis(phase.Dur)
		report.Phases[i].Count++
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
