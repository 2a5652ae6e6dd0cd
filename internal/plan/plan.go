// Package plan derives the checklist view from the seed templates, the
// wedding date and the persisted task state. Everything here is a pure
// function of its arguments; the current instant is always an explicit
// parameter so callers and tests control the clock.
package plan

import (
	"fmt"
	"math"
	"sort"
	"time"

	"wedding-planner/internal/seed"
)

// Tasks due within this many days of now count as upcoming.
const upcomingWindowDays = 30

// Task is a seed template with its due date resolved against the wedding
// date. Recomputed on every read, never persisted.
type Task struct {
	seed.Template
	Due time.Time
}

// State mirrors the persisted per-task status. A missing entry means not
// done, no note.
type State struct {
	Done bool
	Note string
}

// StateMap indexes state by template key.
type StateMap map[string]State

// Schedule resolves each template's due date (wedding date + offset,
// calendar days at midnight) and orders the result by due date ascending.
// The sort is stable: tasks due the same day keep the seed's relative
// order, so the checklist never reorders between renders.
func Schedule(templates []seed.Template, weddingDate time.Time) []Task {
	day := atMidnight(weddingDate)
	tasks := make([]Task, 0, len(templates))
	for _, t := range templates {
		tasks = append(tasks, Task{Template: t, Due: day.AddDate(0, 0, t.DueOffsetDays)})
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Due.Before(tasks[j].Due)
	})
	return tasks
}

// Group is one display bucket of tasks sharing a time window.
type Group struct {
	WindowID string
	Label    string
	Items    []Task
}

// GroupByWindow buckets tasks by their window id. Labels resolve through
// the given func (callers pass the seed's lookup, which falls back to the
// raw id). Groups are ordered by the earliest due date among their items;
// every input task lands in exactly one group.
func GroupByWindow(tasks []Task, label func(string) string) []Group {
	index := make(map[string]int)
	earliest := make(map[string]time.Time)
	var groups []Group
	for _, t := range tasks {
		i, ok := index[t.Window]
		if !ok {
			i = len(groups)
			index[t.Window] = i
			earliest[t.Window] = t.Due
			groups = append(groups, Group{WindowID: t.Window, Label: label(t.Window)})
		}
		if t.Due.Before(earliest[t.Window]) {
			earliest[t.Window] = t.Due
		}
		groups[i].Items = append(groups[i].Items, t)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return earliest[groups[a].WindowID].Before(earliest[groups[b].WindowID])
	})
	return groups
}

// Status classifies a task at a given instant. Done and Overdue are
// mutually exclusive; Upcoming is independent of Done.
type Status struct {
	Done     bool
	Overdue  bool
	Upcoming bool
}

// Classify evaluates a task against the persisted state. Due dates are
// midnight values while now is the live clock, so an unfinished task due
// today already reads as overdue once the day has started; that matches
// the page this replaces.
func Classify(t Task, states StateMap, now time.Time) Status {
	done := states[t.Key].Done
	horizon := now.AddDate(0, 0, upcomingWindowDays)
	return Status{
		Done:     done,
		Overdue:  t.Due.Before(now) && !done,
		Upcoming: !t.Due.Before(now) && !t.Due.After(horizon),
	}
}

// Upcoming filters tasks due within the next 30 days, preserving order.
func Upcoming(tasks []Task, now time.Time) []Task {
	horizon := now.AddDate(0, 0, upcomingWindowDays)
	var out []Task
	for _, t := range tasks {
		if !t.Due.Before(now) && !t.Due.After(horizon) {
			out = append(out, t)
		}
	}
	return out
}

// Countdown renders the time left until the wedding using the original
// 30-day-month approximation, which is deliberately kept over calendar
// month math. It reads the live clock, so the figure shrinks through the
// day rather than flipping at midnight.
func Countdown(weddingDate, now time.Time) string {
	diffDays := int(math.Ceil(atMidnight(weddingDate).Sub(now).Hours() / 24))
	if diffDays < 0 {
		return fmt.Sprintf("Wedding was %d days ago", -diffDays)
	}
	return fmt.Sprintf("%d months and %d days to go", diffDays/30, diffDays%30)
}

// Progress summarises completion for a set of tasks.
type Progress struct {
	Done    int `json:"done"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// ProgressOf counts done tasks and derives a rounded percentage. An empty
// set yields zero percent. The same computation serves the overall bar and
// the per-window bars.
func ProgressOf(tasks []Task, states StateMap) Progress {
	p := Progress{Total: len(tasks)}
	for _, t := range tasks {
		if states[t.Key].Done {
			p.Done++
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(100 * float64(p.Done) / float64(p.Total)))
	}
	return p
}

func atMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
