package perfstats

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Accumulate samples of how long something took
type TimeAccumulator struct {
	Samples int64
	Total   time.Duration
	Max     time.Duration
}

func (a *TimeAccumulator) AddSample(v time.Duration) {
	a.Samples++
	a.Total += v
	a.Max = max(a.Max, v)
}

func (a TimeAccumulator) Average() time.Duration {
	if a.Samples == 0 {
		return 0
	}
	return time.Duration(a.Total.Nanoseconds() / a.Samples)
}

// TaskTimes keeps a TimeAccumulator per named task.
// It is safe for use from multiple goroutines.
type TaskTimes struct {
	lock  sync.Mutex
	tasks map[string]*TimeAccumulator
}

func NewTaskTimes() *TaskTimes {
	return &TaskTimes{
		tasks: map[string]*TimeAccumulator{},
	}
}

func (t *TaskTimes) Add(task string, v time.Duration) {
	t.lock.Lock()
	defer t.lock.Unlock()
	a := t.tasks[task]
	if a == nil {
		a = &TimeAccumulator{}
		t.tasks[task] = a
	}
	a.AddSample(v)
}

// Get returns a copy of the accumulator for task
func (t *TaskTimes) Get(task string) TimeAccumulator {
	t.lock.Lock()
	defer t.lock.Unlock()
	if a := t.tasks[task]; a != nil {
		return *a
	}
	return TimeAccumulator{}
}

// Summary is a one-line report of all tasks, sorted by name
func (t *TaskTimes) Summary() string {
	t.lock.Lock()
	defer t.lock.Unlock()
	names := make([]string, 0, len(t.tasks))
	for name := range t.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := []string{}
	for _, name := range names {
		a := t.tasks[name]
		parts = append(parts, fmt.Sprintf("%v: %v x %v avg (%v max)", name, a.Samples, a.Average().Round(time.Microsecond), a.Max.Round(time.Microsecond)))
	}
	return strings.Join(parts, ", ")
}
