// Package job implements the background/stopped job table: a singly
// linked list ordered most-recently-added first.
package job

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNoSuchJob  = errors.New("no such job")
	ErrJobRunning = errors.New("job already running")
)

// Job is one entry in the table: a background or stopped pipeline.
type Job struct {
	Pid     int
	ID      int
	Command string
	Stopped bool
}

type node struct {
	job  Job
	next *node
}

// Table is a singly linked list of jobs, ordered newest-first, with a
// monotonic id counter that never reuses values within a session.
type Table struct {
	head   *node
	nextID int
}

func NewTable() *Table {
	return &Table{nextID: 1}
}

// AddBackground prepends a new running job and returns its assigned id.
func (t *Table) AddBackground(pid int, cmd string) int {
	id := t.nextID
	t.nextID++
	t.head = &node{job: Job{Pid: pid, ID: id, Command: cmd, Stopped: false}, next: t.head}
	return id
}

// AddStopped prepends a new stopped job and returns its assigned id.
func (t *Table) AddStopped(pid int, cmd string) int {
	id := t.nextID
	t.nextID++
	t.head = &node{job: Job{Pid: pid, ID: id, Command: cmd, Stopped: true}, next: t.head}
	return id
}

// FindByID performs a linear scan for the job with the given id.
func (t *Table) FindByID(id int) (Job, bool) {
	for n := t.head; n != nil; n = n.next {
		if n.job.ID == id {
			return n.job, true
		}
	}
	return Job{}, false
}

// Most recently added job, i.e. the head of the list.
func (t *Table) Latest() (Job, bool) {
	if t.head == nil {
		return Job{}, false
	}
	return t.head.job, true
}

// Resolve looks up the job targeted by fg/bg's optional job-id
// argument: by id when hasID is true, otherwise the most recently
// added job. It returns ErrNoSuchJob if nothing matches.
func (t *Table) Resolve(id int, hasID bool) (Job, error) {
	if hasID {
		j, ok := t.FindByID(id)
		if !ok {
			return Job{}, ErrNoSuchJob
		}
		return j, nil
	}
	j, ok := t.Latest()
	if !ok {
		return Job{}, ErrNoSuchJob
	}
	return j, nil
}

// Unlink removes the job with the given id.
func (t *Table) Unlink(id int) bool {
	var prev *node
	for n := t.head; n != nil; n = n.next {
		if n.job.ID == id {
			if prev == nil {
				t.head = n.next
			} else {
				prev.next = n.next
			}
			return true
		}
		prev = n
	}
	return false
}

// SetStopped updates the stopped flag of the job with the given id.
func (t *Table) SetStopped(id int, stopped bool) bool {
	for n := t.head; n != nil; n = n.next {
		if n.job.ID == id {
			n.job.Stopped = stopped
			return true
		}
	}
	return false
}

// All returns every job currently in the table, head (newest) first.
func (t *Table) All() []Job {
	var out []Job
	for n := t.head; n != nil; n = n.next {
		out = append(out, n.job)
	}
	return out
}

// Pids returns every tracked pid, used by the exit hook to SIGKILL the
// whole table.
func (t *Table) Pids() []int {
	var out []int
	for n := t.head; n != nil; n = n.next {
		out = append(out, n.job.Pid)
	}
	return out
}

// Clear empties the table, used by the shell exit hook.
func (t *Table) Clear() {
	t.head = nil
}

// Activities formats the `activities` listing: entries sorted
// lexicographically by command, "[pid] : cmd - Running|Stopped".
func Activities(jobs []Job) []string {
	sorted := make([]Job, len(jobs))
	copy(sorted, jobs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Command < sorted[j].Command })

	out := make([]string, 0, len(sorted))
	for _, j := range sorted {
		state := "Running"
		if j.Stopped {
			state = "Stopped"
		}
		out = append(out, fmt.Sprintf("[%d] : %s - %s", j.Pid, j.Command, state))
	}
	return out
}
