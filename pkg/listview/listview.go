// Package listview derives the visible task page from the full task set
// and the filter/sort/page controls. Derivation is a pure function of
// its inputs; the Engine adds memoization on top for UI loops that
// re-render on every state change.
package listview

import (
	"sort"
	"strings"

	"github.com/taskdeck/backend/domain"
)

// PageSize is the fixed number of tasks per derived page.
const PageSize = 6

// FilterAll disables a status or priority filter.
const FilterAll = "all"

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortNewest       SortKey = "newest"
	SortOldest       SortKey = "oldest"
	SortPriorityHigh SortKey = "priority-high"
	SortPriorityLow  SortKey = "priority-low"
	SortStatus       SortKey = "status"
)

var (
	priorityRank = map[domain.Priority]int{
		domain.PriorityHigh:   1,
		domain.PriorityMedium: 2,
		domain.PriorityLow:    3,
	}
	reversePriorityRank = map[domain.Priority]int{
		domain.PriorityHigh:   3,
		domain.PriorityMedium: 2,
		domain.PriorityLow:    1,
	}
	statusRank = map[domain.Status]int{
		domain.StatusDone:       1,
		domain.StatusInProgress: 2,
		domain.StatusPending:    3,
	}
)

// State is the ephemeral view state: which filters are active, the sort
// order, and the page the user is on. It is never persisted.
type State struct {
	StatusFilter   string
	PriorityFilter string
	Search         string
	Sort           SortKey
	Page           int
}

// DefaultState returns the state the view starts from and resets to.
func DefaultState() State {
	return State{
		StatusFilter:   FilterAll,
		PriorityFilter: FilterAll,
		Search:         "",
		Sort:           SortNewest,
		Page:           1,
	}
}

// Result is one derived page plus the page count of the filtered set.
type Result struct {
	Page       []domain.Task
	TotalPages int
}

// Derive applies filter, then sort, then pagination, in that fixed
// order. The sort is stable: tasks with equal keys keep their relative
// input order. The input slice is never modified.
func Derive(tasks []domain.Task, state State) Result {
	filtered := filter(tasks, state)
	sortTasks(filtered, state.Sort)

	totalPages := (len(filtered) + PageSize - 1) / PageSize

	page := state.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(filtered) {
		return Result{Page: []domain.Task{}, TotalPages: totalPages}
	}
	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return Result{Page: filtered[start:end], TotalPages: totalPages}
}

func filter(tasks []domain.Task, state State) []domain.Task {
	search := strings.ToLower(state.Search)
	out := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if state.StatusFilter != FilterAll && string(task.Status) != state.StatusFilter {
			continue
		}
		if state.PriorityFilter != FilterAll && string(task.PriorityLevel) != state.PriorityFilter {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(task.Name), search) &&
			!strings.Contains(strings.ToLower(task.Description), search) {
			continue
		}
		out = append(out, task)
	}
	return out
}

func sortTasks(tasks []domain.Task, key SortKey) {
	switch key {
	case SortNewest:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	case SortOldest:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		})
	case SortPriorityHigh:
		sort.SliceStable(tasks, func(i, j int) bool {
			return priorityRank[tasks[i].PriorityLevel] < priorityRank[tasks[j].PriorityLevel]
		})
	case SortPriorityLow:
		sort.SliceStable(tasks, func(i, j int) bool {
			return reversePriorityRank[tasks[i].PriorityLevel] < reversePriorityRank[tasks[j].PriorityLevel]
		})
	case SortStatus:
		sort.SliceStable(tasks, func(i, j int) bool {
			return statusRank[tasks[i].Status] < statusRank[tasks[j].Status]
		})
	}
}

// Engine memoizes the derivation for a single view. Every control
// change that alters the filtered or sorted set snaps the view back to
// page one; paging itself does not. Not safe for concurrent use: the
// view model is single-goroutine by contract.
type Engine struct {
	tasks  []domain.Task
	state  State
	valid  bool
	cached Result
}

func NewEngine() *Engine {
	return &Engine{state: DefaultState()}
}

// SetTasks replaces the underlying task set, e.g. after a refetch.
func (e *Engine) SetTasks(tasks []domain.Task) {
	e.tasks = tasks
	e.state.Page = 1
	e.valid = false
}

func (e *Engine) SetStatusFilter(status string) {
	e.setControl(func(s *State) { s.StatusFilter = status })
}

func (e *Engine) SetPriorityFilter(priority string) {
	e.setControl(func(s *State) { s.PriorityFilter = priority })
}

func (e *Engine) SetSearch(search string) {
	e.setControl(func(s *State) { s.Search = search })
}

func (e *Engine) SetSort(key SortKey) {
	e.setControl(func(s *State) { s.Sort = key })
}

// SetPage navigates within the current filtered set.
func (e *Engine) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	if page == e.state.Page {
		return
	}
	e.state.Page = page
	e.valid = false
}

// Reset restores the default filters, sort and page.
func (e *Engine) Reset() {
	if e.state == DefaultState() {
		return
	}
	e.state = DefaultState()
	e.valid = false
}

// State returns the current view state.
func (e *Engine) State() State {
	return e.state
}

// View returns the derived page, recomputing only when the task set or
// the state changed since the last call.
func (e *Engine) View() Result {
	if !e.valid {
		e.cached = Derive(e.tasks, e.state)
		e.valid = true
	}
	return e.cached
}

func (e *Engine) setControl(apply func(*State)) {
	next := e.state
	apply(&next)
	next.Page = 1
	if next == e.state {
		return
	}
	e.state = next
	e.valid = false
}
