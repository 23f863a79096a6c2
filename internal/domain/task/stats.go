package task

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Stats summarizes the tasks visible to one user.
type Stats struct {
	Total          int
	Todo           int
	InProgress     int
	Completed      int
	Overdue        int
	DueToday       int
	AssignedToMe   int
	CreatedByMe    int
	ByPriority     map[Priority]int
	CompletionRate int
}

// ComputeStats aggregates tasks from userID's point of view at time now.
// CompletionRate is the rounded percentage of completed tasks, 0 when there are none.
func ComputeStats(tasks []*Task, userID uuid.UUID, now time.Time) Stats {
	s := Stats{ByPriority: make(map[Priority]int, len(Priorities))}
	for _, p := range Priorities {
		s.ByPriority[p] = 0
	}

	for _, t := range tasks {
		s.Total++
		switch t.Status {
		case StatusTodo:
			s.Todo++
		case StatusInProgress:
			s.InProgress++
		case StatusDone:
			s.Completed++
		}
		s.ByPriority[t.Priority]++
		if t.IsOverdue(now) {
			s.Overdue++
		}
		if t.IsDueOn(now) {
			s.DueToday++
		}
		if t.IsAssignee(userID) {
			s.AssignedToMe++
		}
		if t.IsCreator(userID) {
			s.CreatedByMe++
		}
	}

	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}
