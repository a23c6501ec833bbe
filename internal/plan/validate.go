package plan

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sadopc/dayplan/internal/remind"
	"github.com/sadopc/dayplan/internal/store"
)

// Rejection explains why one candidate was dropped.
type Rejection struct {
	Index  int
	Reason string
}

func (r Rejection) String() string {
	return fmt.Sprintf("candidate %d: %s", r.Index, r.Reason)
}

// Validate filters a candidate batch item by item. Accepted candidates
// become ready-to-insert tasks with fresh ids for the given date; rejected
// ones are reported individually so one bad item never sinks the batch.
func Validate(candidates []Candidate, date string) ([]store.Task, []Rejection) {
	var tasks []store.Task
	var rejected []Rejection

	for i, c := range candidates {
		if strings.TrimSpace(c.Title) == "" {
			rejected = append(rejected, Rejection{Index: i, Reason: "empty title"})
			continue
		}
		if _, _, err := remind.ParseStart(c.Time); err != nil {
			rejected = append(rejected, Rejection{Index: i, Reason: fmt.Sprintf("unparseable time %q", c.Time)})
			continue
		}
		if c.ReminderMinutes != nil && *c.ReminderMinutes < 0 {
			rejected = append(rejected, Rejection{Index: i, Reason: "negative reminder offset"})
			continue
		}

		tasks = append(tasks, store.Task{
			ID:              uuid.NewString(),
			Date:            date,
			Time:            strings.TrimSpace(c.Time),
			Title:           strings.TrimSpace(c.Title),
			Description:     strings.TrimSpace(c.Description),
			IsUrgent:        c.IsUrgent,
			ReminderMinutes: c.ReminderMinutes,
		})
	}
	return tasks, rejected
}
