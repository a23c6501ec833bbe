package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/dayplan/internal/store"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Tasks      []jsonTask `json:"tasks"`
}

type jsonTask struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Completed       bool   `json:"completed"`
	IsUrgent        bool   `json:"is_urgent"`
	ReminderMinutes *int   `json:"reminder_minutes,omitempty"`
}

func ToJSON(tasks []store.Task, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(tasks),
	}

	for _, t := range tasks {
		export.Tasks = append(export.Tasks, jsonTask{
			ID:              t.ID,
			Date:            t.Date,
			Time:            t.Time,
			Title:           t.Title,
			Description:     t.Description,
			Completed:       t.Completed,
			IsUrgent:        t.IsUrgent,
			ReminderMinutes: t.ReminderMinutes,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
