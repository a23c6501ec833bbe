package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/dayplan/internal/store"
)

func ToCSV(tasks []store.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Date", "Time", "Title", "Description", "Completed", "Urgent", "Reminder (min)"}); err != nil {
		return err
	}

	for _, t := range tasks {
		reminder := ""
		if t.ReminderMinutes != nil {
			reminder = strconv.Itoa(*t.ReminderMinutes)
		}

		row := []string{
			t.ID,
			t.Date,
			t.Time,
			t.Title,
			t.Description,
			strconv.FormatBool(t.Completed),
			strconv.FormatBool(t.IsUrgent),
			reminder,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
