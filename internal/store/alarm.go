package store

// GetHabitAlarm assembles the daily check-in alarm from its settings rows.
func (s *Store) GetHabitAlarm() (HabitAlarm, error) {
	var a HabitAlarm
	enabled, err := s.GetSetting(KeyHabitEnabled)
	if err != nil {
		return a, err
	}
	a.Enabled = enabled == "true"

	if a.TimeOfDay, err = s.GetSetting(KeyHabitTime); err != nil {
		return a, err
	}
	if a.LastFiredDate, err = s.GetSetting(KeyHabitLastFired); err != nil {
		return a, err
	}
	return a, nil
}

// SetHabitAlarm persists the user-configurable alarm fields. The last-fired
// date is written separately by MarkHabitFired when the alarm actually fires.
func (s *Store) SetHabitAlarm(enabled bool, timeOfDay string) error {
	v := "false"
	if enabled {
		v = "true"
	}
	if err := s.SetSetting(KeyHabitEnabled, v); err != nil {
		return err
	}
	return s.SetSetting(KeyHabitTime, timeOfDay)
}

// MarkHabitFired records the calendar day the alarm last fired.
func (s *Store) MarkHabitFired(dateKey string) error {
	return s.SetSetting(KeyHabitLastFired, dateKey)
}
