package notify

// Ringtone is a named audio cue for reminders.
type Ringtone struct {
	Name  string
	Label string
	File  string // filename under the sound directory
}

// Ringtones is the selectable cue catalogue. The default is "bell".
var Ringtones = []Ringtone{
	{Name: "bell", Label: "Clear bell", File: "bell.wav"},
	{Name: "crystal", Label: "Crystal tap", File: "crystal.wav"},
	{Name: "nature", Label: "Forest birds", File: "nature.wav"},
	{Name: "chime", Label: "Soft chime", File: "chime.wav"},
	{Name: "bubble", Label: "Bubble pop", File: "bubble.wav"},
}

// RingtoneByName returns the catalogue entry for name, falling back to the
// first entry when the name is unknown.
func RingtoneByName(name string) Ringtone {
	for _, r := range Ringtones {
		if r.Name == name {
			return r
		}
	}
	return Ringtones[0]
}
