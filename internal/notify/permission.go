package notify

// Permission is the three-state notification permission contract. It is
// persisted as a settings row; nothing may assume Granted without checking.
type Permission string

const (
	Granted     Permission = "granted"
	Denied      Permission = "denied"
	NotYetAsked Permission = "not-yet-asked"
)

// ParsePermission maps a stored value onto a known state. Unknown values
// degrade to NotYetAsked so a corrupt row can never unlock notifications.
func ParsePermission(v string) Permission {
	switch Permission(v) {
	case Granted, Denied:
		return Permission(v)
	default:
		return NotYetAsked
	}
}
