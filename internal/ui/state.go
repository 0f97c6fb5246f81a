package ui

// screen is the page the TUI shows.
type screen int

const (
	screenStatus screen = iota
	screenHelp
)

func (s screen) String() string {
	switch s {
	case screenStatus:
		return "Status"
	case screenHelp:
		return "Help"
	default:
		return "Unknown"
	}
}
