package model

// SlotHandle is the display slot of one (station, phase) pair. Writes never fail.
type SlotHandle interface {
	// SetText replaces the shown elapsed time
	SetText(text string)
	// SetActive toggles the activity indicator
	SetActive(active bool)
}
