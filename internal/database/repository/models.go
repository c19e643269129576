package repository

import "time"

// ScrollState is a saved header position, keyed by widget name.
type ScrollState struct {
	ID            string
	Name          string
	Offset        float64
	CollapseRange float64
	UpdatedAt     time.Time
}
