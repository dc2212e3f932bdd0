package domain

import "time"

// Leadtime is a conditional delivery-time entry of a Product. The first
// leadtime (by sort_order) whose condition is empty or evaluates truthy
// wins; Days is an opaque duration value.
type Leadtime struct {
	ID        int64
	ProductID int64
	Title     string
	Condition string
	Days      int
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}
