package domain

import "time"

// Factor is a configuration axis of a Product. Its Options are only
// meaningful while IsOptional is true; flipping the flag off orphans
// them logically and the service layer wipes them on the next update.
type Factor struct {
	ID         int64
	ProductID  int64
	Name       string
	IsOptional bool
	SortOrder  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Option is a discrete choice offered by an optional Factor.
type Option struct {
	ID        int64
	FactorID  int64
	Name      string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FactorTree is a Factor with its Options loaded.
type FactorTree struct {
	Factor  *Factor
	Options []*Option
}
