package domain

import "time"

// Cost is a priceable component of a Product. Its code is unique within
// the owning product. Pricing is decided by the first matching Rule.
type Cost struct {
	ID        int64
	ProductID int64
	Title     string
	Code      string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rule is a (condition, action) expression pair. An empty condition
// matches unconditionally. Rules are evaluated in insertion order.
type Rule struct {
	ID        int64
	CostID    int64
	Condition string
	Action    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CostTree is a Cost with its Rules loaded in insertion order.
type CostTree struct {
	Cost  *Cost
	Rules []*Rule
}
