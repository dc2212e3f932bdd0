package domain

import "time"

// Product is a sellable item within a Version, composed of configurable
// Factors, priced Costs and conditional Leadtimes.
type Product struct {
	ID        int64
	VersionID int64
	Name      string
	Code      string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductTree is a Product with all owned children loaded. The quote
// engine evaluates against this aggregate; costs are ordered by
// sort_order (ties by id) and leadtimes by sort_order, matching the
// repositories' canonical ordering.
type ProductTree struct {
	Product   *Product
	Factors   []*FactorTree
	Costs     []*CostTree
	Leadtimes []*Leadtime
}
