// Package contract defines the payload types exchanged between adapters
// (CLI, import) and the catalog services. Struct tags drive payload
// validation; relational checks (code uniqueness) live in the validate
// package.
package contract

// SaveVersion is the payload for creating or updating a Version. The
// lifecycle flags are never part of it: they change only through the
// gated lock/unlock/activate operations.
type SaveVersion struct {
	Name string `validate:"required,max=255"`
}

// SaveProduct is the payload for creating or updating a Product.
type SaveProduct struct {
	Name      string `validate:"required,max=255"`
	Code      string `validate:"required,max=255"`
	SortOrder int    `validate:"min=0"`
}

// SaveFactor is the payload for creating or updating a Factor. Options
// are only honored while IsOptional is true; an update without options
// (or with IsOptional false) wipes all existing options.
type SaveFactor struct {
	Name       string       `validate:"required,max=255"`
	IsOptional bool
	SortOrder  int          `validate:"min=0"`
	Options    []SaveOption `validate:"dive"`
}

// SaveOption is a child item of a SaveFactor payload. ID zero means
// create; a known id updates in place.
type SaveOption struct {
	ID        int64
	Name      string `validate:"required,max=255"`
	SortOrder int    `validate:"min=0"`
}

// SaveCost is the payload for creating or updating a Cost. An update
// without rules wipes all existing rules.
type SaveCost struct {
	Title     string     `validate:"required,max=255"`
	Code      string     `validate:"required,max=255"`
	SortOrder int        `validate:"min=0"`
	Rules     []SaveRule `validate:"dive"`
}

// SaveRule is a child item of a SaveCost payload. An empty condition
// matches unconditionally; the action expression is mandatory.
type SaveRule struct {
	ID        int64
	Condition string
	Action    string `validate:"required"`
}

// SaveLeadtime is the payload for creating or updating a Leadtime.
type SaveLeadtime struct {
	Title     string `validate:"required,max=255"`
	Condition string
	Days      int `validate:"min=0"`
	SortOrder int `validate:"min=0"`
}

// SortEntry assigns a sort_order to an entity id. Unknown ids are
// silently ignored by the sort operations.
type SortEntry struct {
	ID        int64 `validate:"required"`
	SortOrder int   `validate:"min=0"`
}

// FactorSortEntry is a SortEntry with nested option ordering, applied
// only while the factor is optional.
type FactorSortEntry struct {
	ID        int64       `validate:"required"`
	SortOrder int         `validate:"min=0"`
	Options   []SortEntry `validate:"dive"`
}
