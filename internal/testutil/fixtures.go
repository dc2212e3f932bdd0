package testutil

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quotekit/cpq/internal/domain"
)

// Version options
type VersionOption func(*domain.Version)

func WithLocked() VersionOption {
	return func(v *domain.Version) {
		v.IsLocked = true
	}
}

func WithActive() VersionOption {
	return func(v *domain.Version) {
		v.IsLocked = true
		v.IsActive = true
	}
}

func WithUUID(u string) VersionOption {
	return func(v *domain.Version) {
		v.UUID = u
	}
}

// NewTestVersion builds an unlocked, inactive version. The ID is zero
// until a repository persists it.
func NewTestVersion(name string, opts ...VersionOption) *domain.Version {
	now := time.Now().UTC()
	v := &domain.Version{
		Name:      name,
		UUID:      uuid.New().String(),
		IsLocked:  false,
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Product options
type ProductOption func(*domain.Product)

func WithProductCode(code string) ProductOption {
	return func(p *domain.Product) {
		p.Code = code
	}
}

func WithProductSortOrder(o int) ProductOption {
	return func(p *domain.Product) {
		p.SortOrder = o
	}
}

func NewTestProduct(versionID int64, name string, opts ...ProductOption) *domain.Product {
	now := time.Now().UTC()
	p := &domain.Product{
		VersionID: versionID,
		Name:      name,
		Code:      strings.ToUpper(strings.ReplaceAll(name, " ", "-")),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Factor options
type FactorOption func(*domain.Factor)

func WithOptional() FactorOption {
	return func(f *domain.Factor) {
		f.IsOptional = true
	}
}

func WithFactorSortOrder(o int) FactorOption {
	return func(f *domain.Factor) {
		f.SortOrder = o
	}
}

func NewTestFactor(productID int64, name string, opts ...FactorOption) *domain.Factor {
	now := time.Now().UTC()
	f := &domain.Factor{
		ProductID: productID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Option options
type OptionOption func(*domain.Option)

func WithOptionSortOrder(o int) OptionOption {
	return func(op *domain.Option) {
		op.SortOrder = o
	}
}

func NewTestOption(factorID int64, name string, opts ...OptionOption) *domain.Option {
	now := time.Now().UTC()
	op := &domain.Option{
		FactorID:  factorID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(op)
	}
	return op
}

// Cost options
type CostOption func(*domain.Cost)

func WithCostSortOrder(o int) CostOption {
	return func(c *domain.Cost) {
		c.SortOrder = o
	}
}

func NewTestCost(productID int64, title, code string, opts ...CostOption) *domain.Cost {
	now := time.Now().UTC()
	c := &domain.Cost{
		ProductID: productID,
		Title:     title,
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewTestRule(costID int64, condition, action string) *domain.Rule {
	now := time.Now().UTC()
	return &domain.Rule{
		CostID:    costID,
		Condition: condition,
		Action:    action,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Leadtime options
type LeadtimeOption func(*domain.Leadtime)

func WithLeadtimeSortOrder(o int) LeadtimeOption {
	return func(lt *domain.Leadtime) {
		lt.SortOrder = o
	}
}

func NewTestLeadtime(productID int64, title, condition string, days int, opts ...LeadtimeOption) *domain.Leadtime {
	now := time.Now().UTC()
	lt := &domain.Leadtime{
		ProductID: productID,
		Title:     title,
		Condition: condition,
		Days:      days,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(lt)
	}
	return lt
}
