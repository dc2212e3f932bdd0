package repository

import (
	"context"

	"github.com/quotekit/cpq/internal/domain"
)

// VersionPage is one page of versions plus the total row count, newest first.
type VersionPage struct {
	Versions []*domain.Version
	Total    int
	Page     int
	PerPage  int
}

type VersionRepo interface {
	Create(ctx context.Context, v *domain.Version) error
	GetByID(ctx context.Context, id int64) (*domain.Version, error)
	GetByUUID(ctx context.Context, uuid string) (*domain.Version, error)
	List(ctx context.Context, page, perPage int) (*VersionPage, error)
	Update(ctx context.Context, v *domain.Version) error
	Delete(ctx context.Context, id int64) error
}

type ProductRepo interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	ListByVersion(ctx context.Context, versionID int64) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

type FactorRepo interface {
	Create(ctx context.Context, f *domain.Factor) error
	GetByID(ctx context.Context, id int64) (*domain.Factor, error)
	ListByProduct(ctx context.Context, productID int64) ([]*domain.Factor, error)
	Update(ctx context.Context, f *domain.Factor) error
	Delete(ctx context.Context, id int64) error
}

type OptionRepo interface {
	Create(ctx context.Context, o *domain.Option) error
	GetByID(ctx context.Context, id int64) (*domain.Option, error)
	ListByFactor(ctx context.Context, factorID int64) ([]*domain.Option, error)
	Update(ctx context.Context, o *domain.Option) error
	Delete(ctx context.Context, id int64) error
	DeleteByFactor(ctx context.Context, factorID int64) error
}

type CostRepo interface {
	Create(ctx context.Context, c *domain.Cost) error
	GetByID(ctx context.Context, id int64) (*domain.Cost, error)
	// GetByCode finds a cost by its per-product unique code.
	GetByCode(ctx context.Context, productID int64, code string) (*domain.Cost, error)
	ListByProduct(ctx context.Context, productID int64) ([]*domain.Cost, error)
	Update(ctx context.Context, c *domain.Cost) error
	Delete(ctx context.Context, id int64) error
}

type RuleRepo interface {
	Create(ctx context.Context, r *domain.Rule) error
	GetByID(ctx context.Context, id int64) (*domain.Rule, error)
	// ListByCost returns rules in insertion order; the quote engine
	// relies on this for first-match-wins selection.
	ListByCost(ctx context.Context, costID int64) ([]*domain.Rule, error)
	Update(ctx context.Context, r *domain.Rule) error
	Delete(ctx context.Context, id int64) error
	DeleteByCost(ctx context.Context, costID int64) error
}

type LeadtimeRepo interface {
	Create(ctx context.Context, l *domain.Leadtime) error
	GetByID(ctx context.Context, id int64) (*domain.Leadtime, error)
	ListByProduct(ctx context.Context, productID int64) ([]*domain.Leadtime, error)
	Update(ctx context.Context, l *domain.Leadtime) error
	Delete(ctx context.Context, id int64) error
	DeleteByProduct(ctx context.Context, productID int64) error
}
