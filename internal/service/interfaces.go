package service

import (
	"context"

	"github.com/quotekit/cpq/internal/contract"
	"github.com/quotekit/cpq/internal/domain"
	"github.com/quotekit/cpq/internal/importer"
	"github.com/quotekit/cpq/internal/quote"
	"github.com/quotekit/cpq/internal/repository"
)

type VersionService interface {
	Create(ctx context.Context, in contract.SaveVersion) (*domain.Version, error)
	GetByID(ctx context.Context, id int64) (*domain.Version, error)
	GetTree(ctx context.Context, id int64) (*domain.VersionTree, error)
	List(ctx context.Context, page int) (*repository.VersionPage, error)
	Update(ctx context.Context, id int64, in contract.SaveVersion) (*domain.Version, error)
	Delete(ctx context.Context, id int64) error
	Lock(ctx context.Context, id int64) (*domain.Version, error)
	Unlock(ctx context.Context, id int64) (*domain.Version, error)
	Activate(ctx context.Context, id int64) (*domain.Version, error)
	Replicate(ctx context.Context, id int64) (*domain.VersionTree, error)
}

type ProductService interface {
	Create(ctx context.Context, versionID int64, in contract.SaveProduct) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetTree(ctx context.Context, id int64) (*domain.ProductTree, error)
	ListByVersion(ctx context.Context, versionID int64) ([]*domain.Product, error)
	Update(ctx context.Context, id int64, in contract.SaveProduct) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Sort(ctx context.Context, versionID int64, entries []contract.SortEntry) error
}

type FactorService interface {
	Create(ctx context.Context, productID int64, in contract.SaveFactor) (*domain.FactorTree, error)
	GetTree(ctx context.Context, id int64) (*domain.FactorTree, error)
	ListByProduct(ctx context.Context, productID int64) ([]*domain.FactorTree, error)
	Update(ctx context.Context, id int64, in contract.SaveFactor) (*domain.FactorTree, error)
	Delete(ctx context.Context, id int64) error
	Sort(ctx context.Context, productID int64, entries []contract.FactorSortEntry) error
}

type CostService interface {
	Create(ctx context.Context, productID int64, in contract.SaveCost) (*domain.CostTree, error)
	GetTree(ctx context.Context, id int64) (*domain.CostTree, error)
	ListByProduct(ctx context.Context, productID int64) ([]*domain.CostTree, error)
	Update(ctx context.Context, id int64, in contract.SaveCost) (*domain.CostTree, error)
	Delete(ctx context.Context, id int64) error
	Sort(ctx context.Context, productID int64, entries []contract.SortEntry) error
}

type LeadtimeService interface {
	Create(ctx context.Context, productID int64, in contract.SaveLeadtime) (*domain.Leadtime, error)
	GetByID(ctx context.Context, id int64) (*domain.Leadtime, error)
	ListByProduct(ctx context.Context, productID int64) ([]*domain.Leadtime, error)
	Update(ctx context.Context, id int64, in contract.SaveLeadtime) (*domain.Leadtime, error)
	Delete(ctx context.Context, id int64) error
	Sort(ctx context.Context, productID int64, entries []contract.SortEntry) error
}

type QuoteService interface {
	QuoteProduct(ctx context.Context, productID int64, params map[string]any) (*quote.ProductQuote, error)
}

// ImportResult holds the outcome of a factor import.
type ImportResult struct {
	FactorCount int
	OptionCount int
}

type ImportService interface {
	ImportFactors(ctx context.Context, productID int64, filePath string) (*ImportResult, error)
	ImportFactorsFromSchema(ctx context.Context, productID int64, schema *importer.FactorSchema) (*ImportResult, error)
}
