package service

import (
	"context"
	"time"

	"github.com/quotekit/cpq/internal/contract"
	"github.com/quotekit/cpq/internal/db"
	"github.com/quotekit/cpq/internal/domain"
	"github.com/quotekit/cpq/internal/policy"
	"github.com/quotekit/cpq/internal/repository"
	"github.com/quotekit/cpq/internal/validate"
)

type productService struct {
	products repository.ProductRepo
	versions repository.VersionRepo
	loader   *treeLoader
	uow      db.UnitOfWork
	gates    policy.Provider
}

func NewProductService(conn db.DBTX, uow db.UnitOfWork, gates policy.Provider) ProductService {
	return &productService{
		products: repository.NewSQLiteProductRepo(conn),
		versions: repository.NewSQLiteVersionRepo(conn),
		loader:   newTreeLoader(conn),
		uow:      uow,
		gates:    gates,
	}
}

func (s *productService) Create(ctx context.Context, versionID int64, in contract.SaveProduct) (*domain.Product, error) {
	if _, err := editableVersion(ctx, s.versions, s.gates, versionID); err != nil {
		return nil, err
	}
	if err := validate.Product(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &domain.Product{
		VersionID: versionID,
		Name:      in.Name,
		Code:      in.Code,
		SortOrder: in.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *productService) GetTree(ctx context.Context, id int64) (*domain.ProductTree, error) {
	return s.loader.ProductTree(ctx, id)
}

func (s *productService) ListByVersion(ctx context.Context, versionID int64) ([]*domain.Product, error) {
	return s.products.ListByVersion(ctx, versionID)
}

func (s *productService) Update(ctx context.Context, id int64, in contract.SaveProduct) (*domain.Product, error) {
	p, err := editableVersionOfProduct(ctx, s.products, s.versions, s.gates, id)
	if err != nil {
		return nil, err
	}
	if err := validate.Product(in); err != nil {
		return nil, err
	}
	p.Name = in.Name
	p.Code = in.Code
	p.SortOrder = in.SortOrder
	p.UpdatedAt = time.Now().UTC()
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the product and everything it owns in one transaction,
// gated on the owning version's deletability.
func (s *productService) Delete(ctx context.Context, id int64) error {
	if _, err := deletableVersionOfProduct(ctx, s.products, s.versions, s.gates, id); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tree, err := newTreeLoader(tx).ProductTree(ctx, id)
		if err != nil {
			return err
		}
		return deleteProductTree(ctx, tx, tree)
	})
}

// Sort applies the given orders to the version's products. Ids that do
// not belong to the version are skipped without error.
func (s *productService) Sort(ctx context.Context, versionID int64, entries []contract.SortEntry) error {
	if _, err := editableVersion(ctx, s.versions, s.gates, versionID); err != nil {
		return err
	}
	if err := validate.SortEntries(entries); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProducts := repository.NewSQLiteProductRepo(tx)
		existing, err := txProducts.ListByVersion(ctx, versionID)
		if err != nil {
			return err
		}
		byID := make(map[int64]*domain.Product, len(existing))
		for _, p := range existing {
			byID[p.ID] = p
		}
		now := time.Now().UTC()
		for _, e := range entries {
			p, ok := byID[e.ID]
			if !ok {
				continue
			}
			p.SortOrder = e.SortOrder
			p.UpdatedAt = now
			if err := txProducts.Update(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
}
