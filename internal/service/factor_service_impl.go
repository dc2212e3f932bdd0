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

type factorService struct {
	factors  repository.FactorRepo
	products repository.ProductRepo
	versions repository.VersionRepo
	loader   *treeLoader
	uow      db.UnitOfWork
	gates    policy.Provider
}

func NewFactorService(conn db.DBTX, uow db.UnitOfWork, gates policy.Provider) FactorService {
	return &factorService{
		factors:  repository.NewSQLiteFactorRepo(conn),
		products: repository.NewSQLiteProductRepo(conn),
		versions: repository.NewSQLiteVersionRepo(conn),
		loader:   newTreeLoader(conn),
		uow:      uow,
		gates:    gates,
	}
}

func (s *factorService) Create(ctx context.Context, productID int64, in contract.SaveFactor) (*domain.FactorTree, error) {
	if _, err := editableVersionOfProduct(ctx, s.products, s.versions, s.gates, productID); err != nil {
		return nil, err
	}
	if err := validate.Factor(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	f := &domain.Factor{
		ProductID:  productID,
		Name:       in.Name,
		IsOptional: in.IsOptional,
		SortOrder:  in.SortOrder,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	tree := &domain.FactorTree{Factor: f}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteFactorRepo(tx).Create(ctx, f); err != nil {
			return err
		}
		if !in.IsOptional {
			return nil
		}
		txOptions := repository.NewSQLiteOptionRepo(tx)
		for _, po := range in.Options {
			o := &domain.Option{
				FactorID:  f.ID,
				Name:      po.Name,
				SortOrder: po.SortOrder,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := txOptions.Create(ctx, o); err != nil {
				return err
			}
			tree.Options = append(tree.Options, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func (s *factorService) GetTree(ctx context.Context, id int64) (*domain.FactorTree, error) {
	return s.loader.FactorTree(ctx, id)
}

func (s *factorService) ListByProduct(ctx context.Context, productID int64) ([]*domain.FactorTree, error) {
	factors, err := s.factors.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	trees := make([]*domain.FactorTree, 0, len(factors))
	for _, f := range factors {
		ft, err := s.loader.factorTreeOf(ctx, f)
		if err != nil {
			return nil, err
		}
		trees = append(trees, ft)
	}
	return trees, nil
}

// Update rewrites the factor and reconciles its options. Turning the
// optional flag off, or sending no options, deletes every option.
func (s *factorService) Update(ctx context.Context, id int64, in contract.SaveFactor) (*domain.FactorTree, error) {
	f, err := s.factors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := editableVersionOfProduct(ctx, s.products, s.versions, s.gates, f.ProductID); err != nil {
		return nil, err
	}
	if err := validate.Factor(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	f.Name = in.Name
	f.IsOptional = in.IsOptional
	f.SortOrder = in.SortOrder
	f.UpdatedAt = now
	tree := &domain.FactorTree{Factor: f}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteFactorRepo(tx).Update(ctx, f); err != nil {
			return err
		}

		txOptions := repository.NewSQLiteOptionRepo(tx)
		if !in.IsOptional {
			return txOptions.DeleteByFactor(ctx, f.ID)
		}

		existing, err := txOptions.ListByFactor(ctx, f.ID)
		if err != nil {
			return err
		}
		existingIDs := make([]int64, len(existing))
		byID := make(map[int64]*domain.Option, len(existing))
		for i, o := range existing {
			existingIDs[i] = o.ID
			byID[o.ID] = o
		}
		payloadIDs := make([]int64, len(in.Options))
		for i, po := range in.Options {
			payloadIDs[i] = po.ID
		}

		return syncChildren(ctx, existingIDs, payloadIDs,
			func(ctx context.Context, optionID int64) error {
				return txOptions.Delete(ctx, optionID)
			},
			func(ctx context.Context, idx int) error {
				o := byID[in.Options[idx].ID]
				o.Name = in.Options[idx].Name
				o.SortOrder = in.Options[idx].SortOrder
				o.UpdatedAt = now
				if err := txOptions.Update(ctx, o); err != nil {
					return err
				}
				tree.Options = append(tree.Options, o)
				return nil
			},
			func(ctx context.Context, idx int) error {
				o := &domain.Option{
					FactorID:  f.ID,
					Name:      in.Options[idx].Name,
					SortOrder: in.Options[idx].SortOrder,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := txOptions.Create(ctx, o); err != nil {
					return err
				}
				tree.Options = append(tree.Options, o)
				return nil
			},
		)
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// Delete removes the factor's options first, then the factor itself,
// gated on the owning version's deletability.
func (s *factorService) Delete(ctx context.Context, id int64) error {
	f, err := s.factors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := deletableVersionOfProduct(ctx, s.products, s.versions, s.gates, f.ProductID); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteOptionRepo(tx).DeleteByFactor(ctx, id); err != nil {
			return err
		}
		return repository.NewSQLiteFactorRepo(tx).Delete(ctx, id)
	})
}

// Sort applies the given orders to the product's factors, and to their
// options while a factor is optional. Unknown ids are skipped.
func (s *factorService) Sort(ctx context.Context, productID int64, entries []contract.FactorSortEntry) error {
	if _, err := editableVersionOfProduct(ctx, s.products, s.versions, s.gates, productID); err != nil {
		return err
	}
	if err := validate.FactorSortEntries(entries); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFactors := repository.NewSQLiteFactorRepo(tx)
		txOptions := repository.NewSQLiteOptionRepo(tx)

		existing, err := txFactors.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		byID := make(map[int64]*domain.Factor, len(existing))
		for _, f := range existing {
			byID[f.ID] = f
		}

		now := time.Now().UTC()
		for _, e := range entries {
			f, ok := byID[e.ID]
			if !ok {
				continue
			}
			f.SortOrder = e.SortOrder
			f.UpdatedAt = now
			if err := txFactors.Update(ctx, f); err != nil {
				return err
			}
			if !f.IsOptional || len(e.Options) == 0 {
				continue
			}

			options, err := txOptions.ListByFactor(ctx, f.ID)
			if err != nil {
				return err
			}
			optionByID := make(map[int64]*domain.Option, len(options))
			for _, o := range options {
				optionByID[o.ID] = o
			}
			for _, oe := range e.Options {
				o, ok := optionByID[oe.ID]
				if !ok {
					continue
				}
				o.SortOrder = oe.SortOrder
				o.UpdatedAt = now
				if err := txOptions.Update(ctx, o); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
