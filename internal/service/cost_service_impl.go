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

type costService struct {
	costs    repository.CostRepo
	products repository.ProductRepo
	versions repository.VersionRepo
	loader   *treeLoader
	uow      db.UnitOfWork
	gates    policy.Provider
}

func NewCostService(conn db.DBTX, uow db.UnitOfWork, gates policy.Provider) CostService {
	return &costService{
		costs:    repository.NewSQLiteCostRepo(conn),
		products: repository.NewSQLiteProductRepo(conn),
		versions: repository.NewSQLiteVersionRepo(conn),
		loader:   newTreeLoader(conn),
		uow:      uow,
		gates:    gates,
	}
}

func (s *costService) Create(ctx context.Context, productID int64, in contract.SaveCost) (*domain.CostTree, error) {
	if _, err := editableVersionOfProduct(ctx, s.products, s.versions, s.gates, productID); err != nil {
		return nil, err
	}
	if err := validate.Cost(ctx, s.costs, productID, in, 0); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &domain.Cost{
		ProductID: productID,
		Title:     in.Title,
		Code:      in.Code,
		SortOrder: in.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	tree := &domain.CostTree{Cost: c}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteCostRepo(tx).Create(ctx, c); err != nil {
			return err
		}
		txRules := repository.NewSQLiteRuleRepo(tx)
		for _, pr := range in.Rules {
			r := &domain.Rule{
				CostID:    c.ID,
				Condition: pr.Condition,
				Action:    pr.Action,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := txRules.Create(ctx, r); err != nil {
				return err
			}
			tree.Rules = append(tree.Rules, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func (s *costService) GetTree(ctx context.Context, id int64) (*domain.CostTree, error) {
	return s.loader.CostTree(ctx, id)
}

func (s *costService) ListByProduct(ctx context.Context, productID int64) ([]*domain.CostTree, error) {
	costs, err := s.costs.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	trees := make([]*domain.CostTree, 0, len(costs))
	for _, c := range costs {
		ct, err := s.loader.costTreeOf(ctx, c)
		if err != nil {
			return nil, err
		}
		trees = append(trees, ct)
	}
	return trees, nil
}

// Update rewrites the cost and reconciles its rules. An update without
// rules deletes every rule.
func (s *costService) Update(ctx context.Context, id int64, in contract.SaveCost) (*domain.CostTree, error) {
	c, err := s.costs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := editableVersionOfProduct(ctx, s.products, s.versions, s.gates, c.ProductID); err != nil {
		return nil, err
	}
	if err := validate.Cost(ctx, s.costs, c.ProductID, in, c.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c.Title = in.Title
	c.Code = in.Code
	c.SortOrder = in.SortOrder
	c.UpdatedAt = now
	tree := &domain.CostTree{Cost: c}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteCostRepo(tx).Update(ctx, c); err != nil {
			return err
		}

		txRules := repository.NewSQLiteRuleRepo(tx)
		existing, err := txRules.ListByCost(ctx, c.ID)
		if err != nil {
			return err
		}
		existingIDs := make([]int64, len(existing))
		byID := make(map[int64]*domain.Rule, len(existing))
		for i, r := range existing {
			existingIDs[i] = r.ID
			byID[r.ID] = r
		}
		payloadIDs := make([]int64, len(in.Rules))
		for i, pr := range in.Rules {
			payloadIDs[i] = pr.ID
		}

		return syncChildren(ctx, existingIDs, payloadIDs,
			func(ctx context.Context, ruleID int64) error {
				return txRules.Delete(ctx, ruleID)
			},
			func(ctx context.Context, idx int) error {
				r := byID[in.Rules[idx].ID]
				r.Condition = in.Rules[idx].Condition
				r.Action = in.Rules[idx].Action
				r.UpdatedAt = now
				if err := txRules.Update(ctx, r); err != nil {
					return err
				}
				tree.Rules = append(tree.Rules, r)
				return nil
			},
			func(ctx context.Context, idx int) error {
				r := &domain.Rule{
					CostID:    c.ID,
					Condition: in.Rules[idx].Condition,
					Action:    in.Rules[idx].Action,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := txRules.Create(ctx, r); err != nil {
					return err
				}
				tree.Rules = append(tree.Rules, r)
				return nil
			},
		)
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// Delete removes the cost's rules first, then the cost itself, gated on
// the owning version's deletability.
func (s *costService) Delete(ctx context.Context, id int64) error {
	c, err := s.costs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := deletableVersionOfProduct(ctx, s.products, s.versions, s.gates, c.ProductID); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteRuleRepo(tx).DeleteByCost(ctx, id); err != nil {
			return err
		}
		return repository.NewSQLiteCostRepo(tx).Delete(ctx, id)
	})
}

// Sort applies the given orders to the product's costs. Unknown ids are
// skipped.
func (s *costService) Sort(ctx context.Context, productID int64, entries []contract.SortEntry) error {
	if _, err := editableVersionOfProduct(ctx, s.products, s.versions, s.gates, productID); err != nil {
		return err
	}
	if err := validate.SortEntries(entries); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCosts := repository.NewSQLiteCostRepo(tx)
		existing, err := txCosts.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		byID := make(map[int64]*domain.Cost, len(existing))
		for _, c := range existing {
			byID[c.ID] = c
		}
		now := time.Now().UTC()
		for _, e := range entries {
			c, ok := byID[e.ID]
			if !ok {
				continue
			}
			c.SortOrder = e.SortOrder
			c.UpdatedAt = now
			if err := txCosts.Update(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}
