package service

import (
	"context"
	"fmt"

	"github.com/quotekit/cpq/internal/db"
	"github.com/quotekit/cpq/internal/domain"
	"github.com/quotekit/cpq/internal/policy"
	"github.com/quotekit/cpq/internal/repository"
)

// treeLoader assembles entity aggregates through any DBTX, so the same
// code serves reads on the live connection and loads inside a
// transaction.
type treeLoader struct {
	versions  repository.VersionRepo
	products  repository.ProductRepo
	factors   repository.FactorRepo
	options   repository.OptionRepo
	costs     repository.CostRepo
	rules     repository.RuleRepo
	leadtimes repository.LeadtimeRepo
}

func newTreeLoader(conn db.DBTX) *treeLoader {
	return &treeLoader{
		versions:  repository.NewSQLiteVersionRepo(conn),
		products:  repository.NewSQLiteProductRepo(conn),
		factors:   repository.NewSQLiteFactorRepo(conn),
		options:   repository.NewSQLiteOptionRepo(conn),
		costs:     repository.NewSQLiteCostRepo(conn),
		rules:     repository.NewSQLiteRuleRepo(conn),
		leadtimes: repository.NewSQLiteLeadtimeRepo(conn),
	}
}

func (l *treeLoader) VersionTree(ctx context.Context, id int64) (*domain.VersionTree, error) {
	v, err := l.versions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := l.products.ListByVersion(ctx, id)
	if err != nil {
		return nil, err
	}
	tree := &domain.VersionTree{Version: v, Products: make([]*domain.ProductTree, 0, len(products))}
	for _, p := range products {
		pt, err := l.productTreeOf(ctx, p)
		if err != nil {
			return nil, err
		}
		tree.Products = append(tree.Products, pt)
	}
	return tree, nil
}

func (l *treeLoader) ProductTree(ctx context.Context, id int64) (*domain.ProductTree, error) {
	p, err := l.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return l.productTreeOf(ctx, p)
}

func (l *treeLoader) productTreeOf(ctx context.Context, p *domain.Product) (*domain.ProductTree, error) {
	tree := &domain.ProductTree{Product: p}

	factors, err := l.factors.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	for _, f := range factors {
		ft, err := l.factorTreeOf(ctx, f)
		if err != nil {
			return nil, err
		}
		tree.Factors = append(tree.Factors, ft)
	}

	costs, err := l.costs.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range costs {
		ct, err := l.costTreeOf(ctx, c)
		if err != nil {
			return nil, err
		}
		tree.Costs = append(tree.Costs, ct)
	}

	tree.Leadtimes, err = l.leadtimes.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func (l *treeLoader) FactorTree(ctx context.Context, id int64) (*domain.FactorTree, error) {
	f, err := l.factors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return l.factorTreeOf(ctx, f)
}

func (l *treeLoader) factorTreeOf(ctx context.Context, f *domain.Factor) (*domain.FactorTree, error) {
	options, err := l.options.ListByFactor(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	return &domain.FactorTree{Factor: f, Options: options}, nil
}

func (l *treeLoader) CostTree(ctx context.Context, id int64) (*domain.CostTree, error) {
	c, err := l.costs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return l.costTreeOf(ctx, c)
}

func (l *treeLoader) costTreeOf(ctx context.Context, c *domain.Cost) (*domain.CostTree, error) {
	rules, err := l.rules.ListByCost(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &domain.CostTree{Cost: c, Rules: rules}, nil
}

// gatedVersion loads a version and enforces one capability gate.
func gatedVersion(ctx context.Context, versions repository.VersionRepo, id int64, allowed func(*domain.Version) bool, gateErr error) (*domain.Version, error) {
	v, err := versions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowed(v) {
		return nil, fmt.Errorf("version %d: %w", v.ID, gateErr)
	}
	return v, nil
}

// editableVersion enforces the edit gate on the version that owns a
// pending write.
func editableVersion(ctx context.Context, versions repository.VersionRepo, gates policy.Provider, id int64) (*domain.Version, error) {
	return gatedVersion(ctx, versions, id, gates.IsEditable, ErrNotEditable)
}

// gatedVersionOfProduct resolves a product's owning version and enforces
// one capability gate on it.
func gatedVersionOfProduct(ctx context.Context, products repository.ProductRepo, versions repository.VersionRepo, productID int64, allowed func(*domain.Version) bool, gateErr error) (*domain.Product, error) {
	p, err := products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if _, err := gatedVersion(ctx, versions, p.VersionID, allowed, gateErr); err != nil {
		return nil, err
	}
	return p, nil
}

// editableVersionOfProduct resolves a product's owning version and
// enforces the edit gate on it.
func editableVersionOfProduct(ctx context.Context, products repository.ProductRepo, versions repository.VersionRepo, gates policy.Provider, productID int64) (*domain.Product, error) {
	return gatedVersionOfProduct(ctx, products, versions, productID, gates.IsEditable, ErrNotEditable)
}

// deletableVersionOfProduct resolves a product's owning version and
// enforces the delete gate on it. Child deletes answer to the version's
// deletability, not its editability.
func deletableVersionOfProduct(ctx context.Context, products repository.ProductRepo, versions repository.VersionRepo, gates policy.Provider, productID int64) (*domain.Product, error) {
	return gatedVersionOfProduct(ctx, products, versions, productID, gates.IsDeletable, ErrNotDeletable)
}

// deleteProductTree removes a product and everything it owns,
// children first. Callers run it inside a transaction.
func deleteProductTree(ctx context.Context, tx db.DBTX, tree *domain.ProductTree) error {
	options := repository.NewSQLiteOptionRepo(tx)
	factors := repository.NewSQLiteFactorRepo(tx)
	for _, ft := range tree.Factors {
		if err := options.DeleteByFactor(ctx, ft.Factor.ID); err != nil {
			return err
		}
		if err := factors.Delete(ctx, ft.Factor.ID); err != nil {
			return err
		}
	}

	rules := repository.NewSQLiteRuleRepo(tx)
	costs := repository.NewSQLiteCostRepo(tx)
	for _, ct := range tree.Costs {
		if err := rules.DeleteByCost(ctx, ct.Cost.ID); err != nil {
			return err
		}
		if err := costs.Delete(ctx, ct.Cost.ID); err != nil {
			return err
		}
	}

	if err := repository.NewSQLiteLeadtimeRepo(tx).DeleteByProduct(ctx, tree.Product.ID); err != nil {
		return err
	}
	return repository.NewSQLiteProductRepo(tx).Delete(ctx, tree.Product.ID)
}
