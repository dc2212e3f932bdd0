package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quotekit/cpq/internal/contract"
	"github.com/quotekit/cpq/internal/db"
	"github.com/quotekit/cpq/internal/domain"
	"github.com/quotekit/cpq/internal/policy"
	"github.com/quotekit/cpq/internal/repository"
	"github.com/quotekit/cpq/internal/validate"
)

type versionService struct {
	versions repository.VersionRepo
	loader   *treeLoader
	uow      db.UnitOfWork
	gates    policy.Provider
	observer UseCaseObserver
}

// NewVersionService creates the version service. conn serves reads;
// every multi-row write runs through uow.
func NewVersionService(conn db.DBTX, uow db.UnitOfWork, gates policy.Provider, observers ...UseCaseObserver) VersionService {
	return &versionService{
		versions: repository.NewSQLiteVersionRepo(conn),
		loader:   newTreeLoader(conn),
		uow:      uow,
		gates:    gates,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *versionService) Create(ctx context.Context, in contract.SaveVersion) (*domain.Version, error) {
	if err := validate.Version(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	v := &domain.Version{
		Name:      in.Name,
		UUID:      uuid.New().String(),
		IsLocked:  false,
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.versions.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *versionService) GetByID(ctx context.Context, id int64) (*domain.Version, error) {
	return s.versions.GetByID(ctx, id)
}

func (s *versionService) GetTree(ctx context.Context, id int64) (*domain.VersionTree, error) {
	return s.loader.VersionTree(ctx, id)
}

func (s *versionService) List(ctx context.Context, page int) (*repository.VersionPage, error) {
	return s.versions.List(ctx, page, 20)
}

func (s *versionService) Update(ctx context.Context, id int64, in contract.SaveVersion) (*domain.Version, error) {
	v, err := editableVersion(ctx, s.versions, s.gates, id)
	if err != nil {
		return nil, err
	}
	if err := validate.Version(in); err != nil {
		return nil, err
	}
	v.Name = in.Name
	v.UpdatedAt = time.Now().UTC()
	if err := s.versions.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes the version and its whole product subtree, children
// first, in a single transaction.
func (s *versionService) Delete(ctx context.Context, id int64) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "version-delete",
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"version_id": id},
			StartedAt: startedAt,
		})
	}()

	if _, err = gatedVersion(ctx, s.versions, id, s.gates.IsDeletable, ErrNotDeletable); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tree, err := newTreeLoader(tx).VersionTree(ctx, id)
		if err != nil {
			return err
		}
		for _, pt := range tree.Products {
			if err := deleteProductTree(ctx, tx, pt); err != nil {
				return err
			}
		}
		return repository.NewSQLiteVersionRepo(tx).Delete(ctx, id)
	})
}

func (s *versionService) Lock(ctx context.Context, id int64) (*domain.Version, error) {
	return s.setFlags(ctx, id, s.gates.IsLockable, ErrNotLockable, func(v *domain.Version) {
		v.IsLocked = true
	})
}

func (s *versionService) Unlock(ctx context.Context, id int64) (*domain.Version, error) {
	return s.setFlags(ctx, id, s.gates.IsUnlockable, ErrNotUnlockable, func(v *domain.Version) {
		v.IsLocked = false
	})
}

func (s *versionService) Activate(ctx context.Context, id int64) (*domain.Version, error) {
	return s.setFlags(ctx, id, s.gates.IsActivable, ErrNotActivable, func(v *domain.Version) {
		v.IsActive = true
	})
}

func (s *versionService) setFlags(ctx context.Context, id int64, allowed func(*domain.Version) bool, gateErr error, apply func(*domain.Version)) (*domain.Version, error) {
	v, err := gatedVersion(ctx, s.versions, id, allowed, gateErr)
	if err != nil {
		return nil, err
	}
	apply(v)
	v.UpdatedAt = time.Now().UTC()
	if err := s.versions.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Replicate deep-copies the version subtree under a fresh uuid with the
// lifecycle flags reset. The source may be locked or active; replication
// is how a frozen catalog gets a new editable draft.
func (s *versionService) Replicate(ctx context.Context, id int64) (tree *domain.VersionTree, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "version-replicate",
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"source_version_id": id},
			StartedAt: startedAt,
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		src, err := newTreeLoader(tx).VersionTree(ctx, id)
		if err != nil {
			return err
		}
		tree, err = replicateTree(ctx, tx, src)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func replicateTree(ctx context.Context, tx db.DBTX, src *domain.VersionTree) (*domain.VersionTree, error) {
	now := time.Now().UTC()

	versions := repository.NewSQLiteVersionRepo(tx)
	products := repository.NewSQLiteProductRepo(tx)
	factors := repository.NewSQLiteFactorRepo(tx)
	options := repository.NewSQLiteOptionRepo(tx)
	costs := repository.NewSQLiteCostRepo(tx)
	rules := repository.NewSQLiteRuleRepo(tx)
	leadtimes := repository.NewSQLiteLeadtimeRepo(tx)

	v := &domain.Version{
		Name:      src.Version.Name,
		UUID:      uuid.New().String(),
		IsLocked:  false,
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := versions.Create(ctx, v); err != nil {
		return nil, err
	}
	tree := &domain.VersionTree{Version: v}

	for _, pt := range src.Products {
		p := *pt.Product
		p.ID = 0
		p.VersionID = v.ID
		p.CreatedAt, p.UpdatedAt = now, now
		if err := products.Create(ctx, &p); err != nil {
			return nil, err
		}
		newPT := &domain.ProductTree{Product: &p}

		for _, ft := range pt.Factors {
			f := *ft.Factor
			f.ID = 0
			f.ProductID = p.ID
			f.CreatedAt, f.UpdatedAt = now, now
			if err := factors.Create(ctx, &f); err != nil {
				return nil, err
			}
			newFT := &domain.FactorTree{Factor: &f}
			for _, opt := range ft.Options {
				o := *opt
				o.ID = 0
				o.FactorID = f.ID
				o.CreatedAt, o.UpdatedAt = now, now
				if err := options.Create(ctx, &o); err != nil {
					return nil, err
				}
				newFT.Options = append(newFT.Options, &o)
			}
			newPT.Factors = append(newPT.Factors, newFT)
		}

		for _, ct := range pt.Costs {
			c := *ct.Cost
			c.ID = 0
			c.ProductID = p.ID
			c.CreatedAt, c.UpdatedAt = now, now
			if err := costs.Create(ctx, &c); err != nil {
				return nil, err
			}
			newCT := &domain.CostTree{Cost: &c}
			for _, rule := range ct.Rules {
				r := *rule
				r.ID = 0
				r.CostID = c.ID
				r.CreatedAt, r.UpdatedAt = now, now
				if err := rules.Create(ctx, &r); err != nil {
					return nil, err
				}
				newCT.Rules = append(newCT.Rules, &r)
			}
			newPT.Costs = append(newPT.Costs, newCT)
		}

		for _, lt := range pt.Leadtimes {
			l := *lt
			l.ID = 0
			l.ProductID = p.ID
			l.CreatedAt, l.UpdatedAt = now, now
			if err := leadtimes.Create(ctx, &l); err != nil {
				return nil, err
			}
			newPT.Leadtimes = append(newPT.Leadtimes, &l)
		}

		tree.Products = append(tree.Products, newPT)
	}

	return tree, nil
}
