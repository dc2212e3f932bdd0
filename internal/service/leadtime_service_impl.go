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

type leadtimeService struct {
	leadtimes repository.LeadtimeRepo
	products  repository.ProductRepo
	versions  repository.VersionRepo
	uow       db.UnitOfWork
	gates     policy.Provider
}

func NewLeadtimeService(conn db.DBTX, uow db.UnitOfWork, gates policy.Provider) LeadtimeService {
	return &leadtimeService{
		leadtimes: repository.NewSQLiteLeadtimeRepo(conn),
		products:  repository.NewSQLiteProductRepo(conn),
		versions:  repository.NewSQLiteVersionRepo(conn),
		uow:       uow,
		gates:     gates,
	}
}

func (s *leadtimeService) Create(ctx context.Context, productID int64, in contract.SaveLeadtime) (*domain.Leadtime, error) {
	if _, err := editableVersionOfProduct(ctx, s.products, s.versions, s.gates, productID); err != nil {
		return nil, err
	}
	if err := validate.Leadtime(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	lt := &domain.Leadtime{
		ProductID: productID,
		Title:     in.Title,
		Condition: in.Condition,
		Days:      in.Days,
		SortOrder: in.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.leadtimes.Create(ctx, lt); err != nil {
		return nil, err
	}
	return lt, nil
}

func (s *leadtimeService) GetByID(ctx context.Context, id int64) (*domain.Leadtime, error) {
	return s.leadtimes.GetByID(ctx, id)
}

func (s *leadtimeService) ListByProduct(ctx context.Context, productID int64) ([]*domain.Leadtime, error) {
	return s.leadtimes.ListByProduct(ctx, productID)
}

func (s *leadtimeService) Update(ctx context.Context, id int64, in contract.SaveLeadtime) (*domain.Leadtime, error) {
	lt, err := s.leadtimes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := editableVersionOfProduct(ctx, s.products, s.versions, s.gates, lt.ProductID); err != nil {
		return nil, err
	}
	if err := validate.Leadtime(in); err != nil {
		return nil, err
	}
	lt.Title = in.Title
	lt.Condition = in.Condition
	lt.Days = in.Days
	lt.SortOrder = in.SortOrder
	lt.UpdatedAt = time.Now().UTC()
	if err := s.leadtimes.Update(ctx, lt); err != nil {
		return nil, err
	}
	return lt, nil
}

// Delete is gated on the owning version's deletability.
func (s *leadtimeService) Delete(ctx context.Context, id int64) error {
	lt, err := s.leadtimes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := deletableVersionOfProduct(ctx, s.products, s.versions, s.gates, lt.ProductID); err != nil {
		return err
	}
	return s.leadtimes.Delete(ctx, id)
}

// Sort applies the given orders to the product's leadtimes. Unknown ids
// are skipped.
func (s *leadtimeService) Sort(ctx context.Context, productID int64, entries []contract.SortEntry) error {
	if _, err := editableVersionOfProduct(ctx, s.products, s.versions, s.gates, productID); err != nil {
		return err
	}
	if err := validate.SortEntries(entries); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLeadtimes := repository.NewSQLiteLeadtimeRepo(tx)
		existing, err := txLeadtimes.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		byID := make(map[int64]*domain.Leadtime, len(existing))
		for _, lt := range existing {
			byID[lt.ID] = lt
		}
		now := time.Now().UTC()
		for _, e := range entries {
			lt, ok := byID[e.ID]
			if !ok {
				continue
			}
			lt.SortOrder = e.SortOrder
			lt.UpdatedAt = now
			if err := txLeadtimes.Update(ctx, lt); err != nil {
				return err
			}
		}
		return nil
	})
}
