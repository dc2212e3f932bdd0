package service

import (
	"context"
	"fmt"
	"time"

	"github.com/quotekit/cpq/internal/db"
	"github.com/quotekit/cpq/internal/domain"
	"github.com/quotekit/cpq/internal/importer"
	"github.com/quotekit/cpq/internal/policy"
	"github.com/quotekit/cpq/internal/repository"
	"github.com/quotekit/cpq/internal/validate"
)

type importService struct {
	products repository.ProductRepo
	versions repository.VersionRepo
	uow      db.UnitOfWork
	gates    policy.Provider
	observer UseCaseObserver
}

func NewImportService(conn db.DBTX, uow db.UnitOfWork, gates policy.Provider, observers ...UseCaseObserver) ImportService {
	return &importService{
		products: repository.NewSQLiteProductRepo(conn),
		versions: repository.NewSQLiteVersionRepo(conn),
		uow:      uow,
		gates:    gates,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFactors(ctx context.Context, productID int64, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadFactorSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportFactorsFromSchema(ctx, productID, schema)
}

// ImportFactorsFromSchema checks the edit gate, validates the whole
// file, then persists every factor and option in one transaction.
func (s *importService) ImportFactorsFromSchema(ctx context.Context, productID int64, schema *importer.FactorSchema) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-factors",
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"product_id": productID},
			StartedAt: startedAt,
		})
	}()

	if _, err = editableVersionOfProduct(ctx, s.products, s.versions, s.gates, productID); err != nil {
		return nil, err
	}

	if errs := importer.ValidateFactorSchema(schema); len(errs) > 0 {
		return nil, importValidationError(errs)
	}

	payloads := importer.Convert(schema)
	for _, payload := range payloads {
		if err := validate.Factor(payload); err != nil {
			return nil, err
		}
	}

	result = &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFactors := repository.NewSQLiteFactorRepo(tx)
		txOptions := repository.NewSQLiteOptionRepo(tx)
		now := time.Now().UTC()

		for _, payload := range payloads {
			f := &domain.Factor{
				ProductID:  productID,
				Name:       payload.Name,
				IsOptional: payload.IsOptional,
				SortOrder:  payload.SortOrder,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := txFactors.Create(ctx, f); err != nil {
				return fmt.Errorf("creating factor %q: %w", f.Name, err)
			}
			result.FactorCount++

			if !payload.IsOptional {
				continue
			}
			for _, po := range payload.Options {
				o := &domain.Option{
					FactorID:  f.ID,
					Name:      po.Name,
					SortOrder: po.SortOrder,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := txOptions.Create(ctx, o); err != nil {
					return fmt.Errorf("creating option %q: %w", o.Name, err)
				}
				result.OptionCount++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// importValidationError folds the accumulated schema errors into the
// payload validation taxonomy, so callers match import rejections with
// the same errors.As they use for single-payload rejections.
func importValidationError(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return &validate.Error{Field: "schema", Message: msg}
}
