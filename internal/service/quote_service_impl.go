package service

import (
	"context"
	"time"

	"github.com/quotekit/cpq/internal/db"
	"github.com/quotekit/cpq/internal/quote"
)

type quoteService struct {
	loader   *treeLoader
	engine   *quote.Engine
	observer UseCaseObserver
}

// NewQuoteService creates the quote service. Evaluation itself is pure;
// the service only loads the product aggregate and delegates.
func NewQuoteService(conn db.DBTX, engine *quote.Engine, observers ...UseCaseObserver) QuoteService {
	return &quoteService{
		loader:   newTreeLoader(conn),
		engine:   engine,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *quoteService) QuoteProduct(ctx context.Context, productID int64, params map[string]any) (result *quote.ProductQuote, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "quote-product",
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"product_id": productID, "params": len(params)},
			StartedAt: startedAt,
		})
	}()

	tree, err := s.loader.ProductTree(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.engine.QuoteProduct(tree, params)
}
