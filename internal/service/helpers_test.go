package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quotekit/cpq/internal/contract"
	"github.com/quotekit/cpq/internal/domain"
	"github.com/quotekit/cpq/internal/expr"
	"github.com/quotekit/cpq/internal/policy"
	"github.com/quotekit/cpq/internal/quote"
	"github.com/quotekit/cpq/internal/testutil"
)

// testEnv wires every service against one in-memory database.
type testEnv struct {
	db        *sql.DB
	versions  VersionService
	products  ProductService
	factors   FactorService
	costs     CostService
	leadtimes LeadtimeService
	quotes    QuoteService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	gates := policy.LifecyclePolicy{}
	return &testEnv{
		db:        database,
		versions:  NewVersionService(database, uow, gates),
		products:  NewProductService(database, uow, gates),
		factors:   NewFactorService(database, uow, gates),
		costs:     NewCostService(database, uow, gates),
		leadtimes: NewLeadtimeService(database, uow, gates),
		quotes:    NewQuoteService(database, quote.NewEngine(expr.NewCELEvaluator())),
	}
}

// stubPolicy pins each capability predicate independently, for tests
// where the capabilities must diverge from the flag-derived defaults.
type stubPolicy struct {
	editable   bool
	deletable  bool
	lockable   bool
	unlockable bool
	activable  bool
}

func (p stubPolicy) IsEditable(*domain.Version) bool   { return p.editable }
func (p stubPolicy) IsDeletable(*domain.Version) bool  { return p.deletable }
func (p stubPolicy) IsLockable(*domain.Version) bool   { return p.lockable }
func (p stubPolicy) IsUnlockable(*domain.Version) bool { return p.unlockable }
func (p stubPolicy) IsActivable(*domain.Version) bool  { return p.activable }

func (e *testEnv) mustVersion(t *testing.T, name string) *domain.Version {
	t.Helper()
	v, err := e.versions.Create(context.Background(), contract.SaveVersion{Name: name})
	require.NoError(t, err)
	return v
}

func (e *testEnv) mustProduct(t *testing.T, versionID int64, name string) *domain.Product {
	t.Helper()
	p, err := e.products.Create(context.Background(), versionID, contract.SaveProduct{Name: name, Code: name})
	require.NoError(t, err)
	return p
}
