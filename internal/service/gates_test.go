package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotekit/cpq/internal/contract"
	"github.com/quotekit/cpq/internal/domain"
	"github.com/quotekit/cpq/internal/policy"
	"github.com/quotekit/cpq/internal/repository"
	"github.com/quotekit/cpq/internal/testutil"
	"github.com/quotekit/cpq/internal/validate"
)

// gatedServices builds a second service set over the env's database with
// a different policy, so tests can seed under the default gates and then
// exercise a diverging one.
func gatedServices(env *testEnv, gates policy.Provider) (ProductService, FactorService, CostService, LeadtimeService) {
	uow := testutil.NewTestUoW(env.db)
	return NewProductService(env.db, uow, gates),
		NewFactorService(env.db, uow, gates),
		NewCostService(env.db, uow, gates),
		NewLeadtimeService(env.db, uow, gates)
}

// seedChildren creates one factor, cost and leadtime under the product.
func seedChildren(t *testing.T, env *testEnv, productID int64) (*domain.FactorTree, *domain.CostTree, *domain.Leadtime) {
	t.Helper()
	ctx := context.Background()

	ft, err := env.factors.Create(ctx, productID, contract.SaveFactor{
		Name:       "Color",
		IsOptional: true,
		Options:    []contract.SaveOption{{Name: "Red"}},
	})
	require.NoError(t, err)
	ct, err := env.costs.Create(ctx, productID, contract.SaveCost{
		Title: "Base",
		Code:  "BASE",
		Rules: []contract.SaveRule{{Action: "10.0"}},
	})
	require.NoError(t, err)
	lt, err := env.leadtimes.Create(ctx, productID, contract.SaveLeadtime{Title: "Express", Days: 3})
	require.NoError(t, err)

	return ft, ct, lt
}

func TestChildDelete_AllowedWhenOnlyDeletable(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	p := env.mustProduct(t, v.ID, "Widget")
	ft, ct, lt := seedChildren(t, env, p.ID)

	// Deletes answer to the delete capability even when editing is
	// refused.
	products, factors, costs, leadtimes := gatedServices(env, stubPolicy{deletable: true})

	require.NoError(t, factors.Delete(ctx, ft.Factor.ID))
	require.NoError(t, costs.Delete(ctx, ct.Cost.ID))
	require.NoError(t, leadtimes.Delete(ctx, lt.ID))
	require.NoError(t, products.Delete(ctx, p.ID))

	// The same policy still refuses edits.
	_, err := products.Create(ctx, v.ID, contract.SaveProduct{Name: "Other", Code: "OTH"})
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestChildDelete_RefusedWhenOnlyEditable(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	p := env.mustProduct(t, v.ID, "Widget")
	ft, ct, lt := seedChildren(t, env, p.ID)

	products, factors, costs, leadtimes := gatedServices(env, stubPolicy{editable: true})

	assert.ErrorIs(t, factors.Delete(ctx, ft.Factor.ID), ErrNotDeletable)
	assert.ErrorIs(t, costs.Delete(ctx, ct.Cost.ID), ErrNotDeletable)
	assert.ErrorIs(t, leadtimes.Delete(ctx, lt.ID), ErrNotDeletable)
	assert.ErrorIs(t, products.Delete(ctx, p.ID), ErrNotDeletable)

	// Everything is still there.
	_, err := env.factors.GetTree(ctx, ft.Factor.ID)
	require.NoError(t, err)
	_, err = env.costs.GetTree(ctx, ct.Cost.ID)
	require.NoError(t, err)
}

func TestCreate_MissingParentBeatsValidation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	// The payloads are all invalid; the missing parent must win.
	_, err := env.products.Create(ctx, 9999, contract.SaveProduct{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.factors.Create(ctx, 9999, contract.SaveFactor{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.costs.Create(ctx, 9999, contract.SaveCost{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.leadtimes.Create(ctx, 9999, contract.SaveLeadtime{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.versions.Update(ctx, 9999, contract.SaveVersion{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreate_GateBeatsValidation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	p := env.mustProduct(t, v.ID, "Widget")
	_, err := env.versions.Lock(ctx, v.ID)
	require.NoError(t, err)

	_, err = env.products.Create(ctx, v.ID, contract.SaveProduct{})
	assert.ErrorIs(t, err, ErrNotEditable)
	var verr *validate.Error
	assert.False(t, errors.As(err, &verr), "gate must be checked before the payload")

	_, err = env.factors.Create(ctx, p.ID, contract.SaveFactor{})
	assert.ErrorIs(t, err, ErrNotEditable)

	_, err = env.costs.Create(ctx, p.ID, contract.SaveCost{})
	assert.ErrorIs(t, err, ErrNotEditable)

	_, err = env.leadtimes.Create(ctx, p.ID, contract.SaveLeadtime{})
	assert.ErrorIs(t, err, ErrNotEditable)

	_, err = env.versions.Update(ctx, v.ID, contract.SaveVersion{})
	assert.ErrorIs(t, err, ErrNotEditable)
}
