package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotekit/cpq/internal/contract"
	"github.com/quotekit/cpq/internal/repository"
	"github.com/quotekit/cpq/internal/validate"
)

func TestProductService_Create_RequiresEditableVersion(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")

	p, err := env.products.Create(ctx, v.ID, contract.SaveProduct{Name: "Widget", Code: "WID"})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, v.ID, p.VersionID)

	_, err = env.versions.Lock(ctx, v.ID)
	require.NoError(t, err)

	_, err = env.products.Create(ctx, v.ID, contract.SaveProduct{Name: "Gadget", Code: "GAD"})
	require.ErrorIs(t, err, ErrNotEditable)
}

func TestProductService_Create_RejectsMissingFields(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")

	_, err := env.products.Create(ctx, v.ID, contract.SaveProduct{Code: "WID"})
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = env.products.Create(ctx, v.ID, contract.SaveProduct{Name: "Widget"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "code", verr.Field)
}

func TestProductService_Update_ChangesFields(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	p := env.mustProduct(t, v.ID, "Widget")

	updated, err := env.products.Update(ctx, p.ID, contract.SaveProduct{Name: "Widget XL", Code: "WXL", SortOrder: 3})
	require.NoError(t, err)
	assert.Equal(t, "Widget XL", updated.Name)

	fetched, err := env.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "WXL", fetched.Code)
	assert.Equal(t, 3, fetched.SortOrder)
}

func TestProductService_Delete_CascadesChildren(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	p := env.mustProduct(t, v.ID, "Widget")
	keep := env.mustProduct(t, v.ID, "Gadget")

	ft, err := env.factors.Create(ctx, p.ID, contract.SaveFactor{
		Name:       "Color",
		IsOptional: true,
		Options:    []contract.SaveOption{{Name: "Red"}},
	})
	require.NoError(t, err)
	_, err = env.costs.Create(ctx, p.ID, contract.SaveCost{
		Title: "Base",
		Code:  "BASE",
		Rules: []contract.SaveRule{{Action: "10.0"}},
	})
	require.NoError(t, err)

	require.NoError(t, env.products.Delete(ctx, p.ID))

	_, err = env.products.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.factors.GetTree(ctx, ft.Factor.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	// The sibling and its version survive.
	_, err = env.products.GetByID(ctx, keep.ID)
	require.NoError(t, err)
	_, err = env.versions.GetByID(ctx, v.ID)
	require.NoError(t, err)
}

func TestProductService_Sort_AppliesOrders(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	a := env.mustProduct(t, v.ID, "A")
	b := env.mustProduct(t, v.ID, "B")
	c := env.mustProduct(t, v.ID, "C")

	err := env.products.Sort(ctx, v.ID, []contract.SortEntry{
		{ID: c.ID, SortOrder: 0},
		{ID: a.ID, SortOrder: 1},
		{ID: b.ID, SortOrder: 2},
		{ID: 999, SortOrder: 3},
	})
	require.NoError(t, err)

	listed, err := env.products.ListByVersion(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "C", listed[0].Name)
	assert.Equal(t, "A", listed[1].Name)
	assert.Equal(t, "B", listed[2].Name)
}

func TestProductService_Sort_GatedByLock(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	p := env.mustProduct(t, v.ID, "Widget")
	_, err := env.versions.Lock(ctx, v.ID)
	require.NoError(t, err)

	err = env.products.Sort(ctx, v.ID, []contract.SortEntry{{ID: p.ID, SortOrder: 1}})
	require.ErrorIs(t, err, ErrNotEditable)
}
