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

func TestCostService_Create_WithRules(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	p := env.mustProduct(t, v.ID, "Widget")

	ct, err := env.costs.Create(ctx, p.ID, contract.SaveCost{
		Title: "Base price",
		Code:  "BASE",
		Rules: []contract.SaveRule{
			{Condition: "qty > 10", Action: "qty * 9.0"},
			{Condition: "", Action: "qty * 10.0"},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, ct.Cost.ID)
	require.Len(t, ct.Rules, 2)
	assert.Equal(t, ct.Cost.ID, ct.Rules[0].CostID)

	loaded, err := env.costs.GetTree(ctx, ct.Cost.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Rules, 2)
	assert.Equal(t, "qty > 10", loaded.Rules[0].Condition)
}

func TestCostService_Create_RejectsDuplicateCode(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	p := env.mustProduct(t, v.ID, "Widget")

	_, err := env.costs.Create(ctx, p.ID, contract.SaveCost{Title: "Base", Code: "BASE"})
	require.NoError(t, err)

	_, err = env.costs.Create(ctx, p.ID, contract.SaveCost{Title: "Other", Code: "BASE"})
	require.Error(t, err)
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "code", verr.Field)

	// The same code on a sibling product is allowed.
	p2 := env.mustProduct(t, v.ID, "Gadget")
	_, err = env.costs.Create(ctx, p2.ID, contract.SaveCost{Title: "Base", Code: "BASE"})
	require.NoError(t, err)
}

func TestCostService_Update_SyncsRules(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	p := env.mustProduct(t, v.ID, "Widget")

	ct, err := env.costs.Create(ctx, p.ID, contract.SaveCost{
		Title: "Base",
		Code:  "BASE",
		Rules: []contract.SaveRule{
			{Condition: "qty > 10", Action: "qty * 9.0"},
			{Condition: "", Action: "qty * 10.0"},
		},
	})
	require.NoError(t, err)
	first := ct.Rules[0]

	updated, err := env.costs.Update(ctx, ct.Cost.ID, contract.SaveCost{
		Title: "Base",
		Code:  "BASE",
		Rules: []contract.SaveRule{
			{ID: first.ID, Condition: "qty > 20", Action: "qty * 8.0"},
			{Condition: "", Action: "qty * 11.0"},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Rules, 2)

	loaded, err := env.costs.GetTree(ctx, ct.Cost.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Rules, 2)
	assert.Equal(t, first.ID, loaded.Rules[0].ID)
	assert.Equal(t, "qty > 20", loaded.Rules[0].Condition)
	assert.Equal(t, "qty * 11.0", loaded.Rules[1].Action)
}

func TestCostService_Update_NoRulesWipesRules(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	p := env.mustProduct(t, v.ID, "Widget")

	ct, err := env.costs.Create(ctx, p.ID, contract.SaveCost{
		Title: "Base",
		Code:  "BASE",
		Rules: []contract.SaveRule{{Condition: "", Action: "10.0"}},
	})
	require.NoError(t, err)

	_, err = env.costs.Update(ctx, ct.Cost.ID, contract.SaveCost{Title: "Base", Code: "BASE"})
	require.NoError(t, err)

	loaded, err := env.costs.GetTree(ctx, ct.Cost.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Rules)
}

func TestCostService_Update_KeepsOwnCode(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	p := env.mustProduct(t, v.ID, "Widget")

	ct, err := env.costs.Create(ctx, p.ID, contract.SaveCost{Title: "Base", Code: "BASE"})
	require.NoError(t, err)

	_, err = env.costs.Update(ctx, ct.Cost.ID, contract.SaveCost{Title: "Base v2", Code: "BASE"})
	require.NoError(t, err)
}

func TestCostService_Delete_RemovesRulesFirst(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	p := env.mustProduct(t, v.ID, "Widget")

	ct, err := env.costs.Create(ctx, p.ID, contract.SaveCost{
		Title: "Base",
		Code:  "BASE",
		Rules: []contract.SaveRule{{Condition: "", Action: "10.0"}},
	})
	require.NoError(t, err)

	require.NoError(t, env.costs.Delete(ctx, ct.Cost.ID))

	_, err = env.costs.GetTree(ctx, ct.Cost.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	rules := repository.NewSQLiteRuleRepo(env.db)
	left, err := rules.ListByCost(ctx, ct.Cost.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestCostService_Sort_SkipsUnknownIDs(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	p := env.mustProduct(t, v.ID, "Widget")

	a, err := env.costs.Create(ctx, p.ID, contract.SaveCost{Title: "A", Code: "A"})
	require.NoError(t, err)
	b, err := env.costs.Create(ctx, p.ID, contract.SaveCost{Title: "B", Code: "B"})
	require.NoError(t, err)

	err = env.costs.Sort(ctx, p.ID, []contract.SortEntry{
		{ID: b.Cost.ID, SortOrder: 0},
		{ID: a.Cost.ID, SortOrder: 1},
		{ID: 424242, SortOrder: 2},
	})
	require.NoError(t, err)

	trees, err := env.costs.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, trees, 2)
	assert.Equal(t, "B", trees[0].Cost.Title)
	assert.Equal(t, "A", trees[1].Cost.Title)
}

func TestCostService_Update_GatedByLock(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "v1")
	p := env.mustProduct(t, v.ID, "Widget")
	ct, err := env.costs.Create(ctx, p.ID, contract.SaveCost{Title: "Base", Code: "BASE"})
	require.NoError(t, err)

	_, err = env.versions.Lock(ctx, v.ID)
	require.NoError(t, err)

	_, err = env.costs.Update(ctx, ct.Cost.ID, contract.SaveCost{Title: "Changed", Code: "BASE"})
	require.ErrorIs(t, err, ErrNotEditable)
	err = env.costs.Delete(ctx, ct.Cost.ID)
	require.ErrorIs(t, err, ErrNotDeletable)
}
