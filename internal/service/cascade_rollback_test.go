package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotekit/cpq/internal/contract"
	"github.com/quotekit/cpq/internal/policy"
	"github.com/quotekit/cpq/internal/repository"
	"github.com/quotekit/cpq/internal/testutil"
)

// A failure in the middle of a cascade must leave the whole subtree in
// place: the deletes are all-or-nothing.
func TestVersionDelete_RollbackOnMidCascadeFailure(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "survivor")
	p := env.mustProduct(t, v.ID, "Widget")
	ft, err := env.factors.Create(ctx, p.ID, contract.SaveFactor{
		Name:       "Color",
		IsOptional: true,
		Options:    []contract.SaveOption{{Name: "Red"}},
	})
	require.NoError(t, err)
	ct, err := env.costs.Create(ctx, p.ID, contract.SaveCost{
		Title: "Base",
		Code:  "BASE",
		Rules: []contract.SaveRule{{Action: "10.0"}},
	})
	require.NoError(t, err)
	lt, err := env.leadtimes.Create(ctx, p.ID, contract.SaveLeadtime{Title: "standard", Days: 14})
	require.NoError(t, err)

	// Cascade exec order: option wipe, factor, rule wipe, cost,
	// leadtime wipe, product, version. Fail on the final version row.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     env.db,
		FailOn: 7,
		Err:    fmt.Errorf("injected version delete failure"),
	}
	svc := NewVersionService(env.db, failUoW, policy.LifecyclePolicy{})

	err = svc.Delete(ctx, v.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected version delete failure")

	// Everything is still there.
	_, err = env.versions.GetByID(ctx, v.ID)
	require.NoError(t, err)
	_, err = env.products.GetByID(ctx, p.ID)
	require.NoError(t, err)

	factorTree, err := env.factors.GetTree(ctx, ft.Factor.ID)
	require.NoError(t, err)
	assert.Len(t, factorTree.Options, 1)

	costTree, err := env.costs.GetTree(ctx, ct.Cost.ID)
	require.NoError(t, err)
	assert.Len(t, costTree.Rules, 1)

	_, err = env.leadtimes.GetByID(ctx, lt.ID)
	require.NoError(t, err)
}

// A failure while copying children must not leave a half-built replica.
func TestReplicate_RollbackOnMidCopyFailure(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "source")
	p := env.mustProduct(t, v.ID, "Widget")
	_, err := env.costs.Create(ctx, p.ID, contract.SaveCost{
		Title: "Base",
		Code:  "BASE",
		Rules: []contract.SaveRule{{Action: "10.0"}},
	})
	require.NoError(t, err)

	// Copy exec order: version, product, cost, rule. Fail on the rule.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     env.db,
		FailOn: 4,
		Err:    fmt.Errorf("injected rule copy failure"),
	}
	svc := NewVersionService(env.db, failUoW, policy.LifecyclePolicy{})

	_, err = svc.Replicate(ctx, v.ID)
	require.Error(t, err)

	// Only the original version exists.
	page, err := env.versions.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	versions := repository.NewSQLiteVersionRepo(env.db)
	fetched, err := versions.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.UUID, fetched.UUID)
}
