package validate

import (
	"context"
	"strings"
	"testing"

	"github.com/quotekit/cpq/internal/contract"
	"github.com/quotekit/cpq/internal/domain"
	"github.com/quotekit/cpq/internal/repository"
	"github.com/quotekit/cpq/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_RequiredName(t *testing.T) {
	err := Version(contract.SaveVersion{})
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Contains(t, verr.Message, "required")
}

func TestVersion_NameTooLong(t *testing.T) {
	err := Version(contract.SaveVersion{Name: strings.Repeat("x", 300)})
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestFactor_NestedOptionValidated(t *testing.T) {
	err := Factor(contract.SaveFactor{
		Name:       "Color",
		IsOptional: true,
		Options:    []contract.SaveOption{{Name: ""}},
	})
	require.Error(t, err)
}

func TestCost_RuleActionRequired(t *testing.T) {
	db := testutil.NewTestDB(t)
	costs := repository.NewSQLiteCostRepo(db)

	err := Cost(context.Background(), costs, 1, contract.SaveCost{
		Title: "Base",
		Code:  "BASE",
		Rules: []contract.SaveRule{{Condition: "qty > 1"}},
	}, 0)
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "action", verr.Field)
}

func TestCost_DuplicateCode(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	versions := repository.NewSQLiteVersionRepo(db)
	products := repository.NewSQLiteProductRepo(db)
	costs := repository.NewSQLiteCostRepo(db)

	v := testutil.NewTestVersion("v1")
	require.NoError(t, versions.Create(ctx, v))
	p := testutil.NewTestProduct(v.ID, "Widget")
	require.NoError(t, products.Create(ctx, p))
	c := &domain.Cost{ProductID: p.ID, Title: "Base", Code: "BASE"}
	require.NoError(t, costs.Create(ctx, c))

	// New cost reusing the code is rejected.
	err := Cost(ctx, costs, p.ID, contract.SaveCost{Title: "Other", Code: "BASE"}, 0)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "code", verr.Field)

	// The cost itself may keep its code on update.
	assert.NoError(t, Cost(ctx, costs, p.ID, contract.SaveCost{Title: "Base", Code: "BASE"}, c.ID))

	// Same code under a different product is fine.
	assert.NoError(t, Cost(ctx, costs, p.ID+1, contract.SaveCost{Title: "Base", Code: "BASE"}, 0))
}

func TestSortEntries_RequiresID(t *testing.T) {
	err := SortEntries([]contract.SortEntry{{SortOrder: 2}})
	require.Error(t, err)
}
