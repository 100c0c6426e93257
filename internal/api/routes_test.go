package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoutesEveryCategoryPopulated(t *testing.T) {
	t.Parallel()

	for _, cat := range Categories() {
		routes := Routes(cat)
		require.NotEmpty(t, routes, "category %s", cat)
		for _, r := range routes {
			require.NotEmpty(t, r.Endpoint, "route %s/%s", cat, r.ID)
			require.Contains(t, []string{http.MethodGet, http.MethodPost}, r.Method, "route %s/%s", cat, r.ID)
			require.Equal(t, cat, r.Category)
		}
	}
}

func TestRoutesStableOrder(t *testing.T) {
	t.Parallel()

	first := Routes(CategoryTransactions)
	second := Routes(CategoryTransactions)
	require.Equal(t, first, second)

	// Callers get a copy, not the registry's backing slice.
	second[0].ID = "mutated"
	require.Equal(t, first, Routes(CategoryTransactions))
}

func TestRoutesUniqueIDsWithinCategory(t *testing.T) {
	t.Parallel()

	for _, cat := range Categories() {
		seen := map[string]bool{}
		for _, r := range Routes(cat) {
			require.False(t, seen[r.ID], "duplicate id %s in %s", r.ID, cat)
			seen[r.ID] = true
		}
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	r, err := Lookup(CategoryFraud, "predict")
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, r.Method)
	require.Equal(t, "fraud/predict", r.Endpoint)

	_, err = Lookup(CategoryFraud, "nope")
	require.ErrorIs(t, err, ErrRouteNotFound)

	_, err = Lookup(Category("bogus"), "predict")
	require.True(t, errors.Is(err, ErrRouteNotFound))
}

func TestRoutePlaceholders(t *testing.T) {
	t.Parallel()

	r, err := Lookup(CategoryCustomers, "get")
	require.NoError(t, err)
	require.True(t, r.NeedsArg())
	require.Equal(t, "customers/C1231006815", r.Resolve("C1231006815"))

	plain, err := Lookup(CategoryCustomers, "list")
	require.NoError(t, err)
	require.False(t, plain.NeedsArg())
	require.Equal(t, "customers", plain.Resolve("ignored"))
}
