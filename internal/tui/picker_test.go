package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/bankscope/internal/api"
)

func TestRankRoutesEmptyQueryKeepsRegistryOrder(t *testing.T) {
	t.Parallel()

	routes := api.Routes(api.CategoryTransactions)
	ranked := rankRoutes(routes, "")
	require.Equal(t, routes, ranked)
}

func TestRankRoutesPrefixBeforeContains(t *testing.T) {
	t.Parallel()

	ranked := rankRoutes(api.Routes(api.CategoryTransactions), "rec")
	require.NotEmpty(t, ranked)
	require.Equal(t, "recent", ranked[0].ID)
}

func TestRankRoutesToleratesNearMiss(t *testing.T) {
	t.Parallel()

	// One edit away from "list".
	ranked := rankRoutes(api.Routes(api.CategoryTransactions), "lst")
	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.ID)
	}
	require.Contains(t, ids, "list")
}

func TestRankRoutesDropsGarbage(t *testing.T) {
	t.Parallel()

	ranked := rankRoutes(api.Routes(api.CategoryStatistics), "qqqqqqqqqqqqqqqqqqqqqqqq")
	require.Empty(t, ranked)
}

func TestRankRoutesDirectHitOutranksMethodText(t *testing.T) {
	t.Parallel()

	// "get" matches every GET route through the method-qualified text, but
	// the route literally named get must still rank first.
	ranked := rankRoutes(api.Routes(api.CategoryTransactions), "get")
	require.NotEmpty(t, ranked)
	require.Equal(t, "get", ranked[0].ID)
}

func TestRankRoutesLongGarbageStaysDropped(t *testing.T) {
	t.Parallel()

	// The tolerance must not scale with query length.
	ranked := rankRoutes(api.Routes(api.CategoryTransactions), strings.Repeat("z", 40))
	require.Empty(t, ranked)
}

func TestRankRoutesMatchesEndpointText(t *testing.T) {
	t.Parallel()

	ranked := rankRoutes(api.Routes(api.CategoryFraud), "predict")
	require.NotEmpty(t, ranked)
	require.Equal(t, "predict", ranked[0].ID)
}
