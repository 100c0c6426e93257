package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListingParamsNoFilters(t *testing.T) {
	t.Parallel()

	f := Filters{Type: TypeAny, Fraud: FraudAny, Page: 1, Limit: 10}
	require.Equal(t, Params{"page": 1, "limit": 10}, f.ListingParams())
}

func TestListingParamsTypeAndFraud(t *testing.T) {
	t.Parallel()

	f := Filters{Type: TypeTransfer, Fraud: FraudExclude, Page: 2, Limit: 25}
	got := f.ListingParams()
	require.Equal(t, Params{
		"page":    2,
		"limit":   25,
		"type":    TypeTransfer,
		"isFraud": 0,
	}, got)

	f.Fraud = FraudOnly
	require.Equal(t, 1, f.ListingParams()["isFraud"])
}

func TestListingParamsAmountSentinel(t *testing.T) {
	t.Parallel()

	// 0 means "not provided"; the key must be absent, never a literal zero.
	f := Filters{Type: TypeAny, Page: 1, Limit: 10, MinAmount: 0, MaxAmount: 0}
	got := f.ListingParams()
	require.NotContains(t, got, "min_amount")
	require.NotContains(t, got, "max_amount")

	f.MinAmount = 50.5
	f.MaxAmount = 1000
	got = f.ListingParams()
	require.Equal(t, 50.5, got["min_amount"])
	require.Equal(t, float64(1000), got["max_amount"])
}

func TestSearchBodyAmountRange(t *testing.T) {
	t.Parallel()

	f := Filters{Type: TypeAny, MinAmount: 100}
	got := f.SearchBody()
	require.Equal(t, []any{100.0, float64(999_999_999)}, got["amount_range"])

	f = Filters{Type: TypeAny, MaxAmount: 500}
	got = f.SearchBody()
	require.Equal(t, []any{0.0, 500.0}, got["amount_range"])

	f = Filters{Type: TypeAny, MinAmount: 10, MaxAmount: 20}
	got = f.SearchBody()
	require.Equal(t, []any{10.0, 20.0}, got["amount_range"])
}

func TestSearchBodyOmitsUnset(t *testing.T) {
	t.Parallel()

	f := Filters{Type: TypeAny, Fraud: FraudAny, Page: 7, Limit: 50}
	got := f.SearchBody()
	require.Empty(t, got)
	// Search is not paginated; page/limit never leak into the body.
	require.NotContains(t, got, "page")
	require.NotContains(t, got, "limit")
	require.NotContains(t, got, "amount_range")
}

func TestSearchBodySharesDiscreteRules(t *testing.T) {
	t.Parallel()

	f := Filters{Type: TypeCashOut, Fraud: FraudOnly}
	got := f.SearchBody()
	require.Equal(t, Params{"type": TypeCashOut, "isFraud": 1}, got)
}

func TestDefaultFilters(t *testing.T) {
	t.Parallel()

	f := DefaultFilters()
	require.Equal(t, TypeAny, f.Type)
	require.Equal(t, FraudAny, f.Fraud)
	require.Equal(t, 1, f.Page)
	require.Contains(t, Limits, f.Limit)
}
