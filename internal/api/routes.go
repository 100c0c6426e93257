package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Category groups routes the way the backend organises its URL space.
type Category string

const (
	CategoryTransactions Category = "transactions"
	CategoryStatistics   Category = "statistics"
	CategoryFraud        Category = "fraud"
	CategoryCustomers    Category = "customers"
	CategorySystem       Category = "system"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryTransactions,
		CategoryStatistics,
		CategoryFraud,
		CategoryCustomers,
		CategorySystem,
	}
}

// Route binds an HTTP method to a backend endpoint. Endpoint is relative to
// the client base URL and may embed a "{id}" placeholder that must be filled
// before dispatch.
type Route struct {
	ID       string
	Category Category
	Method   string
	Endpoint string
}

// NeedsArg reports whether the endpoint has an unfilled {id} placeholder.
func (r Route) NeedsArg() bool {
	return strings.Contains(r.Endpoint, "{id}")
}

// Resolve substitutes arg for the {id} placeholder.
func (r Route) Resolve(arg string) string {
	return strings.ReplaceAll(r.Endpoint, "{id}", arg)
}

func (r Route) String() string {
	return fmt.Sprintf("%s /%s", r.Method, r.Endpoint)
}

// ErrRouteNotFound is returned by Lookup for an unknown route id.
var ErrRouteNotFound = errors.New("route not found")

// routeTable is the static catalog of invocable backend routes. Defined once
// at init, never mutated; per-category order is insertion order.
var routeTable = map[Category][]Route{
	CategoryTransactions: {
		{ID: "list", Category: CategoryTransactions, Method: http.MethodGet, Endpoint: "transactions"},
		{ID: "get", Category: CategoryTransactions, Method: http.MethodGet, Endpoint: "transactions/{id}"},
		{ID: "types", Category: CategoryTransactions, Method: http.MethodGet, Endpoint: "transactions/types"},
		{ID: "recent", Category: CategoryTransactions, Method: http.MethodGet, Endpoint: "transactions/recent"},
		{ID: "search", Category: CategoryTransactions, Method: http.MethodPost, Endpoint: "transactions/search"},
		{ID: "by-customer", Category: CategoryTransactions, Method: http.MethodGet, Endpoint: "transactions/by-customer/{id}"},
		{ID: "to-customer", Category: CategoryTransactions, Method: http.MethodGet, Endpoint: "transactions/to-customer/{id}"},
	},
	CategoryStatistics: {
		{ID: "overview", Category: CategoryStatistics, Method: http.MethodGet, Endpoint: "stats/overview"},
		{ID: "amount-distribution", Category: CategoryStatistics, Method: http.MethodGet, Endpoint: "stats/amount-distribution"},
		{ID: "by-type", Category: CategoryStatistics, Method: http.MethodGet, Endpoint: "stats/by-type"},
		{ID: "daily", Category: CategoryStatistics, Method: http.MethodGet, Endpoint: "stats/daily"},
	},
	CategoryFraud: {
		{ID: "summary", Category: CategoryFraud, Method: http.MethodGet, Endpoint: "fraud/summary"},
		{ID: "by-type", Category: CategoryFraud, Method: http.MethodGet, Endpoint: "fraud/by-type"},
		{ID: "predict", Category: CategoryFraud, Method: http.MethodPost, Endpoint: "fraud/predict"},
	},
	CategoryCustomers: {
		{ID: "list", Category: CategoryCustomers, Method: http.MethodGet, Endpoint: "customers"},
		{ID: "get", Category: CategoryCustomers, Method: http.MethodGet, Endpoint: "customers/{id}"},
		{ID: "top", Category: CategoryCustomers, Method: http.MethodGet, Endpoint: "customers/top"},
	},
	CategorySystem: {
		{ID: "health", Category: CategorySystem, Method: http.MethodGet, Endpoint: "system/health"},
		{ID: "metadata", Category: CategorySystem, Method: http.MethodGet, Endpoint: "system/metadata"},
	},
}

// Routes returns the routes registered under cat, in insertion order.
func Routes(cat Category) []Route {
	src := routeTable[cat]
	out := make([]Route, len(src))
	copy(out, src)
	return out
}

// Lookup finds a route by category and id.
func Lookup(cat Category, id string) (Route, error) {
	for _, r := range routeTable[cat] {
		if r.ID == id {
			return r, nil
		}
	}
	return Route{}, fmt.Errorf("%w: %s/%s", ErrRouteNotFound, cat, id)
}
