package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/bankscope/internal/api"
)

// distanceLimit bounds the near-miss tolerance so typos still match but
// unrelated queries drop out no matter how long they are.
const distanceLimit = 3

// rankRoutes filters and orders routes by how well they match query. Direct
// hits on the route id or endpoint come first (prefix before contains), then
// near misses by edit distance, then matches on the method-qualified text
// ("get transactions"); everything too far away is dropped. Ties keep
// registry order.
func rankRoutes(routes []api.Route, query string) []api.Route {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return routes
	}

	type scored struct {
		route api.Route
		score int
	}

	var out []scored
	for _, r := range routes {
		s := routeScore(r, q)
		if s < 0 {
			continue
		}
		out = append(out, scored{route: r, score: s})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score < out[j].score })

	ranked := make([]api.Route, len(out))
	for i, s := range out {
		ranked[i] = s.route
	}
	return ranked
}

func routeScore(r api.Route, q string) int {
	best := -1
	for _, cand := range []string{r.ID, r.Endpoint} {
		cand = strings.ToLower(cand)
		var s int
		switch {
		case strings.HasPrefix(cand, q):
			s = 0
		case strings.Contains(cand, q):
			s = 1
		default:
			d := levenshtein.ComputeDistance(q, cand)
			if d > distanceLimit {
				continue
			}
			s = 1 + d
		}
		if best < 0 || s < best {
			best = s
		}
	}

	// The method-qualified text only catches "get ..." style queries; it
	// ranks below any direct hit so a query like "get" still puts the route
	// actually named get first.
	if best < 0 {
		full := strings.ToLower(r.Method) + " " + strings.ToLower(r.Endpoint)
		if strings.Contains(full, q) {
			best = 2 + distanceLimit
		}
	}
	return best
}
