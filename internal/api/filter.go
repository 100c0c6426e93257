package api

// FraudFilter is the tri-state fraud criterion shared by the listing and
// search composers.
type FraudFilter int

const (
	FraudAny FraudFilter = iota
	FraudOnly
	FraudExclude
)

func (f FraudFilter) String() string {
	switch f {
	case FraudOnly:
		return "fraudulent"
	case FraudExclude:
		return "legitimate"
	default:
		return "any"
	}
}

// TypeAny means no type filter is applied.
const TypeAny = "any"

// unboundedAmount stands in for a missing upper bound in search bodies; the
// backend treats it as "no maximum".
const unboundedAmount = 999_999_999

// Limits are the page sizes the listing endpoints accept.
var Limits = []int{10, 25, 50, 100}

// Filters holds the independent optional criteria a user can set. MinAmount
// and MaxAmount use 0 as the "not provided" sentinel, mirroring the backend
// contract; a minimum of exactly 0 is therefore inexpressible.
type Filters struct {
	Type      string
	Fraud     FraudFilter
	MinAmount float64
	MaxAmount float64
	Page      int
	Limit     int
}

// DefaultFilters returns the unfiltered first page.
func DefaultFilters() Filters {
	return Filters{Type: TypeAny, Fraud: FraudAny, Page: 1, Limit: Limits[0]}
}

// ListingParams composes the query parameters for GET listing endpoints.
// Only explicitly-set criteria appear; page and limit are always present.
func (f Filters) ListingParams() Params {
	p := Params{
		"page":  f.Page,
		"limit": f.Limit,
	}
	if f.Type != "" && f.Type != TypeAny {
		p["type"] = f.Type
	}
	switch f.Fraud {
	case FraudOnly:
		p["isFraud"] = 1
	case FraudExclude:
		p["isFraud"] = 0
	}
	if f.MinAmount > 0 {
		p["min_amount"] = f.MinAmount
	}
	if f.MaxAmount > 0 {
		p["max_amount"] = f.MaxAmount
	}
	return p
}

// SearchBody composes the POST body for the multi-criterion search endpoint.
// Amount bounds collapse into a single amount_range pair, with 0 and
// unboundedAmount standing in for unset ends. Search is not paginated, so
// page/limit never appear here.
//
// ListingParams and SearchBody intentionally stay separate: the key names and
// bound encoding are different backend contracts, not one parameterized shape.
func (f Filters) SearchBody() Params {
	p := Params{}
	if f.Type != "" && f.Type != TypeAny {
		p["type"] = f.Type
	}
	switch f.Fraud {
	case FraudOnly:
		p["isFraud"] = 1
	case FraudExclude:
		p["isFraud"] = 0
	}
	if f.MinAmount > 0 || f.MaxAmount > 0 {
		min := 0.0
		if f.MinAmount > 0 {
			min = f.MinAmount
		}
		max := float64(unboundedAmount)
		if f.MaxAmount > 0 {
			max = f.MaxAmount
		}
		p["amount_range"] = []any{min, max}
	}
	return p
}
