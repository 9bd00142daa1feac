package weather

import "context"

// Provider performs one upstream call and returns the decoded JSON payload.
type Provider interface {
	Fetch(ctx context.Context, q Query) (any, error)
}

// TrendingStore counts successful lookups per canonical city name.
type TrendingStore interface {
	Increment(ctx context.Context, canonical, display string) error
	Top(ctx context.Context, limit int) ([]TrendingCity, error)
}

// LookupLog keeps successful lookups. Failed lookups are never recorded.
type LookupLog interface {
	Record(ctx context.Context, lookup Lookup) (Lookup, error)
	Recent(ctx context.Context, limit int) ([]Lookup, error)
}
