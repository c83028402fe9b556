package listings

import (
	"strings"

	"staybook/internal/domain/shared/money"
	"staybook/internal/domain/user"
)

// Filter narrows a listing lookup. Zero values do not filter.
type Filter struct {
	Host     user.ID
	Location string
	MinPrice *money.Cents
	MaxPrice *money.Cents
	Exclude  []ID
}

// Normalized returns a copy with the location lower-cased and trimmed.
func (f Filter) Normalized() Filter {
	out := f
	out.Location = strings.ToLower(strings.TrimSpace(f.Location))
	return out
}

// Matches evaluates the filter in memory. Location is a case-insensitive
// substring match and the price bounds are inclusive.
func (f Filter) Matches(l *Listing) bool {
	if l == nil {
		return false
	}
	if f.Host != "" && l.HostID != f.Host {
		return false
	}
	if loc := strings.ToLower(strings.TrimSpace(f.Location)); loc != "" {
		if !strings.Contains(strings.ToLower(l.Location), loc) {
			return false
		}
	}
	if f.MinPrice != nil && l.NightlyRate < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.NightlyRate > *f.MaxPrice {
		return false
	}
	for _, id := range f.Exclude {
		if id == l.ID {
			return false
		}
	}
	return true
}
