package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/events"
)

// ListingRepository keeps listings in memory. Values are copied on the way in
// and out so callers never share state with the store.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[domainlistings.ID]*domainlistings.Listing)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	return cloneListing(listing), nil
}

// Find returns matching listings, oldest first.
func (r *ListingRepository) Find(ctx context.Context, filter domainlistings.Filter) ([]*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainlistings.Listing, 0, len(r.items))
	for _, listing := range r.items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if filter.Matches(listing) {
			out = append(out, cloneListing(listing))
		}
	}
	slices.SortFunc(out, func(a, b *domainlistings.Listing) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return out, nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[listing.ID] = cloneListing(listing)
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainlistings.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// snapshot returns the stored value (or nil) for undo journaling.
func (r *ListingRepository) snapshot(id domainlistings.ID) *domainlistings.Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.items[id]; ok {
		return cloneListing(l)
	}
	return nil
}

func (r *ListingRepository) restore(id domainlistings.ID, prev *domainlistings.Listing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev == nil {
		delete(r.items, id)
		return
	}
	r.items[id] = prev
}

func cloneListing(l *domainlistings.Listing) *domainlistings.Listing {
	if l == nil {
		return nil
	}
	c := *l
	c.Amenities = append([]string(nil), l.Amenities...)
	c.Images = append([]string(nil), l.Images...)
	c.Recorder = events.Recorder{}
	return &c
}

var _ domainlistings.Repository = (*ListingRepository)(nil)
