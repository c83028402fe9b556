package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	domainbooking "staybook/internal/domain/booking"
	"staybook/internal/domain/shared/events"
)

type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.ID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.ID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

// Find returns matching bookings ordered by creation time.
func (r *BookingRepository) Find(ctx context.Context, filter domainbooking.Filter) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if filter.Matches(b) {
			out = append(out, cloneBooking(b))
		}
	}
	slices.SortFunc(out, func(a, b *domainbooking.Booking) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return out, nil
}

func (r *BookingRepository) Insert(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[b.ID]; exists {
		return fmt.Errorf("memory: booking %s already exists", b.ID)
	}
	r.items[b.ID] = cloneBooking(b)
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[b.ID]; !exists {
		return domainbooking.ErrNotFound
	}
	r.items[b.ID] = cloneBooking(b)
	return nil
}

func (r *BookingRepository) snapshot(id domainbooking.ID) *domainbooking.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.items[id]; ok {
		return cloneBooking(b)
	}
	return nil
}

func (r *BookingRepository) restore(id domainbooking.ID, prev *domainbooking.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev == nil {
		delete(r.items, id)
		return
	}
	r.items[id] = prev
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	if b == nil {
		return nil
	}
	c := *b
	c.Recorder = events.Recorder{}
	return &c
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
