package listings

import (
	"context"
	"strings"
	"time"

	"staybook/internal/domain/shared/apperr"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
	"staybook/internal/domain/user"
)

var (
	ErrNotFound      = apperr.NotFound("listing not found")
	ErrTitleRequired = apperr.Validation("title is required")
	ErrLocation      = apperr.Validation("location is required")
	ErrNightlyRate   = apperr.Validation("nightly price must be non-negative")
	ErrMaxGuests     = apperr.Validation("guest capacity must be at least 1")
	ErrRoomCounts    = apperr.Validation("bedroom, bed and bathroom counts must be non-negative")
	ErrHostRequired  = apperr.Validation("host is required")
	ErrIDRequired    = apperr.Validation("listing id is required")
)

type ID string

type Listing struct {
	ID          ID
	HostID      user.ID
	Title       string
	Description string
	Location    string
	NightlyRate money.Cents
	MaxGuests   int
	Bedrooms    int
	Beds        int
	Bathrooms   int
	Amenities   []string
	Images      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	events.Recorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Listing, error)
	Find(ctx context.Context, filter Filter) ([]*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id ID) error
}

type CreateParams struct {
	ID          ID
	HostID      user.ID
	Title       string
	Description string
	Location    string
	NightlyRate money.Cents
	MaxGuests   int
	Bedrooms    *int
	Beds        *int
	Bathrooms   *int
	Amenities   []string
	Images      []string
	Now         time.Time
}

const defaultRoomCount = 1

func NewListing(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.HostID)) == "" {
		return nil, ErrHostRequired
	}
	l := &Listing{
		ID:          params.ID,
		HostID:      params.HostID,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Location:    strings.TrimSpace(params.Location),
		NightlyRate: params.NightlyRate,
		MaxGuests:   params.MaxGuests,
		Bedrooms:    intOr(params.Bedrooms, defaultRoomCount),
		Beds:        intOr(params.Beds, defaultRoomCount),
		Bathrooms:   intOr(params.Bathrooms, defaultRoomCount),
		Amenities:   normalizeList(params.Amenities),
		Images:      normalizeList(params.Images),
		CreatedAt:   params.Now.UTC(),
		UpdatedAt:   params.Now.UTC(),
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	l.Record(ListingCreated{ListingID: l.ID, HostID: l.HostID, At: l.CreatedAt})
	return l, nil
}

// UpdateParams carries a partial update; nil fields are left untouched.
type UpdateParams struct {
	Title       *string
	Description *string
	Location    *string
	NightlyRate *money.Cents
	MaxGuests   *int
	Bedrooms    *int
	Beds        *int
	Bathrooms   *int
	Amenities   []string
	Images      []string
	Now         time.Time
}

func (l *Listing) Update(params UpdateParams) error {
	next := *l
	next.Recorder = events.Recorder{}
	if params.Title != nil {
		next.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		next.Description = strings.TrimSpace(*params.Description)
	}
	if params.Location != nil {
		next.Location = strings.TrimSpace(*params.Location)
	}
	if params.NightlyRate != nil {
		next.NightlyRate = *params.NightlyRate
	}
	if params.MaxGuests != nil {
		next.MaxGuests = *params.MaxGuests
	}
	if params.Bedrooms != nil {
		next.Bedrooms = *params.Bedrooms
	}
	if params.Beds != nil {
		next.Beds = *params.Beds
	}
	if params.Bathrooms != nil {
		next.Bathrooms = *params.Bathrooms
	}
	if params.Amenities != nil {
		next.Amenities = normalizeList(params.Amenities)
	}
	if params.Images != nil {
		next.Images = normalizeList(params.Images)
	}
	if err := next.validate(); err != nil {
		return err
	}

	l.Title = next.Title
	l.Description = next.Description
	l.Location = next.Location
	l.NightlyRate = next.NightlyRate
	l.MaxGuests = next.MaxGuests
	l.Bedrooms = next.Bedrooms
	l.Beds = next.Beds
	l.Bathrooms = next.Bathrooms
	l.Amenities = next.Amenities
	l.Images = next.Images
	l.UpdatedAt = params.Now.UTC()
	l.Record(ListingUpdated{ListingID: l.ID, At: l.UpdatedAt})
	return nil
}

// AddImage appends an uploaded image URL.
func (l *Listing) AddImage(url string, now time.Time) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	l.Images = append(l.Images, url)
	l.UpdatedAt = now.UTC()
	l.Record(ListingUpdated{ListingID: l.ID, At: l.UpdatedAt})
}

// MarkDeleted records the deletion event; the repository removes the record.
func (l *Listing) MarkDeleted(now time.Time) {
	l.Record(ListingDeleted{ListingID: l.ID, HostID: l.HostID, At: now.UTC()})
}

func (l *Listing) validate() error {
	switch {
	case l.Title == "":
		return ErrTitleRequired
	case l.Location == "":
		return ErrLocation
	case l.NightlyRate < 0:
		return ErrNightlyRate
	case l.MaxGuests < 1:
		return ErrMaxGuests
	case l.Bedrooms < 0 || l.Beds < 0 || l.Bathrooms < 0:
		return ErrRoomCounts
	}
	return nil
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
