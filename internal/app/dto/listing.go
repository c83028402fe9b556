package dto

import (
	"time"

	domainlistings "staybook/internal/domain/listings"
	domainuser "staybook/internal/domain/user"
)

// ListingHost is the public host identity; it never carries credentials.
type ListingHost struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

type Listing struct {
	ID          string      `json:"id"`
	Host        ListingHost `json:"host"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	NightlyRate float64     `json:"pricePerNight"`
	MaxGuests   int         `json:"guests"`
	Bedrooms    int         `json:"bedrooms"`
	Beds        int         `json:"beds"`
	Bathrooms   int         `json:"bathrooms"`
	Amenities   []string    `json:"amenities"`
	Images      []string    `json:"images"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type ListingCollection struct {
	Items []Listing `json:"items"`
	Total int       `json:"total"`
}

func MapListing(l *domainlistings.Listing, host *domainuser.User) Listing {
	out := Listing{
		ID:          string(l.ID),
		Host:        ListingHost{ID: string(l.HostID)},
		Title:       l.Title,
		Description: l.Description,
		Location:    l.Location,
		NightlyRate: l.NightlyRate.Float(),
		MaxGuests:   l.MaxGuests,
		Bedrooms:    l.Bedrooms,
		Beds:        l.Beds,
		Bathrooms:   l.Bathrooms,
		Amenities:   nonNil(l.Amenities),
		Images:      nonNil(l.Images),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if host != nil {
		out.Host.Username = host.Username
		out.Host.Email = host.Email
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return append([]string(nil), values...)
}
