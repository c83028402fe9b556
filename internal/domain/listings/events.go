package listings

import (
	"time"

	"staybook/internal/domain/user"
)

type ListingCreated struct {
	ListingID ID        `json:"listingId"`
	HostID    user.ID   `json:"hostId"`
	At        time.Time `json:"at"`
}

func (e ListingCreated) EventName() string     { return "listing.created" }
func (e ListingCreated) AggregateID() string   { return string(e.ListingID) }
func (e ListingCreated) OccurredAt() time.Time { return e.At }

type ListingUpdated struct {
	ListingID ID        `json:"listingId"`
	At        time.Time `json:"at"`
}

func (e ListingUpdated) EventName() string     { return "listing.updated" }
func (e ListingUpdated) AggregateID() string   { return string(e.ListingID) }
func (e ListingUpdated) OccurredAt() time.Time { return e.At }

type ListingDeleted struct {
	ListingID ID        `json:"listingId"`
	HostID    user.ID   `json:"hostId"`
	At        time.Time `json:"at"`
}

func (e ListingDeleted) EventName() string     { return "listing.deleted" }
func (e ListingDeleted) AggregateID() string   { return string(e.ListingID) }
func (e ListingDeleted) OccurredAt() time.Time { return e.At }
