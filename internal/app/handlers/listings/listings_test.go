package listings

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"staybook/internal/app/dto"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/apperr"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/infra/storage/memory"
)

var (
	host  = domainuser.Principal{ID: "host-1", Role: domainuser.RoleHost}
	rival = domainuser.Principal{ID: "host-2", Role: domainuser.RoleHost}
	guest = domainuser.Principal{ID: "guest-1", Role: domainuser.RoleGuest}
	admin = domainuser.Principal{ID: "admin-1", Role: domainuser.RoleAdmin}
)

func date(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	hostUser, err := domainuser.NewUser(domainuser.CreateParams{ID: host.ID, Username: "hana", Email: "hana@example.com", PasswordHash: "x", Role: domainuser.RoleHost})
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if err := store.Users.Save(ctx, hostUser); err != nil {
		t.Fatalf("save user: %v", err)
	}
	for i, l := range []struct {
		id, location string
		rate         money.Cents
	}{
		{"a", "Lake Tahoe, CA", 5000},
		{"b", "Austin, TX", 10000},
		{"c", "South Lake Tahoe", 15000},
	} {
		listing, err := domainlistings.NewListing(domainlistings.CreateParams{
			ID: domainlistings.ID(l.id), HostID: host.ID, Title: "Stay " + l.id, Description: "d",
			Location: l.location, NightlyRate: l.rate, MaxGuests: 2, Now: date(1, 1+i),
		})
		if err != nil {
			t.Fatalf("listing: %v", err)
		}
		if err := store.Listings.Save(ctx, listing); err != nil {
			t.Fatalf("save listing: %v", err)
		}
	}
	return store
}

func ids(items []dto.Listing) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return strings.Join(out, ",")
}

func ptr[T any](v T) *T { return &v }

func TestSearchCatalogFilters(t *testing.T) {
	store := seed(t)
	h := &SearchCatalogHandler{UoWFactory: store}
	ctx := context.Background()

	cases := []struct {
		name  string
		query SearchCatalogQuery
		want  string
	}{
		{"no filters", SearchCatalogQuery{}, "a,b,c"},
		{"location is case insensitive substring", SearchCatalogQuery{Location: "tahoe"}, "a,c"},
		{"bounds are inclusive", SearchCatalogQuery{MinPrice: ptr(50.0), MaxPrice: ptr(100.0)}, "a,b"},
		{"max only", SearchCatalogQuery{MaxPrice: ptr(49.99)}, ""},
		{"single date is ignored", SearchCatalogQuery{CheckIn: date(7, 1)}, "a,b,c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := h.Handle(ctx, tc.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if got := ids(res.Items); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
			if res.Total != len(res.Items) {
				t.Fatalf("total mismatch")
			}
		})
	}

	res, _ := h.Handle(ctx, SearchCatalogQuery{Location: "austin"})
	if len(res.Items) != 1 || res.Items[0].Host.Username != "hana" || res.Items[0].NightlyRate != 100 {
		t.Fatalf("unexpected listing view %+v", res.Items)
	}
}

func TestSearchCatalogExcludesBookedListings(t *testing.T) {
	store := seed(t)
	ctx := context.Background()
	booked := func(id domainbooking.ID, listing domainlistings.ID, in, out time.Time, status domainbooking.Status) {
		dr, err := daterange.New(in, out)
		if err != nil {
			t.Fatalf("range: %v", err)
		}
		b, err := domainbooking.NewBooking(domainbooking.CreateParams{ID: id, ListingID: listing, GuestID: guest.ID, Range: dr, Guests: 1, Total: 100, CreatedAt: date(6, 1)})
		if err != nil {
			t.Fatalf("booking: %v", err)
		}
		b.Status = status
		if err := store.Bookings.Insert(ctx, b); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	booked("b1", "a", date(7, 1), date(7, 5), domainbooking.StatusConfirmed)
	booked("b2", "b", date(7, 2), date(7, 4), domainbooking.StatusCancelled)
	booked("b3", "c", date(7, 5), date(7, 9), domainbooking.StatusPending)

	h := &SearchCatalogHandler{UoWFactory: store}
	res, err := h.Handle(ctx, SearchCatalogQuery{CheckIn: date(7, 3), CheckOut: date(7, 5)})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got := ids(res.Items); got != "b,c" {
		t.Fatalf("expected b,c, got %q", got)
	}

	_, err = h.Handle(ctx, SearchCatalogQuery{CheckIn: date(7, 5), CheckOut: date(7, 3)})
	if !apperr.IsKind(err, apperr.KindInvalidRange) {
		t.Fatalf("expected invalid range, got %v", err)
	}
	_, err = h.Handle(ctx, SearchCatalogQuery{MinPrice: ptr(-1.0)})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetListing(t *testing.T) {
	store := seed(t)
	h := &GetListingHandler{UoWFactory: store}
	res, err := h.Handle(context.Background(), GetListingQuery{ListingID: "c"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if res.Title != "Stay c" || res.Host.Email != "hana@example.com" || res.Bedrooms != 1 {
		t.Fatalf("unexpected listing %+v", res)
	}
	if _, err := h.Handle(context.Background(), GetListingQuery{ListingID: "zzz"}); !errors.Is(err, domainlistings.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHostCommands(t *testing.T) {
	store := seed(t)
	deps := Deps{UoWFactory: store, Clock: func() time.Time { return date(6, 1) }, NewID: func() string { return "new" }}
	ctx := context.Background()

	create := &CreateListingHandler{Deps: deps}
	cmd := CreateListingCommand{Principal: guest, Title: "Loft", Description: "d", Location: "Austin", PricePerNight: ptr(120.5), Guests: 2}
	if _, err := create.Handle(ctx, cmd); !errors.Is(err, ErrHostRoleNeeded) {
		t.Fatalf("guests cannot host, got %v", err)
	}
	cmd.Principal = host
	created, err := create.Handle(ctx, cmd)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "new" || created.NightlyRate != 120.5 || created.Beds != 1 {
		t.Fatalf("unexpected listing %+v", created)
	}

	update := &UpdateListingHandler{Deps: deps}
	if _, err := update.Handle(ctx, UpdateListingCommand{Principal: rival, ListingID: "new", Title: ptr("Mine")}); !errors.Is(err, ErrListingNotOwned) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	updated, err := update.Handle(ctx, UpdateListingCommand{Principal: admin, ListingID: "new", PricePerNight: ptr(99.0)})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.NightlyRate != 99 || updated.Title != "Loft" {
		t.Fatalf("partial update lost fields %+v", updated)
	}
	if _, err := update.Handle(ctx, UpdateListingCommand{Principal: host, ListingID: "new", Title: ptr("  ")}); !errors.Is(err, domainlistings.ErrTitleRequired) {
		t.Fatalf("expected title validation, got %v", err)
	}

	del := &DeleteListingHandler{Deps: deps}
	if _, err := del.Handle(ctx, DeleteListingCommand{Principal: rival, ListingID: "new"}); !errors.Is(err, ErrListingNotOwned) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	res, err := del.Handle(ctx, DeleteListingCommand{Principal: host, ListingID: "new"})
	if err != nil || res.Message != "Listing removed" {
		t.Fatalf("delete: %+v %v", res, err)
	}
	if _, err := store.Listings.ByID(ctx, "new"); !errors.Is(err, domainlistings.ErrNotFound) {
		t.Fatalf("listing still stored: %v", err)
	}
}

type fakeImages struct {
	key  string
	body string
}

func (f *fakeImages) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.key, f.body = key, string(data)
	return "https://cdn.example.com/" + key, nil
}

func TestAddListingImage(t *testing.T) {
	store := seed(t)
	images := &fakeImages{}
	h := &AddListingImageHandler{Deps: Deps{UoWFactory: store}, Images: images}
	ctx := context.Background()
	cmd := AddListingImageCommand{Principal: host, ListingID: "a", Filename: "Pool.JPG", ContentType: "image/jpeg", Size: 3, Reader: strings.NewReader("img")}

	if _, err := h.Handle(ctx, AddListingImageCommand{Principal: host, ListingID: "a", ContentType: "text/plain", Size: 1, Reader: strings.NewReader("x")}); !errors.Is(err, ErrImageContentType) {
		t.Fatalf("expected content type error, got %v", err)
	}
	res, err := h.Handle(ctx, cmd)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(images.key, "listings/a/") || !strings.HasSuffix(images.key, ".jpg") || images.body != "img" {
		t.Fatalf("unexpected upload %q %q", images.key, images.body)
	}
	if len(res.Images) != 1 || res.Images[0] != "https://cdn.example.com/"+images.key {
		t.Fatalf("image not attached: %+v", res.Images)
	}
}
