package main

import (
	"log/slog"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	bookingapp "staybook/internal/app/handlers/booking"
	listingapp "staybook/internal/app/handlers/listings"
	meapp "staybook/internal/app/handlers/me"
	"staybook/internal/app/middleware"
	"staybook/internal/app/outbox"
	"staybook/internal/app/policies"
	"staybook/internal/app/queries"
	authsvc "staybook/internal/app/services/auth"
	"staybook/internal/app/uow"
	"staybook/internal/app/validation"
	domainuser "staybook/internal/domain/user"
	ginserver "staybook/internal/infra/http/gin"
	"staybook/internal/infra/obs"
	"staybook/internal/infra/security"
)

// backends are the storage, messaging and gateway adapters selected by
// configuration.
type backends struct {
	UoW         uow.UoWFactory
	Users       domainuser.Repository
	Outbox      outbox.Outbox
	Idempotency middleware.IdempotencyStore
	Images      policies.ImageStore
	Payments    policies.PaymentsPort
	Tokens      authsvc.TokenIssuer
	Passwords   authsvc.PasswordHasher
}

type application struct {
	handlers ginserver.Handlers
	commands commands.Bus
	queries  queries.Bus
}

func buildApplication(logger *slog.Logger, metrics *obs.Metrics, b backends) application {
	if b.Passwords == nil {
		b.Passwords = security.BcryptHasher{}
	}
	encoder := outbox.JSONEncoder{}
	bookingDeps := bookingapp.Deps{UoWFactory: b.UoW, Outbox: b.Outbox, Encoder: encoder}
	listingDeps := listingapp.Deps{UoWFactory: b.UoW, Outbox: b.Outbox, Encoder: encoder}

	commandBus := commands.NewRegistry()
	commands.Register[bookingapp.CreateBookingCommand, *dto.Booking](commandBus, &bookingapp.CreateBookingHandler{Deps: bookingDeps})
	commands.Register[bookingapp.UpdateStatusCommand, *dto.Booking](commandBus, &bookingapp.UpdateStatusHandler{Deps: bookingDeps})
	commands.Register[bookingapp.CancelBookingCommand, *dto.Booking](commandBus, &bookingapp.CancelBookingHandler{Deps: bookingDeps})
	commands.Register[bookingapp.PayBookingCommand, *dto.Booking](commandBus, &bookingapp.PayBookingHandler{Deps: bookingDeps, Payments: b.Payments, Logger: logger})
	commands.Register[listingapp.CreateListingCommand, *dto.Listing](commandBus, &listingapp.CreateListingHandler{Deps: listingDeps})
	commands.Register[listingapp.UpdateListingCommand, *dto.Listing](commandBus, &listingapp.UpdateListingHandler{Deps: listingDeps})
	commands.Register[listingapp.DeleteListingCommand, *listingapp.DeleteListingResult](commandBus, &listingapp.DeleteListingHandler{Deps: listingDeps})
	commands.Register[listingapp.AddListingImageCommand, *dto.Listing](commandBus, &listingapp.AddListingImageHandler{Deps: listingDeps, Images: b.Images, Logger: logger})

	queryBus := queries.NewRegistry()
	queries.Register[listingapp.SearchCatalogQuery, *dto.ListingCollection](queryBus, &listingapp.SearchCatalogHandler{UoWFactory: b.UoW})
	queries.Register[listingapp.GetListingQuery, *dto.Listing](queryBus, &listingapp.GetListingHandler{UoWFactory: b.UoW})
	queries.Register[meapp.ListGuestBookingsQuery, *dto.BookingCollection](queryBus, &meapp.ListGuestBookingsHandler{UoWFactory: b.UoW})
	queries.Register[bookingapp.ListAllQuery, *dto.BookingCollection](queryBus, &bookingapp.ListAllHandler{UoWFactory: b.UoW})

	validator := validation.New()
	var observer middleware.Observer
	if metrics != nil {
		observer = metrics
	}
	commandBusWithMiddleware := commands.Chain(
		commandBus,
		middleware.Logging(logger, observer),
		middleware.Validation(validator),
		middleware.Idempotency(b.Idempotency),
		middleware.OutboxFlush(b.Outbox),
		middleware.Transaction(b.UoW),
	)
	queryBusWithMiddleware := queries.Chain(
		queryBus,
		middleware.QueryLogging(logger, observer),
		middleware.QueryValidation(validator),
	)

	authService := &authsvc.Service{
		Users:     b.Users,
		Passwords: b.Passwords,
		Tokens:    b.Tokens,
		Logger:    logger,
	}
	handlers := ginserver.Handlers{
		Auth: ginserver.AuthHandler{Service: authService, Logger: logger},
		Listing: ginserver.ListingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		Booking: ginserver.BookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}
	if metrics != nil {
		handlers.Metrics = metrics.Handler()
	}
	return application{
		handlers: handlers,
		commands: commandBusWithMiddleware,
		queries:  queryBusWithMiddleware,
	}
}
