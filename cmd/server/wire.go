// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"marketplace_admin_backend/internal/app"
	"marketplace_admin_backend/internal/auth"
	"marketplace_admin_backend/internal/config"
	"marketplace_admin_backend/internal/dashboard"
	"marketplace_admin_backend/internal/firebase"
	"marketplace_admin_backend/internal/jobs"
	"marketplace_admin_backend/internal/listing"
	"marketplace_admin_backend/internal/notification"
	"marketplace_admin_backend/internal/platform/database"
	platformElasticsearch "marketplace_admin_backend/internal/platform/elasticsearch"
	"marketplace_admin_backend/internal/platform/logger"
	"marketplace_admin_backend/internal/profile"
	"marketplace_admin_backend/internal/realtime"
	"marketplace_admin_backend/internal/shared"
	"marketplace_admin_backend/internal/storage"
	"marketplace_admin_backend/internal/verification"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform layer
		logger.New,
		database.NewGORM,
		platformElasticsearch.NewClient,
		provideCleanup,

		// External services
		firebase.NewFirebaseService,
		storage.NewS3Service,
		wire.Bind(new(storage.Service), new(*storage.S3Service)),

		// Realtime feed
		realtime.NewHub,
		wire.Bind(new(realtime.Publisher), new(*realtime.Hub)),
		realtime.NewHandler,

		// Websocket tickets
		auth.NewTicketService,
		auth.NewHandler,

		// Profiles
		profile.NewGORMRepository,
		profile.NewService,
		wire.Bind(new(profile.Service), new(*profile.ServiceImplementation)),
		wire.Bind(new(shared.Service), new(*profile.ServiceImplementation)),
		profile.NewHandler,

		// Notifications
		notification.NewGORMRepository,
		notification.NewService,
		notification.NewHandler,

		// Verification review
		verification.NewGORMRepository,
		verification.NewService,
		wire.Bind(new(verification.Service), new(*verification.ServiceImplementation)),
		verification.NewHandler,

		// Listing moderation
		listing.NewGORMRepository,
		listing.NewSearch,
		listing.NewService,
		wire.Bind(new(listing.Service), new(*listing.ServiceImplementation)),
		listing.NewHandler,

		// Dashboard
		dashboard.NewService,
		dashboard.NewHandler,

		// Jobs
		jobs.NewStaleVerificationJob,

		// Application layer
		app.NewServer,
	)
	return nil, nil, nil
}
