// Package di provides dependency injection configuration for the BookCircle server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/bookcircleapp/bookcircle-server/internal/auth"
	"github.com/bookcircleapp/bookcircle-server/internal/config"
	"github.com/bookcircleapp/bookcircle-server/internal/di/providers"
	"github.com/bookcircleapp/bookcircle-server/internal/guard"
	"github.com/bookcircleapp/bookcircle-server/internal/logger"
	"github.com/bookcircleapp/bookcircle-server/internal/media/covers"
	"github.com/bookcircleapp/bookcircle-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCoverStorage)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideGuard)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideLendingService)
	do.Provide(injector, providers.ProvideFeedbackService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*covers.Storage](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*guard.Guard](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.LendingService](injector)
	_ = do.MustInvoke[*service.FeedbackService](injector)

	// Server last so every dependency is ready before it starts listening
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
