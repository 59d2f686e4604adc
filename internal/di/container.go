// Package di provides dependency injection configuration for the
// circulation client.
package di

import (
	"github.com/samber/do/v2"

	"github.com/biblioteca-app/circ/internal/di/providers"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAPIClient)
	do.Provide(injector, providers.ProvideDirectory)
	do.Provide(injector, providers.ProvideViewBuilder)

	// Interaction components
	do.Provide(injector, providers.ProvideSequencer)
	do.Provide(injector, providers.ProvideConfirmGate)

	// Business services
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideCirculationService)
	do.Provide(injector, providers.ProvideLoanService)
	do.Provide(injector, providers.ProvideReservationService)
	do.Provide(injector, providers.ProvideSettingsService)
	do.Provide(injector, providers.ProvideNotificationService)
	do.Provide(injector, providers.ProvideReportService)

	// Presentation
	do.Provide(injector, providers.ProvideShell)

	return injector
}
