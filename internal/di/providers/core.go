// Package providers contains dependency injection providers for the
// circulation client.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/biblioteca-app/circ/internal/api"
	"github.com/biblioteca-app/circ/internal/config"
	"github.com/biblioteca-app/circ/internal/directory"
	"github.com/biblioteca-app/circ/internal/logger"
	"github.com/biblioteca-app/circ/internal/validation"
	"github.com/biblioteca-app/circ/internal/views"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting circulation client",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"service_url", cfg.Service.BaseURL,
	)

	return log, nil
}

// ProvideValidator provides the input validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideAPIClient provides the library service client.
func ProvideAPIClient(i do.Injector) (*api.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return api.New(cfg.Service, log.Logger), nil
}

// ProvideDirectory provides the session entity directory.
func ProvideDirectory(i do.Injector) (*directory.Directory, error) {
	cfg := do.MustInvoke[*config.Config](i)
	client := do.MustInvoke[*api.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return directory.New(client, cfg.Typeahead.MaxResults, log.Logger), nil
}

// ProvideViewBuilder provides the derived view builder for the
// configured locale.
func ProvideViewBuilder(i do.Injector) (*views.Builder, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return views.New(cfg.App.Locale), nil
}
