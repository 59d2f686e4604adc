package providers

import (
	"github.com/samber/do/v2"

	"github.com/biblioteca-app/circ/internal/api"
	"github.com/biblioteca-app/circ/internal/confirm"
	"github.com/biblioteca-app/circ/internal/directory"
	"github.com/biblioteca-app/circ/internal/logger"
	"github.com/biblioteca-app/circ/internal/sequencer"
	"github.com/biblioteca-app/circ/internal/service"
	"github.com/biblioteca-app/circ/internal/validation"
)

// ProvideSequencer provides the multi-step operation sequencer.
func ProvideSequencer(i do.Injector) (*sequencer.Sequencer, error) {
	client := do.MustInvoke[*api.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return sequencer.New(client, log.Logger), nil
}

// ProvideConfirmGate provides the destructive-action confirmation gate.
func ProvideConfirmGate(i do.Injector) (*confirm.Gate, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return confirm.New(log.Logger), nil
}

// ProvideCatalogService provides book and student management.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	client := do.MustInvoke[*api.Client](i)
	validator := do.MustInvoke[*validation.Validator](i)
	dir := do.MustInvoke[*directory.Directory](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(client, validator, dir, log.Logger), nil
}

// ProvideCirculationService provides the new-loan flow.
func ProvideCirculationService(i do.Injector) (*service.CirculationService, error) {
	client := do.MustInvoke[*api.Client](i)
	dir := do.MustInvoke[*directory.Directory](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCirculationService(client, dir, log.Logger), nil
}

// ProvideLoanService provides the return desk operations.
func ProvideLoanService(i do.Injector) (*service.LoanService, error) {
	client := do.MustInvoke[*api.Client](i)
	seq := do.MustInvoke[*sequencer.Sequencer](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLoanService(client, seq, log.Logger), nil
}

// ProvideReservationService provides queue management.
func ProvideReservationService(i do.Injector) (*service.ReservationService, error) {
	client := do.MustInvoke[*api.Client](i)
	seq := do.MustInvoke[*sequencer.Sequencer](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReservationService(client, seq, log.Logger), nil
}

// ProvideSettingsService provides circulation policy management.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	client := do.MustInvoke[*api.Client](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSettingsService(client, validator, log.Logger), nil
}

// ProvideNotificationService provides manual notice triggers.
func ProvideNotificationService(i do.Injector) (*service.NotificationService, error) {
	client := do.MustInvoke[*api.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNotificationService(client, log.Logger), nil
}

// ProvideReportService provides the aggregate report fetchers.
func ProvideReportService(i do.Injector) (*service.ReportService, error) {
	client := do.MustInvoke[*api.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReportService(client, log.Logger), nil
}
