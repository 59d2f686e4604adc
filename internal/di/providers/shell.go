package providers

import (
	"os"

	"github.com/samber/do/v2"

	"github.com/biblioteca-app/circ/internal/confirm"
	"github.com/biblioteca-app/circ/internal/logger"
	"github.com/biblioteca-app/circ/internal/service"
	"github.com/biblioteca-app/circ/internal/shell"
	"github.com/biblioteca-app/circ/internal/views"
)

// ProvideShell provides the interactive terminal front.
func ProvideShell(i do.Injector) (*shell.Shell, error) {
	log := do.MustInvoke[*logger.Logger](i)

	deps := shell.Deps{
		Catalog:      do.MustInvoke[*service.CatalogService](i),
		Circulation:  do.MustInvoke[*service.CirculationService](i),
		Loans:        do.MustInvoke[*service.LoanService](i),
		Reservations: do.MustInvoke[*service.ReservationService](i),
		Settings:     do.MustInvoke[*service.SettingsService](i),
		Notices:      do.MustInvoke[*service.NotificationService](i),
		Reports:      do.MustInvoke[*service.ReportService](i),
		Gate:         do.MustInvoke[*confirm.Gate](i),
		Views:        do.MustInvoke[*views.Builder](i),
	}

	return shell.New(os.Stdin, os.Stdout, log, deps), nil
}
