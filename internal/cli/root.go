// Package cli comandos de cotizactl: migraciones, sincronización de recurrentes y
// cálculo de cotizaciones desde la terminal.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Cotiza-api/internal/application/auth"
	"github.com/jhoicas/Cotiza-api/internal/bootstrap"
	"github.com/jhoicas/Cotiza-api/pkg/config"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

// App configuración y dependencias compartidas por los comandos.
type App struct {
	Config *config.Config
	Log    *logger.Logger

	// OpenStorage por defecto bootstrap.OpenStorage; las pruebas lo reemplazan.
	OpenStorage func(ctx context.Context, cfg *config.Config, log *logger.Logger) (*bootstrap.Storage, error)
}

func (a *App) services(ctx context.Context) (*bootstrap.Services, func(), error) {
	open := a.OpenStorage
	if open == nil {
		open = bootstrap.OpenStorage
	}
	st, err := open(ctx, a.Config, a.Log)
	if err != nil {
		return nil, nil, err
	}
	svc := bootstrap.NewServices(st, bootstrap.Options{
		BaseCurrency: a.Config.Currency.Base,
		JWT: auth.JWTConfig{
			Secret:     a.Config.JWT.Secret,
			ExpMinutes: a.Config.JWT.Expiration,
			Issuer:     a.Config.JWT.Issuer,
		},
		Log: a.Log,
	})
	return svc, st.Close, nil
}

// NewRootCmd comando raíz "cotizactl".
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "cotizactl",
		Short:         "Herramientas de operación de Cotiza",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(app),
		newSyncRecurringCmd(app),
		newQuoteCalcCmd(app),
	)
	return root
}
