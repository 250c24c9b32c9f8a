package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/postgres"
)

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes de PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Config.Store.UsesMemory() {
				return fmt.Errorf("migrate: STORE_DRIVER=memory no tiene esquema")
			}
			pool, err := postgres.NewPool(cmd.Context(), app.Config.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			version, err := postgres.RunMigrations(pool)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), StyleOK.Render(fmt.Sprintf("✓ esquema en la versión %d", version)))
			return nil
		},
	}
}

func newSyncRecurringCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-recurring",
		Short: "Genera las facturas y gastos recurrentes vencidos",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := app.services(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Recurring.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatSyncResult(res))
			return nil
		},
	}
}

func newQuoteCalcCmd(app *App) *cobra.Command {
	var file string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "quote-calc",
		Short: "Calcula los totales de una cotización (JSON por --file o stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			var in dto.QuoteCalculationRequest
			if err := json.NewDecoder(r).Decode(&in); err != nil {
				return fmt.Errorf("quote-calc: JSON inválido: %w", err)
			}

			svc, closeFn, err := app.services(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			out, err := svc.Quotes.Calculate(cmd.Context(), in)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatCalculation(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "archivo JSON con items, discount y commission_rate")
	cmd.Flags().BoolVar(&asJSON, "json", false, "salida JSON")
	return cmd
}
