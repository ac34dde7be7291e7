package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"signin-portal/internal/app"
	"signin-portal/internal/config"
)

var migrateDSN string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Create the users, identities and credentials tables when missing.

The connection string comes from --dsn, or DATABASE_DSN (including a .env
file in the working directory).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dsn := migrateDSN
		if dsn == "" {
			dsn = config.Load().DatabaseDSN
		}
		if dsn == "" {
			return errors.New("no database: set --dsn or DATABASE_DSN")
		}

		database, err := app.OpenDB(cmd.Context(), dsn)
		if err != nil {
			return err
		}
		defer database.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVar(&migrateDSN, "dsn", "", "Postgres connection string")
}
