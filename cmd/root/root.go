package root

import (
	"fmt"

	"github.com/flowstate/flowstate-backend/cmd/migrate"
	"github.com/flowstate/flowstate-backend/cmd/recompute"
	"github.com/flowstate/flowstate-backend/config"
	"github.com/flowstate/flowstate-backend/server"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowstate-backend",
	Short: "FlowState activity tracking backend",
}

func GetRootCmd(config *config.Config) *cobra.Command {
	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		config.DB.User,
		config.DB.Password,
		config.DB.Host,
		config.DB.Port,
		config.DB.DBName,
		config.DB.SSLMode)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			server.RunServer(config)
		},
	})

	rootCmd.AddCommand(migrate.GetMigrateCmd(dbURL))
	rootCmd.AddCommand(recompute.GetRecomputeCmd(config))

	return rootCmd
}
