package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/faqplusplus/faqplusplus/internal/interfaces/cli/migrate"
	"github.com/faqplusplus/faqplusplus/internal/interfaces/cli/publish"
	"github.com/faqplusplus/faqplusplus/internal/interfaces/cli/server"
	"github.com/faqplusplus/faqplusplus/internal/shared/version"
)

// @title						FAQ Plus Plus API
// @version					1.0
// @description				Admin configuration, personal tickets and the Bot Framework messaging endpoint.
// @BasePath					/
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:          "faqplusplus",
		Short:        "FAQ Plus Plus - knowledge base bot for Microsoft Teams",
		Long:         `FAQ Plus Plus answers questions from QnA Maker knowledge bases in Teams and escalates the rest to an expert team.`,
		Version:      version.String(),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		publish.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
