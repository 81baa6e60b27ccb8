package commands

import (
	"labelops-mcp/internal/config"
	"labelops-mcp/internal/logging"
	"labelops-mcp/internal/mcp"
	"labelops-mcp/internal/workforce"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	workforceClient workforce.Client
)

var rootCmd = &cobra.Command{
	Use:   "labelops-mcp",
	Short: "labelops-mcp is a labeling-operations reporting MCP server",
	Long: `A specialized MCP Server that reports on labeling workforce performance:
hierarchical task-stat rollups (project / POD lead / trainer), review-side
rollups, time-tracking efficiency, and threshold classification.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		// Initialize workforce client
		workforceClient = workforce.NewClient(cfg.Workforce)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("labelops-mcp starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		log.Info().Msg("MCP Server starting Stdio loop")
		server := mcp.NewServer(cfg, workforceClient)
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("MCP server terminated")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
