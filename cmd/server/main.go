// Command drspecialist serves the DRSpecialist web UI and offers one-shot
// queries from the terminal.
//
// Running with no subcommand starts the server, the same as `serve`.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"drspecialist/internal/config"
	"drspecialist/internal/core"
	"drspecialist/internal/llm"
	"drspecialist/internal/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "drspecialist",
	Short: "Find the right medical specialist for a symptom description",
	Long: `DRSpecialist sends a free-text symptom description to a generative model
and renders the recommended specialist.

It is an educational tool, not a diagnostic system.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")
	rootCmd.AddCommand(serveCmd, askCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads config and builds the logger every subcommand needs.
func bootstrap() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}

func newAdvisor(cfg *config.Config, log logger.Logger) (*core.Advisor, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.LLM.Provider)
	}
	client, err := llm.New(cfg.LLM.Provider, llm.Options{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		return nil, err
	}
	return core.NewAdvisor(client, log), nil
}
