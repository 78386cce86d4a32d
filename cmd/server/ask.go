package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"drspecialist/internal/core"
)

var askCmd = &cobra.Command{
	Use:   `ask "<symptoms>"`,
	Short: "Recommend a specialist for a symptom description and print it as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		advisor, err := newAdvisor(cfg, log)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, cfg.LLM.Timeout())
		defer cancel()

		res, err := advisor.Analyze(ctx, strings.Join(args, " "))
		if errors.Is(err, core.ErrAnalysisFailed) {
			fmt.Fprintln(os.Stderr, core.FailureMessage)
			return err
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}
