package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Print the effective configuration and verify connectivity",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		fmt.Println("Configuration:")
		fmt.Printf("  LLM provider:  %s (model %s)\n", cfg.LLMProvider, cfg.LLMModel)
		fmt.Printf("  Max tokens:    %d, temperature %.2f\n", cfg.MaxTokens, cfg.Temperature)
		fmt.Printf("  Store:         %s (%s/%s)\n", cfg.SurrealDBURL, cfg.SurrealDBNamespace, cfg.SurrealDBDatabase)
		fmt.Printf("  Concurrency:   %d\n", cfg.Concurrency)
		fmt.Printf("  Review pass:   %t\n", cfg.ReviewPass)
		fmt.Printf("  Log file:      %s\n", cfg.LogFile)

		if _, err := getLLM(); err != nil {
			exitWithError("LLM: %v", err)
		}
		fmt.Println("LLM client: ok")

		if _, err := getStore(ctx); err != nil {
			exitWithError("store: %v", err)
		}
		fmt.Println("Document store: ok")
	},
}
