package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caselens/rfescope/internal/rules"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "rfescope",
	Short: "RFE risk assessment for immigration case files",
	Long: "rfescope inspects a case's accumulated evidence and predicts the likelihood\n" +
		"that USCIS will issue a Request for Evidence, with an explainable evidence\n" +
		"trail per triggered rule.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config (optional)")
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.Version = version + " (ruleset " + rules.RulesetVersion + ")"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
