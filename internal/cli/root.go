package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "quizhaus",
	Short: "Real-time multiplayer quiz server",
	Long: "quizhaus runs a websocket-based multiplayer quiz: lobbies with " +
		"join codes, timed questions, streak scoring and a hall of fame.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}
