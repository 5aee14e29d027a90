package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gyansetu",
	Short: "Education portal for students and teachers",
	Long:  "Gyan Setu — terminal education portal: browse lessons, track progress, take quizzes, and monitor class statistics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("session-file", "", "Path to the session state file (overrides GYANSETU_SESSION env var)")

	rootCmd.AddCommand(versionCmd)
}
