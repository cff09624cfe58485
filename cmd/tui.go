package cmd

import (
	"tutorbot/internal/tui"

	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive support chat",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func runTUI() error {
	b, cleanup, err := buildBot()
	if err != nil {
		return err
	}
	defer cleanup()

	return tui.Run(b)
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
