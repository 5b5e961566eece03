package cli

import (
	"os"

	"github.com/spf13/cobra"

	"solrview/shell"
	"solrview/tui"
)

var historyPath string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Search from a full screen terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		lv, err := openLocalView(cfg)
		if err != nil {
			return err
		}
		defer lv.Close()

		return tui.Run(lv.view)
	},
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Search from a line mode shell with tab completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		lv, err := openLocalView(cfg)
		if err != nil {
			return err
		}
		defer lv.Close()

		return shell.New(lv.view, lv.client, os.Stdout).Run(historyPath)
	},
}

func init() {
	shellCmd.Flags().StringVar(&historyPath, "history", ".solrview_history", "history file, empty to disable")
}
