package cmd

import (
	"log"
	"time"

	"tutorbot/internal/server"

	"github.com/spf13/cobra"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chat API",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, cleanup, err := buildBot()
		if err != nil {
			return err
		}
		defer cleanup()

		addr := flagAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}
		timeout := time.Duration(cfg.Server.TimeoutSecs) * time.Second

		srv := server.New(b, timeout, log.Default())
		return srv.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
