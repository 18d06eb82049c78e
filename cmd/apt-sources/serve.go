package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/etnz/apt-sources/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the converter over HTTP",
	Long: `Serve starts an HTTP API:

  POST /api/convert   convert a JSON {"input": "..."} or a text/plain body
  GET  /api/example   a sample input and its conversion
  GET  /api/health    liveness`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conv := newConverter(keyOptionsFromConfig(), viper.GetBool("verbose"))
		srv := server.NewServer(viper.GetString("listen"), conv)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("starting server: %w", err)
		}
		log.Printf("Listening on http://%s", srv.Addr())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		log.Println("Shutting down...")
		return srv.Stop()
	},
}

func init() {
	serveCmd.Flags().String("listen", server.DefaultAddr, "address to listen on")
	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))

	rootCmd.AddCommand(serveCmd)
}
