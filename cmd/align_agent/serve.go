package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-aligner/internal/config"
	"github.com/jonathan/resume-aligner/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start an HTTP server exposing the analyze, gaps, rewrite-plan, feedback, insights, and calibration endpoints, with the calibrator running in the background.",
	RunE:  runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Address to listen on")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{ListenAddr: serveAddr})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.cleanup()

	// The calibrator polls its triggers off the request path; it stops when
	// the server shuts down.
	calCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go st.calibrator.Run(calCtx)

	srv := server.New(server.Config{Addr: cfg.ListenAddr}, st.engine, st.publisher, st.logger)
	return srv.Start()
}
