package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/monarkh/site/internal/live"
	"github.com/monarkh/site/internal/server"
	"github.com/monarkh/site/internal/site"
	"github.com/monarkh/site/internal/store"
	"github.com/monarkh/site/internal/telemetry"
)

var port int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the monarkh HTTP server.

The server provides:
  - Home and articles pages with the live motion channel
  - Newsletter signup endpoint
  - Subscriber admin page
  - Health check and Prometheus metrics

Example:
  monarkh serve --port 8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default $MONARKH_PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if port != 0 {
		cfg.Port = port
	}

	level, err := telemetry.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := telemetry.NewLogger(os.Stderr, level, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Tracing())
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	// Open database
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer s.Close()

	content := site.DefaultContent()
	liveCfg := live.DefaultConfig()
	liveCfg.Options = cfg.Motion.LiveOptions(len(content.Slides))

	srv := server.New(s, server.Options{
		Port:            cfg.Port,
		Token:           cfg.Token,
		TokenFile:       getTokenFilePath(),
		ShutdownTimeout: cfg.ShutdownTimeout,
		Live:            liveCfg,
		Content:         &content,
		Metrics:         telemetry.NewMetrics(),
		Logger:          logger,
	})

	printStartup(cmd, srv.Token())
	return srv.Start(ctx)
}

func printStartup(cmd *cobra.Command, token string) {
	out := cmd.OutOrStdout()
	base := serverURL()
	fmt.Fprintf(out, "monarkh running on %s\n", base)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Site:    %s/\n", base)
	fmt.Fprintf(out, "  Admin:   %s/admin?token=%s\n", base, token)
	fmt.Fprintf(out, "  Metrics: %s/metrics\n", base)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Press Ctrl+C to stop.")
}

// serverURL is the public base URL, or localhost on the configured port.
func serverURL() string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	p := cfg.Port
	if p == 0 {
		p = 8080
	}
	return fmt.Sprintf("http://localhost:%d", p)
}
