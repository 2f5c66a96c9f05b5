package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fpang/public-file-server/internal/config"
	"github.com/fpang/public-file-server/internal/fileserver"
	"github.com/fpang/public-file-server/internal/logging"
	"github.com/fpang/public-file-server/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// CLI flags
var (
	configFlag   string
	hostFlag     string
	portFlag     int
	rootFlag     string
	logLevelFlag string
	metricsFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "file-server",
	Short: "Serve a directory over HTTP with generated index pages",
	Long: `File Server exposes a single directory tree over HTTP. Files are sent
with a Content-Type chosen from their extension; directories are rendered as
an HTML index. Requests that resolve outside the served directory are
rejected with 403.

Settings come from defaults, an optional config file, the environment
(HOST, PORT, PUBLIC_DIR, FILESERVER_LOG_LEVEL, METRICS_ENABLED) and finally
flags, each overriding the previous.

Examples:
  file-server
  file-server --port 8080 --root ./site
  file-server --config server.yaml`,
	Run: runMain,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configFlag, "config", "c", "", "YAML or TOML config file")
	flags.StringVar(&hostFlag, "host", config.DefaultHost, "Interface to bind")
	flags.IntVarP(&portFlag, "port", "p", config.DefaultPort, "Port to listen on")
	flags.StringVar(&rootFlag, "root", "", "Directory to serve (default: public/ beside the executable)")
	flags.StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	flags.BoolVar(&metricsFlag, "metrics", false, "Emit per-request EMF metrics on stdout")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LogLevel)

	if err := cfg.EnsureRoot(); err != nil {
		log.Fatal().Err(err).Str("root", cfg.Root).Msg("Failed to prepare served root")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newServerHandler(cfg, metrics.Stdout),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", srv.Addr).Msg("Failed to listen")
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	startedAt := time.Now()
	listenPort := cfg.Port
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		listenPort = tcp.Port
	}
	printBanner(os.Stdout, cfg.Host, listenPort, cfg.Root, startedAt)

	logging.NewStartupLogger("file-server").
		CommitHash(commitHash).
		BuildTime(buildTime).
		Config("addr", net.JoinHostPort(cfg.Host, strconv.Itoa(listenPort))).
		Config("root", cfg.Root).
		Config("logLevel", cfg.LogLevel).
		Feature("metrics", cfg.Metrics).
		StartedAt(startedAt).
		Log()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// loadConfig layers explicitly set flags over config.Load and validates the
// merged result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = hostFlag
	}
	if flags.Changed("port") {
		cfg.Port = portFlag
	}
	if flags.Changed("root") {
		cfg.Root = rootFlag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevelFlag
	}
	if flags.Changed("metrics") {
		cfg.Metrics = metricsFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return cfg, nil
}

// newServerHandler wires the file handler and its middleware. The handler is
// not registered on a ServeMux, which would clean ".." out of request paths
// and redirect before the traversal guard could reject them.
func newServerHandler(cfg *config.Config, sink *metrics.Sink) http.Handler {
	var handler http.Handler = fileserver.NewHandler(cfg.Root, nil)
	if cfg.Metrics {
		handler = withMetrics(sink, handler)
	}
	handler = withLogging(handler)
	handler = withRecovery(handler)
	return withRequestID(handler)
}
