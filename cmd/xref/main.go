// Package main provides the xref binary entry point: extracts a
// cross-reference graph from a C/C++ source tree, verifies it against a
// magic-comment assertion file, or watches a tree and republishes fact
// batches to NATS as files change.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/c360studio/semstreams/natsclient"

	"github.com/xrefgraph/xref/assertion"
	"github.com/xrefgraph/xref/astdriver"
	"github.com/xrefgraph/xref/claim"
	"github.com/xrefgraph/xref/config"
	"github.com/xrefgraph/xref/factsink"
	"github.com/xrefgraph/xref/filestack"
	"github.com/xrefgraph/xref/graph"
	"github.com/xrefgraph/xref/metrics"
	"github.com/xrefgraph/xref/observer"
	"github.com/xrefgraph/xref/verifier"
)

const (
	version = "0.1.0"
	appName = "xref"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Cross-reference graph extraction and verification",
		Long: `xref extracts a Kythe-style cross-reference graph from a C/C++ source
tree: declarations, definitions, references, and the edges between them.

It provides:
- extract: walk a source tree once and emit facts
- verify: solve a magic-comment assertion file against freshly extracted facts
- serve: watch a source tree and republish fact batches to NATS as files change`,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(extractCmd(&configPath, &logLevel))
	cmd.AddCommand(verifyCmd(&configPath, &logLevel))
	cmd.AddCommand(serveCmd(&configPath, &logLevel))
	cmd.AddCommand(versionCmd())

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, version)
		},
	}
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig(path string, logger *slog.Logger) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.NewLoader(logger).Load()
}

type driverLogger struct{ logger *slog.Logger }

func (d driverLogger) Warnf(format string, args ...any) {
	d.logger.Warn(fmt.Sprintf(format, args...))
}

// extractCmd walks the configured source roots once, emitting every
// extracted fact to the configured sink, and prints a summary.
func extractCmd(configPath, logLevel *string) *cobra.Command {
	var (
		corpus    string
		natsURL   string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "extract [roots...]",
		Short: "Extract a cross-reference graph from a source tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*logLevel)
			cfg, err := loadConfig(*configPath, logger)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if len(args) > 0 {
				cfg.Source.Roots = args
			}
			if corpus != "" {
				cfg.Corpus.Name = corpus
			}
			if natsURL != "" {
				cfg.NATS.URL = natsURL
				cfg.NATS.Embedded = false
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			reg := prometheus.NewRegistry()
			m := metrics.New(reg)

			var sink factsink.Sink
			var natsSink *factsink.NATSSink
			if cfg.NATS.URL != "" {
				client, err := connectToNATS(cmd.Context(), cfg.NATS.URL, logger)
				if err != nil {
					return err
				}
				defer client.Close(cmd.Context())
				natsSink = factsink.NewNATSSink(client, cfg.Corpus.Name, batchSize, nil)
				sink = natsSink
			} else {
				sink = factsink.NewMemorySink()
			}

			claimant := graph.VName{Corpus: cfg.Corpus.Name, Signature: "xref-extract"}
			client := claim.NewStaticClaimClient()
			rec := observer.NewRecorder(sink, client, claimant, filestack.NewContextMap(), "", driverLogger{logger})
			obs := metrics.Wrap(rec, m)

			driver := astdriver.NewDriver(obs, cfg.Corpus.Name, ".")
			roots, err := cfg.ResolvedRoots()
			if err != nil {
				return fmt.Errorf("resolve source roots: %w", err)
			}

			var functions, records, enums, variables, files int
			for _, root := range roots {
				results, err := driver.IndexDirectory(cmd.Context(), root)
				if err != nil {
					return fmt.Errorf("index %s: %w", root, err)
				}
				for _, r := range results {
					functions += r.Functions
					records += r.Records
					enums += r.Enums
					variables += r.Variables
					files++
				}
			}
			if natsSink != nil {
				if err := natsSink.Flush(cmd.Context()); err != nil {
					return fmt.Errorf("flush facts: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d files: %d functions, %d records, %d enums, %d variables\n",
				files, functions, records, enums, variables)
			return nil
		},
	}

	cmd.Flags().StringVar(&corpus, "corpus", "", "Corpus name for emitted VNames (overrides config)")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL (overrides config); with no URL from either, facts go to an in-memory sink only")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Fact batch size before a NATS publish (default 500)")
	return cmd
}

// verifyCmd solves a magic-comment assertion file against the facts
// freshly extracted from the given source roots, printing every
// inspection's resolved binding the way verifier_main.cc does.
func verifyCmd(configPath, logLevel *string) *cobra.Command {
	var commentPrefix string

	cmd := &cobra.Command{
		Use:   "verify <assertions-file> [roots...]",
		Short: "Verify extracted facts against a magic-comment assertion file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*logLevel)
			cfg, err := loadConfig(*configPath, logger)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if len(args) > 1 {
				cfg.Source.Roots = args[1:]
			}
			if cfg.Corpus.Name == "" {
				cfg.Corpus.Name = "verify"
			}

			parser := assertion.NewParser(commentPrefix)
			program, ok := parser.ParseFile(args[0])
			if !ok {
				for _, e := range parser.Errors() {
					fmt.Fprintln(os.Stderr, e)
				}
				return fmt.Errorf("failed to parse assertions in %s", args[0])
			}

			sink := factsink.NewMemorySink()
			claimant := graph.VName{Corpus: cfg.Corpus.Name, Signature: "xref-verify"}
			client := claim.NewStaticClaimClient()
			rec := observer.NewRecorder(sink, client, claimant, filestack.NewContextMap(), "", driverLogger{logger})

			driver := astdriver.NewDriver(rec, cfg.Corpus.Name, ".")
			roots, err := cfg.ResolvedRoots()
			if err != nil {
				return fmt.Errorf("resolve source roots: %w", err)
			}
			for _, root := range roots {
				if _, err := driver.IndexDirectory(cmd.Context(), root); err != nil {
					return fmt.Errorf("index %s: %w", root, err)
				}
			}

			facts := verifier.FactsFromSink(sink)
			result := verifier.Run(program, facts)

			out := cmd.OutOrStdout()
			for _, insp := range result.Inspections {
				fmt.Fprintf(out, "%s = %s\n", insp.ID, insp.Value)
			}
			if !result.Solved {
				return fmt.Errorf("verification failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&commentPrefix, "comment-prefix", "//-", "Magic comment prefix recognized in the assertion file")
	return cmd
}

// serveCmd runs a long-lived watch mode: incremental re-indexing on file
// change, republishing fact batches, and an HTTP /metrics endpoint.
func serveCmd(configPath, logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [root]",
		Short: "Watch a source tree and republish fact batches as files change",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*logLevel)
			cfg, err := loadConfig(*configPath, logger)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			repoRoot := "."
			if len(args) > 0 {
				repoRoot = args[0]
			}
			if cfg.Corpus.Name == "" {
				cfg.Corpus.Name = "serve"
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			reg := prometheus.NewRegistry()
			m := metrics.New(reg)

			var sink factsink.Sink = factsink.NewMemorySink()
			if cfg.NATS.URL != "" {
				client, err := connectToNATS(ctx, cfg.NATS.URL, logger)
				if err != nil {
					return err
				}
				defer client.Close(ctx)
				sink = factsink.NewNATSSink(client, cfg.Corpus.Name, 0, nil)
			}

			claimant := graph.VName{Corpus: cfg.Corpus.Name, Signature: "xref-serve"}
			client := claim.NewStaticClaimClient()
			rec := observer.NewRecorder(sink, client, claimant, filestack.NewContextMap(), "", driverLogger{logger})
			obs := metrics.Wrap(rec, m)

			driver := astdriver.NewDriver(obs, cfg.Corpus.Name, repoRoot)
			watcher, err := astdriver.NewWatcher(driver, astdriver.WatchConfig{
				RepoRoot:      repoRoot,
				DebounceDelay: cfg.Watch.DebounceDelay,
				Logger:        logger,
			})
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}

			if _, err := watcher.IndexDirectory(ctx); err != nil {
				return fmt.Errorf("initial index: %w", err)
			}
			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer watcher.Stop()

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			server := &http.Server{Addr: cfg.Serve.MetricsAddr, Handler: mux}
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("metrics server failed", "error", err)
				}
			}()
			defer server.Close()

			logger.Info("watching for changes", "root", repoRoot, "metrics_addr", cfg.Serve.MetricsAddr)
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev := <-watcher.Events():
					if ev.Error != nil {
						logger.Warn("watch event failed", "path", ev.Path, "error", ev.Error)
						continue
					}
					logger.Info("reindexed", "path", ev.Path, "operation", ev.Operation)
				}
			}
		},
	}
	return cmd
}

func connectToNATS(ctx context.Context, url string, logger *slog.Logger) (*natsclient.Client, error) {
	logger.Info("connecting to NATS", "url", url)

	client, err := natsclient.NewClient(url,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, fmt.Errorf("wait for NATS connection at %s: %w", url, err)
	}

	logger.Info("connected to NATS", "url", url)
	return client, nil
}
