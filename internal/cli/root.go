// Package cli implements the cohortctl command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cohort/config"
	"cohort/internal/app"
	"cohort/pkg/correlation"
	"cohort/pkg/health"
	"cohort/pkg/logger"

	"github.com/google/go-querystring/query"
	"github.com/spf13/cobra"
)

// ErrUnhealthy makes cohortctl exit with status 1 without printing an error.
var ErrUnhealthy = errors.New("unhealthy")

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrUnhealthy) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

// NewRootCmd builds the cohortctl command tree.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "cohortctl",
		Short:         "Run cohort health checks from the command line",
		Long:          "cohortctl evaluates the health checks configured through the environment\nand captures heap dumps.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.Setup(logger.Options{Level: logLevel, Console: true, Output: stderr})
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(newCheckCmd(), newHeapDumpCmd())
	return root
}

func newCheckCmd() *cobra.Command {
	var (
		output  string
		timeout time.Duration
		only    string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate every configured health check once",
		Long: "check evaluates every configured health check once. The kafka producer send\n" +
			"rate is only meaningful in a running server and is not checked here.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if cmd.Flags().Changed("timeout") {
				cfg.CheckTimeout = timeout
			}

			ctx := cmd.Context()
			l := slog.Default()
			backends, err := app.NewBackends(ctx, cfg, l, app.OneShot())
			if err != nil {
				return err
			}
			defer backends.Close()

			registry, err := app.NewRegistry(cfg, backends, l)
			if err != nil {
				return err
			}

			report, err := evaluate(ctx, registry, only)
			if err != nil {
				return err
			}
			if err := Render(cmd.OutOrStdout(), report, output); err != nil {
				return err
			}
			if !report.IsHealthy() {
				return ErrUnhealthy
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", FormatText, "Output format: text, json, yaml")
	cmd.Flags().DurationVar(&timeout, "timeout", health.DefaultTimeout, "Per-check timeout (0 disables)")
	cmd.Flags().StringVar(&only, "only", "", "Run only the named check")
	return cmd
}

func evaluate(ctx context.Context, registry *health.Registry, only string) (health.Report, error) {
	if only == "" {
		return registry.CheckAll(ctx), nil
	}

	started := time.Now()
	res, err := registry.Check(ctx, only)
	if err != nil {
		return health.Report{}, err
	}
	return health.NewReport(correlation.NewID(), []health.CheckResult{res}, started), nil
}

func newHeapDumpCmd() *cobra.Command {
	var (
		live   bool
		out    string
		server string
	)

	cmd := &cobra.Command{
		Use:   "heapdump",
		Short: "Capture a heap dump",
		Long: "heapdump fetches a heap dump from a running cohort server (--server), or\n" +
			"captures one of the cohortctl process itself.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				dump []byte
				err  error
			)
			if server != "" {
				dump, err = fetchHeapDump(cmd.Context(), server, live)
			} else {
				dump, err = health.HeapDump(cmd.Context(), health.RuntimeHeapDumper{}, live)
			}
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(dump)
				return err
			}
			if err := os.WriteFile(out, dump, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d bytes to %s\n", len(dump), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&live, "live", true, "Include only live objects")
	cmd.Flags().StringVarP(&out, "out", "f", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&server, "server", "", "Base URL of a cohort server, e.g. http://localhost:8080")
	return cmd
}

type heapDumpQuery struct {
	Live bool `url:"live"`
}

func fetchHeapDump(ctx context.Context, server string, live bool) ([]byte, error) {
	u, err := url.Parse(strings.TrimRight(server, "/") + "/debug/heapdump")
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	q, err := query.Values(heapDumpQuery{Live: live})
	if err != nil {
		return nil, err
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch heap dump: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read heap dump: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch heap dump: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}
