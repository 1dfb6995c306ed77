package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	apiclient "github.com/inventra-io/apiclient-go"
	"github.com/inventra-io/apiclient-go/internal/config"
	"github.com/inventra-io/apiclient-go/internal/logger"
	"github.com/inventra-io/apiclient-go/internal/metrics"
)

// Config holds the streams the CLI reads from and writes to.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config bound to the process streams.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// errReported marks a failure that has already been written to stdout.
var errReported = errors.New("request failed")

type flags struct {
	data    string
	headers []string
	params  []string
	token   string
	envFile string
	mesh    bool
	appID   string
	metrics bool
	verbose bool
}

func newRootCmd(cfg Config) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "apiclient",
		Short: "Call a backend API directly or through the service mesh sidecar",
		Long: `apiclient sends one JSON request and prints the decoded response.

Configuration is read from API_BASE_URL, USE_DAPR, DAPR_APP_ID, DAPR_HTTP_PORT,
DAPR_HOST, API_TIMEOUT, LOG_LEVEL and ENVIRONMENT. Failures are printed as a JSON
error object and exit with status 1.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	pf := root.PersistentFlags()
	pf.StringArrayVar(&f.headers, "header", nil, "request header as name=value (repeatable)")
	pf.StringArrayVar(&f.params, "param", nil, "query parameter as key=value (repeatable)")
	pf.StringVar(&f.token, "token", "", "bearer token")
	pf.StringVar(&f.envFile, "env-file", "", "load environment variables from this file first")
	pf.BoolVar(&f.mesh, "mesh", false, "route through the service mesh sidecar")
	pf.StringVar(&f.appID, "app-id", "", "target service for mesh mode")
	pf.BoolVar(&f.metrics, "metrics", false, "print request metrics to stderr")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "log requests at debug level")

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		root.AddCommand(newMethodCmd(cfg, f, method, false))
	}
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch} {
		root.AddCommand(newMethodCmd(cfg, f, method, true))
	}

	return root
}

func newMethodCmd(cfg Config, f *flags, method string, withBody bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " <path>",
		Short: fmt.Sprintf("Send a %s request", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd.Context(), cfg, f, method, args[0])
		},
	}
	if withBody {
		cmd.Flags().StringVarP(&f.data, "data", "d", "", "JSON request body, or - to read it from stdin")
	}
	return cmd
}

func call(ctx context.Context, cfg Config, f *flags, method, path string) error {
	if f.envFile != "" {
		if err := config.LoadDotEnv(f.envFile); err != nil {
			return err
		}
	}

	env, err := config.FromEnviron()
	if err != nil {
		return err
	}

	level := logger.ParseLogLevel(env.LogLevel)
	if f.verbose {
		level = slog.LevelDebug
	}
	log := logger.New(cfg.Stderr, level, env.Environment)

	opts := []apiclient.Option{
		apiclient.WithLogger(log),
		apiclient.WithNotifier(apiclient.LogNotifier{Logger: log}),
	}
	if f.mesh {
		opts = append(opts, apiclient.WithMesh(f.appID))
	} else if f.appID != "" {
		opts = append(opts, apiclient.WithAppID(f.appID))
	}

	var registry *prometheus.Registry
	if f.metrics {
		registry = prometheus.NewRegistry()
		collector, err := metrics.NewCollector(registry)
		if err != nil {
			return err
		}
		opts = append(opts, apiclient.WithObserver(collector))
	}

	client, err := apiclient.NewFromConfig(env, opts...)
	if err != nil {
		return err
	}
	if f.token != "" {
		client.SetAuthToken(f.token)
	}

	reqOpts, err := requestOptions(f.headers, f.params)
	if err != nil {
		return err
	}

	body, err := requestBody(cfg.Stdin, f.data)
	if err != nil {
		return err
	}

	var result any
	callErr := client.Do(ctx, method, path, body, &result, reqOpts...)

	if registry != nil {
		if err := writeMetrics(cfg.Stderr, registry); err != nil {
			log.Warn("failed to write metrics", slog.String("error", err.Error()))
		}
	}

	if callErr != nil {
		if apiErr, ok := apiclient.AsError(callErr); ok {
			if err := writeJSON(cfg.Stdout, apiErr); err != nil {
				return fmt.Errorf("write error response: %w", err)
			}
			return errReported
		}
		return callErr
	}

	if result != nil {
		return writeJSON(cfg.Stdout, result)
	}
	return nil
}

func requestOptions(headers, params []string) ([]apiclient.RequestOption, error) {
	var opts []apiclient.RequestOption
	for _, h := range headers {
		name, value, ok := strings.Cut(h, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, want name=value", h)
		}
		opts = append(opts, apiclient.WithHeader(strings.TrimSpace(name), value))
	}
	for _, p := range params {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q, want key=value", p)
		}
		opts = append(opts, apiclient.WithParam(key, value))
	}
	return opts, nil
}

func requestBody(stdin io.Reader, data string) (any, error) {
	if data == "" {
		return nil, nil
	}
	raw := []byte(data)
	if data == "-" {
		var err error
		if raw, err = io.ReadAll(stdin); err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}
	if !json.Valid(raw) {
		return nil, errors.New("request body is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

func run(args []string, cfg Config) error {
	root := newRootCmd(cfg)
	root.SetArgs(args[1:])
	return root.ExecuteContext(context.Background())
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
