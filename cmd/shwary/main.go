// Command shwary sends mobile-money payments, looks up transactions and
// receives webhooks from the command line.
//
// Credentials come from the environment (or a .env file):
//
//	SHWARY_MERCHANT_ID, SHWARY_MERCHANT_KEY, SHWARY_BASE_URL, SHWARY_TIMEOUT, SHWARY_SANDBOX
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Tresor-Kasenda/shwary-go"
	"github.com/Tresor-Kasenda/shwary-go/client"
	shwaryhttp "github.com/Tresor-Kasenda/shwary-go/http"
	shwarychi "github.com/Tresor-Kasenda/shwary-go/http/chi"
	"github.com/Tresor-Kasenda/shwary-go/retry"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

// cli carries the process dependencies so that commands can be tested.
type cli struct {
	getenv func(string) string
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger

	mu sync.Mutex // serializes writes to stdout
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	level := slog.LevelInfo
	if getenv("SHWARY_DEBUG") != "" {
		level = slog.LevelDebug
	}
	c := &cli{
		getenv: getenv,
		stdout: stdout,
		stderr: stderr,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}

	if len(args) < 1 {
		c.usage()
		return 2
	}

	var err error
	switch args[0] {
	case "countries":
		err = c.countries()
	case "pay":
		err = c.pay(ctx, args[1:])
	case "transaction":
		err = c.transaction(ctx, args[1:])
	case "webhook":
		err = c.webhook(ctx, args[1:])
	case "help", "-h", "--help":
		c.usage()
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		c.usage()
		return 2
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		c.printError(err)
		return 1
	}
	return 0
}

func (c *cli) usage() {
	fmt.Fprintln(c.stderr, "shwary - Shwary mobile-money payments from the command line")
	fmt.Fprintln(c.stderr)
	fmt.Fprintln(c.stderr, "Usage:")
	fmt.Fprintln(c.stderr, "  shwary countries                                      - List supported countries")
	fmt.Fprintln(c.stderr, "  shwary pay -country DRC -amount 5000 -phone +243...   - Initiate a payment")
	fmt.Fprintln(c.stderr, "  shwary transaction -id ID                             - Look up a transaction")
	fmt.Fprintln(c.stderr, "  shwary webhook -addr :8080                            - Receive webhooks")
	fmt.Fprintln(c.stderr)
	fmt.Fprintln(c.stderr, "Run 'shwary <command> -h' for command flags.")
}

func (c *cli) printJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError writes structured errors as JSON so scripts can inspect the code.
func (c *cli) printError(err error) {
	if e, ok := shwary.AsError(err); ok {
		data, _ := json.MarshalIndent(e.ToMap(), "", "  ")
		fmt.Fprintln(c.stderr, string(data))
		return
	}
	fmt.Fprintf(c.stderr, "error: %v\n", err)
}

func (c *cli) environment() map[string]string {
	env := make(map[string]string)
	for _, name := range []string{
		shwary.EnvMerchantID,
		shwary.EnvMerchantKey,
		shwary.EnvBaseURL,
		shwary.EnvTimeout,
		shwary.EnvSandbox,
	} {
		if v := c.getenv(name); v != "" {
			env[name] = v
		}
	}
	return env
}

func (c *cli) newClient(sandbox bool) (*client.Client, error) {
	cfg, err := shwary.ConfigFromEnvironment(c.environment())
	if err != nil {
		return nil, err
	}
	if sandbox {
		cfg.Sandbox = true
	}
	return client.New(cfg, client.WithLogger(c.logger))
}

func (c *cli) countries() error {
	return c.printJSON(shwary.Countries())
}

func (c *cli) pay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	country := fs.String("country", "", "Country code: DRC, KE or UG (required)")
	amount := fs.Float64("amount", 0, "Amount in the country currency (required)")
	phone := fs.String("phone", "", "Client phone number in E.164 format (required)")
	callback := fs.String("callback", "", "HTTPS URL receiving the transaction webhook")
	sandbox := fs.Bool("sandbox", false, "Force the sandbox endpoint")
	if err := fs.Parse(args); err != nil {
		return err
	}

	meta, err := shwary.LookupCountry(*country)
	if err != nil {
		return err
	}

	sc, err := c.newClient(*sandbox)
	if err != nil {
		return err
	}

	tx, err := sc.Pay(ctx, *amount, *phone, meta, *callback)
	if err != nil {
		return err
	}
	return c.printJSON(tx)
}

func (c *cli) transaction(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("transaction", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	id := fs.String("id", "", "Transaction id (required)")
	retries := fs.Int("retries", 0, "Extra attempts on transient failures")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sc, err := c.newClient(false)
	if err != nil {
		return err
	}

	policy := retry.DefaultConfig
	policy.MaxAttempts = 1 + max(*retries, 0)

	tx, err := retry.WithRetry(ctx, policy, retry.IsTransient, func(ctx context.Context) (*shwary.Transaction, error) {
		return sc.GetTransaction(ctx, *id)
	})
	if err != nil {
		return err
	}
	return c.printJSON(tx)
}

func (c *cli) webhook(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("webhook", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	addr := fs.String("addr", ":8080", "Listen address")
	path := fs.String("path", "/webhooks/shwary", "Webhook route")
	strict := fs.Bool("strict", false, "Validate bodies against the transaction schema")
	if err := fs.Parse(args); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           c.webhookRouter(*path, *strict),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("webhook receiver listening", "addr", *addr, "path", *path, "strict", *strict)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.logger.Info("shutting down webhook receiver")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (c *cli) webhookRouter(path string, strict bool) http.Handler {
	registry := prometheus.NewRegistry()
	received := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shwary_webhooks_received_total",
		Help: "Total number of transaction webhooks accepted",
	}, []string{"status"})
	registry.MustRegister(received)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Mount("/"+strings.Trim(path, "/"), shwarychi.NewChiWebhookRouter(&shwaryhttp.WebhookConfig{
		Strict: strict,
		Logger: c.logger,
		Handler: func(_ context.Context, tx *shwary.Transaction) error {
			received.WithLabelValues(string(tx.Status)).Inc()
			return c.printJSON(tx)
		},
	}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return r
}
