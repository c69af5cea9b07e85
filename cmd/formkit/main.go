// Command formkit checks, renders, fills, serves and imports form schemas.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/httpform"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/orchestrator"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/schema"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	schema     string
	driver     string
	addr       string
	output     string
	operation  string
	redirect   string
	configPath string
	timeout    time.Duration
	verbose    bool
}

type app struct {
	opts   options
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stderr)
		return exitUsage
	}
	command := args[0]

	flags := pflag.NewFlagSet("formkit "+command, pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var opts options
	flags.StringVarP(&opts.schema, "schema", "s", "", "Schema file path or URL")
	flags.StringVar(&opts.driver, "driver", "", "Terminal prompt driver for fill (survey or huh)")
	flags.StringVar(&opts.addr, "addr", "", "Listen address for serve")
	flags.StringVarP(&opts.output, "output", "o", "", "Write output to file instead of stdout")
	flags.StringVar(&opts.operation, "operation", "", "OpenAPI operationId (import, or any command reading an OpenAPI document)")
	flags.StringVar(&opts.redirect, "redirect", "", "Redirect target after a successful submit (serve)")
	flags.StringVar(&opts.configPath, "config", defaultConfigPath(), "Config file")
	flags.DurationVar(&opts.timeout, "timeout", 0, "HTTP timeout for URL schemas")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	if err := flags.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if opts.schema == "" && flags.NArg() > 0 {
		opts.schema = flags.Arg(0)
	}

	cfg, err := readConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
		cfg = &Config{}
	}
	applyConfig(&opts, cfg, flags)

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	a := &app{
		opts:   opts,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}

	if opts.schema == "" {
		fmt.Fprintln(stderr, "Error: --schema is required")
		return exitUsage
	}

	switch command {
	case "check":
		return a.check(ctx)
	case "render":
		return a.render(ctx)
	case "fill":
		return a.fill(ctx)
	case "serve":
		return a.serve(ctx)
	case "import":
		return a.importOpenAPI(ctx)
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n", command)
		printUsage(stderr)
		return exitUsage
	}
}

func applyConfig(opts *options, cfg *Config, flags *pflag.FlagSet) {
	if !flags.Changed("driver") && cfg.Driver != "" {
		opts.driver = cfg.Driver
	}
	if !flags.Changed("addr") && cfg.Addr != "" {
		opts.addr = cfg.Addr
	}
	if !flags.Changed("timeout") && cfg.timeout() > 0 {
		opts.timeout = cfg.timeout()
	}
	if !flags.Changed("redirect") && cfg.Redirect != "" {
		opts.redirect = cfg.Redirect
	}
	if opts.addr == "" {
		opts.addr = ":8080"
	}
	if opts.timeout == 0 {
		opts.timeout = 10 * time.Second
	}
}

func (a *app) orchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(
		orchestrator.WithLoaderOptions(schema.LoaderOptions{
			AllowHTTPFallback: true,
			RequestTimeout:    a.opts.timeout,
		}),
		orchestrator.WithLogger(a.logger),
	)
}

func (a *app) request() (orchestrator.Request, error) {
	src, err := schema.ParseSource(a.opts.schema)
	if err != nil {
		return orchestrator.Request{}, err
	}
	return orchestrator.Request{Source: src, OperationID: a.opts.operation}, nil
}

func (a *app) loadSchema(ctx context.Context) (schema.Schema, error) {
	req, err := a.request()
	if err != nil {
		return schema.Schema{}, err
	}
	return a.orchestrator().Schema(ctx, req)
}

func (a *app) check(ctx context.Context) int {
	s, err := a.loadSchema(ctx)
	var checkErr *schema.CheckError
	if errors.As(err, &checkErr) {
		for _, issue := range checkErr.Issues {
			fmt.Fprintln(a.stderr, issue.String())
		}
		fmt.Fprintf(a.stderr, "%d issue(s) found\n", len(checkErr.Issues))
		return exitFailure
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFailure
	}
	fmt.Fprintf(a.stdout, "ok: %d field(s)\n", len(s.Fields))
	return exitOK
}

func (a *app) render(ctx context.Context) int {
	req, err := a.request()
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitUsage
	}
	out, err := a.orchestrator().Generate(ctx, req)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFailure
	}
	return a.emit(out)
}

func (a *app) importOpenAPI(ctx context.Context) int {
	if a.opts.operation == "" {
		fmt.Fprintln(a.stderr, "Error: --operation is required for import")
		return exitUsage
	}
	s, err := a.loadSchema(ctx)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFailure
	}
	out, err := schema.Encode(s)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFailure
	}
	return a.emit(out)
}

func (a *app) emit(out []byte) int {
	if a.opts.output != "" {
		if err := os.WriteFile(a.opts.output, out, 0o644); err != nil {
			fmt.Fprintf(a.stderr, "Error: write output: %v\n", err)
			return exitFailure
		}
		fmt.Fprintf(a.stderr, "Written to %s\n", a.opts.output)
		return exitOK
	}
	if _, err := a.stdout.Write(out); err != nil {
		return exitFailure
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		fmt.Fprintln(a.stdout)
	}
	return exitOK
}

func (a *app) fill(ctx context.Context) int {
	req, err := a.request()
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitUsage
	}

	var submitted form.Values
	engine, err := a.orchestrator().Engine(ctx, req, func(values form.Values) {
		submitted = values
	})
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFailure
	}

	if interactive(a.stdin) {
		driver, err := tui.DriverByName(a.opts.driver, a.stdout)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitUsage
		}
		session, err := tui.New(tui.WithPromptDriver(driver), tui.WithLogger(a.logger))
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitFailure
		}
		if err := session.Run(ctx, engine); err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(a.stderr, "Aborted")
				return exitFailure
			}
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitFailure
		}
	} else {
		if err := applyStdin(engine, a.stdin); err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitFailure
		}
		if !engine.Submit() {
			for _, view := range engine.Fields() {
				if view.Error != "" {
					fmt.Fprintf(a.stderr, "%s: %s\n", view.ID, view.Error)
				}
			}
			return exitFailure
		}
	}

	out, err := json.MarshalIndent(submitted, "", "  ")
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFailure
	}
	return a.emit(out)
}

// applyStdin accepts a JSON object of values or an RFC 6902 patch array.
func applyStdin(engine *form.Engine, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		return engine.ApplyPatch([]byte(trimmed))
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return fmt.Errorf("decode stdin: %w", err)
	}
	for id := range raw {
		if _, ok := engine.Control(id); !ok {
			return fmt.Errorf("%w: %q", form.ErrUnknownField, id)
		}
	}
	for _, id := range engine.Schema().IDs() {
		v, ok := raw[id]
		if !ok {
			continue
		}
		value, err := model.ValueFrom(v)
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		if err := engine.Set(id, value); err != nil {
			return err
		}
	}
	return nil
}

func interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (a *app) serve(ctx context.Context) int {
	s, err := a.loadSchema(ctx)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFailure
	}

	handler, err := httpform.New(s, logSubmission(a.logger),
		httpform.WithLogger(a.logger),
		httpform.WithRedirect(a.opts.redirect),
	)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFailure
	}

	server := &http.Server{
		Addr:              a.opts.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- server.ListenAndServe()
	}()
	fmt.Fprintf(a.stderr, "Serving %q on %s\n", s.FormTitle, a.opts.addr)

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitFailure
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(a.stderr, "Error: shutdown: %v\n", err)
			return exitFailure
		}
	}
	return exitOK
}

// logSubmission records which fields a submission filled. Values are never
// logged: they can hold passwords.
func logSubmission(logger *slog.Logger) httpform.SubmitFunc {
	return func(ctx context.Context, values form.Values) {
		logger.InfoContext(ctx, "submission accepted", "fields", slices.Sorted(maps.Keys(values)))
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: formkit <command> --schema <path|url> [flags]

Commands:
  check    Report structural problems in a schema
  render   Print the HTML form
  fill     Fill the form in the terminal (reads JSON from stdin when piped)
  serve    Serve the form over HTTP
  import   Convert an OpenAPI operation (--operation) into a schema

Flags:
  -s, --schema      Schema file path or URL
      --driver      Prompt driver for fill: survey (default) or huh
      --addr        Listen address for serve (default :8080)
  -o, --output      Write output to a file
      --operation   OpenAPI operationId
      --redirect    Redirect after a successful submit (serve)
      --config      Config file (default ~/.config/formkit/config.yaml)
      --timeout     HTTP timeout for URL schemas
  -v, --verbose     Debug logging
`)
}
