package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-netdesign/pkg/config"
	"github.com/dd0wney/cluso-netdesign/pkg/dataset"
	"github.com/dd0wney/cluso-netdesign/pkg/logging"
	"github.com/dd0wney/cluso-netdesign/pkg/metrics"
	"github.com/dd0wney/cluso-netdesign/pkg/model"
	"github.com/dd0wney/cluso-netdesign/pkg/report"
)

const (
	version        = "1.0.0"
	defaultDataset = "data/smaller_0.json"
)

// errUsage marks bad invocations; the caller exits with status 2
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errUsage
	}

	command := args[0]
	switch command {
	case "build", "objective", "solve":
		opts, err := parseFlags(command, args[1:], stderr)
		if err != nil {
			return err
		}
		return execute(ctx, command, opts, stdout, stderr)
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	case "version", "--version", "-v":
		printVersion(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)
		return errUsage
	}
}

type runOptions struct {
	data       string
	configPath string
	logLevel   string
	metricsOut string
	all        bool
}

func parseFlags(command string, args []string, stderr io.Writer) (runOptions, error) {
	var opts runOptions

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.data, "data", defaultDataset, "Dataset path, .sz file or s3://bucket/key")
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.metricsOut, "metrics-out", "", "Write Prometheus metrics to this textfile")
	fs.BoolVar(&opts.all, "all", false, "Print zero values too")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errUsage
		}
		return opts, fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Unexpected arguments: %v\n", fs.Args())
		return opts, errUsage
	}
	return opts, nil
}

// loadConfig applies the file, then LOG_LEVEL, then the -log-level flag
func loadConfig(opts runOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}

	for _, level := range []string{os.Getenv("LOG_LEVEL"), opts.logLevel} {
		if level == "" {
			continue
		}
		if _, err := logging.LookupLevel(level); err != nil {
			return cfg, err
		}
		cfg.Log.Level = level
	}
	if opts.metricsOut != "" {
		cfg.Metrics.Textfile = opts.metricsOut
	}
	return cfg, nil
}

func execute(ctx context.Context, command string, opts runOptions, stdout, stderr io.Writer) (err error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := logging.NewJSONLogger(stderr, cfg.LogLevel()).
		With(logging.RunID(uuid.NewString()), logging.Component("netdesign"))
	reg := metrics.NewRegistry()

	if cfg.Metrics.Textfile != "" {
		defer func() {
			if werr := reg.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
				logger.Error("metrics not written", logging.Error(werr))
				err = errors.Join(err, werr)
			}
		}()
	}

	logger.Info("run started",
		logging.String("command", command),
		logging.String("dataset", opts.data))

	ds, err := dataset.Load(ctx, opts.data, dataset.WithLogger(logger))
	if err != nil {
		return err
	}

	b, err := model.New(ds, append(cfg.ModelOptions(logger, reg), model.WithMetrics(reg))...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := b.Build(); err != nil {
		return err
	}

	printer := report.NewPrinter(stdout)
	printer.ShowZeros = opts.all

	switch command {
	case "build":
		return printer.Summary(b.Variables(), b.Constraints())
	case "objective":
		return printer.Objective(b.ObjectiveTerms())
	}

	res, err := b.Solve(ctx)
	if err != nil {
		return err
	}
	return printer.Solution(res)
}

func printUsage(w io.Writer) {
	usage := `netdesign - Time-phased network design model builder

Usage:
  netdesign <command> [options]

Available Commands:
  build       Build the model and print its size
  objective   Build the model and print the objective
  solve       Build and solve the model, print the solution
  help        Show this help message
  version     Show version information

Options:
  -data URI          Dataset path, .sz file or s3://bucket/key (default: data/smaller_0.json)
  -config FILE       YAML configuration file
  -log-level LEVEL   Log level; overrides LOG_LEVEL
  -metrics-out FILE  Write Prometheus metrics to FILE
  -all               Print zero values too

Examples:
  # Solve the bundled instance
  netdesign solve

  # Solve a compressed instance from S3 with debug logging
  netdesign solve -data s3://instances/large_3.json.sz -log-level debug
`
	fmt.Fprint(w, usage)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "netdesign v%s\n", version)
}
