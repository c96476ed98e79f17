// Command queuebench measures the throughput of a work queue: writers append
// fixed batches while readers drain the queue and check that no batch was
// torn apart.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	errors "github.com/pkg/errors"
	zap "go.uber.org/zap"

	logger "github.com/huynhanx03/go-workqueue/pkg/logger"
	settings "github.com/huynhanx03/go-workqueue/pkg/settings"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type CLI struct {
	Config  kong.ConfigFlag  `name:"config" help:"Load flags from a JSON file"`
	Version kong.VersionFlag `name:"version" help:"Print version and exit"`

	// Workload options
	Readers   int           `name:"readers" short:"r" help:"Number of reader goroutines" default:"1"`
	Writers   int           `name:"writers" short:"w" help:"Number of writer goroutines" default:"1"`
	BatchSize int           `name:"batch-size" short:"b" help:"Items appended per write" default:"2000"`
	Duration  time.Duration `name:"duration" short:"d" help:"How long writers run" default:"1s"`

	// Queue options
	Queue struct {
		Name      string        `name:"name" help:"Queue name in logs and metrics" default:"bench"`
		Policy    string        `name:"policy" help:"Backpressure policy" enum:"unbounded,blocking,dropping" default:"unbounded"`
		Bound     int           `name:"bound" help:"Maximum size for the blocking and dropping policies"`
		Container string        `name:"container" help:"Backing container" enum:"slice,ring,list" default:"slice"`
		Reserve   int           `name:"reserve" help:"Items to preallocate"`
		Spin      bool          `name:"spin" help:"Guard the queue with a spinning mutex"`
		ClockStep time.Duration `name:"clock-step" help:"Resolution of a cached clock, zero reads the system clock"`
	} `embed:"" prefix:"queue."`

	// Batcher options
	Batcher struct {
		Stripe int `name:"stripe" help:"Feed the queue through a striped batcher holding this many batches per stripe"`
	} `embed:"" prefix:"batcher."`

	// Metrics options
	Metrics struct {
		Addr string `name:"addr" env:"QUEUEBENCH_METRICS_ADDR" help:"Serve Prometheus metrics on this address"`
	} `embed:"" prefix:"metrics."`

	// Logging options
	Log struct {
		Level string `name:"level" env:"QUEUEBENCH_LOG_LEVEL" help:"Log level" default:"info"`
		File  string `name:"file" help:"Write JSON logs to this rotated file"`
	} `embed:"" prefix:"log."`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var version = "dev"

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func main() {
	cli := new(CLI)
	kctx := kong.Parse(cli,
		kong.Name("queuebench"),
		kong.Description("work queue throughput benchmark"),
		kong.Vars{
			"version": version,
		},
		kong.Configuration(kong.JSON),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := cli.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		kctx.Exit(1)
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Settings converts the parsed flags to a validated configuration.
func (c *CLI) Settings() (settings.Config, error) {
	cfg := settings.Default()

	cfg.Logger.LogLevel = c.Log.Level
	cfg.Logger.FileLogName = c.Log.File

	cfg.Queue = settings.Queue{
		Name:      c.Queue.Name,
		Policy:    c.Queue.Policy,
		Container: c.Queue.Container,
		MaxSize:   c.Queue.Bound,
		Reserve:   c.Queue.Reserve,
		Spin:      c.Queue.Spin,
	}

	cfg.Bench = settings.Bench{
		Readers:     c.Readers,
		Writers:     c.Writers,
		BatchSize:   c.BatchSize,
		Duration:    c.Duration,
		ClockStep:   c.Queue.ClockStep,
		MetricsAddr: c.Metrics.Addr,
		StripeBulks: c.Batcher.Stripe,
	}

	return cfg, cfg.Validate()
}

// Run executes the benchmark and prints its result.
func (c *CLI) Run(ctx context.Context) error {
	cfg, err := c.Settings()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return errors.Wrap(err, "create logger")
	}
	defer func() { _ = log.Sync() }()

	res, err := execute(ctx, cfg, log)
	if err != nil {
		return err
	}

	log.Info("benchmark finished",
		zap.String("policy", cfg.Queue.Policy),
		zap.String("container", cfg.Queue.Container),
		zap.Int("readers", cfg.Bench.Readers),
		zap.Int("writers", cfg.Bench.Writers),
		zap.Int("batch_size", cfg.Bench.BatchSize),
		zap.Uint64("written", res.Written),
		zap.Uint64("read", res.Read),
		zap.Uint64("dropped", res.Dropped),
		zap.Int("peak", res.Peak),
		zap.Duration("elapsed", res.Elapsed),
	)
	fmt.Printf("%.2f M msgs/s, peak %d items per drain\n", res.Rate()/1e6, res.Peak)
	return nil
}
