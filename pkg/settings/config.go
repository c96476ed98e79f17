// Package settings holds the configuration of the queuebench harness and of
// the queues it builds.
package settings

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

type Config struct {
	Logger Logger `mapstructure:"logger" json:"logger"`
	Queue  Queue  `mapstructure:"queue" json:"queue"`
	Bench  Bench  `mapstructure:"bench" json:"bench"`
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level" json:"log_level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	FileLogName string `mapstructure:"file_log_name" json:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups" json:"max_backups" validate:"gte=0"`
	MaxAge      int    `mapstructure:"max_age" json:"max_age" validate:"gte=0"`   // Days
	MaxSize     int    `mapstructure:"max_size" json:"max_size" validate:"gte=0"` // Megabytes
	Compress    bool   `mapstructure:"compress" json:"compress"`
}

// Queue is the configuration for a work queue
type Queue struct {
	Name      string `mapstructure:"name" json:"name"`
	Policy    string `mapstructure:"policy" json:"policy" validate:"oneof=unbounded blocking dropping"`
	Container string `mapstructure:"container" json:"container" validate:"oneof=slice ring list"`
	MaxSize   int    `mapstructure:"max_size" json:"max_size" validate:"required_unless=Policy unbounded,gte=0"`
	Reserve   int    `mapstructure:"reserve" json:"reserve" validate:"gte=0"`
	Spin      bool   `mapstructure:"spin" json:"spin"` // Use a spinning mutex
}

// Bench is the configuration for the throughput harness
type Bench struct {
	Readers     int           `mapstructure:"readers" json:"readers" validate:"gte=1"`
	Writers     int           `mapstructure:"writers" json:"writers" validate:"gte=1"`
	BatchSize   int           `mapstructure:"batch_size" json:"batch_size" validate:"gte=1"`
	Duration    time.Duration `mapstructure:"duration" json:"duration" validate:"gt=0"`
	ClockStep   time.Duration `mapstructure:"clock_step" json:"clock_step" validate:"gte=0"` // Zero reads the system clock
	MetricsAddr string        `mapstructure:"metrics_addr" json:"metrics_addr" validate:"omitempty,hostname_port"`
	StripeBulks int           `mapstructure:"stripe_bulks" json:"stripe_bulks" validate:"gte=0"` // Batches per batcher stripe, zero appends directly
}

// Default returns the configuration of a one reader, one writer run.
func Default() Config {
	return Config{
		Logger: Logger{LogLevel: "info"},
		Queue: Queue{
			Name:      "bench",
			Policy:    "unbounded",
			Container: "slice",
		},
		Bench: Bench{
			Readers:   1,
			Writers:   1,
			BatchSize: 2000,
			Duration:  time.Second,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every section of c.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}
