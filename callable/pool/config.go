package pool

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

const (
	defaultNumWorkers = 4  // default when unset or non-positive
	defaultQueueDepth = 16 // default when unset or non-positive
)

// ErrUnknownConfigKey reports keys in a config file the pool does not know.
var ErrUnknownConfigKey = errors.New("pool: unknown config key")

// Config sizes a Pool: how many partitioned workers it runs and how
// many jobs each worker's queue buffers.
type Config struct {
	NumWorkers int
	QueueDepth int
}

// NewConfig falls back to defaults for non-positive values.
func NewConfig(numWorkers, queueDepth int) Config {
	if numWorkers <= 0 {
		numWorkers = defaultNumWorkers
	}
	if queueDepth <= 0 {
		queueDepth = defaultQueueDepth
	}
	return Config{
		NumWorkers: numWorkers,
		QueueDepth: queueDepth,
	}
}

type fileConfig struct {
	NumWorkers int `toml:"num_workers"`
	QueueDepth int `toml:"queue_depth"`
}

// LoadConfigFile reads a [Config] from a TOML file. Keys absent from
// the file keep their defaults; keys the pool does not know are
// rejected rather than silently dropped.
func LoadConfigFile(path string) (Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("pool: decode config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: %v in %s", ErrUnknownConfigKey, undecoded, path)
	}

	numWorkers, queueDepth := defaultNumWorkers, defaultQueueDepth
	if meta.IsDefined("num_workers") {
		numWorkers = fc.NumWorkers
	}
	if meta.IsDefined("queue_depth") {
		queueDepth = fc.QueueDepth
	}
	return NewConfig(numWorkers, queueDepth), nil
}
