package txcore

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nanodb/txcore/internal/header"
)

// EngineConfig is the ambient, YAML-backed configuration for
// constructing a Storage and the optional background Janitor. It plays
// the role the teacher repo's StorageConfig struct plays for OpenDB,
// but is loaded from an actual file instead of a struct literal — the
// YAML dependency (present in the teacher's go.mod but only ever
// exercised there as an output-format string) finally gets real
// marshaling work to do.
type EngineConfig struct {
	// PageSize, in bytes. Defaults to header.PageSize (512) if zero;
	// present mainly for forward compatibility since this core never
	// varies page size itself.
	PageSize int `yaml:"page_size"`

	// DefaultLockTimeout is applied by callers that want a ceiling on
	// VersionedRecord.Create without threading a timeout through every
	// call site. An empty string means NoTimeout (block indefinitely).
	DefaultLockTimeout string `yaml:"default_lock_timeout"`

	// JanitorInterval is the cron-tick interval for the background
	// consolidation sweep. An empty string disables the Janitor.
	JanitorInterval string `yaml:"janitor_interval"`
}

// LoadEngineConfig reads and parses a YAML EngineConfig from path.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapIO("read config", err)
	}
	var cfg EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("txcore: parse config %s: %w", path, err)
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = header.PageSize
	}
	return &cfg, nil
}

// LockTimeout parses DefaultLockTimeout, returning NoTimeout when it is
// empty.
func (c *EngineConfig) LockTimeout() (time.Duration, error) {
	if c.DefaultLockTimeout == "" {
		return NoTimeout, nil
	}
	d, err := time.ParseDuration(c.DefaultLockTimeout)
	if err != nil {
		return 0, fmt.Errorf("txcore: parse default_lock_timeout %q: %w", c.DefaultLockTimeout, err)
	}
	return d, nil
}

// JanitorTick parses JanitorInterval, returning (0, false) when the
// Janitor should stay disabled.
func (c *EngineConfig) JanitorTick() (time.Duration, bool, error) {
	if c.JanitorInterval == "" {
		return 0, false, nil
	}
	d, err := time.ParseDuration(c.JanitorInterval)
	if err != nil {
		return 0, false, fmt.Errorf("txcore: parse janitor_interval %q: %w", c.JanitorInterval, err)
	}
	return d, true, nil
}
