package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultBaseURL is used when VITALTRACK_API_URL is unset.
const DefaultBaseURL = "http://localhost:5000/api"

// Config groups all tunables. Values are taken from environment variables with
// the prefix "VITALTRACK_". Example: VITALTRACK_API_URL=https://api.example.com/api
// VITALTRACK_MAX_RETRIES=5 .
type Config struct {
	APIURL      string        `envconfig:"API_URL"       default:"http://localhost:5000/api"`
	MaxRetries  int           `envconfig:"MAX_RETRIES"   default:"3"`
	RetryDelay  time.Duration `envconfig:"RETRY_DELAY"   default:"1s"`
	Timeout     time.Duration `envconfig:"TIMEOUT"       default:"30s"`
	WakeUpDelay time.Duration `envconfig:"WAKE_UP_DELAY" default:"5s"`
	HealthPath  string        `envconfig:"HEALTH_PATH"   default:"/health"`

	// TokenDB is the bbolt file holding the bearer token. Empty means
	// $HOME/.vitaltrack/session.db.
	TokenDB string `envconfig:"TOKEN_DB"`

	Debug Flag `envconfig:"DEBUG"`
}

// Flag is a boolean setting that reads an empty variable as false, so an
// exported but blank VITALTRACK_DEBUG does not break config loading.
type Flag bool

// Decode implements envconfig.Decoder.
func (f *Flag) Decode(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*f = false
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*f = Flag(b)
	return nil
}

// DefaultConfig returns the documented defaults without reading the environment.
func DefaultConfig() Config {
	return Config{
		APIURL:      DefaultBaseURL,
		MaxRetries:  3,
		RetryDelay:  time.Second,
		Timeout:     30 * time.Second,
		WakeUpDelay: 5 * time.Second,
		HealthPath:  "/health",
	}
}

// LoadConfig populates Config from environment variables (prefix VITALTRACK_).
func LoadConfig() (Config, error) {
	var c Config
	if err := envconfig.Process("VITALTRACK", &c); err != nil {
		return c, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if c.TokenDB == "" {
		c.TokenDB = defaultTokenDB()
	}
	return c, c.Validate()
}

// Validate rejects values the retry loop cannot work with.
func (c Config) Validate() error {
	switch {
	case c.APIURL == "":
		return fmt.Errorf("api url cannot be empty")
	case c.MaxRetries < 0:
		return fmt.Errorf("max retries must be >= 0, got %d", c.MaxRetries)
	case c.RetryDelay <= 0:
		return fmt.Errorf("retry delay must be > 0")
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be > 0")
	case c.WakeUpDelay < 0:
		return fmt.Errorf("wake-up delay must be >= 0")
	}
	return nil
}

func defaultTokenDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "vitaltrack", "session.db")
	}
	return filepath.Join(home, ".vitaltrack", "session.db")
}
