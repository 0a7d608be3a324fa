package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the endpoint used when nothing else is configured.
const DefaultAPIURL = "https://jsonplaceholder.typicode.com/posts"

// Config holds the runtime configuration of the grid.
type Config struct {
	APIURL         string        `yaml:"api_url" validate:"required,url"`
	Theme          string        `yaml:"theme" validate:"oneof=light dark"`
	Pinnable       bool          `yaml:"pinnable"`
	Searchable     bool          `yaml:"searchable"`
	Sortable       bool          `yaml:"sortable"`
	LogFile        string        `yaml:"log_file"`
	LogLevel       string        `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	CacheDB        string        `yaml:"cache_db"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`
	RetryMax       int           `yaml:"retry_max" validate:"gte=0,lte=10"`
}

// ValidationError reports a config field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Default returns the configuration used when no file or flag overrides it.
func Default() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		Theme:          "light",
		Pinnable:       true,
		Searchable:     true,
		Sortable:       true,
		LogLevel:       "info",
		RequestTimeout: 10 * time.Second,
		RetryMax:       3,
	}
}

// Dir returns the gridify state directory (~/.gridify).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".gridify"), nil
}

// Load reads a YAML file over the defaults. A missing file is not an error
// unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from GRIDIFY_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("GRIDIFY_API_URL")); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv("GRIDIFY_THEME")); v != "" {
		c.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("GRIDIFY_LOG_LEVEL")); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("GRIDIFY_CACHE_DB")); v != "" {
		c.CacheDB = v
	}
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
		validateInst.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validateInst
}

// Validate checks the configuration and returns the first failing field.
func (c Config) Validate() error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: fe.Field(), Message: describe(fe)}
	}
	return &ValidationError{Message: err.Error()}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return fmt.Sprintf("%q is not a valid URL", fe.Value())
	case "oneof":
		return fmt.Sprintf("%v must be one of [%s]", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	}
}
