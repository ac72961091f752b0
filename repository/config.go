package repository

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the descriptor written by `dynfinder init`.
const DefaultConfigFile = ".dynfinder.yaml"

// ErrInvalidConfig is returned when a descriptor fails validation.
var ErrInvalidConfig = errors.New("invalid repository descriptor")

// Config lists the repositories whose finder methods should be derived.
type Config struct {
	Repositories []Repository `yaml:"repositories" validate:"required,min=1,dive"`
}

// Repository describes one entity and the finder methods declared for it.
type Repository struct {
	Name       string   `yaml:"name" validate:"required"`
	Entity     string   `yaml:"entity" validate:"required"`
	Properties []string `yaml:"properties" validate:"required,min=1,dive,required"`
	Methods    []Method `yaml:"methods" validate:"required,min=1,dive"`
}

// Method is a finder method name with its argument names in declaration order.
type Method struct {
	Name      string   `yaml:"name" validate:"required,finder"`
	Arguments []string `yaml:"arguments,omitempty" validate:"dive,required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("finder", validateFinderName)
}

// validateFinderName accepts names starting with one of the selection methods.
func validateFinderName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return strings.HasPrefix(name, "get") || strings.HasPrefix(name, "find")
}

// Load reads and validates a descriptor file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a descriptor and validates it. Unknown fields are rejected.
func Decode(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidConfig)
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the required fields and the method name prefixes.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = describe(fe)
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "finder":
		return fmt.Sprintf("%s %q must start with get or find", field, fe.Value())
	default:
		return fmt.Sprintf("%s fails %s", field, fe.Tag())
	}
}

// Sample returns the descriptor written by `dynfinder init`.
func Sample() *Config {
	return &Config{
		Repositories: []Repository{
			{
				Name:       "PersonRepository",
				Entity:     "Person",
				Properties: []string{"name", "age", "married"},
				Methods: []Method{
					{Name: "findByNameAndAgeGreaterThan", Arguments: []string{"name", "age"}},
					{Name: "findTop10ByMarriedTrueOrderByAgeDesc"},
					{Name: "getCountByName", Arguments: []string{"name"}},
				},
			},
		},
	}
}

// Save writes the descriptor as YAML.
func (c *Config) Save(path string) error {
	d, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}
