package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/erraggy/kvapi/internal/naming"
)

// Config is the resolved CLI configuration. Every field is bound to the flag
// named by its flag tag and, when an env tag is present, can be set from that
// KVAPI_* variable if the flag was not given on the command line.
type Config struct {
	LogLevel      string   `flag:"log-level" env:"KVAPI_LOG_LEVEL" validate:"oneof=debug info warn error"`
	Output        string   `flag:"output" env:"KVAPI_OUTPUT" validate:"required"`
	Package       string   `flag:"package" env:"KVAPI_PACKAGE" validate:"omitempty,goident"`
	FileName      string   `flag:"file-name" env:"KVAPI_FILE_NAME" validate:"omitempty,gofile"`
	RuntimeImport string   `flag:"runtime-import" env:"KVAPI_RUNTIME_IMPORT" validate:"omitempty,importpath"`
	Imports       []string `flag:"import" validate:"dive,required,importpath"`
	SourceFormat  string   `flag:"source-format" env:"KVAPI_SOURCE_FORMAT" validate:"omitempty,oneof=auto kv kvapi yaml yml json"`
	Strict        bool     `flag:"strict" env:"KVAPI_STRICT"`
	Format        string   `flag:"format" env:"KVAPI_FORMAT" validate:"oneof=text json yaml"`
}

func defaultConfig() Config {
	return Config{
		LogLevel: "warn",
		Output:   ".",
		Format:   FormatText,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return "--" + f.Tag.Get("flag")
	})
	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return naming.IsIdentifier(fl.Field().String())
	})
	_ = v.RegisterValidation("gofile", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return filepath.Base(name) == name && strings.HasSuffix(name, ".go")
	})
	_ = v.RegisterValidation("importpath", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	return v
}

// applyEnv fills in every flag the command defines but was not given from
// its environment variable.
func (c *Config) applyEnv(cmd *cobra.Command) error {
	t := reflect.TypeOf(*c)
	for i := range t.NumField() {
		field := t.Field(i)
		key := field.Tag.Get("env")
		if key == "" {
			continue
		}
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		f := cmd.Flags().Lookup(field.Tag.Get("flag"))
		if f == nil || f.Changed {
			continue
		}
		if err := f.Value.Set(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
	}
	return nil
}

// validate checks the configuration and reports the offending flags.
func (c *Config) validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("invalid %s %q: %s", fe.Field(), fmt.Sprint(fe.Value()), describeRule(fe)))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "goident":
		return "must be a Go identifier"
	case "gofile":
		return "must be a .go file name without directories"
	case "required":
		return "must not be empty"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "importpath":
		return "must be an import path without whitespace"
	default:
		return "failed " + fe.Tag()
	}
}

func (c *Config) level() slog.Level {
	return parseLevel(c.LogLevel)
}
