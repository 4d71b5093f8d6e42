package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/flemzord/botapi/pkg/telegram"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("token", func(fl validator.FieldLevel) bool {
		return telegram.ValidToken(fl.Field().String())
	})
	_ = v.RegisterValidation("webhooksecret", func(fl validator.FieldLevel) bool {
		return telegram.ValidWebhookSecret(fl.Field().String())
	})
	return v
}

// Validate checks the structural validity of a Config and reports every
// failing field, e.g. "config: bot.token: must be <bot_id>:<secret>".
func Validate(cfg *Config) error {
	var errs []error
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("config: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fmt.Errorf("config: %s: %s", fieldPath(fe.Namespace()), describe(fe)))
		}
	}
	if err := checkTimeouts(cfg); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// checkTimeouts rejects a request timeout that would cut every long poll
// short.
func checkTimeouts(cfg *Config) error {
	poll := time.Duration(cfg.Polling.Timeout) * time.Second
	if cfg.Bot.RequestTimeout > 0 && cfg.Bot.RequestTimeout <= poll {
		return fmt.Errorf("config: bot.request_timeout: must be longer than polling.timeout (%s)", poll)
	}
	return nil
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "token":
		return "must be <bot_id>:<secret>"
	case "eq":
		return fmt.Sprintf("unsupported value %q (supported: %q)", fe.Value(), fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "startswith":
		return fmt.Sprintf("must start with %q", fe.Param())
	case "url":
		return "must be a valid URL"
	case "hostname_port":
		return "must be host:port"
	case "webhooksecret":
		return "may only contain A-Z, a-z, 0-9, _ and -"
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}
