package telegram

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// tokenPattern matches the Telegram bot token format: <digits>:<alphanum+dash>.
var tokenPattern = regexp.MustCompile(`^\d+:[A-Za-z0-9_-]+$`)

// webhookSecretPattern matches the characters Telegram allows in secret_token.
var webhookSecretPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// commandPattern matches a bot command name without the leading slash.
var commandPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// usernamePattern matches a public @username as accepted in chat_id.
var usernamePattern = regexp.MustCompile(`^@[A-Za-z][A-Za-z0-9_]{3,31}$`)

var validate = newValidator()

// ValidToken reports whether token has the <bot_id>:<secret> form issued
// by BotFather.
func ValidToken(token string) bool {
	return tokenPattern.MatchString(token)
}

// ValidWebhookSecret reports whether secret only uses the characters
// Telegram accepts in a webhook secret_token.
func ValidWebhookSecret(secret string) bool {
	return webhookSecretPattern.MatchString(secret)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// ChatID and InputFile have unexported state; expose them as strings so
	// required and the custom rules see a value, and nil when unset.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		c := f.Interface().(ChatID)
		if c.IsZero() {
			return nil
		}
		return c.String()
	}, ChatID{})
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		file := f.Interface().(InputFile)
		switch {
		case file.IsZero():
			return nil
		case file.IsUpload():
			return "upload:" + file.FileName()
		default:
			return file.String()
		}
	}, InputFile{})

	_ = v.RegisterValidation("chat", validateChat)
	_ = v.RegisterValidation("webhooksecret", matchRule(webhookSecretPattern))
	_ = v.RegisterValidation("botcommand", matchRule(commandPattern))
	return v
}

func matchRule(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// validateChat accepts a numeric chat id or a public @username.
func validateChat(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.HasPrefix(s, "@") {
		return usernamePattern.MatchString(s)
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// validateParams checks params against their validate tags and reports
// the first failure as a *ParamError.
func validateParams(method string, params any) error {
	if params == nil {
		return nil
	}
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ParamError{
			Method: method,
			Field:  paramPath(fe.Namespace()),
			Rule:   ruleOf(fe),
			Value:  fe.Value(),
		}
	}
	return &ParamError{Method: method, Rule: err.Error()}
}

// paramPath drops the request type name from a validator namespace.
func paramPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func ruleOf(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}
