package validation

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// ParamError reports a missing or malformed query parameter.
type ParamError struct {
	Param   string
	Message string
}

func (e *ParamError) Error() string {
	return e.Message
}

func paramErrorf(param, format string, args ...any) *ParamError {
	return &ParamError{Param: param, Message: fmt.Sprintf(format, args...)}
}

// QueryInt extracts an integer query parameter and checks it against the
// given validator tags. A nil defaultValue makes the parameter required.
func QueryInt(values url.Values, name string, defaultValue *int, checks ...string) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		if defaultValue == nil {
			return 0, paramErrorf(name, "missing required query parameter: %s", name)
		}
		return *defaultValue, nil
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, paramErrorf(name, "invalid query parameter: %s must be an integer", name)
	}
	if err := checkVar(name, parsed, checks); err != nil {
		return 0, err
	}
	return parsed, nil
}

// QueryFloat extracts a finite real query parameter and checks it against
// the given validator tags. A nil defaultValue makes the parameter required.
func QueryFloat(values url.Values, name string, defaultValue *float64, checks ...string) (float64, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		if defaultValue == nil {
			return 0, paramErrorf(name, "missing required query parameter: %s", name)
		}
		return *defaultValue, nil
	}

	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, paramErrorf(name, "invalid query parameter: %s must be a number", name)
	}
	if err := checkVar(name, parsed, checks); err != nil {
		return 0, err
	}
	return parsed, nil
}

// QueryEnum extracts an enumeration query parameter. The value is lower-cased
// before it is matched against allowed.
func QueryEnum(values url.Values, name string, allowed []string, defaultValue string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(values.Get(name)))
	if value == "" {
		return defaultValue, nil
	}
	if !slices.Contains(allowed, value) {
		return "", paramErrorf(name, "invalid query parameter: %s; valid values: %s", name, strings.Join(allowed, ", "))
	}
	return value, nil
}

func checkVar(name string, value any, checks []string) error {
	for _, check := range checks {
		if err := validate.Var(value, check); err != nil {
			return paramErrorf(name, "invalid query parameter: %s must satisfy %s", name, check)
		}
	}
	return nil
}
