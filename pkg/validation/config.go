// Package validation provides a small fluent validator for configuration
// structs. It collects every violation rather than failing on the first one,
// so a bad config file is reported in full.
package validation

import (
	"errors"
	"fmt"
	"math"
)

// ConfigValidator accumulates validation errors for one named config struct.
type ConfigValidator struct {
	name   string
	errors []error
}

// NewConfigValidator creates a validator for the named config.
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{name: configName}
}

// Required validates that a string field is not empty.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: required field is empty", cv.name, field))
	}
	return cv
}

// RangeInt validates that an int field is within [min, max].
func (cv *ConfigValidator) RangeInt(field string, value, min, max int) *ConfigValidator {
	if value < min || value > max {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %d is outside range [%d, %d]", cv.name, field, value, min, max))
	}
	return cv
}

// RangeFloat validates that a float field is within [min, max].
func (cv *ConfigValidator) RangeFloat(field string, value, min, max float64) *ConfigValidator {
	if value < min || value > max {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %g is outside range [%g, %g]", cv.name, field, value, min, max))
	}
	return cv
}

// PositiveFloat validates that a float field is strictly positive.
func (cv *ConfigValidator) PositiveFloat(field string, value float64) *ConfigValidator {
	if value <= 0 {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %g must be positive", cv.name, field, value))
	}
	return cv
}

// SumsTo validates that the given values sum to want within tolerance.
func (cv *ConfigValidator) SumsTo(field string, want, tolerance float64, values ...float64) *ConfigValidator {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	if math.Abs(sum-want) > tolerance {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: values sum to %g, want %g (±%g)", cv.name, field, sum, want, tolerance))
	}
	return cv
}

// OneOf validates that a string field takes one of the allowed values.
func (cv *ConfigValidator) OneOf(field, value string, allowed ...string) *ConfigValidator {
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %q is not one of %v", cv.name, field, value, allowed))
	return cv
}

// Err returns all accumulated violations joined, or nil if the config is valid.
func (cv *ConfigValidator) Err() error {
	if len(cv.errors) == 0 {
		return nil
	}
	return errors.Join(cv.errors...)
}
