package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type policySettings struct {
	MinLength      int    `validate:"min=1"`
	AllowedPattern string `validate:"omitempty,regexp"`
}

type settings struct {
	AppName string         `validate:"required"`
	Policy  policySettings
}

func TestV10Validator_Valid(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	err = v.Validate(settings{
		AppName: "sectools",
		Policy:  policySettings{MinLength: 8, AllowedPattern: `.*\$.*`},
	})
	assert.NoError(t, err)
}

func TestV10Validator_Invalid(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	err = v.Validate(settings{
		Policy: policySettings{MinLength: 0, AllowedPattern: `[unterminated`},
	})
	require.Error(t, err)

	var verr V10ValidationError
	require.True(t, errors.As(err, &verr))

	values := verr.Values()
	assert.Len(t, values, 3)
	assert.Equal(t, "AppName is a required field", values["app_name"])
	assert.Equal(t, "MinLength must be 1 or greater", values["policy.min_length"])
	assert.Equal(t, "AllowedPattern must be a valid regular expression", values["policy.allowed_pattern"])
	assert.Contains(t, err.Error(), "policy.min_length")
}

func TestV10Validator_NotAStruct(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	err = v.Validate("plain string")
	require.Error(t, err)

	var verr V10ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestV10ValidationError_Empty(t *testing.T) {
	assert.Equal(t, "validation error", V10ValidationError{}.Error())
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "policy.min_length", fieldPath("Settings.Policy.MinLength"))
	assert.Equal(t, "otlp_endpoint", fieldPath("Instrument.OTLPEndpoint"))
	assert.Equal(t, "name", fieldPath("Name"))
}
