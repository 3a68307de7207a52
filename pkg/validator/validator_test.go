package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ruleRequest struct {
	Code  string `json:"code" validate:"required,even"`
	Label string `json:"label" validate:"max=3"`
}

func TestRegisterStringRule(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.RegisterStringRule("even", "must have an even length", func(s string) bool {
		return len(s)%2 == 0
	}))

	assert.NoError(t, v.Validate(&ruleRequest{Code: "ab"}))

	err := v.Validate(&ruleRequest{Code: "abc", Label: "toolong"})
	require.Error(t, err)
	assert.Equal(t, map[string]string{
		"code":  "code must have an even length",
		"label": "label must be at most 3 characters",
	}, v.FormatValidationErrors(err))
}

func TestRegisterStringRule_EmptyTag(t *testing.T) {
	assert.Error(t, NewValidator().RegisterStringRule("", "never", func(string) bool { return true }))
}
