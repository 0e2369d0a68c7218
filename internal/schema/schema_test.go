package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitField() Field {
	min, max := MinMax(1, 100)
	return Field{Type: Integer, Min: min, Max: max, Default: 20}
}

func TestValidateRequiredMissing(t *testing.T) {
	obj := Object{
		"chat_id": {Type: String, Required: true},
	}

	err := obj.Validate(map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat_id: required parameter is missing")
}

func TestValidateDefaultsAppliedOnlyWhenAbsent(t *testing.T) {
	obj := Object{"limit": limitField()}

	args := map[string]any{}
	require.NoError(t, obj.Validate(args))
	assert.Equal(t, 20, args["limit"])

	args = map[string]any{"limit": float64(50)}
	require.NoError(t, obj.Validate(args))
	assert.Equal(t, 50, args["limit"])
}

func TestValidateIntegerCoercion(t *testing.T) {
	obj := Object{"message_id": {Type: Integer, Required: true}}

	args := map[string]any{"message_id": float64(42)}
	require.NoError(t, obj.Validate(args))
	assert.Equal(t, 42, args["message_id"])

	args = map[string]any{"message_id": 7.5}
	err := obj.Validate(args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fractional")
}

func TestValidateBounds(t *testing.T) {
	obj := Object{"limit": limitField()}

	err := obj.Validate(map[string]any{"limit": float64(0)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit: must be at least 1")

	err = obj.Validate(map[string]any{"limit": float64(500)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit: must be at most 100")
}

func TestValidateTypeMismatches(t *testing.T) {
	obj := Object{
		"chat_id": {Type: String, Required: true},
		"revoke":  {Type: Boolean},
		"ids":     {Type: Array, MinItems: 1},
	}

	err := obj.Validate(map[string]any{
		"chat_id": float64(5),
		"revoke":  "yes",
		"ids":     []any{},
	})
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 3)
	assert.Contains(t, err.Error(), "chat_id: expected string")
	assert.Contains(t, err.Error(), "revoke: expected boolean")
	assert.Contains(t, err.Error(), "ids: must contain at least 1 items")
}

func TestValidateAggregatesAllViolations(t *testing.T) {
	obj := Object{
		"chat_id": {Type: String, Required: true},
		"text":    {Type: String, Required: true, MinLen: 1},
	}

	err := obj.Validate(map[string]any{"text": ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat_id: required parameter is missing")
	assert.Contains(t, err.Error(), "text: must be at least 1 characters")
}

func TestValidateMinLen(t *testing.T) {
	obj := Object{"query": {Type: String, Required: true, MinLen: 1}}

	require.NoError(t, obj.Validate(map[string]any{"query": "x"}))
	require.Error(t, obj.Validate(map[string]any{"query": ""}))
}

func TestValidateIgnoresUnknownKeys(t *testing.T) {
	obj := Object{"chat_id": {Type: String, Required: true}}

	require.NoError(t, obj.Validate(map[string]any{
		"chat_id": "123",
		"extra":   "ignored",
	}))
}
