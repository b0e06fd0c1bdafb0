package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefixed struct {
	Prefix string `validate:"permprefix"`
}

func TestPermissionPrefix(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterCustomValidators(v))

	assert.NoError(t, v.Struct(prefixed{Prefix: "kitsextension"}))
	assert.NoError(t, v.Struct(prefixed{Prefix: "kits_ext-2"}))
	assert.Error(t, v.Struct(prefixed{Prefix: "Kits"}))
	assert.Error(t, v.Struct(prefixed{Prefix: "kits.extension"}))
	assert.Error(t, v.Struct(prefixed{Prefix: ""}))
}
