package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string  `json:"username" validate:"required,username"`
	Title    *string `json:"title" validate:"omitempty,notblank"`
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("ana.souza"))
	assert.True(t, IsValidUsername("joao_2024-x"))
	assert.False(t, IsValidUsername("ana souza"))
	assert.False(t, IsValidUsername("ana/../x"))
	assert.False(t, IsValidUsername(""))
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	blank := "   "
	err := v.Struct(signup{Username: "bad name", Title: &blank})
	require.Error(t, err)

	verrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	require.Len(t, verrs, 2)
	assert.Equal(t, "username", verrs[0].Field())
	assert.Equal(t, "username", verrs[0].Tag())
	assert.Equal(t, "title", verrs[1].Field())
	assert.Equal(t, "notblank", verrs[1].Tag())

	assert.NoError(t, v.Struct(signup{Username: "ok.name"}))
}

func TestRegisterWithGin(t *testing.T) {
	assert.NoError(t, RegisterWithGin())
}
