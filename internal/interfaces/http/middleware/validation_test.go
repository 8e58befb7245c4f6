package middleware

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValidationErrors(t *testing.T) {
	type loginReq struct {
		Username string `json:"username" validate:"required,min=3,max=50"`
		Password string `json:"password" validate:"required,min=8"`
		Role     string `json:"role" validate:"omitempty,oneof=user admin"`
	}

	v := validator.New()

	t.Run("translates each failed rule", func(t *testing.T) {
		err := v.Struct(loginReq{Username: "ab", Password: "kisa", Role: "süper"})
		require.Error(t, err)

		resp := FormatValidationErrors(err, "req-42")

		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Equal(t, "req-42", resp.Error.RequestID)
		require.Len(t, resp.Error.Details, 3)

		messages := make(map[string]string)
		for _, d := range resp.Error.Details {
			messages[d.Field] = d.Message
		}
		assert.Equal(t, "Must be at least 3 characters", messages["Username"])
		assert.Equal(t, "Must be at least 8 characters", messages["Password"])
		assert.Equal(t, "Must be one of: user admin", messages["Role"])
	})

	t.Run("non-validator errors produce no details", func(t *testing.T) {
		resp := FormatValidationErrors(assert.AnError, "")

		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Empty(t, resp.Error.Details)
	})
}
