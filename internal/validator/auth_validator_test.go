package validator_test

import (
	"context"
	"strings"
	"testing"

	"github.com/yusufsemlali/ft-transcendence/internal/usecase"
	"github.com/yusufsemlali/ft-transcendence/internal/validator"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegister(t *testing.T) {
	v := validator.NewAuthValidator()
	ctx := context.Background()

	// OK
	assert.NoError(t, v.ValidateRegister(ctx, "alice@example.com", "alice", "password123"))
	assert.NoError(t, v.ValidateRegister(ctx, "a@b.co", "a_b-c", "12345678"))

	// email
	assert.ErrorIs(t, v.ValidateRegister(ctx, "", "alice", "password123"), usecase.ErrValidation)
	assert.ErrorIs(t, v.ValidateRegister(ctx, "not-an-email", "alice", "password123"), usecase.ErrValidation)
	assert.ErrorIs(t, v.ValidateRegister(ctx, "a b@example.com", "alice", "password123"), usecase.ErrValidation)

	// username
	assert.ErrorIs(t, v.ValidateRegister(ctx, "alice@example.com", "", "password123"), usecase.ErrValidation)
	assert.ErrorIs(t, v.ValidateRegister(ctx, "alice@example.com", "ab", "password123"), usecase.ErrValidation)
	assert.ErrorIs(t, v.ValidateRegister(ctx, "alice@example.com", strings.Repeat("a", 25), "password123"), usecase.ErrValidation)
	assert.ErrorIs(t, v.ValidateRegister(ctx, "alice@example.com", "al ice", "password123"), usecase.ErrValidation)
	assert.ErrorIs(t, v.ValidateRegister(ctx, "alice@example.com", "alice!", "password123"), usecase.ErrValidation)

	// password
	assert.ErrorIs(t, v.ValidateRegister(ctx, "alice@example.com", "alice", ""), usecase.ErrValidation)
	assert.ErrorIs(t, v.ValidateRegister(ctx, "alice@example.com", "alice", "short"), usecase.ErrValidation)
	assert.ErrorIs(t, v.ValidateRegister(ctx, "alice@example.com", "alice", strings.Repeat("p", 101)), usecase.ErrValidation)
}

func TestValidateLogin(t *testing.T) {
	v := validator.NewAuthValidator()
	ctx := context.Background()

	assert.NoError(t, v.ValidateLogin(ctx, "alice@example.com", "password123"))

	assert.ErrorIs(t, v.ValidateLogin(ctx, "", "password123"), usecase.ErrValidation)
	assert.ErrorIs(t, v.ValidateLogin(ctx, "alice@example.com", ""), usecase.ErrValidation)
	assert.ErrorIs(t, v.ValidateLogin(ctx, "not-an-email", "password123"), usecase.ErrValidation)
}
