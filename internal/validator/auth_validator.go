package validator

import (
	"context"
	"regexp"
	"strings"

	"github.com/yusufsemlali/ft-transcendence/internal/usecase"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// 英数と_-のみ
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, email string, username string, password string) error {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	// 必須チェック
	if email == "" || username == "" || password == "" {
		return usecase.ErrValidation
	}

	// email形式
	if !emailRe.MatchString(email) {
		return usecase.ErrValidation
	}

	// username 3〜24文字
	if len(username) < 3 || len(username) > 24 {
		return usecase.ErrValidation
	}
	if !usernameRe.MatchString(username) {
		return usecase.ErrValidation
	}

	// パスワード 8〜100文字
	if len(password) < 8 || len(password) > 100 {
		return usecase.ErrValidation
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return usecase.ErrValidation
	}

	if !emailRe.MatchString(email) {
		return usecase.ErrValidation
	}

	return nil
}
