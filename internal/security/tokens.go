package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// 署名不正・期限切れ・形式不正はすべてこれ
var ErrInvalidToken = errors.New("invalid token")

// access tokenに埋めるclaims。
// DBを見ずに検証できる（失効チェックはSession層の責務）。
type AccessClaims struct {
	UserID    string
	SessionID string
	Username  string
	Role      string
	ExpiresAt time.Time
}

type TokenIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

// HS256で署名した短命のaccess tokenを発行
func (i *TokenIssuer) Issue(userID string, sessionID string, username string, role string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"id":        userID,
		"sessionId": sessionID,
		"username":  username,
		"role":      role,
		// 同一秒に発行しても別のtoken文字列になるように
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// 署名・exp検証してclaimsを取り出す
func (i *TokenIssuer) Verify(raw string) (AccessClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return AccessClaims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return AccessClaims{}, ErrInvalidToken
	}

	userID, err := parseString(claims["id"])
	if err != nil || userID == "" {
		return AccessClaims{}, ErrInvalidToken
	}
	sessionID, err := parseString(claims["sessionId"])
	if err != nil || sessionID == "" {
		return AccessClaims{}, ErrInvalidToken
	}
	username, err := parseString(claims["username"])
	if err != nil || username == "" {
		return AccessClaims{}, ErrInvalidToken
	}
	role, err := parseString(claims["role"])
	if err != nil || role == "" {
		return AccessClaims{}, ErrInvalidToken
	}
	exp, err := parseUnix(claims["exp"])
	if err != nil {
		return AccessClaims{}, ErrInvalidToken
	}

	return AccessClaims{
		UserID:    userID,
		SessionID: sessionID,
		Username:  username,
		Role:      role,
		ExpiresAt: exp,
	}, nil
}

func parseString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.New("invalid string")
	}
	return s, nil
}

func parseUnix(v interface{}) (time.Time, error) {
	f, ok := v.(float64)
	if !ok {
		return time.Time{}, errors.New("invalid exp")
	}
	return time.Unix(int64(f), 0), nil
}
