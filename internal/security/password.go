package security

import "golang.org/x/crypto/bcrypt"

// パスワードとrefresh secretを同じ形で扱うための約束。
// 遅いハッシュ（bcrypt）と速いハッシュ（sha256）を差し替えられる。
type SecretHasher interface {
	Hash(secret string) (string, error)
	Verify(secret string, hashed string) bool
}

type BcryptHasher struct {
	cost int
}

// costはデプロイ時に1回決める（デフォルト10）
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// 不一致でもerrorにはしない（boolで返す）
func (h *BcryptHasher) Verify(secret string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret)) == nil
}
