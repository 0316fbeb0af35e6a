package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// refresh secretのバイト数（hexで64文字）
const refreshSecretBytes = 32

// refresh secret用の速いハッシュ。
// エントロピーが256bitあるのでbcryptは不要。
type SHA256Hasher struct{}

func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

func (h *SHA256Hasher) Hash(secret string) (string, error) {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:]), nil
}

// タイミング攻撃対策でconstant time比較
func (h *SHA256Hasher) Verify(secret string, hashed string) bool {
	sum := sha256.Sum256([]byte(secret))
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(hashed)) == 1
}

// NewRefreshSecretは平文とDB保存用hashのペアを作る。
// 平文はクライアントに1回だけ返し、以後はhashでしか照合しない。
func NewRefreshSecret() (plain string, hash string, err error) {
	b := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}

	plain = hex.EncodeToString(b)

	sum := sha256.Sum256([]byte(plain))
	hash = hex.EncodeToString(sum[:])

	return plain, hash, nil
}
