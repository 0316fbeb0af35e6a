package cache_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/yusufsemlali/ft-transcendence/internal/cache"
	"github.com/yusufsemlali/ft-transcendence/internal/security"

	"github.com/stretchr/testify/assert"
)

func claimsExpiringAt(exp time.Time) security.AccessClaims {
	return security.AccessClaims{
		UserID:    "user-1",
		SessionID: "session-1",
		Username:  "alice",
		Role:      "user",
		ExpiresAt: exp,
	}
}

func TestTokenCache_PutGet(t *testing.T) {
	c := cache.New(10, 1<<20)
	now := time.Now()

	c.Put("token-a", claimsExpiringAt(now.Add(time.Minute)))

	claims, ok := c.Get("token-a", now)
	assert.True(t, ok)
	assert.Equal(t, "alice", claims.Username)

	_, ok = c.Get("token-b", now)
	assert.False(t, ok)
}

// キャッシュがtokenの寿命を延ばしてはいけない
func TestTokenCache_ExpiredEntryMisses(t *testing.T) {
	c := cache.New(10, 1<<20)
	now := time.Now()

	c.Put("token-a", claimsExpiringAt(now.Add(time.Minute)))

	_, ok := c.Get("token-a", now.Add(2*time.Minute))
	assert.False(t, ok)

	// 期限切れエントリは捨てられている
	assert.Equal(t, 0, c.Len())
}

func TestTokenCache_CountEviction(t *testing.T) {
	c := cache.New(3, 1<<20)
	now := time.Now()
	exp := now.Add(time.Minute)

	for i := 0; i < 5; i++ {
		c.Put(fmt.Sprintf("token-%d", i), claimsExpiringAt(exp))
	}

	assert.Equal(t, 3, c.Len())

	// 古いものから追い出される
	_, ok := c.Get("token-0", now)
	assert.False(t, ok)
	_, ok = c.Get("token-4", now)
	assert.True(t, ok)
}

func TestTokenCache_ByteEviction(t *testing.T) {
	// 合計バイト数でもcapされる
	c := cache.New(1000, 200)
	now := time.Now()
	exp := now.Add(time.Minute)

	for i := 0; i < 10; i++ {
		c.Put(strings.Repeat("x", 90)+fmt.Sprintf("%d", i), claimsExpiringAt(exp))
	}

	assert.LessOrEqual(t, c.Len(), 2)
}

func TestTokenCache_OversizedEntrySkipped(t *testing.T) {
	c := cache.New(10, 50)
	now := time.Now()

	c.Put(strings.Repeat("x", 100), claimsExpiringAt(now.Add(time.Minute)))
	assert.Equal(t, 0, c.Len())
}

// Purgeはいつ呼んでも安全（権威が無いので正しさに影響しない）
func TestTokenCache_Purge(t *testing.T) {
	c := cache.New(10, 1<<20)
	now := time.Now()

	c.Put("token-a", claimsExpiringAt(now.Add(time.Minute)))
	c.Put("token-b", claimsExpiringAt(now.Add(time.Minute)))
	c.Purge()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("token-a", now)
	assert.False(t, ok)
}

func TestTokenCache_LRUOrder(t *testing.T) {
	c := cache.New(2, 1<<20)
	now := time.Now()
	exp := now.Add(time.Minute)

	c.Put("token-a", claimsExpiringAt(exp))
	c.Put("token-b", claimsExpiringAt(exp))

	// aに触ってからcを入れるとbが追い出される
	_, ok := c.Get("token-a", now)
	assert.True(t, ok)

	c.Put("token-c", claimsExpiringAt(exp))

	_, ok = c.Get("token-a", now)
	assert.True(t, ok)
	_, ok = c.Get("token-b", now)
	assert.False(t, ok)
}
