package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/yusufsemlali/ft-transcendence/internal/security"
)

// TokenCacheは検証済みaccess tokenのLRU。
// あくまで署名検証の節約用で、正にも負にも「権威」を持たない：
//   - 載っていなくても無効とは限らない（再検証すればよい）
//   - 載っていても失効チェックの代わりにはならない
//
// いつ空にしても正しさに影響しない。
type TokenCache struct {
	mu         sync.Mutex
	maxEntries int
	maxBytes   int
	bytes      int
	ll         *list.List
	items      map[string]*list.Element
}

type cacheEntry struct {
	token  string
	claims security.AccessClaims
	size   int
}

func New(maxEntries int, maxBytes int) *TokenCache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	return &TokenCache{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		ll:         list.New(),
		items:      make(map[string]*list.Element),
	}
}

// Getはtokenのclaimsを返す。期限切れエントリはmiss扱いで捨てる。
func (c *TokenCache) Get(token string, now time.Time) (security.AccessClaims, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[token]
	if !ok {
		return security.AccessClaims{}, false
	}

	entry := el.Value.(*cacheEntry)

	// expは毎回チェック（キャッシュが寿命を延ばしてはいけない）
	if !now.Before(entry.claims.ExpiresAt) {
		c.removeLocked(el)
		return security.AccessClaims{}, false
	}

	c.ll.MoveToFront(el)
	return entry.claims, true
}

func (c *TokenCache) Put(token string, claims security.AccessClaims) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[token]; ok {
		c.ll.MoveToFront(el)
		return
	}

	entry := &cacheEntry{
		token:  token,
		claims: claims,
		size:   entrySize(token, claims),
	}

	// 1件でcapを超えるものは入れない
	if entry.size > c.maxBytes {
		return
	}

	el := c.ll.PushFront(entry)
	c.items[token] = el
	c.bytes += entry.size

	for c.ll.Len() > c.maxEntries || c.bytes > c.maxBytes {
		oldest := c.ll.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
	}
}

// Purgeは全消し。いつ呼んでも安全。
func (c *TokenCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll.Init()
	c.items = make(map[string]*list.Element)
	c.bytes = 0
}

func (c *TokenCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *TokenCache) removeLocked(el *list.Element) {
	entry := el.Value.(*cacheEntry)
	c.ll.Remove(el)
	delete(c.items, entry.token)
	c.bytes -= entry.size
}

func entrySize(token string, claims security.AccessClaims) int {
	return len(token) +
		len(claims.UserID) +
		len(claims.SessionID) +
		len(claims.Username) +
		len(claims.Role)
}
