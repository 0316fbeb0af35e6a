package repository

import (
	"context"
	"sync"
	"time"

	"github.com/yusufsemlali/ft-transcendence/internal/domain/model"
	domainrepo "github.com/yusufsemlali/ft-transcendence/internal/repository"
)

// MemoryStoreはDBなしで動くインメモリ実装。
// テストとローカル開発用。トランザクションのrollbackは持たない。
type MemoryStore struct {
	mu          sync.Mutex
	users       map[string]model.User
	sessions    map[string]model.Session
	tokens      map[int64]model.RefreshToken
	nextTokenID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]model.User),
		sessions: make(map[string]model.Session),
		tokens:   make(map[int64]model.RefreshToken),
	}
}

func (s *MemoryStore) Users() domainrepo.UserRepository { return (*memoryUserRepo)(s) }

func (s *MemoryStore) Sessions() domainrepo.SessionRepository { return (*memorySessionRepo)(s) }

func (s *MemoryStore) RefreshTokens() domainrepo.RefreshTokenRepository {
	return (*memoryTokenRepo)(s)
}

// fnをそのまま実行する（単一mutexの上なので部分的な原子性で足りる）
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(r domainrepo.TxRepos) error) error {
	return fn(s)
}

// =====================
// UserRepository
// =====================

type memoryUserRepo MemoryStore

func (r *memoryUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return domainrepo.ErrDuplicateUser
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, userID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// =====================
// SessionRepository
// =====================

type memorySessionRepo MemoryStore

func (r *memorySessionRepo) Create(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	r.sessions[session.ID] = *session
	return nil
}

func (r *memorySessionRepo) FindByID(ctx context.Context, sessionID string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *memorySessionRepo) ListByUserID(ctx context.Context, userID string) ([]model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Session
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memorySessionRepo) DeleteByID(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return domainrepo.ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	r.deleteTokensBySessionLocked(sessionID)
	return nil
}

func (r *memorySessionRepo) DeleteAllByUserID(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
			r.deleteTokensBySessionLocked(id)
			n++
		}
	}
	return n, nil
}

func (r *memorySessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.sessions {
		if s.ExpiresAt != nil && !now.Before(*s.ExpiresAt) {
			delete(r.sessions, id)
			r.deleteTokensBySessionLocked(id)
			n++
		}
	}
	return n, nil
}

// cascade相当。呼び出し側でmuを握っていること。
func (r *memorySessionRepo) deleteTokensBySessionLocked(sessionID string) {
	for id, t := range r.tokens {
		if t.SessionID == sessionID {
			delete(r.tokens, id)
		}
	}
}

// =====================
// RefreshTokenRepository
// =====================

type memoryTokenRepo MemoryStore

func (r *memoryTokenRepo) Create(ctx context.Context, token *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextTokenID++
	token.ID = r.nextTokenID

	now := time.Now()
	token.CreatedAt = now
	token.UpdatedAt = now
	r.tokens[token.ID] = *token
	return nil
}

func (r *memoryTokenRepo) FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *memoryTokenRepo) Revoke(ctx context.Context, tokenID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[tokenID]
	if !ok || t.Revoked {
		return domainrepo.ErrRefreshTokenNotFound
	}
	t.Revoked = true
	t.UpdatedAt = time.Now()
	r.tokens[tokenID] = t
	return nil
}

func (r *memoryTokenRepo) RevokeAllBySessionID(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.tokens {
		if t.SessionID == sessionID && !t.Revoked {
			t.Revoked = true
			t.UpdatedAt = time.Now()
			r.tokens[id] = t
		}
	}
	return nil
}
