package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/yusufsemlali/ft-transcendence/internal/domain/model"
	"github.com/yusufsemlali/ft-transcendence/internal/repository"
	"github.com/yusufsemlali/ft-transcendence/internal/security"

	"github.com/google/uuid"
)

var (
	// 400 入力不正
	ErrValidation = errors.New("validation error")
	// 401 email/password不一致
	ErrInvalidCredentials = errors.New("invalid credentials")
	// 409 email/username重複
	ErrDuplicateIdentity = errors.New("duplicate identity")
	// 401 不明または失効済みのrefresh secret
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// 401 セッションの絶対期限切れ
	ErrSessionExpired = errors.New("session expired")
)

// accesstokenの有効期限
const AccessTokenTTL = 15 * time.Minute

// セッション（＝refresh cookie）の有効期限
const SessionTTL = 30 * 24 * time.Hour

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email string, username string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

// access token発行の約束（実装はsecurity.TokenIssuer）
type AccessTokenIssuer interface {
	Issue(userID string, sessionID string, username string, role string, now time.Time) (string, time.Time, error)
}

type UserDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type SessionDTO struct {
	ID        string     `json:"id"`
	UserAgent *string    `json:"userAgent"`
	IPAddress *string    `json:"ipAddress"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login/registerの結果。RefreshTokenPlainはcookieにだけ載せる（bodyに出さない）。
type AuthResult struct {
	User              UserDTO `json:"user"`
	AccessToken       string  `json:"token"`
	RefreshTokenPlain string  `json:"-"`
}

// refreshの結果
type RefreshResult struct {
	AccessToken       string `json:"token"`
	RefreshTokenPlain string `json:"-"`
}

type LogoutResult struct {
	Success bool `json:"success"`
}

type LogoutAllResult struct {
	Success         bool  `json:"success"`
	SessionsRevoked int64 `json:"sessionsRevoked"`
}

type AuthUsecase struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	tx        repository.TransactionManager
	passwords security.SecretHasher
	refresh   security.SecretHasher
	issuer    AccessTokenIssuer
	validator AuthValidator
}

func NewAuthUsecase(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tx repository.TransactionManager,
	passwords security.SecretHasher,
	refresh security.SecretHasher,
	issuer AccessTokenIssuer,
	validator AuthValidator,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		sessions:  sessions,
		tx:        tx,
		passwords: passwords,
		refresh:   refresh,
		issuer:    issuer,
		validator: validator,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, req RegisterRequest, userAgent string, ip string) (*AuthResult, error) {
	// 入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, req.Email, req.Username, req.Password); err != nil {
		return nil, err
	}

	// パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := u.passwords.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: &pwHash,
		Role:         model.RoleUser,
	}

	// unique違反はDB側でも弾く
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}

	return u.openSession(ctx, user, userAgent, ip)
}

func (u *AuthUsecase) Login(ctx context.Context, req LoginRequest, userAgent string, ip string) (*AuthResult, error) {
	if err := u.validator.ValidateLogin(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	user, err := u.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// パスワード未設定ユーザーはログイン不可
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if !u.passwords.Verify(req.Password, *user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return u.openSession(ctx, user, userAgent, ip)
}

// Session + 初代RefreshToken + access tokenを作る（login/register共通）
func (u *AuthUsecase) openSession(ctx context.Context, user *model.User, userAgent string, ip string) (*AuthResult, error) {
	now := time.Now()
	expiresAt := now.Add(SessionTTL)

	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: &expiresAt,
	}
	if userAgent != "" {
		session.UserAgent = &userAgent
	}
	if ip != "" {
		session.IPAddress = &ip
	}

	// refresh secret（DBにはhashのみ）
	refreshPlain, refreshHash, err := security.NewRefreshSecret()
	if err != nil {
		return nil, err
	}

	// SessionとRefreshTokenは同じトランザクションで入れる
	err = u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Sessions().Create(ctx, session); err != nil {
			return err
		}
		return r.RefreshTokens().Create(ctx, &model.RefreshToken{
			SessionID: session.ID,
			TokenHash: refreshHash,
		})
	})
	if err != nil {
		return nil, err
	}

	accessToken, _, err := u.issuer.Issue(user.ID, session.ID, user.Username, string(user.Role), now)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:              toUserDTO(user),
		AccessToken:       accessToken,
		RefreshTokenPlain: refreshPlain,
	}, nil
}

// Refreshはsecretを検証して新しいaccess+refreshペアに差し替える。
// 旧tokenのrevokeと新tokenのinsertは同一トランザクション。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshPlain string) (*RefreshResult, error) {
	if refreshPlain == "" {
		return nil, ErrInvalidRefreshToken
	}

	tokenHash, err := u.refresh.Hash(refreshPlain)
	if err != nil {
		return nil, err
	}

	var (
		newPlain string
		user     *model.User
		session  *model.Session
	)

	now := time.Now()

	txErr := u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		rt, err := r.RefreshTokens().FindByHash(ctx, tokenHash)
		if err != nil {
			return err
		}
		if rt == nil {
			return ErrInvalidRefreshToken
		}

		// revoked済みのsecretがもう一度来た＝盗まれた可能性。
		// セッションごと落とす（応答は通常の失敗と同じ401）。
		if rt.Revoked {
			if err := r.Sessions().DeleteByID(ctx, rt.SessionID); err != nil &&
				!errors.Is(err, repository.ErrSessionNotFound) {
				return err
			}
			return ErrInvalidRefreshToken
		}

		session, err = r.Sessions().FindByID(ctx, rt.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrInvalidRefreshToken
		}
		if session.Expired(now) {
			return ErrSessionExpired
		}

		user, err = r.Users().FindByID(ctx, session.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrInvalidRefreshToken
		}

		// 同じsecretの同時refreshはCASで1人だけ勝たせる
		if err := r.RefreshTokens().Revoke(ctx, rt.ID); err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return ErrInvalidRefreshToken
			}
			return err
		}

		var newHash string
		newPlain, newHash, err = security.NewRefreshSecret()
		if err != nil {
			return err
		}

		// parentに旧hashを残して鎖にする
		return r.RefreshTokens().Create(ctx, &model.RefreshToken{
			SessionID: session.ID,
			TokenHash: newHash,
			Parent:    &rt.TokenHash,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	accessToken, _, err := u.issuer.Issue(user.ID, session.ID, user.Username, string(user.Role), now)
	if err != nil {
		return nil, err
	}

	return &RefreshResult{
		AccessToken:       accessToken,
		RefreshTokenPlain: newPlain,
	}, nil
}

// Logoutは1セッションを破棄する。何度呼んでも成功（冪等）。
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) (*LogoutResult, error) {
	if sessionID == "" {
		return &LogoutResult{Success: true}, nil
	}

	err := u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.RefreshTokens().RevokeAllBySessionID(ctx, sessionID); err != nil {
			return err
		}
		if err := r.Sessions().DeleteByID(ctx, sessionID); err != nil &&
			!errors.Is(err, repository.ErrSessionNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &LogoutResult{Success: true}, nil
}

// LogoutAllはユーザーの全セッションを破棄して件数を返す。
func (u *AuthUsecase) LogoutAll(ctx context.Context, userID string) (*LogoutAllResult, error) {
	var revoked int64

	err := u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		sessions, err := r.Sessions().ListByUserID(ctx, userID)
		if err != nil {
			return err
		}
		for _, s := range sessions {
			if err := r.RefreshTokens().RevokeAllBySessionID(ctx, s.ID); err != nil {
				return err
			}
		}

		revoked, err = r.Sessions().DeleteAllByUserID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &LogoutAllResult{Success: true, SessionsRevoked: revoked}, nil
}

// Sessionsはアクティブセッション一覧を返す（token hashは含めない）。
func (u *AuthUsecase) Sessions(ctx context.Context, userID string) ([]SessionDTO, error) {
	sessions, err := u.sessions.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionDTO{
			ID:        s.ID,
			UserAgent: s.UserAgent,
			IPAddress: s.IPAddress,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
		})
	}

	return out, nil
}

// model.UserをAPI返却用DTOに変換（passwordは出さない）
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
