package main

import (
	"context"
	"time"

	"github.com/yusufsemlali/ft-transcendence/internal/cache"
	"github.com/yusufsemlali/ft-transcendence/internal/config"
	"github.com/yusufsemlali/ft-transcendence/internal/domain/model"
	"github.com/yusufsemlali/ft-transcendence/internal/handler"
	"github.com/yusufsemlali/ft-transcendence/internal/infra/db"
	infraRepo "github.com/yusufsemlali/ft-transcendence/internal/infra/repository"
	"github.com/yusufsemlali/ft-transcendence/internal/middleware"
	"github.com/yusufsemlali/ft-transcendence/internal/security"
	"github.com/yusufsemlali/ft-transcendence/internal/server"
	"github.com/yusufsemlali/ft-transcendence/internal/usecase"
	"github.com/yusufsemlali/ft-transcendence/internal/validator"

	"github.com/joho/godotenv"
)

// 期限切れセッションの掃除間隔
const sweepInterval = time.Hour

func main() {
	// .envは無ければ無いでよい（本番は環境変数のみ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.RefreshToken{},
	); err != nil {
		panic(err)
	}

	// Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	sessionRepo := infraRepo.NewSessionGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	// hash部品（パスワードは遅いbcrypt、refresh secretは速いsha256）
	passwordHasher := security.NewBcryptHasher(10)
	refreshHasher := security.NewSHA256Hasher()

	// JWT issuer（secretは必須・フォールバック無し）
	issuer := security.NewTokenIssuer(cfg.JWTSecret, usecase.AccessTokenTTL)

	// Usecase生成
	authUC := usecase.NewAuthUsecase(
		userRepo,
		sessionRepo,
		txManager,
		passwordHasher,
		refreshHasher,
		issuer,
		validator.NewAuthValidator(),
	)

	// 検証済みtokenのLRU（権威なし・消えても困らない）
	tokenCache := cache.New(1024, 1<<20)

	// Handler生成
	authH := handler.NewAuthHandler(authUC, usecase.SessionTTL, cfg.IsProduction())

	// Server
	e := server.New()
	server.RegisterRoutes(e, authH, middleware.AuthContext(issuer, tokenCache))

	// 期限切れセッションのsweeper。
	// 正しさはlazyチェックが担保していて、ここは行の回収だけ。
	go func() {
		t := time.NewTicker(sweepInterval)
		defer t.Stop()
		for range t.C {
			n, err := sessionRepo.DeleteExpired(context.Background(), time.Now())
			if err != nil {
				e.Logger.Errorf("session sweep failed: %v", err)
				continue
			}
			if n > 0 {
				e.Logger.Infof("session sweep removed %d expired sessions", n)
			}
		}
	}()

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
