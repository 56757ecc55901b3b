package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"todo_backend/internal/app/di"
	"todo_backend/internal/app/router"
	authadapters "todo_backend/internal/feature/auth/adapters"
	"todo_backend/internal/feature/auth/domain/entity"
	authhandler "todo_backend/internal/feature/auth/transport/handler"
	authusecase "todo_backend/internal/feature/auth/usecase"
	taskadapters "todo_backend/internal/feature/tasks/adapters"
	taskhandler "todo_backend/internal/feature/tasks/transport/handler"
	taskusecase "todo_backend/internal/feature/tasks/usecase"
	"todo_backend/internal/platform/config"
	infradb "todo_backend/internal/platform/db"
	"todo_backend/internal/platform/http/handler"
	jwtmw "todo_backend/internal/platform/jwt"
	"todo_backend/internal/platform/password"
	infraredis "todo_backend/internal/platform/redis"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	gin.SetMode(cfg.Server.GinMode)

	// db
	db, err := infradb.Open(cfg.Database, &entity.User{}, &taskadapters.TaskModel{})
	if err != nil {
		fatal("failed to open database", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		fatal("failed to access database handle", err)
	}
	defer func() { _ = sqlDB.Close() }()

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled {
		tmp, err := infraredis.NewRedisClient(context.Background(), infraredis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			slog.Warn("Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// JWT
	tokens, err := jwtmw.NewService(cfg.JWT)
	if err != nil {
		fatal("invalid JWT configuration (set JWT_SECRET)", err)
	}

	hasher, err := password.NewHasher(cfg.Auth.PasswordHasher)
	if err != nil {
		fatal("invalid PASSWORD_HASHER", err)
	}
	if cfg.Auth.PasswordHasher == "bcrypt" {
		slog.Warn("bcrypt password hashing enabled; digests are not compatible with sha256 deployments")
	}

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	taskRepo := di.NewTaskRepository(rdb, db, cfg.Redis.CacheTTL)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, hasher, tokens)
	taskUC := taskusecase.NewTaskUsecase(taskRepo, cfg.Tasks.ValidateOnUpdate)

	// ルータ生成
	r, err := router.NewRouter(router.Handlers{
		Auth:   authhandler.NewAuthHandler(authUC),
		Users:  authhandler.NewUserHandler(authUC),
		Tasks:  taskhandler.NewTaskHandler(taskUC),
		Health: handler.NewHealthHandler(sqlDB),
	}, tokens, cfg.Server.CORSAllowedOrigins, logger)
	if err != nil {
		fatal("failed to build router", err)
	}

	addr := ":" + cfg.Server.Port
	slog.Info("starting API server", "addr", addr, "mode", cfg.Server.GinMode, "db_driver", cfg.Database.Driver, "cache", rdb != nil)
	if err := r.Run(addr); err != nil {
		fatal("server stopped", err)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
