package initialize

import (
	"context"
	"fmt"
	"net/http"
	"storyhub/backend/app/controllers"
	"storyhub/backend/app/db"
	jwtutil "storyhub/backend/app/jwt"
	"storyhub/backend/app/middleware"
	"storyhub/backend/app/models"
	"storyhub/backend/app/objectstore"
	"storyhub/backend/app/repo"
	"storyhub/backend/app/services"
	"storyhub/backend/config"
	"storyhub/backend/global"
	"storyhub/backend/router"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	Cfg     *config.Config
	DB      *gorm.DB
	Router  http.Handler
	Users   *services.UserService
	Stories *services.StoryService
	Likes   *services.LikeService
	Uploads *services.UploadService
}

// Build loads the config file and wires the application.
func Build(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return BuildWithConfig(cfg)
}

func BuildWithConfig(cfg *config.Config) (*App, error) {
	// Connect DB
	gdb, err := db.Connect(db.Config{Driver: cfg.DB.Driver, Host: cfg.DB.Host, Port: cfg.DB.Port, User: cfg.DB.User, Password: cfg.DB.Pass, DBName: cfg.DB.Name, Path: cfg.DB.Path})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	global.Mdb = gdb

	var revoker services.TokenRevoker = services.NewMemoryRevoker()
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		global.Rdb = rdb
		revoker = services.NewRedisRevoker(rdb)
	}

	var store services.ObjectStore
	if cfg.Minio.Enabled {
		ms, err := objectstore.NewMinioStore(objectstore.Config{
			Endpoint: cfg.Minio.Endpoint, AccessKey: cfg.Minio.AccessKey, SecretKey: cfg.Minio.SecretKey,
			Bucket: cfg.Minio.Bucket, UseSSL: cfg.Minio.UseSSL, PublicURL: cfg.Minio.PublicURL,
		})
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ms.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("prepare bucket: %w", err)
		}
		store = ms
	}

	return Wire(cfg, gdb, revoker, store)
}

// Wire migrates the schema, provisions the admin account and builds the
// HTTP handler on top of already opened backends. store may be nil.
func Wire(cfg *config.Config, gdb *gorm.DB, revoker services.TokenRevoker, store services.ObjectStore) (*App, error) {
	// Migrate
	if err := db.Migrate(gdb, &models.User{}, &models.Story{}, &models.StoryLike{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Services
	signer := &jwtutil.Signer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, ExpMin: cfg.JWT.ExpMin}
	userSvc := services.NewUserService(repo.NewUserRepository(gdb), signer, revoker)
	storySvc := services.NewStoryService(repo.NewStoryRepository(gdb), services.NewContentSanitizer())
	likeSvc := services.NewLikeService(repo.NewLikeRepository(gdb))
	if cfg.Admin.Username != "" {
		if err := userSvc.EnsureAdmin(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Email); err != nil {
			return nil, fmt.Errorf("provision admin: %w", err)
		}
	}

	// Controllers
	ctrls := router.Controllers{
		HTTP:    controllers.NewHTTPController(gdb),
		Auth:    controllers.NewAuthController(userSvc),
		Stories: controllers.NewStoryController(storySvc, likeSvc),
	}
	var uploadSvc *services.UploadService
	if store != nil {
		uploadSvc = services.NewUploadService(store, cfg.UploadMaxBytes)
		ctrls.Uploads = controllers.NewUploadController(uploadSvc)
	}
	mw := &middleware.Auth{Tokens: userSvc}

	// Router
	h := router.NewRouter(ctrls, mw)
	h = middleware.CORS(cfg.AllowedOrigins, h)
	h = middleware.Logging(h)
	h = middleware.Recover(h)

	return &App{Cfg: cfg, DB: gdb, Router: h, Users: userSvc, Stories: storySvc, Likes: likeSvc, Uploads: uploadSvc}, nil
}

// Shutdown closes the database and Redis handles opened by BuildWithConfig.
func Shutdown() {
	if global.Rdb != nil {
		if err := global.Rdb.Close(); err != nil {
			global.Logger.Warn().Err(err).Msg("close redis")
		}
	}
	if global.Mdb != nil {
		if sqlDB, err := global.Mdb.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				global.Logger.Warn().Err(err).Msg("close db")
			}
		}
	}
}
