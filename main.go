package main

import (
	"context"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aryan2709-code/InkThink/auth"
	"github.com/aryan2709-code/InkThink/config"
	"github.com/aryan2709-code/InkThink/crypto"
	"github.com/aryan2709-code/InkThink/game"
	"github.com/aryan2709-code/InkThink/migrations"
	"github.com/aryan2709-code/InkThink/storage"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	cfg := config.Load()

	if cfg.Env == "release" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if cfg.PostgresURL == "" {
		log.Fatal().Msg("missing POSTGRES_URL")
	}
	if cfg.JWTKey == "" {
		log.Fatal().Msg("missing JWT_KEY")
	}

	if err := migrations.Migrate(cfg.PostgresURL); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	pgRepo, err := storage.NewPostgresRepo(context.Background(), cfg.PostgresURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pgRepo.Close()

	passwordHasher := crypto.NewArgon2idHasher(3, 1024*64, 32, 16, 1)
	tokenManager := crypto.NewJWTManager(cfg.JWTKey, cfg.TokenAge)

	authService := auth.NewService(pgRepo, passwordHasher, tokenManager)
	authHandler := auth.NewAuthHandler(authService, cfg.TokenAge)

	wordBank := game.NewWordBank()
	registry := game.NewRegistry(game.RoomConfigs{
		RoundDuration:         cfg.RoundDuration,
		FirstCorrectEndsRound: cfg.FirstCorrectEndsRound,
	}, wordBank, game.NewShuffler(), game.NewTickerGen())

	registryStarted := make(chan struct{})
	go registry.RegistryActor(registryStarted)
	<-registryStarted

	r := CreateServer(cfg.AllowedOrigins)
	auth.RegisterRoutes(r, authHandler)
	game.RegisterRoutes(r, game.NewGameHandler(registry, pgRepo), authHandler.RequireAuthMiddleware())

	log.Info().Str("addr", cfg.ListenAddr).Int("words", wordBank.Size()).Msg("api listening")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
