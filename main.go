package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/asavelyev/ribalka/internal/game"
	"github.com/asavelyev/ribalka/internal/httpserver"
	"github.com/asavelyev/ribalka/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	st, err := store.OpenSQLite(getEnv("DB_PATH", "./data/game.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer st.Close()

	users, err := st.LoadAll(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load users")
	}

	engine := game.NewEngine(users, st, nil)
	srv := httpserver.New(engine)

	port := getEnv("PORT", "8080")
	log.Info().Str("port", port).Int("users", engine.UserCount()).Msg("starting fishing game server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
