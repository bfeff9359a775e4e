package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/Khrashaka/maribor-scraper/internal/config"
	"github.com/Khrashaka/maribor-scraper/internal/logger"
	"github.com/Khrashaka/maribor-scraper/internal/scraper"
	"github.com/Khrashaka/maribor-scraper/internal/server"
	"github.com/Khrashaka/maribor-scraper/internal/store"
)

func main() {
	logger.Init()
	cfg := config.Load()

	st := store.New(cfg.DataFile)
	sc := scraper.New(cfg)
	srv := server.New(st, sc)

	slog.Info("server running", "addr", cfg.ServerAddr, "club", cfg.ClubName, "data_file", cfg.DataFile)
	if err := http.ListenAndServe(cfg.ServerAddr, srv.Router()); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
