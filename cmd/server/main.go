package main

import (
	"fmt"
	"net/http"
	"os"

	"blog/internal/config"
	"blog/internal/logger"
	"blog/internal/server"
	"blog/internal/store"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Environment: cfg.Environment,
		Level:       logger.ParseLevel(cfg.LogLevel),
	})

	st, err := store.Open(cfg.DBPath, log)
	if err != nil {
		log.Error("open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	srv, err := server.New(st, cfg.TemplateDir, cfg.SessionTTL, log)
	if err != nil {
		log.Error("build server", "error", err)
		os.Exit(1)
	}

	log.Info("listening", "port", cfg.Port, "env", cfg.Environment)
	if err := http.ListenAndServe(":"+cfg.Port, srv); err != nil {
		log.Error("serve", "error", err)
		os.Exit(1)
	}
}
