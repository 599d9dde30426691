package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/dracory/mole"
	"github.com/dracory/mole/internal/adapters"
	"github.com/dracory/mole/internal/store"
	"github.com/dracory/mole/shared/cipher"
	"github.com/dracory/mole/shared/engine"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Load configuration (flags override env)
	cfg, err := mole.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(slogger)

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("open metadata database: %v", err)
	}

	var cipherOptions []cipher.Option
	if cfg.LegacyCipherEnabled {
		cipherOptions = append(cipherOptions, cipher.WithLegacyCBC())
	}
	secrets, err := cipher.New(cfg.EncryptionKey, cipherOptions...)
	if err != nil {
		log.Fatalf("cipher: %v", err)
	}

	st := store.New(db, secrets,
		store.WithLogger(slogger),
		store.WithEngines(engine.NewRegistry(cfg.EnabledEngines)),
		store.WithSample(cfg.SampleConnectionEnabled),
	)
	if err := st.AutoMigrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	service := mole.NewService(st, secrets, adapters.NewDispatcher(), slogger)
	app := mole.New(cfg, service)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	slogger.Info("mole listening", slog.String("addr", addr), slog.String("mount", cfg.BasePath))

	mux := http.NewServeMux()
	mux.Handle(cfg.BasePath, app.Handler())

	// Wrap with request logging middleware
	handler := mole.RequestLogger(slogger)(mux)

	log.Fatal(http.ListenAndServe(addr, handler))
}
