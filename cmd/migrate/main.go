package main

import (
	"errors"
	"flag"
	"os"

	"geeknews/internal/pkg/config"
	"geeknews/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", "up", "up or down")
	source := flag.String("source", "file://migrations", "migration source URL")
	flag.Parse()

	config.LoadConfig()
	cfg := config.GlobalConfig

	if err := logger.InitLogger(cfg.App.Env, cfg.App.Debug); err != nil {
		panic(err)
	}
	defer logger.Sync()

	m, err := migrate.New(*source, cfg.Database.URL())
	if err != nil {
		logger.Log.Fatal("open migration source", zap.Error(err))
	}
	defer m.Close()

	if err := run(m, *direction); err != nil {
		logger.Log.Error("migration failed", zap.String("direction", *direction), zap.Error(err))
		os.Exit(1)
	}

	logger.Log.Info("migration successful", zap.String("direction", *direction))
}

func run(m *migrate.Migrate, direction string) error {
	apply := m.Up
	if direction == "down" {
		apply = m.Down
	}

	err := apply()
	if err == nil || errors.Is(err, migrate.ErrNoChange) {
		return nil
	}

	// 数据库处于 dirty 状态时强制回到该版本，然后重试
	var dirty migrate.ErrDirty
	if !errors.As(err, &dirty) {
		return err
	}
	logger.Log.Warn("database is dirty, forcing version", zap.Int("version", dirty.Version))
	if err := m.Force(dirty.Version); err != nil {
		return err
	}
	if err := apply(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
