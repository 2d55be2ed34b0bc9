package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gavin-Payne/Adrenyline-sub001/config"
	"github.com/Gavin-Payne/Adrenyline-sub001/scheduler"
	"github.com/Gavin-Payne/Adrenyline-sub001/services"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/boxscoreService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/common"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/expirationService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/lockService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/messageService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/settlementService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/storageService"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	slog.SetDefault(common.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format))

	db, err := storageService.Open(cfg.Database.URL)
	if err != nil {
		return err
	}
	if err := storageService.Migrate(db); err != nil {
		return err
	}
	if err := services.RunHistoricalStatsMigration(db); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	locker, closeLocker, err := newLocker(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeLocker()

	notifier, err := newNotifier(cfg.Discord)
	if err != nil {
		return err
	}

	lookup := boxscoreService.WithTimeout(newLookup(cfg.Boxscore, db), cfg.Boxscore.LookupTimeout)
	engine := settlementService.NewEngine(db, lookup, notifier, cfg.Scheduler.Concurrency)
	reclaimer := expirationService.NewReclaimer(db, notifier)

	cronService, err := scheduler.SetupCron(cfg.Scheduler, db, locker, engine, reclaimer)
	if err != nil {
		return err
	}
	cronService.Start()
	slog.Info("scheduler running",
		"settle", cfg.Scheduler.SettleSpec,
		"expire", cfg.Scheduler.ExpireSpec,
		"lock_backend", cfg.Scheduler.LockBackend,
		"boxscore_source", cfg.Boxscore.Source)

	<-ctx.Done()
	slog.Info("shutting down, waiting for running jobs")
	<-cronService.Stop().Done()
	return nil
}

func newLocker(ctx context.Context, cfg *config.Config, db *gorm.DB) (lockService.Locker, func(), error) {
	switch cfg.Scheduler.LockBackend {
	case "memory":
		return lockService.NewMemoryLocker(), func() {}, nil
	case "redis":
		locker, err := lockService.NewRedisLocker(ctx, lockService.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return locker, func() { _ = locker.Close() }, nil
	default:
		return lockService.NewDBLocker(db), func() {}, nil
	}
}

func newNotifier(cfg config.DiscordConfig) (messageService.Notifier, error) {
	if cfg.Token == "" || cfg.ChannelID == "" {
		slog.Info("discord not configured, notifications disabled")
		return messageService.NoopNotifier{}, nil
	}
	n, err := messageService.NewDiscordNotifier(cfg.Token, cfg.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("discord notifier: %w", err)
	}
	return n, nil
}

func newLookup(cfg config.BoxscoreConfig, db *gorm.DB) boxscoreService.Lookup {
	if cfg.Source == "espn" {
		return boxscoreService.NewESPNClient(cfg.ESPNBaseURL)
	}
	return boxscoreService.NewStatStore(db)
}
