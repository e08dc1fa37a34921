package main

import (
	"fmt"

	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/spf13/cobra"

	"github.com/darlingshare/go-qrshare/config"
	"github.com/darlingshare/go-qrshare/network"
	"github.com/darlingshare/go-qrshare/prefs"
	"github.com/darlingshare/go-qrshare/upload"
)

type environment struct {
	cfg     config.Config
	envRepo env.Repository
	logger  log.Logger
	store   prefs.Store
	close   func() error
}

func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	logger := log.NewLogger()
	verbose, err := cmd.Flags().GetBool(FlagVerbose)
	if err != nil {
		return nil, err
	}
	logger.EnableDebugLog(verbose)

	configPath, err := cmd.Flags().GetString(FlagConfig)
	if err != nil {
		return nil, err
	}

	envRepo := env.NewRepository()
	cfg, err := config.Load(configPath, envRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, closeStore := newPrefsStore(cfg.Prefs)
	logger.Debugf("Backend: %s, prefs: %s", cfg.Backend.URL, cfg.Prefs.Mode)

	return &environment{
		cfg:     cfg,
		envRepo: envRepo,
		logger:  logger,
		store:   store,
		close:   closeStore,
	}, nil
}

func (e *environment) client() *network.Client {
	return upload.NewSender(e.cfg.UploadConfig(), e.logger)
}

func newPrefsStore(cfg config.PrefsConfig) (prefs.Store, func() error) {
	switch cfg.Mode {
	case config.PrefsModeMemory:
		return prefs.NewMemoryStore(), func() error { return nil }
	case config.PrefsModeRedis:
		store := prefs.NewRedisStore(prefs.RedisOptions{
			Host:      cfg.Redis.Host,
			Port:      cfg.Redis.Port,
			Username:  cfg.Redis.Username,
			Password:  cfg.Redis.Password,
			Database:  cfg.Redis.Database,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		return store, store.Close
	default:
		return prefs.NewFileStore(cfg.Path), func() error { return nil }
	}
}
