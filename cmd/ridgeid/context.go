package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ridgeid/internal/capture"
	"ridgeid/internal/config"
	"ridgeid/internal/logging"
	"ridgeid/internal/reader"
	"ridgeid/internal/roster"
	"ridgeid/internal/services"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	jsonFlag     *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, logLevelFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		jsonFlag:     jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if level := strings.TrimSpace(derefString(c.logLevelFlag)); level != "" {
			cfg.Logging.Level = level
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configFlagValue() string {
	return strings.TrimSpace(derefString(c.configFlag))
}

func (c *commandContext) jsonMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// logger builds the slog logger for one command. Console output goes to the
// command's stderr so stdout stays parseable.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg, cmd.ErrOrStderr())
}

// withStore opens the roster for the duration of fn.
func (c *commandContext) withStore(fn func(*roster.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := roster.Open(cfg)
	if err != nil {
		return services.Wrap(services.ErrStorageUnavailable, "roster", "open", cfg.Roster.DatabasePath, err)
	}
	defer store.Close()
	return fn(store)
}

// withReader opens the roster and builds a Reader over the configured image
// source, or over imagePath when it is set.
func (c *commandContext) withReader(cmd *cobra.Command, imagePath string, fn func(*reader.Reader, *roster.Store, *slog.Logger) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return err
	}
	return c.withStore(func(store *roster.Store) error {
		source := capture.NewSource(cfg, expandOrRaw(imagePath), logger)
		return fn(reader.New(source, store, logger), store, logger)
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func expandOrRaw(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
