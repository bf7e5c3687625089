package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/blogsearch/internal/config"
	logpkg "github.com/kailas-cloud/blogsearch/internal/logger"
	"github.com/kailas-cloud/blogsearch/internal/version"
)

// cli carries global flags and the state PersistentPreRunE loads from them.
type cli struct {
	env        string
	configPath string
	logLevel   string
	envFiles   []string

	cfg    config.Config
	logger *zap.Logger
}

// NewRootCmd builds the blogsearch command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:   "blogsearch",
		Short: "Semantic search over blog posts",
		Long: `blogsearch maps a free-text query to the most relevant blog posts.

Posts are embedded with an OpenAI-compatible model and ranked by cosine
similarity, either in process (local), by a Redis vector index (delegated),
or by plain substring matching in SQL (keyword).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return c.load()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&c.env, "env", "", "environment name selecting config/<env>.yaml (default: $ENV or local)")
	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "explicit config file path (overrides --env)")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level override: debug, info, warn, error")
	cmd.PersistentFlags().StringSliceVar(&c.envFiles, "env-file", []string{".env"}, ".env files loaded before the config")

	cmd.AddCommand(
		newServeCmd(c),
		newQueryCmd(c),
		newIndexCmd(c),
		newMCPCmd(c),
		newVersionCmd(),
	)
	return cmd
}

func (c *cli) load() error {
	if err := config.LoadDotEnv(c.envFiles...); err != nil {
		return err
	}

	env := c.env
	if env == "" {
		env = config.GetEnv()
	}

	var err error
	if c.configPath != "" {
		c.cfg, err = config.LoadFile(c.configPath)
	} else {
		c.cfg, err = config.Load(env)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := c.cfg.Logging.Level
	if c.logLevel != "" {
		level = c.logLevel
	}
	loggerEnv := env
	if loggerEnv != "prod" {
		loggerEnv = "local"
	}
	c.logger, err = logpkg.NewLogger(loggerEnv, level, zap.String("version", version.Version))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	return nil
}
