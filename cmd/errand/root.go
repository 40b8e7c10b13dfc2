package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/aretw0/errand/internal/cli"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var logger = slog.Default()

var rootCmd = &cobra.Command{
	Use:   "errand",
	Short: "errand plays household text-adventure tasks with a rule-based policy",
	Long: `errand compiles ALFRED-style household tasks into subgoal plans and plays them
against a text simulator, one command per observation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading %s: %w", envFile, err)
		}

		l, err := cli.CreateLogger(stringSetting(cmd, "log-level", cli.EnvLogLevel))
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file with ERRAND_* defaults")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error) [$ERRAND_LOG_LEVEL]")
	rootCmd.PersistentFlags().String("store", "memory", "Episode store: memory, file or redis")
	rootCmd.PersistentFlags().String("store-dir", "", "Directory of the file store (default .errand/episodes)")
	rootCmd.PersistentFlags().String("redis-addr", "localhost:6379", "Redis address [$ERRAND_REDIS_ADDR]")
	rootCmd.PersistentFlags().StringSlice("redact", nil, "Regular expressions masked in stored observations")
	rootCmd.PersistentFlags().String("priors", "", "Priors file (YAML or JSON; default ./priors.yaml or built-in)")
	rootCmd.PersistentFlags().Int("max-steps", 0, "Step budget per episode (0 keeps the default) [$ERRAND_MAX_STEPS]")
}

// stringSetting returns the flag value, or the environment variable when the flag was not set.
func stringSetting(cmd *cobra.Command, flag, env string) string {
	value, _ := cmd.Flags().GetString(flag)
	if !cmd.Flags().Changed(flag) {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			return v
		}
	}
	return value
}

func intSetting(cmd *cobra.Command, flag, env string) (int, error) {
	value, _ := cmd.Flags().GetInt(flag)
	if cmd.Flags().Changed(flag) {
		return value, nil
	}
	if v, ok := os.LookupEnv(env); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", env, err)
		}
		return n, nil
	}
	return value, nil
}

func engineOptions(cmd *cobra.Command) (cli.EngineOptions, error) {
	maxSteps, err := intSetting(cmd, "max-steps", cli.EnvMaxSteps)
	if err != nil {
		return cli.EngineOptions{}, err
	}
	priorsPath, _ := cmd.Flags().GetString("priors")
	return cli.EngineOptions{MaxSteps: maxSteps, PriorsPath: priorsPath}, nil
}

func storeOptions(cmd *cobra.Command) cli.StoreOptions {
	kind, _ := cmd.Flags().GetString("store")
	dir, _ := cmd.Flags().GetString("store-dir")
	redact, _ := cmd.Flags().GetStringSlice("redact")
	return cli.StoreOptions{
		Kind:      kind,
		Dir:       dir,
		RedisAddr: stringSetting(cmd, "redis-addr", cli.EnvRedisAddr),
		StateKey:  os.Getenv(cli.EnvStateKey),
		Redact:    redact,
	}
}
