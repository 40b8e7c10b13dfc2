package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/errand"
	"github.com/aretw0/errand/pkg/adapters/file"
	"github.com/aretw0/errand/pkg/adapters/memory"
	"github.com/aretw0/errand/pkg/adapters/redis"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/persistence/middleware"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/aretw0/errand/pkg/priors"
	"github.com/aretw0/errand/pkg/session"
)

// Environment variables read by the CLI.
const (
	EnvRedisAddr = "ERRAND_REDIS_ADDR"
	EnvMaxSteps  = "ERRAND_MAX_STEPS"
	EnvLogLevel  = "ERRAND_LOG_LEVEL"
	EnvStateKey  = "ERRAND_STATE_KEY"
)

// DefaultPriorsFile is picked up from the working directory when --priors is not set.
const DefaultPriorsFile = "priors.yaml"

// EngineOptions configures the engine built by the CLI.
type EngineOptions struct {
	MaxSteps   int
	PriorsPath string
	Hooks      domain.LifecycleHooks
}

// createEngine initializes an errand engine with standard CLI conventions.
func createEngine(opts EngineOptions, logger *slog.Logger) (*errand.Engine, error) {
	p, err := loadPriors(opts.PriorsPath)
	if err != nil {
		return nil, err
	}

	engineOpts := []errand.Option{
		errand.WithLogger(logger),
		errand.WithPriors(p),
		errand.WithLifecycleHooks(createDebugHooks(logger).Merge(opts.Hooks)),
	}
	if opts.MaxSteps > 0 {
		engineOpts = append(engineOpts, errand.WithMaxSteps(opts.MaxSteps))
	}
	return errand.New(engineOpts...), nil
}

// NewEngine is createEngine for the command layer.
func NewEngine(opts EngineOptions, logger *slog.Logger) (*errand.Engine, error) {
	return createEngine(opts, logger)
}

// loadPriors loads the given file, falls back to ./priors.yaml when present, and otherwise
// returns the built-in table.
func loadPriors(path string) (*priors.Priors, error) {
	if path == "" {
		if !fileExists(DefaultPriorsFile) {
			return priors.Default(), nil
		}
		path = DefaultPriorsFile
	}
	p, err := priors.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading priors: %w", err)
	}
	return p, nil
}

// StoreOptions selects and decorates the episode store.
type StoreOptions struct {
	// Kind is memory, file or redis.
	Kind      string
	Dir       string
	RedisAddr string
	// StateKey is a base64 AES key. When set, states are encrypted at rest.
	StateKey string
	// Redact lists regular expressions masked in stored observations.
	Redact []string
}

// Persistence bundles an episode store with its optional distributed locker.
type Persistence struct {
	Store  ports.StateStore
	Locker ports.DistributedLocker
	close  func() error
}

// SessionOptions returns the session manager options matching the persistence.
func (p *Persistence) SessionOptions(engine ports.StatelessEngine, logger *slog.Logger) []session.Option {
	opts := []session.Option{session.WithEngine(engine), session.WithLogger(logger)}
	if p.Locker != nil {
		opts = append(opts, session.WithLocker(p.Locker))
	}
	return opts
}

// Close releases backend connections.
func (p *Persistence) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

// OpenPersistence builds the store described by opts.
func OpenPersistence(opts StoreOptions) (*Persistence, error) {
	p := &Persistence{}
	switch strings.ToLower(opts.Kind) {
	case "", "memory":
		p.Store = memory.NewStore()
	case "file":
		p.Store = file.New(opts.Dir)
	case "redis":
		addr := opts.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		rs := redis.New(addr, "", 0)
		p.Store = rs
		p.Locker = redis.NewLocker(rs.Client(), redis.DefaultPrefix)
		p.close = rs.Close
	default:
		return nil, fmt.Errorf("unknown store %q (want memory, file or redis)", opts.Kind)
	}

	var mws []middleware.Middleware
	if len(opts.Redact) > 0 {
		redact, err := middleware.NewRedactionMiddleware(opts.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, redact)
	}
	if opts.StateKey != "" {
		key, err := middleware.ParseKey(opts.StateKey)
		if err != nil {
			return nil, err
		}
		encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, encrypt)
	}
	p.Store = middleware.Chain(p.Store, mws...)
	return p, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(filepath.Clean(path))
	return err == nil && !info.IsDir()
}
