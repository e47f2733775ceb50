package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keywarden-io/keywarden/internal/config"
	"github.com/keywarden-io/keywarden/internal/custody"
	"github.com/keywarden-io/keywarden/internal/logging"
	"github.com/keywarden-io/keywarden/internal/passlock"
	"github.com/keywarden-io/keywarden/internal/ratelimit"
	"github.com/keywarden-io/keywarden/internal/storage"
	"github.com/keywarden-io/keywarden/internal/wallet"
)

// custodian is the custody surface the console drives. The real
// *custody.Service satisfies it; tests can substitute a fake.
type custodian interface {
	CreateWallet(ctx context.Context, userID int64, passphrase string) (*wallet.CreatedWallet, error)
	ExportKey(ctx context.Context, userID int64, passphrase string) (string, error)
	ExportMnemonic(ctx context.Context, userID int64, passphrase string) (string, error)
	SetPassphrase(ctx context.Context, userID int64, current, next string) error
	VerifyPassphrase(ctx context.Context, userID int64, candidate string) (bool, error)
	HasPassphrase(ctx context.Context, userID int64) (bool, error)
	RemoveWallet(ctx context.Context, userID int64) (bool, error)
	View(ctx context.Context, userID int64) (*wallet.View, error)
	CheckLimit(ctx context.Context, userID int64, action string) (*ratelimit.Verdict, error)
	Cleanup(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage storage.Manager
	custody custodian
	reader  *bufio.Reader
	userID  int64
}

func NewApp(cfg *config.Config) (*App, error) {

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logging init error: %w", err)
	}

	ctx := context.Background()

	var manager storage.Manager
	if cfg.DatabaseDSN == "" {
		manager = storage.NewInMemoryManager()
	} else {
		manager, err = storage.NewPostgresManager(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	var store ratelimit.Store
	if cfg.RedisAddr == "" {
		store = ratelimit.NewInMemoryStore()
	} else {
		store = ratelimit.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	wallets := wallet.NewService(manager.Wallets())
	passphrases := passlock.NewService(manager.Passphrases(), passlock.DefaultMinLength)
	limiter := ratelimit.New(store, cfg.Rules())
	svc := custody.NewService(wallets, passphrases, limiter, []byte(cfg.VaultPepper), logger)

	return &App{
		config:  cfg,
		logger:  logger,
		storage: manager,
		custody: svc,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// hasUser reports whether a user has been selected with the "use" command.
func (a *App) hasUser() bool {
	return a.userID != 0
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer a.Close()
	defer cancel()
	a.Root(ctx)
}

// Close releases the storage backend.
func (a *App) Close() {
	if err := a.storage.Close(); err != nil {
		a.logger.Error(context.Background(), "closing storage", "error", err)
	}
}

// StartCleanupWatcher periodically drops expired limiter entries. It runs
// until ctx is canceled.
func (a *App) StartCleanupWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := a.custody.Cleanup(ctx); err != nil {
				a.logger.Warn(ctx, "limiter cleanup failed", "error", err)
			}
			cancel()

		case <-ctx.Done():
			return
		}
	}
}
