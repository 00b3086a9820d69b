package repositories

import (
	"context"
	"database/sql"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/repositories/memory"
	"github.com/IgorPchelyakov/streamflow-backend/internal/infrastructure/repositories/postgres"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/config"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/retry"

	"go.uber.org/zap"
)

// RepositoryFactory creates repositories backed by postgres, falling back
// to in-memory stores when the database is unreachable. The memory
// fallback keeps local development working without a running database.
type RepositoryFactory struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{logger: logger}

	// The database is often the last dependency to come up; retry the
	// initial connect before giving up and falling back.
	db, err := retry.RetryWithResult(context.Background(), retry.DefaultConfig(), func() (*sql.DB, error) {
		return postgres.NewClient(
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLifetime,
		)
	})
	if err != nil {
		logger.Warnw("failed to connect to postgres, falling back to memory repositories",
			"error", err,
		)
		return factory, nil
	}

	if err := postgres.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	factory.db = db
	logger.Info("using postgres repositories")
	return factory, nil
}

func (f *RepositoryFactory) CreateUserRepository() ports.UserRepository {
	if f.db != nil {
		return postgres.NewPostgresUserRepository(f.db)
	}
	return memory.NewMemoryUserRepository()
}

func (f *RepositoryFactory) CreateStreamRepository() ports.StreamRepository {
	if f.db != nil {
		return postgres.NewPostgresStreamRepository(f.db)
	}
	return memory.NewMemoryStreamRepository()
}

func (f *RepositoryFactory) CreateChatMessageRepository() ports.ChatMessageRepository {
	if f.db != nil {
		return postgres.NewPostgresChatRepository(f.db)
	}
	return memory.NewMemoryChatRepository()
}

func (f *RepositoryFactory) Close() error {
	if f.db != nil {
		return f.db.Close()
	}
	return nil
}

func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	if f.db != nil {
		return f.db.PingContext(ctx)
	}
	return nil
}
