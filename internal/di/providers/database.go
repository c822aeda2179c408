package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/notekeeperapp/notekeeper/internal/config"
	"github.com/notekeeperapp/notekeeper/internal/logger"
	"github.com/notekeeperapp/notekeeper/internal/store/sqlstore"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlstore.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the database named by DATABASE_URL and runs migrations.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	db, err := sqlstore.Open(ctx, cfg.Storage.DatabaseURL, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "dialect", db.Dialect().String())

	return &StoreHandle{Store: db}, nil
}
