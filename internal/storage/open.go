package storage

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// Drivers understood by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Backend selects and configures a key/value backend.
type Backend struct {
	Driver      string
	SQLitePath  string
	DatabaseURL string
	RedisAddr   string
	RedisPrefix string
}

// Open builds the store named by b.Driver.
func Open(ctx context.Context, b Backend, log *logger.Logger) (domain.KVStore, error) {
	switch b.Driver {
	case DriverMemory, "":
		return NewMemoryStore(log), nil
	case DriverSQLite:
		return OpenSQLite(ctx, b.SQLitePath, log)
	case DriverPostgres:
		return OpenPostgres(ctx, b.DatabaseURL, log)
	case DriverRedis:
		return OpenRedis(ctx, b.RedisAddr, b.RedisPrefix, log)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", b.Driver)
	}
}
