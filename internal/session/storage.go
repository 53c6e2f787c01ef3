package session

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/redis/go-redis/v9"

	"github.com/passgate/passgate/internal/config"
	"github.com/passgate/passgate/internal/db/dsn"
)

// NewStorage opens the backing store selected by cfg.Type. The sql backed
// stores reuse the connection settings of db.
func NewStorage(cfg config.SessionStorage, db config.DB) (fiber.Storage, error) {
	switch cfg.Type {
	case "", config.StorageMemory:
		return memory.New(), nil
	case config.StorageMySQL:
		mysqlDB := db
		mysqlDB.GormEngine = config.DBEngineMySQL

		return mysql.New(mysql.Config{
			ConnectionURI: dsn.Create(&mysqlDB),
			Table:         cfg.Table,
		}), nil
	case config.StoragePostgres:
		pgDB := db
		pgDB.GormEngine = config.DBEnginePostgres

		return postgres.New(postgres.Config{
			ConnectionURI: dsn.URI(&pgDB),
			Table:         cfg.Table,
		}), nil
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		return NewRedisStorage(client, cfg.Redis.Prefix), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, cfg.Type)
	}
}
