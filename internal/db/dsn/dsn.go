// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"

	"github.com/passgate/passgate/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
func Create(dbCfg *config.DB) string {
	switch dbCfg.GormEngine {
	case config.DBEnginePostgres:
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			dbCfg.Host,
			dbCfg.Port,
			dbCfg.User,
			dbCfg.Password,
			dbCfg.Name,
		)

		if dbCfg.Extras != "" {
			out += " " + dbCfg.Extras
		}

		return out
	case config.DBEngineSQLite:
		return dbCfg.Name
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			dbCfg.User,
			dbCfg.Password,
			dbCfg.Host,
			dbCfg.Port,
			dbCfg.Name,
			dbCfg.Extras,
		)
	}
}

// URI builds a URL style connection string, as used by the gofiber storage drivers.
func URI(dbCfg *config.DB) string {
	switch dbCfg.GormEngine {
	case config.DBEnginePostgres:
		out := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", dbCfg.User, dbCfg.Password, dbCfg.Host, dbCfg.Port, dbCfg.Name)
		if dbCfg.Extras != "" {
			out += "?" + dbCfg.Extras
		}

		return out
	default:
		return Create(dbCfg)
	}
}
