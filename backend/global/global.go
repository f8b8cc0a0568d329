// Package global holds process-wide handles that are set once at startup.
package global

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	Logger = zerolog.Nop()

	// Mdb and Rdb are released by initialize.Shutdown. Rdb is nil when Redis
	// is disabled.
	Mdb *gorm.DB
	Rdb *redis.Client
)
