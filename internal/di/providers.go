package di

import (
	"log"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"chatcore/internal/chat/handler"
	"chatcore/internal/chat/service"
	"chatcore/internal/config"
	"chatcore/internal/dbmysql"
	"chatcore/internal/fanout"
)

// App bundles everything main needs to run the chat service.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Router *mux.Router
}

func ProvideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := dbmysql.NewMySQL(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// ProvideBroadcaster selects the fan-out transport: Redis pub/sub when an
// address is configured, the in-process hub otherwise.
func ProvideBroadcaster(cfg *config.Config) (fanout.Broadcaster, func(), error) {
	if cfg.Redis.Addr == "" {
		log.Println("No Redis address configured, using in-process fan-out")
		hub := fanout.NewHub()
		return hub, hub.Shutdown, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	cleanup := func() {
		if err := rdb.Close(); err != nil {
			log.Printf("closing redis client: %v", err)
		}
	}
	return fanout.NewRedisBroadcaster(rdb), cleanup, nil
}

func ProvideCatchupWindow(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Presence.CatchupDays) * 24 * time.Hour
}

func ProvideWSHandler(engine service.DeliveryService, broadcaster fanout.Broadcaster, cfg *config.Config) *handler.WSHandler {
	return handler.NewWSHandler(engine, broadcaster, cfg.Server.AllowedOrigins)
}
