package wire

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"linkup/internal/broker"
	"linkup/internal/cache"
	"linkup/internal/chat"
	"linkup/internal/common"
	"linkup/internal/config"
	"linkup/internal/dbmongo"
	"linkup/internal/dbmysql"
	"linkup/internal/feed"
	"linkup/internal/notif"
	"linkup/internal/profile"
	"linkup/internal/reaction"
	"linkup/internal/story"
)

// Application holds everything cmd/api needs to serve requests and
// shut down cleanly.
type Application struct {
	Config *config.Config
	DB     *gorm.DB
	Mongo  *dbmongo.MongoClient
	Broker *broker.Broker

	ReactionHandler *reaction.Handler
	NotifHandler    *notif.Handler
	FeedHandler     *feed.Handler
	ProfileHandler  *profile.Handler
	ChatHandler     *chat.Handler
	StoryHandler    *story.Handler

	TokenManager *common.TokenManager
}

// Router assembles the full API surface. The reaction endpoints stay
// public: the toggle carries its user id in the body, matching the
// documented external interface.
func (app *Application) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(common.CORSMiddleware)
	router.Use(common.LoggingMiddleware)

	router.HandleFunc("/api/health", healthCheck).Methods("GET")
	app.ReactionHandler.Routes(router)
	app.ProfileHandler.PublicRoutes(router)

	authed := router.NewRoute().Subrouter()
	authed.Use(common.AuthMiddleware(app.TokenManager))
	app.NotifHandler.Routes(authed)
	app.FeedHandler.Routes(authed)
	app.ProfileHandler.Routes(authed)
	app.ChatHandler.Routes(authed)
	app.StoryHandler.Routes(authed)

	return router
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"linkup-api"}`))
}

func ProvideConfig() *config.Config {
	return config.Load()
}

func ProvideDatabase(cfg *config.Config) (*gorm.DB, error) {
	return dbmysql.NewMySQL(cfg)
}

func ProvideMongo(cfg *config.Config) (*dbmongo.MongoClient, error) {
	return dbmongo.NewMongoConnection(cfg)
}

func ProvideMediaStorage(mongoClient *dbmongo.MongoClient) *dbmongo.MediaStorage {
	return dbmongo.NewMediaStorage(mongoClient)
}

// ProvideRedis treats Redis as optional: a miss at boot degrades to
// database counts instead of refusing to start.
func ProvideRedis(cfg *config.Config) *redis.Client {
	rdb, err := cache.NewRedis(cfg)
	if err != nil {
		log.Printf("redis unavailable, counters fall back to the database: %v", err)
		return nil
	}
	return rdb
}

func ProvideUnreadCache(rdb *redis.Client) *cache.UnreadCache {
	if rdb == nil {
		return nil
	}
	return cache.NewUnreadCache(rdb)
}

func ProvideLikeCache(rdb *redis.Client) *cache.LikeCache {
	if rdb == nil {
		return nil
	}
	return cache.NewLikeCache(rdb)
}

func ProvideBroker(cfg *config.Config) *broker.Broker {
	return broker.NewBroker(cfg)
}

func ProvideTokenManager(cfg *config.Config) *common.TokenManager {
	return common.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
}

func ProvideSinks(cfg *config.Config, repo notif.Repository) []notif.Sink {
	var sinks []notif.Sink
	if cfg.Kafka.Enabled {
		sinks = append(sinks, notif.NewKafkaSink(cfg))
	}
	if cfg.Email.Enabled {
		sinks = append(sinks, notif.NewEmailSink(cfg, repo))
	}
	return sinks
}

func ProvideNotifService(cfg *config.Config, repo notif.Repository, b *broker.Broker, unread *cache.UnreadCache, sinks []notif.Sink) notif.Service {
	return notif.NewService(cfg, repo, b, unread, sinks)
}

func ProvideFeedService(cfg *config.Config, repo feed.Repository, media *dbmongo.MediaStorage, likes *cache.LikeCache, notifier notif.Service) feed.Service {
	return feed.NewService(cfg, repo, media, likes, notifier)
}

func ProvideProfileService(cfg *config.Config, repo profile.Repository, media *dbmongo.MediaStorage, notifier notif.Service, tokens *common.TokenManager) profile.Service {
	return profile.NewService(cfg, repo, media, notifier, tokens)
}

func ProvideStoryService(ctx context.Context, cfg *config.Config, repo story.Repository, media *dbmongo.MediaStorage, feedRepo feed.Repository) story.Service {
	return story.NewService(ctx, cfg, repo, media, feedRepo)
}
