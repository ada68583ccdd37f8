//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"linkup/internal/chat"
	"linkup/internal/feed"
	"linkup/internal/notif"
	"linkup/internal/profile"
	"linkup/internal/reaction"
	"linkup/internal/story"
)

func InitializeApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		ProvideConfig,
		ProvideDatabase,
		ProvideMongo,
		ProvideMediaStorage,
		ProvideRedis,
		ProvideUnreadCache,
		ProvideLikeCache,
		ProvideBroker,
		ProvideTokenManager,
		ProvideSinks,

		reaction.NewRepository,
		reaction.NewService,
		reaction.NewHandler,

		notif.NewRepository,
		ProvideNotifService,
		notif.NewHandler,

		feed.NewRepository,
		ProvideFeedService,
		feed.NewHandler,

		profile.NewRepository,
		ProvideProfileService,
		profile.NewHandler,

		chat.NewRepository,
		chat.NewService,
		chat.NewHandler,

		story.NewRepository,
		ProvideStoryService,
		story.NewHandler,

		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
