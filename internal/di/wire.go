//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"chatcore/internal/chat/handler"
	"chatcore/internal/chat/repository"
	"chatcore/internal/chat/service"
	"chatcore/internal/config"
	"chatcore/internal/presence"
)

// InitializeApp wires configuration, storage, the delivery engine and the
// transport handlers into a runnable App.
func InitializeApp() (*App, func(), error) {
	wire.Build(
		config.Load,
		ProvideDB,
		ProvideBroadcaster,
		ProvideCatchupWindow,
		ProvideWSHandler,
		presence.NewRegistry,
		wire.Bind(new(service.Presence), new(*presence.Registry)),
		repository.NewRoomRepository,
		repository.NewMessageRepository,
		repository.NewReceiptRepository,
		repository.NewUserRepository,
		service.NewDeliveryService,
		service.NewRoomService,
		handler.NewHTTPHandler,
		handler.NewRouter,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
