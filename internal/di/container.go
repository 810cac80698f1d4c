package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	adminService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/admin/service"
	broadcastService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/broadcast/service"
	channelService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/channel/service"
	dialogService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/dialog/service"
	resolverService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/resolver/service"
	statsService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/stats/service"
	storeRepo "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/repository"
	storeService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/service"
	"github.com/reshetovitsme/telegram-broadcast-bot/internal/shared/config"
	httpServer "github.com/reshetovitsme/telegram-broadcast-bot/internal/transport/http"
	telegramTransport "github.com/reshetovitsme/telegram-broadcast-bot/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Record Repository
	do.Provide(injector, func(i do.Injector) (storeRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := storeRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize record repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Store
	do.Provide(injector, func(i do.Injector) (*storeService.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[storeRepo.Repository](i)
		return storeService.New(repo, cfg.AdminIDs), nil
	})

	// Register Channel Registry
	do.Provide(injector, func(i do.Injector) (*channelService.Service, error) {
		store := do.MustInvoke[*storeService.Store](i)
		return channelService.New(store), nil
	})

	// Register Authorization Guard
	do.Provide(injector, func(i do.Injector) (*adminService.Service, error) {
		store := do.MustInvoke[*storeService.Store](i)
		return adminService.New(store), nil
	})

	// Register Stats Accumulator
	do.Provide(injector, func(i do.Injector) (*statsService.Service, error) {
		store := do.MustInvoke[*storeService.Store](i)
		return statsService.New(store), nil
	})

	// Register Conversation State
	do.Provide(injector, func(i do.Injector) (*dialogService.Service, error) {
		return dialogService.New(), nil
	})

	// Register Telegram Courier
	do.Provide(injector, func(i do.Injector) (*telegramTransport.Courier, error) {
		return telegramTransport.NewCourier(), nil
	})

	// Register Telegram Inspector
	do.Provide(injector, func(i do.Injector) (*telegramTransport.Inspector, error) {
		return telegramTransport.NewInspector(), nil
	})

	// Register Channel Resolver
	do.Provide(injector, func(i do.Injector) (*resolverService.Service, error) {
		inspector := do.MustInvoke[*telegramTransport.Inspector](i)
		return resolverService.New(inspector), nil
	})

	// Register Broadcast Dispatcher
	do.Provide(injector, func(i do.Injector) (*broadcastService.Dispatcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		courier := do.MustInvoke[*telegramTransport.Courier](i)
		timeout := time.Duration(cfg.DeliveryTimeout) * time.Second
		return broadcastService.New(courier, timeout, cfg.BroadcastRatePerSec), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramTransport.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		guard := do.MustInvoke[*adminService.Service](i)
		registry := do.MustInvoke[*channelService.Service](i)
		dialog := do.MustInvoke[*dialogService.Service](i)
		resolver := do.MustInvoke[*resolverService.Service](i)
		dispatcher := do.MustInvoke[*broadcastService.Dispatcher](i)
		stats := do.MustInvoke[*statsService.Service](i)
		return telegramTransport.New(cfg, guard, registry, dialog, resolver, dispatcher, stats), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		stats := do.MustInvoke[*statsService.Service](i)
		registry := do.MustInvoke[*channelService.Service](i)
		server := httpServer.New(cfg, stats, registry)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Bot (needs to be initialized after handlers are ready)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramTransport.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		// Register bot commands
		handler.RegisterCommands(b)

		// Attach the bot to the Telegram-facing collaborators
		do.MustInvoke[*telegramTransport.Courier](i).SetBot(b)
		do.MustInvoke[*telegramTransport.Inspector](i).SetBot(b)

		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx := context.Background()

	// Shutdown bot if it exists
	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	return nil
}
