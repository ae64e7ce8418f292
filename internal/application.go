package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rocketscienceinc/tictactoe/internal/config"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/repository"
	"github.com/rocketscienceinc/tictactoe/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe/internal/service"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
	"github.com/rocketscienceinc/tictactoe/transport/rest"
	"github.com/rocketscienceinc/tictactoe/transport/terminal"
	"github.com/rocketscienceinc/tictactoe/transport/websocket"
	"golang.org/x/sync/errgroup"
)

const maxSweepInterval = time.Minute

type gameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// RunApp - runs the HTTP and WebSocket servers until ctx is done or one of them fails.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	errg, ctx := errgroup.WithContext(ctx)

	gameRepo, closeStore, err := openGameRepository(ctx, errg, log, conf)
	if err != nil {
		return err
	}
	defer closeStore()

	gameUseCase := usecase.NewGameManager(logger, gameRepo, service.NewBotService())

	errg.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)

		if err := rest.New(logger, gameUseCase).Start(ctx, conf.HTTPPort); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	errg.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)

		wsServer := websocket.New(logger, gameUseCase, conf.ComputerDelay)
		if err := wsServer.Start(ctx, conf.SocketPort); err != nil {
			return fmt.Errorf("WebSocket server error: %w", err)
		}
		return nil
	})

	if err = errg.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// RunTerminal - plays in the terminal until the user quits or ctx is done.
func RunTerminal(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("new screen: %w", err)
	}

	errg, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gameRepo, closeStore, err := openGameRepository(ctx, errg, logger.With("component", "app"), conf)
	if err != nil {
		return err
	}
	defer closeStore()

	gameUseCase := usecase.NewGameManager(logger, gameRepo, service.NewBotService())

	errg.Go(func() error {
		defer cancel()
		return terminal.New(logger, gameUseCase, screen, conf.ComputerDelay).Run(ctx)
	})

	return errg.Wait()
}

// openGameRepository - connects the session store selected by conf. The memory
// store is swept for expired games on errg until ctx is done.
func openGameRepository(
	ctx context.Context,
	errg *errgroup.Group,
	log *slog.Logger,
	conf *config.Config,
) (gameRepository, func(), error) {
	switch conf.Storage {
	case config.StorageRedis:
		redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		closeStore := func() {
			if err := redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}

		return repository.NewGameRepository(redisStorage, conf.SessionTTL), closeStore, nil

	default:
		gameRepo := repository.NewMemoryGameRepository(conf.SessionTTL)

		if conf.SessionTTL > 0 {
			interval := min(conf.SessionTTL, maxSweepInterval)

			errg.Go(func() error {
				if err := gameRepo.Sweep(ctx, interval); err != nil && !errors.Is(err, context.Canceled) {
					return fmt.Errorf("session sweep failed: %w", err)
				}
				return nil
			})
		}

		return gameRepo, func() {}, nil
	}
}
