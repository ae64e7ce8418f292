package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	MakeTurn(game *entity.Game) (int, error)
}

// gameLock serialises changes to one game. refs counts holders and waiters and
// is only touched inside MapOf.Compute.
type gameLock struct {
	sync.Mutex
	refs int
}

// GameManager runs games stored in the session store. Changes to one game are serialised.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	bot      botService

	locks *xsync.MapOf[string, *gameLock]
	now   func() time.Time
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, bot botService) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
		bot:      bot,

		locks: xsync.NewMapOf[string, *gameLock](),
		now:   time.Now,
	}
}

func (that *GameManager) NewGame(ctx context.Context, mode entity.Mode) (*entity.Game, error) {
	if _, err := entity.ParseMode(string(mode)); err != nil {
		return nil, err
	}

	game := entity.NewGame(uuid.NewString(), mode)
	if err := that.updateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Debug("game created", "gameID", game.ID, "mode", game.Mode)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// SelectCell applies a human move. Occupied cells and finished games are
// ignored and the unchanged game is returned.
func (that *GameManager) SelectCell(ctx context.Context, id string, cell int) (*entity.Game, error) {
	if !entity.InRange(cell) {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	return that.mutate(ctx, id, func(game *entity.Game) error {
		if game.IsComputerTurn() {
			return apperror.ErrNotYourTurn
		}

		game.ApplyMove(cell)

		return nil
	})
}

// ComputerTurn lets the computer move when it is its turn, otherwise the game is returned as is.
func (that *GameManager) ComputerTurn(ctx context.Context, id string) (*entity.Game, error) {
	log := that.logger.With("method", "ComputerTurn", "gameID", id)

	return that.mutate(ctx, id, func(game *entity.Game) error {
		if !game.IsComputerTurn() {
			return nil
		}

		cell, err := that.bot.MakeTurn(game)
		if err != nil {
			return fmt.Errorf("bot failed to make turn: %w", err)
		}

		log.Debug("computer moved", "cell", cell, "result", game.Result)

		return nil
	})
}

func (that *GameManager) Reset(ctx context.Context, id string) (*entity.Game, error) {
	return that.mutate(ctx, id, func(game *entity.Game) error {
		game.Reset()
		return nil
	})
}

// SetMode switches the mode of a game, which also resets it.
func (that *GameManager) SetMode(ctx context.Context, id string, mode entity.Mode) (*entity.Game, error) {
	return that.mutate(ctx, id, func(game *entity.Game) error {
		return game.SetMode(mode)
	})
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	lock := that.lock(id)
	defer that.unlock(id, lock)

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

// mutate loads a game, changes it under the game's lock and saves it.
func (that *GameManager) mutate(ctx context.Context, id string, change func(game *entity.Game) error) (*entity.Game, error) {
	lock := that.lock(id)
	defer that.unlock(id, lock)

	game, err := that.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = change(game); err != nil {
		return nil, err
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

func (that *GameManager) lock(id string) *gameLock {
	lock, _ := that.locks.Compute(id, func(lock *gameLock, loaded bool) (*gameLock, bool) {
		if !loaded {
			lock = &gameLock{}
		}
		lock.refs++

		return lock, false
	})
	lock.Lock()

	return lock
}

// unlock releases the game and drops its entry once nobody holds or waits for it.
func (that *GameManager) unlock(id string, lock *gameLock) {
	lock.Unlock()

	that.locks.Compute(id, func(current *gameLock, loaded bool) (*gameLock, bool) {
		if !loaded {
			return current, true
		}
		current.refs--

		return current, current.refs == 0
	})
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	game.UpdatedAt = that.now()

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
