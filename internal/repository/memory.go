package repository

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

// MemoryGameRepository keeps games in process. Callers get copies, never the stored value.
type MemoryGameRepository struct {
	games *xsync.MapOf[string, entity.Game]
	ttl   time.Duration
}

func NewMemoryGameRepository(ttl time.Duration) *MemoryGameRepository {
	return &MemoryGameRepository{
		games: xsync.NewMapOf[string, entity.Game](),
		ttl:   ttl,
	}
}

func (that *MemoryGameRepository) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.games.Store(game.ID, *game)

	return nil
}

func (that *MemoryGameRepository) GetByID(_ context.Context, id string) (*entity.Game, error) {
	game, ok := that.games.Load(id)
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	return &game, nil
}

func (that *MemoryGameRepository) DeleteByID(_ context.Context, id string) error {
	if _, ok := that.games.LoadAndDelete(id); !ok {
		return apperror.ErrGameNotFound
	}

	return nil
}

// Evict drops games not updated within the ttl and returns how many were removed.
func (that *MemoryGameRepository) Evict(now time.Time) int {
	if that.ttl <= 0 {
		return 0
	}

	var evicted int
	that.games.Range(func(id string, _ entity.Game) bool {
		// the game may have been saved again since Range read it
		that.games.Compute(id, func(game entity.Game, loaded bool) (entity.Game, bool) {
			expired := loaded && game.UpdatedAt.Add(that.ttl).Before(now)
			if expired {
				evicted++
			}
			return game, !loaded || expired
		})
		return true
	})

	return evicted
}

// Sweep runs Evict every interval until ctx is done.
func (that *MemoryGameRepository) Sweep(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			that.Evict(now)
		}
	}
}
