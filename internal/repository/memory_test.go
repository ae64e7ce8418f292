package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGameRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Stored games are copies", func(t *testing.T) {
		// Given: a stored game
		gameRepo := NewMemoryGameRepository(time.Hour)
		game := entity.NewGame("123", entity.ModeHuman)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: the caller keeps mutating its own value
		game.ApplyMove(4)

		// Then: the stored game is unaffected until saved again
		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, entity.Board{}, stored.Board)

		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))
		stored, err = gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, entity.X, stored.Board[4])
	})

	t.Run("Missing games", func(t *testing.T) {
		gameRepo := NewMemoryGameRepository(time.Hour)

		_, err := gameRepo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)

		err = gameRepo.DeleteByID(ctx, "missing")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Delete removes the game", func(t *testing.T) {
		gameRepo := NewMemoryGameRepository(time.Hour)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, entity.NewGame("123", entity.ModeHuman)))

		require.NoError(t, gameRepo.DeleteByID(ctx, "123"))

		_, err := gameRepo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestMemoryGameRepository_Evict(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	// Given: one stale and one fresh game
	gameRepo := NewMemoryGameRepository(time.Hour)

	stale := entity.NewGame("stale", entity.ModeHuman)
	stale.UpdatedAt = now.Add(-2 * time.Hour)
	fresh := entity.NewGame("fresh", entity.ModeHuman)
	fresh.UpdatedAt = now.Add(-time.Minute)

	require.NoError(t, gameRepo.CreateOrUpdate(ctx, stale))
	require.NoError(t, gameRepo.CreateOrUpdate(ctx, fresh))

	// When: evicting
	evicted := gameRepo.Evict(now)

	// Then: only the stale game is gone
	assert.Equal(t, 1, evicted)

	_, err := gameRepo.GetByID(ctx, "stale")
	require.ErrorIs(t, err, apperror.ErrGameNotFound)

	_, err = gameRepo.GetByID(ctx, "fresh")
	require.NoError(t, err)
}

func TestMemoryGameRepository_EvictKeepsRefreshedGames(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	gameRepo := NewMemoryGameRepository(time.Hour)

	for range 500 {
		// Given: a stale game
		stale := entity.NewGame("123", entity.ModeHuman)
		stale.UpdatedAt = now.Add(-2 * time.Hour)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, stale))

		// When: it is saved again while eviction runs
		fresh := entity.NewGame("123", entity.ModeHuman)
		fresh.UpdatedAt = now

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			gameRepo.Evict(now)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, gameRepo.CreateOrUpdate(ctx, fresh))
		}()
		wg.Wait()

		// Then: the fresh save survives
		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		require.Equal(t, now, stored.UpdatedAt)
	}
}

func TestMemoryGameRepository_Sweep(t *testing.T) {
	// Given: a sweeping repository with an expired game
	gameRepo := NewMemoryGameRepository(time.Millisecond)
	game := entity.NewGame("old", entity.ModeHuman)
	game.UpdatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, gameRepo.CreateOrUpdate(context.Background(), game))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gameRepo.Sweep(ctx, 5*time.Millisecond) }()

	// Then: the game is evicted by the sweeper
	assert.Eventually(t, func() bool {
		_, err := gameRepo.GetByID(context.Background(), "old")
		return err != nil
	}, time.Second, 5*time.Millisecond)

	// And: the sweeper stops with the context
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
