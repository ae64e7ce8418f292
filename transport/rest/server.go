package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

type gameUseCase interface {
	NewGame(ctx context.Context, mode entity.Mode) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	SelectCell(ctx context.Context, id string, cell int) (*entity.Game, error)
	ComputerTurn(ctx context.Context, id string) (*entity.Game, error)
	Reset(ctx context.Context, id string) (*entity.Game, error)
	SetMode(ctx context.Context, id string, mode entity.Mode) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error
}

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	return &Server{
		logger:      logger.With("component", "rest"),
		gameUseCase: gameUseCase,
	}
}

// Handler - routes of the JSON API.
func (that *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)

	games := router.PathPrefix("/games").Subrouter()
	games.HandleFunc("", that.handleNewGame).Methods(http.MethodPost)
	games.HandleFunc("/{id}", that.handleGetGame).Methods(http.MethodGet)
	games.HandleFunc("/{id}", that.handleDeleteGame).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/moves", that.handleMove).Methods(http.MethodPost)
	games.HandleFunc("/{id}/reset", that.handleReset).Methods(http.MethodPost)
	games.HandleFunc("/{id}/mode", that.handleMode).Methods(http.MethodPut)

	return router
}

// Start - starts HTTP server and shuts it down when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
