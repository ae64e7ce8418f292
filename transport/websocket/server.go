package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

var ErrUnknownAction = errors.New("unknown action")

type gameUseCase interface {
	NewGame(ctx context.Context, mode entity.Mode) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	SelectCell(ctx context.Context, id string, cell int) (*entity.Game, error)
	ComputerTurn(ctx context.Context, id string) (*entity.Game, error)
	Reset(ctx context.Context, id string) (*entity.Game, error)
	SetMode(ctx context.Context, id string, mode entity.Mode) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, conn *websocket.Conn, req *RequestPayload) (*entity.Game, error)

type Server struct {
	logger        *slog.Logger
	gameUseCase   gameUseCase
	computerDelay time.Duration

	handlers map[string]handlerFunc
}

// New - websocket server; computerDelay paces the computer's reply after a human move.
func New(logger *slog.Logger, gameUseCase gameUseCase, computerDelay time.Duration) *Server {
	server := &Server{
		logger:        logger.With("component", "websocket"),
		gameUseCase:   gameUseCase,
		computerDelay: computerDelay,
	}

	server.handlers = map[string]handlerFunc{
		actionNewGame: server.handleNewGame,
		actionState:   server.handleState,
		actionTurn:    server.handleTurn,
		actionReset:   server.handleReset,
		actionMode:    server.handleMode,
	}

	return server
}

func (that *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/ws", that.accept)

	return router
}

// Start - starts WebSocket server and shuts it down when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
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

// accept - upgrades the connection to WebSocket and serves it until the client leaves.
func (that *Server) accept(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "accept", "remote", r.RemoteAddr)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}
	defer conn.CloseNow()

	log.Info("WebSocket connection established")

	err = that.handleMessages(r.Context(), conn)

	switch status := websocket.CloseStatus(err); {
	case status == websocket.StatusNormalClosure, status == websocket.StatusGoingAway:
		log.Info("WebSocket connection closed")
	case errors.Is(err, context.Canceled):
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	default:
		log.Error("error handling messages", "error", err)
		conn.Close(websocket.StatusInternalError, "")
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for {
		var msg Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}

		game, err := that.dispatch(ctx, conn, &msg)
		if err != nil {
			that.logger.Debug("action failed", "action", msg.Action, "error", err)

			if err = that.send(ctx, conn, msg.Action, ResponsePayload{Error: err.Error()}); err != nil {
				return err
			}
			continue
		}

		if err = that.sendGame(ctx, conn, msg.Action, game); err != nil {
			return err
		}
	}
}

func (that *Server) dispatch(ctx context.Context, conn *websocket.Conn, msg *Message) (*entity.Game, error) {
	handler, ok := that.handlers[msg.Action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
	}

	var req RequestPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	return handler(ctx, conn, &req)
}

func (that *Server) send(ctx context.Context, conn *websocket.Conn, action string, payload ResponsePayload) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := wsjson.Write(ctx, conn, Response{Action: action, Payload: payload}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}
