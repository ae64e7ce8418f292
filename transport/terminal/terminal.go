// Package terminal is a keyboard client that plays against the same game
// manager the servers use.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/view"
)

const (
	padTop  = 3
	padLeft = 2

	rowHeight = 2
	statusRow = padTop + entity.BoardSize/3*rowHeight + 1
	errorRow  = statusRow + 1
)

const helpLine = "<1-9> move  <m> mode  <r> reset  <q> quit"

type gameUseCase interface {
	NewGame(ctx context.Context, mode entity.Mode) (*entity.Game, error)
	SelectCell(ctx context.Context, id string, cell int) (*entity.Game, error)
	ComputerTurn(ctx context.Context, id string) (*entity.Game, error)
	Reset(ctx context.Context, id string) (*entity.Game, error)
	SetMode(ctx context.Context, id string, mode entity.Mode) (*entity.Game, error)
}

// computerTurn is posted back to the event loop when the delay has passed.
type computerTurn struct {
	gameID string
}

type shutdown struct{}

// Terminal draws one game and feeds key presses into it. All game calls happen
// on the goroutine running Run.
type Terminal struct {
	logger        *slog.Logger
	gameUseCase   gameUseCase
	screen        tcell.Screen
	style         tcell.Style
	computerDelay time.Duration

	game    *entity.Game
	pending *time.Timer
}

func New(logger *slog.Logger, gameUseCase gameUseCase, screen tcell.Screen, computerDelay time.Duration) *Terminal {
	return &Terminal{
		logger:        logger.With("component", "terminal"),
		gameUseCase:   gameUseCase,
		screen:        screen,
		style:         tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite),
		computerDelay: computerDelay,
	}
}

// Run initialises the screen and handles events until the user quits or ctx is done.
func (that *Terminal) Run(ctx context.Context) error {
	if err := that.screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer that.screen.Fini()

	game, err := that.gameUseCase.NewGame(ctx, entity.ModeComputer)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	that.game = game
	that.draw("")

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = that.screen.PostEvent(tcell.NewEventInterrupt(shutdown{}))
		case <-done:
		}
	}()

	defer that.cancelComputerTurn()

	for {
		switch ev := that.screen.PollEvent().(type) {
		case nil:
			return nil

		case *tcell.EventResize:
			that.screen.Sync()
			that.draw("")

		case *tcell.EventKey:
			if quit := that.handleKey(ctx, ev); quit {
				return nil
			}

		case *tcell.EventInterrupt:
			switch data := ev.Data().(type) {
			case shutdown:
				return nil
			case computerTurn:
				that.playComputer(ctx, data.gameID)
			}
		}
	}
}

// handleKey applies one key press and reports whether the user wants to quit.
func (that *Terminal) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	var (
		game *entity.Game
		err  error
	)

	switch key := ev.Rune(); {
	case key == 'q':
		return true

	case key >= '1' && key <= '9':
		game, err = that.gameUseCase.SelectCell(ctx, that.game.ID, int(key-'1'))

	case key == 'm':
		that.cancelComputerTurn()
		game, err = that.gameUseCase.SetMode(ctx, that.game.ID, that.game.Mode.Toggle())

	case key == 'r':
		that.cancelComputerTurn()
		game, err = that.gameUseCase.Reset(ctx, that.game.ID)

	default:
		return false
	}

	if err != nil {
		that.fail(err)
		return false
	}

	that.game = game
	that.draw("")

	if game.IsComputerTurn() {
		that.scheduleComputerTurn(game.ID)
	}

	return false
}

func (that *Terminal) scheduleComputerTurn(gameID string) {
	that.cancelComputerTurn()

	that.pending = time.AfterFunc(that.computerDelay, func() {
		if err := that.screen.PostEvent(tcell.NewEventInterrupt(computerTurn{gameID: gameID})); err != nil {
			that.logger.Error("failed to post computer turn", "error", err)
		}
	})
}

func (that *Terminal) cancelComputerTurn() {
	if that.pending != nil {
		that.pending.Stop()
		that.pending = nil
	}
}

func (that *Terminal) playComputer(ctx context.Context, gameID string) {
	that.pending = nil

	if gameID != that.game.ID {
		return
	}

	game, err := that.gameUseCase.ComputerTurn(ctx, gameID)
	if err != nil {
		that.fail(err)
		return
	}

	that.game = game
	that.draw("")
}

func (that *Terminal) fail(err error) {
	log := that.logger.With("method", "fail")

	switch {
	case errors.Is(err, apperror.ErrNotYourTurn):
		that.screen.Beep()
		that.draw("wait for the computer")
	default:
		log.Error("game call failed", "error", err)
		that.draw(err.Error())
	}
}

func (that *Terminal) draw(notice string) {
	that.screen.Clear()

	gameView := view.Render(that.game)

	that.print(padLeft, 0, "Tic-Tac-Toe  mode: "+string(gameView.Mode))
	that.print(padLeft, 1, helpLine)

	for row := range 3 {
		y := padTop + row*rowHeight

		line := ""
		for col := range 3 {
			cell := row*3 + col

			mark := gameView.Cells[cell]
			if mark == "" {
				mark = fmt.Sprint(cell + 1)
			}

			if col > 0 {
				line += "|"
			}
			line += " " + mark + " "
		}
		that.print(padLeft, y, line)

		if row < 2 {
			that.print(padLeft, y+1, "---+---+---")
		}
	}

	status := "Turn: " + gameView.Turn
	if gameView.Over {
		status = gameView.Message
	}
	that.print(padLeft, statusRow, status)
	that.print(padLeft, errorRow, notice)

	that.screen.Show()
}

func (that *Terminal) print(x, y int, str string) {
	for _, c := range str {
		var comb []rune
		w := runewidth.RuneWidth(c)
		if w == 0 {
			comb = []rune{c}
			c = ' '
			w = 1
		}
		that.screen.SetContent(x, y, c, comb, that.style)
		x += w
	}
}
