package terminal

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rocketscienceinc/tictactoe/internal/repository"
	"github.com/rocketscienceinc/tictactoe/internal/service"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

type session struct {
	t      *testing.T
	screen tcell.SimulationScreen
	done   chan error
	cancel context.CancelFunc
}

func start(t *testing.T, computerDelay time.Duration) *session {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, repository.NewMemoryGameRepository(time.Hour), service.NewBotService())

	screen := tcell.NewSimulationScreen("UTF-8")
	term := New(logger, manager, screen, computerDelay)

	ctx, cancel := context.WithCancel(context.Background())

	s := &session{t: t, screen: screen, done: make(chan error, 1), cancel: cancel}
	go func() { s.done <- term.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case <-s.done:
		case <-time.After(waitFor):
			t.Error("terminal did not stop")
		}
	})

	s.waitLine(0, "Tic-Tac-Toe  mode: pvc")

	return s
}

func (that *session) press(keys string) {
	for _, key := range keys {
		that.screen.InjectKey(tcell.KeyRune, key, tcell.ModNone)
	}
}

func (that *session) line(y int) string {
	cells, width, _ := that.screen.GetContents()

	var sb strings.Builder
	for x := range width {
		runes := cells[y*width+x].Runes
		if len(runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(runes[0])
	}

	return strings.TrimSpace(sb.String())
}

func (that *session) waitLine(y int, want string) {
	that.t.Helper()

	require.Eventually(that.t, func() bool {
		return that.line(y) == want
	}, waitFor, 5*time.Millisecond, "line %d never became %q", y, want)
}

func (that *session) waitBoard(rows ...string) {
	that.t.Helper()

	for i, row := range rows {
		that.waitLine(padTop+i*rowHeight, row)
	}
}

func TestTerminal_PlaysAgainstComputer(t *testing.T) {
	// Given: a fresh pvc game
	s := start(t, 10*time.Millisecond)
	s.waitBoard("1 | 2 | 3", "4 | 5 | 6", "7 | 8 | 9")
	s.waitLine(statusRow, "Turn: X")

	// When: the human takes the top left corner
	s.press("1")

	// Then: the computer answers in the center and hands the turn back
	s.waitBoard("X | 2 | 3", "4 | O | 6", "7 | 8 | 9")
	s.waitLine(statusRow, "Turn: X")
}

func TestTerminal_WaitsForComputer(t *testing.T) {
	// Given: a computer that takes its time
	s := start(t, time.Hour)

	// When: the human tries to move twice
	s.press("1")
	s.waitLine(statusRow, "Turn: O")
	s.press("2")

	// Then: the second move is refused
	s.waitLine(errorRow, "wait for the computer")
	s.waitBoard("X | 2 | 3")

	// When: the game is reset
	s.press("r")

	// Then: the board is empty and X may move
	s.waitBoard("1 | 2 | 3", "4 | 5 | 6", "7 | 8 | 9")
	s.waitLine(statusRow, "Turn: X")
	s.waitLine(errorRow, "")
}

func TestTerminal_HumanVsHuman(t *testing.T) {
	// Given: the mode is toggled to pvp
	s := start(t, time.Millisecond)
	s.press("m")
	s.waitLine(0, "Tic-Tac-Toe  mode: pvp")

	// When: X completes the top row
	s.press("14253")

	// Then: X wins and the board is final
	s.waitBoard("X | X | X", "O | O | 6", "7 | 8 | 9")
	s.waitLine(statusRow, "X wins")

	// When: another cell is pressed
	s.press("9")

	// Then: nothing changes
	s.waitBoard("X | X | X", "O | O | 6", "7 | 8 | 9")

	// When: the mode is toggled back
	s.press("m")

	// Then: a new pvc game starts
	s.waitLine(0, "Tic-Tac-Toe  mode: pvc")
	s.waitBoard("1 | 2 | 3", "4 | 5 | 6", "7 | 8 | 9")
}

func TestTerminal_Quit(t *testing.T) {
	testCases := []struct {
		name string
		quit func(s *session)
	}{
		{name: "q key", quit: func(s *session) { s.press("q") }},
		{name: "escape", quit: func(s *session) { s.screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone) }},
		{name: "context cancel", quit: func(s *session) { s.cancel() }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := start(t, time.Millisecond)

			// When: the user leaves
			tc.quit(s)

			// Then: Run returns without error
			select {
			case err := <-s.done:
				assert.NoError(t, err)
				s.done <- nil
			case <-time.After(waitFor):
				t.Fatal("terminal did not stop")
			}
		})
	}
}
