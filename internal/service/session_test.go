package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	mockedService "github.com/rocketscienceinc/tictactoe-engine/mocks/service"
)

var errRedisDown = errors.New("redis down")

func newTestService(t *testing.T) (SessionService, *mockedService.MockscoreRepo) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scores := mockedService.NewMockscoreRepo(t)

	return NewSessionService(logger, Defaults{BoardSize: 3, FirstPlayer: "X"}, scores), scores
}

func playMoves(t *testing.T, svc SessionService, id string, moves ...tictactoe.Coord) *entity.Session {
	t.Helper()

	var sess *entity.Session
	for _, move := range moves {
		var err error
		sess, err = svc.Play(context.Background(), id, move.Row, move.Col)
		require.NoError(t, err)
	}

	return sess
}

var rowWin = []tictactoe.Coord{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 0, Col: 2}}

func TestSessionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Uses defaults for empty size and player", func(t *testing.T) {
		// Given: a service with 3x3 / X defaults
		svc, _ := newTestService(t)

		// When: a session is created without options
		sess, err := svc.Create(ctx, 0, "")

		// Then: a fresh 3x3 game with X to move is returned
		require.NoError(t, err)
		assert.NotEmpty(t, sess.ID)
		assert.Equal(t, 3, sess.State.Size)
		assert.Equal(t, tictactoe.PlayerX, sess.State.CurrentPlayer)
		assert.False(t, sess.IsFinished())
	})

	t.Run("Explicit size and first player", func(t *testing.T) {
		// Given: a service
		svc, _ := newTestService(t)

		// When: a 5x5 session with O first is created
		sess, err := svc.Create(ctx, 5, "O")

		// Then: the options are applied
		require.NoError(t, err)
		assert.Equal(t, 5, sess.State.Size)
		assert.Equal(t, tictactoe.PlayerO, sess.State.CurrentPlayer)
	})

	t.Run("Invalid size", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create(ctx, 2, "X")

		require.ErrorIs(t, err, apperror.ErrInvalidBoardSize)
	})

	t.Run("Invalid first player", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create(ctx, 3, "Z")

		require.ErrorIs(t, err, apperror.ErrInvalidPlayer)
	})
}

func TestSessionService_Play(t *testing.T) {
	ctx := context.Background()

	t.Run("Records the outcome when the game ends", func(t *testing.T) {
		// Given: a session and a score repository expecting an X win on 3x3
		svc, scores := newTestService(t)
		sess, err := svc.Create(ctx, 3, "X")
		require.NoError(t, err)

		scores.EXPECT().
			Record(mock.Anything, 3, mock.MatchedBy(func(outcome tictactoe.Outcome) bool {
				return outcome.Status == tictactoe.StatusWin && outcome.Winner == tictactoe.PlayerX
			})).
			Return(nil).
			Once()

		// When: X completes row 0
		result := playMoves(t, svc, sess.ID, rowWin...)

		// Then: the session is finished with X as the winner
		assert.True(t, result.IsFinished())
		assert.Equal(t, tictactoe.PlayerX, result.State.Outcome.Winner)
	})

	t.Run("Failed recording does not fail the move", func(t *testing.T) {
		// Given: a score repository that is down
		svc, scores := newTestService(t)
		sess, err := svc.Create(ctx, 3, "X")
		require.NoError(t, err)

		scores.EXPECT().
			Record(mock.Anything, 3, mock.Anything).
			Return(errRedisDown).
			Once()

		// When: the game is won
		result := playMoves(t, svc, sess.ID, rowWin...)

		// Then: the win still stands
		assert.Equal(t, tictactoe.StatusWin, result.State.Outcome.Status)
	})

	t.Run("Outcome is recorded after the caller hangs up", func(t *testing.T) {
		// Given: a session one move away from an X win
		svc, scores := newTestService(t)
		sess, err := svc.Create(ctx, 3, "X")
		require.NoError(t, err)
		playMoves(t, svc, sess.ID, rowWin[:4]...)

		scores.EXPECT().
			Record(mock.MatchedBy(func(recordCtx context.Context) bool {
				return recordCtx.Err() == nil
			}), 3, mock.Anything).
			Return(nil).
			Once()

		// When: the winning move arrives on an already canceled context
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		result, err := svc.Play(canceled, sess.ID, 0, 2)

		// Then: the tally is written with a live context
		require.NoError(t, err)
		assert.Equal(t, tictactoe.StatusWin, result.State.Outcome.Status)
	})

	t.Run("Move errors are passed through", func(t *testing.T) {
		// Given: a session where X owns the center
		svc, _ := newTestService(t)
		sess, err := svc.Create(ctx, 3, "X")
		require.NoError(t, err)
		playMoves(t, svc, sess.ID, tictactoe.Coord{Row: 1, Col: 1})

		// When: the center is played again and a move is played off the board
		_, occupiedErr := svc.Play(ctx, sess.ID, 1, 1)
		_, boundsErr := svc.Play(ctx, sess.ID, 3, 0)

		// Then: the engine errors reach the caller
		require.ErrorIs(t, occupiedErr, apperror.ErrCellOccupied)
		require.ErrorIs(t, boundsErr, apperror.ErrOutOfBounds)
	})

	t.Run("Unknown session", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Play(ctx, "missing", 0, 0)

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Concurrent plays on one cell", func(t *testing.T) {
		// Given: a new session
		svc, _ := newTestService(t)
		sess, err := svc.Create(ctx, 3, "X")
		require.NoError(t, err)

		// When: many callers race for the same cell
		const callers = 32
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			occupied  int
		)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Play(ctx, sess.ID, 0, 0)

				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					succeeded++
				} else if errors.Is(err, apperror.ErrCellOccupied) {
					occupied++
				}
			}()
		}
		wg.Wait()

		// Then: exactly one caller wins the cell
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, callers-1, occupied)
	})
}

func TestSessionService_Reset(t *testing.T) {
	ctx := context.Background()

	// Given: a finished session
	svc, scores := newTestService(t)
	sess, err := svc.Create(ctx, 3, "O")
	require.NoError(t, err)

	scores.EXPECT().Record(mock.Anything, 3, mock.Anything).Return(nil).Once()
	playMoves(t, svc, sess.ID, rowWin...)

	// When: the session is reset
	result, err := svc.Reset(ctx, sess.ID)
	require.NoError(t, err)

	// Then: the board is fresh and O moves first again
	assert.Equal(t, sess.State, result.State)
	assert.Equal(t, tictactoe.PlayerO, result.State.CurrentPlayer)
}

func TestSessionService_Delete(t *testing.T) {
	ctx := context.Background()

	// Given: a session with a subscriber
	svc, _ := newTestService(t)
	sess, err := svc.Create(ctx, 3, "X")
	require.NoError(t, err)

	feed, cancel, err := svc.Subscribe(sess.ID)
	require.NoError(t, err)
	defer cancel()

	// When: the session is deleted
	require.NoError(t, svc.Delete(ctx, sess.ID))

	// Then: it can't be found and the feed is closed
	_, err = svc.Get(ctx, sess.ID)
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)

	_, open := <-feed
	assert.False(t, open)

	require.ErrorIs(t, svc.Delete(ctx, sess.ID), apperror.ErrSessionNotFound)
}

func TestSessionService_Subscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("Receives snapshots after changes", func(t *testing.T) {
		// Given: a subscribed session
		svc, _ := newTestService(t)
		sess, err := svc.Create(ctx, 3, "X")
		require.NoError(t, err)

		feed, cancel, err := svc.Subscribe(sess.ID)
		require.NoError(t, err)
		defer cancel()

		// When: a move is played and the game is reset
		played := playMoves(t, svc, sess.ID, tictactoe.Coord{Row: 2, Col: 0})
		reset, err := svc.Reset(ctx, sess.ID)
		require.NoError(t, err)

		// Then: both snapshots arrive in order
		assert.Equal(t, *played, <-feed)
		assert.Equal(t, *reset, <-feed)
	})

	t.Run("Cancel closes the feed", func(t *testing.T) {
		svc, _ := newTestService(t)
		sess, err := svc.Create(ctx, 3, "X")
		require.NoError(t, err)

		feed, cancel, err := svc.Subscribe(sess.ID)
		require.NoError(t, err)

		cancel()
		cancel()

		_, open := <-feed
		assert.False(t, open)
	})

	t.Run("Unknown session", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, _, err := svc.Subscribe("missing")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

func TestSessionService_Scores(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the tally", func(t *testing.T) {
		svc, scores := newTestService(t)
		expected := &entity.Score{Size: 3, XWins: 4, Draws: 1}

		scores.EXPECT().GetBySize(mock.Anything, 3).Return(expected, nil).Once()

		score, err := svc.Scores(ctx, 3)

		require.NoError(t, err)
		assert.Equal(t, expected, score)
	})

	t.Run("Repository error", func(t *testing.T) {
		svc, scores := newTestService(t)

		scores.EXPECT().GetBySize(mock.Anything, 3).Return(nil, errRedisDown).Once()

		_, err := svc.Scores(ctx, 3)

		require.ErrorIs(t, err, errRedisDown)
	})
}
