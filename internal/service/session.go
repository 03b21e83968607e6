package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const subscriberBuffer = 16

type SessionService interface {
	Create(ctx context.Context, size int, firstPlayer string) (*entity.Session, error)
	Get(ctx context.Context, id string) (*entity.Session, error)
	Play(ctx context.Context, id string, row, col int) (*entity.Session, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error

	Scores(ctx context.Context, size int) (*entity.Score, error)

	Subscribe(id string) (<-chan entity.Session, func(), error)
}

type scoreRepo interface {
	Record(ctx context.Context, size int, outcome tictactoe.Outcome) error
	GetBySize(ctx context.Context, size int) (*entity.Score, error)
}

// Defaults apply when a create request leaves size or first player empty.
type Defaults struct {
	BoardSize   int
	FirstPlayer string
}

// session owns one engine; mu serializes every engine call.
type session struct {
	mu        sync.Mutex
	id        string
	engine    *tictactoe.BoardEngine
	createdAt time.Time
	updatedAt time.Time

	subscribers map[int]chan entity.Session
	nextSubID   int
}

type sessionService struct {
	logger   *slog.Logger
	defaults Defaults
	scores   scoreRepo
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewSessionService(logger *slog.Logger, defaults Defaults, scores scoreRepo) SessionService {
	return &sessionService{
		logger:   logger.With("component", "session_service"),
		defaults: defaults,
		scores:   scores,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (that *sessionService) Create(_ context.Context, size int, firstPlayer string) (*entity.Session, error) {
	if size == 0 {
		size = that.defaults.BoardSize
	}

	if firstPlayer == "" {
		firstPlayer = that.defaults.FirstPlayer
	}

	first, err := tictactoe.ParsePlayerID(firstPlayer)
	if err != nil {
		return nil, fmt.Errorf("failed to parse first player: %w", err)
	}

	engine, err := tictactoe.NewBoardEngine(size, first)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	now := that.now()
	sess := &session{
		id:          uuid.New().String(),
		engine:      engine,
		createdAt:   now,
		updatedAt:   now,
		subscribers: make(map[int]chan entity.Session),
	}

	that.mu.Lock()
	that.sessions[sess.id] = sess
	that.mu.Unlock()

	that.logger.Debug("session created", "session", sess.id, "size", size, "first_player", first)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return sess.snapshot(engine.CurrentState()), nil
}

func (that *sessionService) Get(_ context.Context, id string) (*entity.Session, error) {
	sess, err := that.find(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return sess.snapshot(sess.engine.CurrentState()), nil
}

func (that *sessionService) Play(ctx context.Context, id string, row, col int) (*entity.Session, error) {
	log := that.logger.With("method", "Play", "session", id)

	sess, err := that.find(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	state, err := sess.engine.Play(row, col)
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	sess.updatedAt = that.now()
	result := sess.snapshot(state)
	sess.publish(*result)

	if state.Outcome.IsTerminal() {
		// the move stands even if the tally can't be written; a caller hanging up must not skip it
		if err = that.scores.Record(context.WithoutCancel(ctx), state.Size, state.Outcome); err != nil {
			log.Error("failed to record outcome", "error", err)
		}

		if state.Outcome.Status == tictactoe.StatusWin {
			log = log.With("winner", state.Outcome.Winner.String())
		}
		log.Info("game finished", "status", state.Outcome.Status.String())
	}

	return result, nil
}

func (that *sessionService) Reset(_ context.Context, id string) (*entity.Session, error) {
	sess, err := that.find(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	state := sess.engine.Reset()
	sess.updatedAt = that.now()

	result := sess.snapshot(state)
	sess.publish(*result)

	return result, nil
}

func (that *sessionService) Delete(_ context.Context, id string) error {
	that.mu.Lock()
	sess, ok := that.sessions[id]
	delete(that.sessions, id)
	that.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	for subID, ch := range sess.subscribers {
		close(ch)
		delete(sess.subscribers, subID)
	}

	that.logger.Debug("session deleted", "session", id)

	return nil
}

func (that *sessionService) Scores(ctx context.Context, size int) (*entity.Score, error) {
	score, err := that.scores.GetBySize(ctx, size)
	if err != nil {
		return nil, fmt.Errorf("failed to get scores: %w", err)
	}

	return score, nil
}

// Subscribe - returns a feed of snapshots published after every change of the session.
// The feed is closed by the returned cancel func or when the session is deleted.
func (that *sessionService) Subscribe(id string) (<-chan entity.Session, func(), error) {
	sess, err := that.find(id)
	if err != nil {
		return nil, nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	subID := sess.nextSubID
	sess.nextSubID++

	ch := make(chan entity.Session, subscriberBuffer)
	sess.subscribers[subID] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			sess.mu.Lock()
			defer sess.mu.Unlock()

			if ch, ok := sess.subscribers[subID]; ok {
				close(ch)
				delete(sess.subscribers, subID)
			}
		})
	}

	return ch, cancel, nil
}

func (that *sessionService) find(id string) (*session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	sess, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	return sess, nil
}

// snapshot must be called with mu held.
func (that *session) snapshot(state tictactoe.GameState) *entity.Session {
	return &entity.Session{
		ID:        that.id,
		State:     state,
		CreatedAt: that.createdAt,
		UpdatedAt: that.updatedAt,
	}
}

// publish must be called with mu held. A full subscriber misses the snapshot.
func (that *session) publish(snapshot entity.Session) {
	for _, ch := range that.subscribers {
		select {
		case ch <- snapshot:
		default:
		}
	}
}
