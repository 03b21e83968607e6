package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	fieldX    = "X"
	fieldO    = "O"
	fieldDraw = "draw"
)

type ScoreRepository interface {
	Record(ctx context.Context, size int, outcome tictactoe.Outcome) error
	GetBySize(ctx context.Context, size int) (*entity.Score, error)
}

type dbScore struct {
	client *redis.Client
}

func NewScoreRepository(client *redis.Client) ScoreRepository {
	return &dbScore{
		client: client,
	}
}

func scoreKey(size int) string {
	return "scores:" + strconv.Itoa(size)
}

func (that *dbScore) Record(ctx context.Context, size int, outcome tictactoe.Outcome) error {
	var field string

	switch outcome.Status {
	case tictactoe.StatusWin:
		field = outcome.Winner.String()
	case tictactoe.StatusDraw:
		field = fieldDraw
	default:
		return fmt.Errorf("%w: %s", apperror.ErrOutcomeNotFinal, outcome.Status)
	}

	if err := that.client.HIncrBy(ctx, scoreKey(size), field, 1).Err(); err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}

	return nil
}

func (that *dbScore) GetBySize(ctx context.Context, size int) (*entity.Score, error) {
	fields, err := that.client.HGetAll(ctx, scoreKey(size)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get score by size: %w", err)
	}

	score := &entity.Score{Size: size}
	for field, value := range fields {
		count, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s count: %w", field, err)
		}

		switch field {
		case fieldX:
			score.XWins = count
		case fieldO:
			score.OWins = count
		case fieldDraw:
			score.Draws = count
		}
	}

	return score, nil
}
