package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-machine/internal/entity"
)

var ErrGameNotFound = errors.New("game not found")

// SnapshotRepository mirrors the latest snapshot of a game. It is written by
// the machine's subscribers and never used to restore a machine.
type SnapshotRepository interface {
	Save(ctx context.Context, gameID string, state entity.GameState) error
	GetByID(ctx context.Context, gameID string) (*entity.GameState, error)
	DeleteByID(ctx context.Context, gameID string) error
}

type dbSnapshot struct {
	client *redis.Client
}

func NewSnapshotRepository(client *redis.Client) SnapshotRepository {
	return &dbSnapshot{
		client: client,
	}
}

func gameKey(gameID string) string {
	return "game:" + gameID
}

// StateChannel is the pub/sub channel every saved snapshot is published on.
func StateChannel(gameID string) string {
	return gameKey(gameID) + ":state"
}

func (that *dbSnapshot) Save(ctx context.Context, gameID string, state entity.GameState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("could not marshal game state: %w", err)
	}

	pipe := that.client.TxPipeline()
	pipe.Set(ctx, gameKey(gameID), stateJSON, 0)
	pipe.Publish(ctx, StateChannel(gameID), stateJSON)

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}

	return nil
}

func (that *dbSnapshot) GetByID(ctx context.Context, gameID string) (*entity.GameState, error) {
	response, err := that.client.Get(ctx, gameKey(gameID)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game state by id: %w", err)
	}

	var state entity.GameState
	if err = json.Unmarshal([]byte(response), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	return &state, nil
}

func (that *dbSnapshot) DeleteByID(ctx context.Context, gameID string) error {
	deleted, err := that.client.Del(ctx, gameKey(gameID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game state by id: %w", err)
	}

	if deleted == 0 {
		return ErrGameNotFound
	}

	return nil
}
