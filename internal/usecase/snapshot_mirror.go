package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-machine/internal/entity"
)

const (
	defaultSaveTimeout = 2 * time.Second
	defaultPendingSize = 16
)

type snapshotRepo interface {
	Save(ctx context.Context, gameID string, state entity.GameState) error
}

// SnapshotMirror copies every snapshot it observes into a snapshot repository.
// Saves happen on Run's goroutine, so a slow repository never holds up the
// machine. Failures are logged and never reach the machine.
type SnapshotMirror struct {
	logger       *slog.Logger
	snapshotRepo snapshotRepo
	gameID       string
	timeout      time.Duration

	pending chan entity.GameState
}

func NewSnapshotMirror(logger *slog.Logger, snapshotRepo snapshotRepo, gameID string) *SnapshotMirror {
	return &SnapshotMirror{
		logger:       logger.With("component", "snapshotMirror", "gameID", gameID),
		snapshotRepo: snapshotRepo,
		gameID:       gameID,
		timeout:      defaultSaveTimeout,
		pending:      make(chan entity.GameState, defaultPendingSize),
	}
}

// Observe is meant to be passed to GameMachine.SubscribeToState. It never
// blocks: when the queue is full the oldest pending snapshot is dropped.
func (that *SnapshotMirror) Observe(state entity.GameState) {
	select {
	case that.pending <- state:
		return
	default:
	}

	// the machine broadcasts one state at a time, so Observe has a single caller
	select {
	case <-that.pending:
		that.logger.Warn("snapshot queue full, dropping oldest snapshot")
	default:
	}

	select {
	case that.pending <- state:
	default:
		that.logger.Warn("snapshot queue full, dropping snapshot", "status", state.GameStatus)
	}
}

// Run saves queued snapshots until ctx is done.
func (that *SnapshotMirror) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case state := <-that.pending:
			that.save(ctx, state)
		}
	}
}

func (that *SnapshotMirror) save(ctx context.Context, state entity.GameState) {
	ctx, cancel := context.WithTimeout(ctx, that.timeout)
	defer cancel()

	if err := that.snapshotRepo.Save(ctx, that.gameID, state); err != nil {
		that.logger.Error("failed to mirror game state", "status", state.GameStatus, "error", err)
	}
}
