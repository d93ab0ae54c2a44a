package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/rocketscienceinc/tictactoe-machine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-machine/internal/tictactoe"
)

// GameMachine owns the live game state. Events are applied one at a time and
// every resulting snapshot is handed to all subscribers before the next event
// is processed.
type GameMachine struct {
	logger *slog.Logger

	// eventMu serializes transitions and subscription replays.
	eventMu sync.Mutex

	mu          sync.RWMutex
	state       entity.GameState
	subscribers []*Subscription
	nextID      uint64
}

// Subscription - a registered state listener.
type Subscription struct {
	id      uint64
	fn      func(entity.GameState)
	machine *GameMachine
	once    sync.Once

	cancelled atomic.Bool
}

func NewGameMachine(logger *slog.Logger) *GameMachine {
	return &GameMachine{
		logger: logger.With("component", "gameMachine"),
		state:  tictactoe.Apply(entity.NewGameState(), entity.Reset{}),
	}
}

// State returns the current snapshot.
func (that *GameMachine) State() entity.GameState {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.state
}

// PublishEvent applies event and broadcasts the result. It returns once every
// subscriber has observed the new state. Callbacks may call State and Cancel
// but must not publish or subscribe.
func (that *GameMachine) PublishEvent(event entity.GameEvent) entity.GameState {
	log := that.logger.With("method", "PublishEvent")

	that.eventMu.Lock()
	defer that.eventMu.Unlock()

	that.mu.Lock()
	previous := that.state
	next := tictactoe.Apply(previous, event)
	that.state = next
	subscribers := that.subscribers
	that.mu.Unlock()

	for _, sub := range subscribers {
		if sub.cancelled.Load() {
			continue
		}
		sub.fn(next)
	}

	if isAbsorbed(previous, next, event) {
		log.Debug("event absorbed", "event", eventName(event), "status", previous.GameStatus)
	} else {
		log.Debug("event applied", "event", eventName(event), "turn", next.Turn, "moves", next.TotalMoves())
	}

	if previous.GameStatus != next.GameStatus {
		log.Info("game status changed", "from", previous.GameStatus, "to", next.GameStatus)
	}

	return next
}

// SubscribeToState registers fn. fn is called with the current state before
// SubscribeToState returns, then with every later state in the order produced.
func (that *GameMachine) SubscribeToState(fn func(entity.GameState)) *Subscription {
	that.eventMu.Lock()
	defer that.eventMu.Unlock()

	that.mu.Lock()
	that.nextID++
	sub := &Subscription{
		id:      that.nextID,
		fn:      fn,
		machine: that,
	}

	subscribers := make([]*Subscription, 0, len(that.subscribers)+1)
	subscribers = append(subscribers, that.subscribers...)
	that.subscribers = append(subscribers, sub)
	current := that.state
	that.mu.Unlock()

	fn(current)

	return sub
}

// Run publishes every event read from intake until intake is closed or ctx is done.
func (that *GameMachine) Run(ctx context.Context, intake <-chan entity.GameEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-intake:
			if !ok {
				return nil
			}
			that.PublishEvent(event)
		}
	}
}

// Cancel stops future deliveries, including the rest of a broadcast already
// in progress. A callback that has already started runs to completion.
// Calling it more than once is a no-op.
func (that *Subscription) Cancel() {
	that.once.Do(func() {
		that.cancelled.Store(true)
		that.machine.unsubscribe(that.id)
	})
}

func (that *GameMachine) unsubscribe(id uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	// never modify in place: a broadcast may be ranging over the old slice
	remaining := make([]*Subscription, 0, len(that.subscribers))
	for _, sub := range that.subscribers {
		if sub.id != id {
			remaining = append(remaining, sub)
		}
	}

	that.subscribers = remaining
}

func (that *GameMachine) subscriberCount() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.subscribers)
}

// isAbsorbed - a move that did not add a cell left the game untouched.
func isAbsorbed(previous, next entity.GameState, event entity.GameEvent) bool {
	switch event.(type) {
	case entity.PlayerMove, *entity.PlayerMove:
		return previous.TotalMoves() == next.TotalMoves()
	default:
		return false
	}
}

// eventName never calls Type: typed-nil pointers reach here.
func eventName(event entity.GameEvent) string {
	switch e := event.(type) {
	case nil:
		return "nil"
	case entity.PlayerMove:
		return string(entity.EventPlayerMove)
	case *entity.PlayerMove:
		if e == nil {
			return string(entity.EventPlayerMove) + "(nil)"
		}
		return string(entity.EventPlayerMove)
	case entity.Reset, *entity.Reset:
		return string(entity.EventReset)
	default:
		return fmt.Sprintf("%T", event)
	}
}
