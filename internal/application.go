package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-machine/internal/config"
	"github.com/rocketscienceinc/tictactoe-machine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-machine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-machine/transport/rest"
	"github.com/rocketscienceinc/tictactoe-machine/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	gameID := conf.GameID
	if gameID == "" {
		gameID = uuid.NewString()
	}

	log = log.With("gameID", gameID)

	machine := usecase.NewGameMachine(logger)

	if conf.Redis.Enabled {
		closeMirror, err := attachSnapshotMirror(ctx, logger, machine, conf.Redis.GetRedisAddr(), gameID)
		if err != nil {
			return err
		}

		defer func() {
			if err = closeMirror(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()
	}

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		handlers := rest.NewHandlers(logger, machine)
		if httpErr := rest.Start(ctx, conf.HTTPPort, handlers.Routes()); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, machine)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// attachSnapshotMirror subscribes a redis-backed mirror to the machine and
// returns the function that releases it.
func attachSnapshotMirror(ctx context.Context, logger *slog.Logger, machine *usecase.GameMachine, addr, gameID string) (func() error, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	snapshotRepo := repository.NewSnapshotRepository(client)
	mirror := usecase.NewSnapshotMirror(logger, snapshotRepo, gameID)

	mirrorCtx, stopMirror := context.WithCancel(ctx)
	mirrorDone := make(chan struct{})
	go func() {
		defer close(mirrorDone)
		_ = mirror.Run(mirrorCtx)
	}()

	sub := machine.SubscribeToState(mirror.Observe)

	return func() error {
		sub.Cancel()
		stopMirror()
		<-mirrorDone
		return client.Close()
	}, nil
}
