package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/lift-api/internal/config"
	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/events"
	"github.com/phrazzld/lift-api/internal/platform/logger"
	"github.com/phrazzld/lift-api/internal/platform/postgres"
	"github.com/phrazzld/lift-api/internal/service"
)

// eventLogHandler logs user.created at info level. It is the only
// consumer when no redis address is configured.
type eventLogHandler struct {
	logger *slog.Logger
}

// HandleEvent implements events.EventHandler.
func (h *eventLogHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != domain.EventUserCreated {
		h.logger.Debug("ignoring event with unsupported type",
			slog.String("event_type", event.Type),
			slog.String("event_id", event.ID.String()))
		return nil
	}

	var payload struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	h.logger.Info("user created",
		slog.String("event_id", event.ID.String()),
		slog.String("user_id", payload.ID),
		slog.String("username", payload.Username))
	return nil
}

// application holds the shared dependencies of one command run and
// releases them in Close.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	users    service.UserService
	catalog  service.CatalogService
	workouts service.WorkoutService
	sets     service.SetService
	orders   service.OrderService
	routines service.RoutineService
}

// newApplication loads configuration, opens the database and builds every
// service. migrate controls whether pending migrations are applied first.
func newApplication(ctx context.Context, migrate bool) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := postgres.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	app := &application{config: cfg, logger: log, db: db}

	if migrate {
		if _, err := postgres.Migrate(ctx, db, log); err != nil {
			app.Close()
			return nil, err
		}
	}

	emitter, err := app.newEmitter()
	if err != nil {
		app.Close()
		return nil, err
	}

	if err := app.wireServices(emitter); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (app *application) newEmitter() (events.EventEmitter, error) {
	if app.config.Redis.Addr == "" {
		emitter := events.NewInMemoryEventEmitter(app.logger)
		emitter.Subscribe(domain.EventUserCreated, &eventLogHandler{logger: app.logger})
		return emitter, nil
	}

	app.redis = redis.NewClient(&redis.Options{
		Addr:     app.config.Redis.Addr,
		Password: app.config.Redis.Password,
		DB:       app.config.Redis.DB,
	})
	app.logger.Info("publishing events to redis",
		slog.String("addr", app.config.Redis.Addr),
		slog.String("channel", app.config.Redis.Channel))
	return events.NewRedisEmitter(app.redis, app.config.Redis.Channel, app.logger)
}

func (app *application) wireServices(emitter events.EventEmitter) error {
	userStore := postgres.NewPostgresUserStore(app.db, app.logger)
	muscleStore := postgres.NewPostgresMuscleStore(app.db, app.logger)
	exerciseStore := postgres.NewPostgresExerciseStore(app.db, app.logger)
	workoutStore := postgres.NewPostgresWorkoutStore(app.db, app.logger)
	workoutExerciseStore := postgres.NewPostgresWorkoutExerciseStore(app.db, app.logger)
	setStore := postgres.NewPostgresSetStore(app.db, app.logger)

	var err error
	if app.users, err = service.NewUserService(userStore, emitter, app.logger); err != nil {
		return fmt.Errorf("failed to create user service: %w", err)
	}
	if app.catalog, err = service.NewCatalogService(userStore, muscleStore, exerciseStore, app.logger); err != nil {
		return fmt.Errorf("failed to create catalog service: %w", err)
	}
	if app.workouts, err = service.NewWorkoutService(
		app.db, workoutStore, workoutExerciseStore, exerciseStore, setStore, app.logger,
	); err != nil {
		return fmt.Errorf("failed to create workout service: %w", err)
	}
	if app.sets, err = service.NewSetService(
		app.db, workoutStore, workoutExerciseStore, exerciseStore, setStore, app.logger,
	); err != nil {
		return fmt.Errorf("failed to create set service: %w", err)
	}
	if app.orders, err = service.NewOrderService(
		app.db, workoutStore, workoutExerciseStore, setStore, app.logger,
	); err != nil {
		return fmt.Errorf("failed to create order service: %w", err)
	}
	if app.routines, err = service.NewRoutineService(
		app.db, workoutStore, workoutExerciseStore, setStore, app.logger,
	); err != nil {
		return fmt.Errorf("failed to create routine service: %w", err)
	}
	return nil
}

// Close releases the database and redis connections.
func (app *application) Close() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn("failed to close database", slog.String("error", err.Error()))
		}
	}
}
