package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/redact"
	"github.com/phrazzld/lift-api/internal/service"
)

var (
	userFlag  string
	noMigrate bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "lift",
		Short:        "Workout tracking operations",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&userFlag, "user", "", "id of the acting user")
	root.PersistentFlags().BoolVar(&noMigrate, "no-migrate", false, "skip applying pending migrations")

	root.AddCommand(
		migrateCmd(),
		registerCmd(),
		createWorkoutCmd(),
		addExerciseCmd(),
		addSetCmd(),
		showWorkoutCmd(),
		startRoutineCmd(),
		reorderExercisesCmd(),
		reorderSetsCmd(),
		progressCmd(),
		listExercisesCmd(),
		hashPasswordCmd(),
	)
	return root
}

// withApp runs fn against a freshly wired application.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *application) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := newApplication(ctx, !noMigrate)
	if err != nil {
		return errors.New(redact.Error(err))
	}
	defer app.Close()
	return fn(ctx, app)
}

// actingUser parses the --user flag.
func actingUser() (uuid.UUID, error) {
	if userFlag == "" {
		return uuid.Nil, errors.New("--user is required")
	}
	id, err := uuid.Parse(userFlag)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --user: %w", err)
	}
	return id, nil
}

func parseID(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return id, nil
}

// parseOrderChanges reads "<id>=<order>" pairs. An empty order or "null"
// clears the position.
func parseOrderChanges(args []string) ([]service.OrderChange, error) {
	changes := make([]service.OrderChange, 0, len(args))
	for _, arg := range args {
		rawID, rawOrder, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected <id>=<order>, got %q", arg)
		}
		id, err := parseID("id", rawID)
		if err != nil {
			return nil, err
		}
		change := service.OrderChange{ID: id}
		if rawOrder != "" && rawOrder != "null" {
			order, err := strconv.Atoi(rawOrder)
			if err != nil {
				return nil, fmt.Errorf("invalid order %q for %s: %w", rawOrder, id, err)
			}
			change.Order = &order
		}
		changes = append(changes, change)
	}
	return changes, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describe renders a service error with its kind and any payload. Server
// errors are redacted since they may carry driver or SQL detail.
func describe(err error) error {
	var se *service.Error
	if !errors.As(err, &se) {
		return err
	}
	if se.Kind == service.KindServer {
		return fmt.Errorf("%s: %s", se.Kind, redact.Error(err))
	}
	if len(se.Payload) == 0 {
		return fmt.Errorf("%s: %w", se.Kind, err)
	}
	return fmt.Errorf("%s: %w %v", se.Kind, err, se.Payload)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noMigrate = false
			return withApp(cmd, func(context.Context, *application) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
				return err
			})
		},
	}
}

func registerCmd() *cobra.Command {
	var p domain.NewUserParams
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *application) error {
				dto, err := app.users.Register(ctx, p)
				if err != nil {
					return describe(err)
				}
				return printJSON(cmd.OutOrStdout(), dto)
			})
		},
	}
	cmd.Flags().StringVar(&p.Username, "username", "", "unique username")
	cmd.Flags().StringVar(&p.Email, "email", "", "unique email address")
	cmd.Flags().StringVar(&p.Password, "password", "", "password, 8 to 72 bytes")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func createWorkoutCmd() *cobra.Command {
	var public bool
	cmd := &cobra.Command{
		Use:   "create-workout <name>",
		Short: "Create a workout owned by the acting user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := actingUser()
			if err != nil {
				return err
			}
			private := !public
			return withApp(cmd, func(ctx context.Context, app *application) error {
				dto, err := app.workouts.Create(ctx, userID, service.WorkoutInput{Name: args[0], IsPrivate: &private})
				if err != nil {
					return describe(err)
				}
				return printJSON(cmd.OutOrStdout(), dto)
			})
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "make the workout visible to everyone")
	return cmd
}

func addExerciseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-exercise <workout-id> <exercise-id>",
		Short: "Append an exercise to a workout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := actingUser()
			if err != nil {
				return err
			}
			workoutID, err := parseID("workout id", args[0])
			if err != nil {
				return err
			}
			exerciseID, err := parseID("exercise id", args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *application) error {
				dto, err := app.workouts.AddExercise(ctx, userID, workoutID, exerciseID)
				if err != nil {
					return describe(err)
				}
				return printJSON(cmd.OutOrStdout(), dto)
			})
		},
	}
}

func addSetCmd() *cobra.Command {
	var in service.SetInput
	cmd := &cobra.Command{
		Use:   "add-set <workout-exercise-id>",
		Short: "Append a set to a workout exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := actingUser()
			if err != nil {
				return err
			}
			if in.WorkoutExerciseID, err = parseID("workout exercise id", args[0]); err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *application) error {
				dto, err := app.sets.Add(ctx, userID, in)
				if err != nil {
					return describe(err)
				}
				return printJSON(cmd.OutOrStdout(), dto)
			})
		},
	}
	cmd.Flags().IntVar(&in.NumReps, "reps", 0, "number of repetitions")
	cmd.Flags().Float64Var(&in.SetWeight, "weight", 0, "weight lifted")
	cmd.Flags().IntVar(&in.NumDrops, "drops", 0, "number of drop sets")
	return cmd
}

func showWorkoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-workout <workout-id>",
		Short: "Print a workout with its exercises and sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := actingUser()
			if err != nil {
				return err
			}
			workoutID, err := parseID("workout id", args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *application) error {
				dto, err := app.workouts.GetDetails(ctx, userID, workoutID)
				if err != nil {
					return describe(err)
				}
				return printJSON(cmd.OutOrStdout(), dto)
			})
		},
	}
}

func startRoutineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start-routine <workout-id>",
		Short: "Copy a workout into a new private routine for the acting user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := actingUser()
			if err != nil {
				return err
			}
			workoutID, err := parseID("workout id", args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *application) error {
				dto, err := app.routines.StartRoutine(ctx, userID, workoutID)
				if err != nil {
					return describe(err)
				}
				return printJSON(cmd.OutOrStdout(), dto)
			})
		},
	}
}

func reorderCmd(use, short string, run func(ctx context.Context, app *application, userID uuid.UUID, changes []service.OrderChange) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>=<order>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := actingUser()
			if err != nil {
				return err
			}
			changes, err := parseOrderChanges(args)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *application) error {
				if err := run(ctx, app, userID, changes); err != nil {
					return describe(err)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "updated %d positions\n", len(changes))
				return err
			})
		},
	}
}

func reorderExercisesCmd() *cobra.Command {
	return reorderCmd("reorder-exercises", "Set the positions of workout exercises in one batch",
		func(ctx context.Context, app *application, userID uuid.UUID, changes []service.OrderChange) error {
			return app.orders.ChangeExerciseOrders(ctx, userID, changes)
		})
}

func reorderSetsCmd() *cobra.Command {
	return reorderCmd("reorder-sets", "Set the positions of sets in one batch",
		func(ctx context.Context, app *application, userID uuid.UUID, changes []service.OrderChange) error {
			return app.orders.ChangeSetOrders(ctx, userID, changes)
		})
}

func progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <exercise-id>",
		Short: "Print the acting user's heaviest set per day for an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := actingUser()
			if err != nil {
				return err
			}
			exerciseID, err := parseID("exercise id", args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *application) error {
				points, err := app.sets.Progress(ctx, userID, exerciseID)
				if err != nil {
					return describe(err)
				}
				return printJSON(cmd.OutOrStdout(), points)
			})
		},
	}
}

func listExercisesCmd() *cobra.Command {
	var muscle string
	cmd := &cobra.Command{
		Use:   "list-exercises",
		Short: "Print the exercise catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var muscleID *uuid.UUID
			if muscle != "" {
				id, err := parseID("muscle id", muscle)
				if err != nil {
					return err
				}
				muscleID = &id
			}
			return withApp(cmd, func(ctx context.Context, app *application) error {
				list, err := app.catalog.ListExercises(ctx, muscleID)
				if err != nil {
					return describe(err)
				}
				return printJSON(cmd.OutOrStdout(), list)
			})
		},
	}
	cmd.Flags().StringVar(&muscle, "muscle", "", "only exercises of this muscle id")
	return cmd
}

// hashPasswordCmd prints a bcrypt hash for seeding users by hand. It needs
// no database.
func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the stored form of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := domain.HashPassword(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash.Value())
			return err
		},
	}
}
