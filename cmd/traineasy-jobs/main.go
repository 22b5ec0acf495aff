// Command traineasy-jobs runs notification jobs and operational tasks from
// the shell, outside the API server.
//
// Usage:
//
//	traineasy-jobs notify good-morning
//	traineasy-jobs notify meal-reminders --at 2026-10-19T02:30:00Z
//	traineasy-jobs broadcast --title "Gym closed" --body "Happy Diwali"
//	traineasy-jobs migrate up
//	traineasy-jobs purge
//	traineasy-jobs seed
//	traineasy-jobs relay drain 0b3e0d5c-8e3a-4d44-9f2b-8d9b1b0c6a11
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/power2u/traineasy-web/internal/api/handler"
	"github.com/power2u/traineasy-web/internal/cache"
	"github.com/power2u/traineasy-web/internal/catalog"
	"github.com/power2u/traineasy-web/internal/config"
	"github.com/power2u/traineasy-web/internal/db"
	"github.com/power2u/traineasy-web/internal/maintenance"
	"github.com/power2u/traineasy-web/internal/notifications"
	"github.com/power2u/traineasy-web/internal/relay"
	"github.com/power2u/traineasy-web/internal/seed"
	"github.com/power2u/traineasy-web/internal/validate"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "traineasy-jobs",
		Short:        "TrainEasy notification jobs and maintenance CLI",
		SilenceUsage: true,
	}

	root.AddCommand(notifyCmd())
	root.AddCommand(broadcastCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(purgeCmd())
	root.AddCommand(relayCmd())
	root.AddCommand(seedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// notify command
// --------------------------------------------------------------------------

// resolveJob accepts an endpoint slug ("meal-reminders") or a single kind
// ("meal_reminder_lunch").
func resolveJob(name string) ([]notifications.Kind, error) {
	if kinds, ok := handler.JobKinds[name]; ok {
		return kinds, nil
	}
	k, err := notifications.ParseKind(name)
	if err != nil {
		return nil, fmt.Errorf("unknown job %q (jobs: %s)", name, strings.Join(jobSlugs(), ", "))
	}
	if k == notifications.AdminBroadcast {
		return nil, fmt.Errorf("use the broadcast command for %s", k)
	}
	return []notifications.Kind{k}, nil
}

func jobSlugs() []string {
	slugs := make([]string, 0, len(handler.JobKinds))
	for s := range handler.JobKinds {
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)
	return slugs
}

func notifyCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "notify <job>",
		Short: "Run one notification job now",
		Long:  "Runs a job exactly as the cron endpoint would. --at evaluates windows as of another instant (dedup still applies).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := resolveJob(args[0])
			if err != nil {
				return err
			}
			var opts []notifications.RunnerOption
			if at != "" {
				ts, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				opts = append(opts, notifications.WithClock(func() time.Time { return ts }))
			}
			return withRunner(opts, func(ctx context.Context, runner *notifications.Runner) error {
				res, err := runner.Run(ctx, kinds...)
				printJSON(res)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Evaluate as of this RFC3339 instant")
	return cmd
}

func broadcastCmd() *cobra.Command {
	var title, body string
	cmd := &cobra.Command{
		Use:   "broadcast",
		Short: "Send an admin message to every user with notifications on",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(nil, func(ctx context.Context, runner *notifications.Runner) error {
				res, err := runner.Broadcast(ctx, title, body)
				printJSON(res)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Notification title")
	cmd.Flags().StringVar(&body, "body", "", "Notification body")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down|status|version>",
		Short:     "Apply or inspect the embedded schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			start := time.Now()
			if err := db.Migrate(ctx, cfg.DatabaseURL, args[0]); err != nil {
				return err
			}
			logger.Info("Migration command finished", "command", args[0], "duration", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// purge command
// --------------------------------------------------------------------------

func purgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Apply the notification log and device token retention once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				removed, err := maintenance.Purge(ctx, pool, maintenance.Config{
					LogRetention:   cfg.LogRetention,
					TokenRetention: cfg.TokenRetention,
				}, time.Now(), logger)
				printJSON(removed)
				return err
			})
		},
	}
}

// --------------------------------------------------------------------------
// seed command
// --------------------------------------------------------------------------

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load default notification templates and training packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				store := notifications.NewPGStore(pool)
				result := seed.All(ctx, store, catalog.New(pool, cache.New(false)), logger)
				printJSON(result)
				if len(result.Errors) > 0 {
					return fmt.Errorf("seed finished with %d errors", len(result.Errors))
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// relay command
// --------------------------------------------------------------------------

func relayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Inspect the Redis-backed browser notification relay",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "drain <userID>",
		Short: "Print and remove a user's pending browser notifications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRelay(func(ctx context.Context, svc *relay.Service, uid string) error {
				items, err := svc.Drain(ctx, uid)
				if err != nil {
					return err
				}
				printJSON(items)
				return nil
			}, args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "pending <userID>",
		Short: "Print how many notifications wait for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRelay(func(ctx context.Context, svc *relay.Service, uid string) error {
				n, err := svc.Pending(ctx, uid)
				if err != nil {
					return err
				}
				fmt.Println(n)
				return nil
			}, args[0])
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// Wiring helpers
// --------------------------------------------------------------------------

func withPool(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := notifications.SetDefaultZone(cfg.DefaultTimezone); err != nil {
		return err
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}

func withRunner(opts []notifications.RunnerOption, fn func(ctx context.Context, runner *notifications.Runner) error) error {
	return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
		sender, err := notifications.NewFCMSender(ctx, cfg.FCMCredentialsFile, logger)
		if err != nil {
			return err
		}
		if sender == nil {
			logger.Warn("FCM disabled (no FIREBASE_CREDENTIALS_FILE)")
		}
		store := notifications.NewPGStore(pool)
		templates := notifications.NewTemplates(store, cache.New(false), logger)
		return fn(ctx, notifications.NewRunner(store, sender, templates, logger, opts...))
	})
}

func withRelay(fn func(ctx context.Context, svc *relay.Service, uid string) error, userID string) error {
	uid, err := validate.UserID(userID)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required; the in-memory relay lives inside the API process")
	}
	rs, err := relay.NewRedisStore(cfg.RedisURL, logger)
	if err != nil {
		return err
	}
	defer rs.Close()
	return fn(ctx, relay.NewService(rs, cfg.RelayQueueCapacity), uid)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
