package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/caremesh"
	"github.com/hupe1980/caremesh/core"
	"github.com/hupe1980/caremesh/knowledge"
	"github.com/hupe1980/caremesh/logging"
	"github.com/hupe1980/caremesh/notify"
	"github.com/hupe1980/caremesh/reply"
	"github.com/hupe1980/caremesh/sink"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run --config <day.yaml>",
		Short: "Run one simulated care day from a schedule file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.New()
			v.SetEnvPrefix("CAREMESH")
			v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			v.AutomaticEnv()
			for _, name := range []string{"config", "from", "until", "step", "reply-timeout", "log-level", "log-format"} {
				if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
					return err
				}
			}

			cfg, err := loadDayConfig(v.GetString("config"))
			if err != nil {
				return err
			}
			entries, err := cfg.entries()
			if err != nil {
				return err
			}
			scripted, err := cfg.scriptedReplies()
			if err != nil {
				return err
			}

			start, err := parseClockTime(v.GetString("from"))
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			end, err := parseClockTime(v.GetString("until"))
			if err != nil {
				return fmt.Errorf("invalid --until: %w", err)
			}
			if !start.Before(end) {
				return fmt.Errorf("--from %s must be before --until %s", v.GetString("from"), v.GetString("until"))
			}

			level, err := parseLogLevel(v.GetString("log-level"))
			if err != nil {
				return err
			}

			clock := core.NewSimulatedClock(start)
			replies := reply.NewScriptedSource()
			for key, text := range scripted {
				replies.Script(key, text)
			}

			store := knowledge.NewInMemoryStore()
			for key, note := range cfg.Notes {
				if err := store.Store(cmd.Context(), key, note); err != nil {
					return fmt.Errorf("seed knowledge store: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			mesh := caremesh.New(func(o *caremesh.Options) {
				o.Clock = clock
				o.Replies = replies
				o.KnowledgeStore = store
				o.Sink = sink.NewWriterSink(out, "")
				o.Notifier = notify.NewLogNotifier(out)
				o.ReplyTimeout = v.GetDuration("reply-timeout")
				o.Logger = logging.NewSlogLogger(level, v.GetString("log-format"), false)
			})

			profile := core.UserProfile{Name: cfg.Profile.Name, HealthNotes: cfg.Profile.HealthNotes}
			planner, err := mesh.CreateSession("cli-run", profile, entries...)
			if err != nil {
				return err
			}

			if err := planner.RunWindow(cmd.Context(), clock, end, v.GetDuration("step")); err != nil {
				return err
			}

			summary, err := mesh.Summary("cli-run")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "\n%s", summary)
			return err
		},
	}

	cmd.Flags().String("config", "", "Path to the day YAML file")
	cmd.Flags().String("from", "08:00", "Simulated start of day (HH:MM)")
	cmd.Flags().String("until", "20:00", "Simulated end of day (HH:MM)")
	cmd.Flags().Duration("step", time.Minute, "Simulated clock step per planner iteration")
	cmd.Flags().Duration("reply-timeout", 50*time.Millisecond, "Wall-clock wait for a compliance reply per entry")
	cmd.Flags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.Flags().String("log-format", "text", "Log format (text, json)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// parseClockTime maps an "HH:MM" string onto a fixed simulation date.
func parseClockTime(s string) (time.Time, error) {
	key, err := core.ParseTimeKey(s)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("15:04", string(key))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(2024, 1, 1, t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

func parseLogLevel(s string) (logging.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logging.LogLevelDebug, nil
	case "info":
		return logging.LogLevelInfo, nil
	case "warn":
		return logging.LogLevelWarn, nil
	case "error":
		return logging.LogLevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
