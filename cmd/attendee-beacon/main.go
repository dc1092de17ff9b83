package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Sternrassler/attendee-beacon/pkg/admin"
	"github.com/Sternrassler/attendee-beacon/pkg/client"
	"github.com/Sternrassler/attendee-beacon/pkg/config"
	"github.com/Sternrassler/attendee-beacon/pkg/logging"
	"github.com/Sternrassler/attendee-beacon/pkg/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid environment")
	}

	if err := newRootCmd(&cfg).Execute(); err != nil {
		log.Error().Err(err).Msg("Startup failed")
		os.Exit(1)
	}
}

// newRootCmd builds the command; flag defaults come from cfg.
func newRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendee-beacon",
		Short: "Count the attendees of an organizer's latest Eventbrite event, then serve a static page",
		Long: "Resolves the latest event of the organizer, walks all attendee pages, logs the\n" +
			"attendee count and then answers every TCP connection with a fixed HTTP response.\n" +
			"The API token is read from the " + config.EnvToken + " environment variable.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), *cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Eventbrite API base URL")
	flags.StringVar(&cfg.OrganizerID, "organizer", cfg.OrganizerID, "organizer id whose latest event is used")
	flags.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "address of the connection server")
	flags.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "per-connection read timeout (0 waits indefinitely)")
	flags.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address of the /health and /metrics server (empty disables it)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.BoolVar(&cfg.LogPretty, "log-pretty", cfg.LogPretty, "human-readable console logs")
	flags.DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "outbound request timeout (0 keeps the transport default)")

	return cmd
}

// run is the fallible startup sequence followed by the serving loop. It only
// returns on error.
func run(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Setup(cfg.LoggingConfig())
	logger := logging.NewLogger("main")

	eventbrite, err := client.New(cfg.ClientConfig())
	if err != nil {
		return fmt.Errorf("create eventbrite client: %w", err)
	}

	eventID, attendees, err := resolveAttendees(ctx, eventbrite, cfg.OrganizerID)
	if err != nil {
		return err
	}
	logger.Info().
		Str("event_id", eventID).
		Int("attendees", len(attendees)).
		Msg("Collected attendees")

	if cfg.MetricsAddr != "" {
		admin.Start(admin.NewServer(cfg.MetricsAddr, admin.Status{
			EventID:   eventID,
			Attendees: len(attendees),
		}))
	}

	return server.New(cfg.ServerConfig()).ListenAndServe()
}

// resolveAttendees finds the organizer's latest event and collects all of
// its attendees.
func resolveAttendees(ctx context.Context, c *client.Client, organizerID string) (string, []client.Attendee, error) {
	eventID, err := c.LatestEventID(ctx, organizerID)
	if err != nil {
		return "", nil, fmt.Errorf("can't get event id: %w", err)
	}

	attendees, err := c.CollectAttendees(ctx, eventID)
	if err != nil {
		return "", nil, fmt.Errorf("can't get attendees: %w", err)
	}
	return eventID, attendees, nil
}
