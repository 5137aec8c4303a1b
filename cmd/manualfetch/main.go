// Command manualfetch runs one sports ingestion by hand. With -dry-run it only
// fetches and parses every sport and prints the counts; with -push it sends a
// test notification to every registered device.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"schoolhub/backend/internal/client"
	"schoolhub/backend/internal/config"
	"schoolhub/backend/internal/push"
	"schoolhub/backend/internal/repository"
	"schoolhub/backend/internal/sports"

	"github.com/rs/zerolog/log"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "fetch and parse every sport without touching the database")
	message := flag.String("push", "", "send this message to every registered device instead of ingesting")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.MustLoad()

	sportList, err := cfg.SportList()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid sports configuration")
	}

	fetcher := client.NewClient(cfg.ScheduleURLTemplate, cfg.ScheduleTimeout, cfg.ScheduleMaxRetries)
	parser := sports.NewParser(cfg.ScheduleContainerSelector, sports.HeaderClassifier{}, cfg.Location())

	if *dryRun {
		summary := sports.NewIngestor(fetcher, nil, parser, sportList, cfg.ScheduleConcurrency).Preview(ctx)
		printSummary(summary)
		if !summary.OK() {
			os.Exit(1)
		}
		return
	}

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// 1. Validate database connectivity
	log.Info().Msg("Validating service health...")
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	// 2. Test notification
	if *message != "" {
		sendTestPush(ctx, cfg, db, *message)
		return
	}

	// 3. One full ingestion run
	summary, err := sports.NewIngestor(fetcher, db, parser, sportList, cfg.ScheduleConcurrency).Run(ctx, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Sports ingestion failed")
	}
	printSummary(summary)

	log.Info().
		Int("sports", len(summary.Sports)).
		Int("failed", len(summary.Failed())).
		Msg("Manual fetch complete")
	if !summary.OK() {
		os.Exit(1)
	}
}

func sendTestPush(ctx context.Context, cfg *config.Config, db *repository.Database, message string) {
	tokens, err := db.Clients.ListPushTokens(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list push tokens")
	}

	var gateway push.Gateway = push.LogGateway{}
	if cfg.PushGateway == "http" {
		gateway = push.NewHTTPGateway(cfg.PushGatewayURL, cfg.PushGatewayKey, cfg.PushTimeout)
	}

	push.NewAdapter(gateway).SendNotification(ctx, tokens, message, true)
	log.Info().Int("recipients", len(tokens)).Msg("Test notification submitted")
}

func printSummary(summary sports.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSPORT\tGAMES\tRESULTS\tERROR")
	for _, o := range summary.Sports {
		errText := "-"
		if o.Err != nil {
			errText = o.Err.Error()
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", o.Sport.ID, o.Sport.Name, o.Games, o.Results, errText)
	}
	w.Flush()

	fmt.Printf("run %s finished in %s\n", summary.RunID, summary.Duration.Round(time.Millisecond))
}
