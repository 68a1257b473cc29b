package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/apeksha07/insurance-advisor/internal/config"
	"github.com/apeksha07/insurance-advisor/internal/engine"
	"github.com/apeksha07/insurance-advisor/internal/gemini"
	"github.com/apeksha07/insurance-advisor/internal/logger"
	"github.com/apeksha07/insurance-advisor/internal/plans"
	"github.com/apeksha07/insurance-advisor/internal/statements"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(log)
	case "recommend":
		runRecommend(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Insurance Advisor CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze    Analyze a bank statement CSV (local path or gs:// URI)")
	fmt.Println("  recommend  Recommend insurance plans for an applicant profile")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runAnalyze(log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	source := fs.String("source", "", "Statement CSV: local path or gs:// URI")
	asJSON := fs.Bool("json", false, "Print the full analysis as JSON instead of the text summary")
	fs.Parse(os.Args[2:])

	if *source == "" {
		log.Fatal().Msg("Error: --source is required")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	var fetchOpts []option.ClientOption
	if cfg.GoogleCredentialsFile != "" {
		fetchOpts = append(fetchOpts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
	}

	data, err := statements.Fetch(ctx, *source, fetchOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch statement")
	}

	labeler, err := gemini.NewLabeler(ctx, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini labeler")
	}

	eng := engine.NewWithOptions(labeler, log, engine.Options{
		Workers:      cfg.ClassifierWorkers,
		MinCallDelay: cfg.ClassifierMinDelay,
		CallTimeout:  cfg.ClassifierTimeout,
	})

	log.Info().Str("source", *source).Msg("Starting analysis")

	report, err := eng.Analyze(ctx, bytes.NewReader(data))
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatal().Err(err).Msg("Failed to encode report")
		}
		return
	}

	fmt.Println(report.Summary)
}

func runRecommend(log zerolog.Logger) {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	profilePath := fs.String("profile", "", "Path to an applicant profile JSON file")
	fs.Parse(os.Args[2:])

	if *profilePath == "" {
		log.Fatal().Msg("Error: --profile is required")
	}

	cfg := config.Load()
	if cfg.PredictorURL == "" {
		log.Fatal().Msg("Error: PREDICTOR_URL must be set")
	}

	raw, err := os.ReadFile(*profilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read profile file")
	}

	var profile plans.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		log.Fatal().Err(err).Msg("Invalid profile JSON")
	}
	if profile.Age <= 0 {
		log.Fatal().Msg("Profile age must be a positive integer")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	scorer := plans.NewHTTPScorer(cfg.PredictorURL)
	scores, err := scorer.Score(ctx, profile)
	if err != nil {
		log.Fatal().Err(err).Msg("Plan scoring failed")
	}

	recs := plans.Recommend(scores, profile.Age)
	if len(recs) == 0 {
		fmt.Println("No suitable plans found for this profile.")
		return
	}

	fmt.Printf("\n=== Recommended Plans (%d) ===\n", len(recs))
	for i, rec := range recs {
		fmt.Printf("\n%d. %s\n", i+1, rec.Plan)
		fmt.Printf("   Type:        %s\n", rec.Type)
		fmt.Printf("   Confidence:  %.1f%%\n", rec.Confidence*100)
		fmt.Printf("   Features:    %s\n", rec.Features)
		fmt.Printf("   Sum assured: %s\n", rec.SumAssuredRange)
		fmt.Printf("   Premium:     %s\n", rec.PremiumRange)
	}
	fmt.Println()
}
