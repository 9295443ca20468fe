package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/rajpandit/expense-tracker/internal/config"
	"github.com/rajpandit/expense-tracker/internal/extraction"
	"github.com/rajpandit/expense-tracker/internal/logger"
	"github.com/rajpandit/expense-tracker/internal/store"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "parse":
		runParse(log)
	case "add":
		runAdd(log)
	case "list":
		runList(log)
	case "delete":
		runDelete(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Expense Tracker CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  parse     Extract a transaction record from a description without saving it")
	fmt.Println("  add       Extract a transaction record and save it")
	fmt.Println("  list      List saved transactions for a date range")
	fmt.Println("  delete    Delete transactions by ID")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runParse(log zerolog.Logger) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	desc := fs.String("desc", "", "Free-text transaction description")
	fs.Parse(os.Args[2:])

	if *desc == "" {
		log.Fatal().Msg("Error: -desc is required")
	}

	cfg, err := config.Load(true, false)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	record, err := newExtractor(ctx, log, cfg).Extract(ctx, *desc, civil.DateOf(time.Now()))
	if err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}

	printJSON(record)
}

func runAdd(log zerolog.Logger) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	desc := fs.String("desc", "", "Free-text transaction description")
	user := fs.String("user", "", "Email the transaction belongs to")
	fs.Parse(os.Args[2:])

	if *desc == "" || *user == "" {
		log.Fatal().Msg("Usage: cli add -desc TEXT -user EMAIL")
	}

	cfg, err := config.Load(true, false)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	today := civil.DateOf(time.Now())
	record, err := newExtractor(ctx, log, cfg).Extract(ctx, *desc, today)
	if err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}
	record.UserEmail = strings.ToLower(*user)
	record.CreatedDate = &today

	db := openStore(ctx, log, cfg)
	defer db.Close()

	result, err := db.Insert(ctx, record)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to save transaction")
	}

	fmt.Println(result.Message)
	if result.Saved {
		printJSON(record)
	}
}

func runList(log zerolog.Logger) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	user := fs.String("user", "", "Email whose transactions to list")
	preset := fs.String("filter", "", "Date preset: today, yesterday, last-week, this-month, last-month")
	start := fs.String("start", "", "Start date (YYYY-MM-DD), inclusive")
	end := fs.String("end", "", "End date (YYYY-MM-DD), inclusive")
	fs.Parse(os.Args[2:])

	if *user == "" {
		log.Fatal().Msg("Error: -user is required")
	}

	cfg, err := config.Load(false, false)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	filter := store.Filter{UserEmail: strings.ToLower(*user)}
	if *preset != "" {
		filter, err = store.FilterForPreset(store.Preset(*preset), time.Now(), strings.ToLower(*user))
		if err != nil {
			log.Fatal().Err(err).Msg("Unknown filter preset")
		}
	} else {
		if *start != "" {
			d, err := civil.ParseDate(*start)
			if err != nil {
				log.Fatal().Err(err).Msg("Invalid -start date")
			}
			filter.Start = &d
		}
		if *end != "" {
			d, err := civil.ParseDate(*end)
			if err != nil {
				log.Fatal().Err(err).Msg("Invalid -end date")
			}
			filter.End = &d
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db := openStore(ctx, log, cfg)
	defer db.Close()

	records, err := db.Fetch(ctx, filter)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch transactions")
	}

	if len(records) == 0 {
		fmt.Println("No transactions found.")
		return
	}
	printJSON(records)
}

func runDelete(log zerolog.Logger) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	ids := fs.String("ids", "", "Comma-separated transaction IDs")
	fs.Parse(os.Args[2:])

	if *ids == "" {
		log.Fatal().Msg("Error: -ids is required")
	}

	var parsed []int64
	for _, part := range strings.Split(*ids, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			log.Fatal().Str("id", part).Msg("Invalid transaction ID")
		}
		parsed = append(parsed, id)
	}

	cfg, err := config.Load(false, false)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db := openStore(ctx, log, cfg)
	defer db.Close()

	deleted, err := db.DeleteByIDs(ctx, parsed)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to delete transactions")
	}

	fmt.Printf("Deleted %d transaction(s).\n", deleted)
}

func newExtractor(ctx context.Context, log zerolog.Logger, cfg *config.Config) *extraction.Extractor {
	completer, err := extraction.NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create completion client")
	}
	return extraction.NewExtractor(completer)
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func openStore(ctx context.Context, log zerolog.Logger, cfg *config.Config) *store.Store {
	db, err := store.Open(cfg.DBFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		log.Fatal().Err(err).Msg("Failed to ensure schema")
	}
	return db
}
