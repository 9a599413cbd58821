package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"calendar-event-extractor/internal/config"
	"calendar-event-extractor/internal/models"
	"calendar-event-extractor/internal/services"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "extract",
		Usage: "Extract a calendar event from free-form text using the configured LLM service.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "Text describing the event (defaults to the arguments)."},
			&cli.StringFlag{Name: "user", Value: models.AnonymousUserID, Usage: "User ID recorded with --save."},
			&cli.StringFlag{Name: "format", Value: "json", Usage: "Output format: json or ics."},
			&cli.StringFlag{Name: "service", Usage: "Override LLM_SERVICE (primary or custom)."},
			&cli.BoolFlag{Name: "save", Usage: "Persist the result to the DynamoDB events table."},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Printf("ERROR: %v", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	text := c.String("text")
	if text == "" {
		text = strings.Join(c.Args().Slice(), " ")
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text provided")
	}

	format := strings.ToLower(c.String("format"))
	if format != "json" && format != "ics" {
		return fmt.Errorf("unsupported format %q (use json or ics)", format)
	}

	cfg := config.Load()
	if service := c.String("service"); service != "" {
		cfg.LLMService = service
	}

	extractor, err := services.NewExtractionService(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize extraction service: %w", err)
	}

	requestTime := time.Now()
	event, err := extractor.ExtractCalendarEvent(c.Context, text)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	eventID := models.GenerateEventID()

	if c.Bool("save") {
		awsCfg, err := awsconfig.LoadDefaultConfig(c.Context)
		if err != nil {
			return fmt.Errorf("failed to load AWS config: %w", err)
		}
		store := services.NewEventStore(dynamodb.NewFromConfig(awsCfg), cfg.EventsTable)
		record := models.NewEventRecord(c.String("user"), eventID, text, event, requestTime)
		if err := store.SaveEvent(c.Context, record); err != nil {
			return err
		}
		log.Printf("Saved event %s to %s", eventID, store.GetTableName())
	}

	switch format {
	case "ics":
		data, err := services.EncodeICS(event, eventID)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		data, err := json.MarshalIndent(event, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
}
