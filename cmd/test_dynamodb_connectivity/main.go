package main

import (
	"context"
	"fmt"
	"log"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"calendar-event-extractor/internal/config"
	"calendar-event-extractor/internal/models"
	"calendar-event-extractor/internal/services"
)

// Writes a probe record to the events table and reads it back
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	fmt.Printf("Using table: %s\n", cfg.EventsTable)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	store := services.NewEventStore(dynamodb.NewFromConfig(awsCfg), cfg.EventsTable)

	probe := &models.CalendarEvent{
		Title:     "Connectivity probe",
		StartTime: time.Now().UTC().Format(time.RFC3339),
	}
	record := models.NewEventRecord("connectivity-check", models.GenerateEventID(), "connectivity probe", probe, time.Now())

	fmt.Println("\n=== Testing DynamoDB Connectivity ===")
	if err := store.SaveEvent(ctx, record); err != nil {
		log.Fatalf("❌ Failed to write probe record: %v", err)
	}
	fmt.Printf("✅ Wrote probe record %s\n", record.EventID)

	saved, err := store.GetEvent(ctx, record.UserID, record.EventID)
	if err != nil {
		log.Fatalf("❌ Failed to read probe record: %v", err)
	}
	fmt.Printf("✅ Read back probe record (request time %s)\n", saved.RequestTime)

	fmt.Println("\n=== DynamoDB Connectivity Test Complete ===")
}
