package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"calendar-event-extractor/internal/config"
	"calendar-event-extractor/internal/models"
	"calendar-event-extractor/internal/services"
)

// CalendarRequest is the inbound payload. Direct invocations carry text/userId at the
// top level; API Gateway proxy invocations carry them JSON-encoded in body.
type CalendarRequest struct {
	Text   string `json:"text"`
	UserID string `json:"userId"`
	Body   string `json:"body,omitempty"`
}

// ErrorBody is the JSON body returned on failures
type ErrorBody struct {
	Error string `json:"error"`
}

// EventExtractor turns text into a validated calendar event
type EventExtractor interface {
	ExtractCalendarEvent(ctx context.Context, text string) (*models.CalendarEvent, error)
}

// EventSaver persists extraction records
type EventSaver interface {
	SaveEvent(ctx context.Context, record *models.EventRecord) error
}

// EventArchiver keeps an optional copy of each record
type EventArchiver interface {
	ArchiveEvent(ctx context.Context, record *models.EventRecord) ([]*services.S3UploadResult, error)
}

// Handler serves calendar extraction requests
type Handler struct {
	extractor EventExtractor
	store     EventSaver
	archive   EventArchiver // nil when archiving is disabled
	initErr   error
	now       func() time.Time
	newID     func() string
}

// NewHandler wires the handler from configuration and AWS clients. A provider
// configuration error does not stop the function; it is reported on each request.
func NewHandler(cfg config.Config, dynamoClient services.DynamoDBAPI, s3Client services.S3API) *Handler {
	h := &Handler{
		store: services.NewEventStore(dynamoClient, cfg.EventsTable),
		now:   time.Now,
		newID: models.GenerateEventID,
	}

	extractor, err := services.NewExtractionService(cfg)
	if err != nil {
		log.Printf("ERROR: extraction service unavailable: %v", err)
		h.initErr = err
	} else {
		h.extractor = extractor
		log.Printf("Using LLM service: %s", extractor.ProviderName())
	}

	if cfg.ArchiveEnabled() && s3Client != nil {
		h.archive = services.NewEventArchive(s3Client, cfg.ArchiveBucket)
	}

	return h
}

// Handle processes one request: validate input, extract, persist, respond
func (h *Handler) Handle(ctx context.Context, request CalendarRequest) (events.APIGatewayProxyResponse, error) {
	if request.Text == "" && request.Body != "" {
		var inner CalendarRequest
		if err := json.Unmarshal([]byte(request.Body), &inner); err != nil {
			return errorResponse(http.StatusBadRequest, "Invalid request body: "+err.Error()), nil
		}
		request.Text = inner.Text
		if request.UserID == "" {
			request.UserID = inner.UserID
		}
	}

	eventID := h.newID()
	userID := request.UserID
	if strings.TrimSpace(userID) == "" {
		userID = models.AnonymousUserID
	}

	if request.Text == "" {
		return errorResponse(http.StatusBadRequest, "No text provided"), nil
	}

	requestTime := h.now()
	log.Printf("Calendar extraction request %s for user %s (%d chars)", eventID, userID, len(request.Text))

	if h.initErr != nil {
		return errorResponse(http.StatusInternalServerError, h.initErr.Error()), nil
	}

	event, err := h.extractor.ExtractCalendarEvent(ctx, request.Text)
	if err != nil {
		log.Printf("ERROR: extraction %s failed: %v", eventID, err)
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}

	record := models.NewEventRecord(userID, eventID, request.Text, event, requestTime)
	if err := h.store.SaveEvent(ctx, record); err != nil {
		log.Printf("ERROR: saving event %s failed: %v", eventID, err)
		return errorResponse(http.StatusInternalServerError, err.Error()), nil
	}

	if h.archive != nil {
		if results, err := h.archive.ArchiveEvent(ctx, record); err != nil {
			log.Printf("WARNING: failed to archive event %s: %v", eventID, err)
		} else {
			log.Printf("Archived event %s to %d objects", eventID, len(results))
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, fmt.Sprintf("failed to encode event: %v", err)), nil
	}

	return jsonResponse(http.StatusOK, string(body)), nil
}

func errorResponse(statusCode int, message string) events.APIGatewayProxyResponse {
	body, err := json.Marshal(ErrorBody{Error: message})
	if err != nil {
		body = []byte(`{"error":"Internal server error"}`)
	}
	return jsonResponse(statusCode, string(body))
}

func jsonResponse(statusCode int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: body,
	}
}

// main is the entry point for the Lambda function
func main() {
	cfg := config.Load()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	var s3Client services.S3API
	if cfg.ArchiveEnabled() {
		s3Client = s3.NewFromConfig(awsCfg)
	}

	handler := NewHandler(cfg, dynamodb.NewFromConfig(awsCfg), s3Client)
	lambda.Start(handler.Handle)
}
