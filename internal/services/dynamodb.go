package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"calendar-event-extractor/internal/models"
)

// DynamoDBAPI is the subset of the DynamoDB client used by EventStore
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// EventStore records extraction input/output pairs in DynamoDB
type EventStore struct {
	client    DynamoDBAPI
	tableName string
}

// NewEventStore creates an event store for the given table
func NewEventStore(client DynamoDBAPI, tableName string) *EventStore {
	return &EventStore{
		client:    client,
		tableName: tableName,
	}
}

// GetTableName returns the configured table
func (s *EventStore) GetTableName() string {
	return s.tableName
}

// SaveEvent stores one extraction record
func (s *EventStore) SaveEvent(ctx context.Context, record *models.EventRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid event record: %w", err)
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal event record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to save event record: %w", err)
	}

	return nil
}

// GetEvent retrieves a record by user and event ID
func (s *EventStore) GetEvent(ctx context.Context, userID, eventID string) (*models.EventRecord, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"UserId":  &types.AttributeValueMemberS{Value: userID},
			"EventId": &types.AttributeValueMemberS{Value: eventID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get event record: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("event record not found")
	}

	var record models.EventRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event record: %w", err)
	}

	return &record, nil
}
