package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"calendar-event-extractor/internal/models"
)

// S3API is the subset of the S3 client used by EventArchive
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// EventArchive writes extraction records to S3 as JSON and iCalendar files
type EventArchive struct {
	client     S3API
	bucketName string
}

// S3UploadResult represents the result of an S3 upload operation
type S3UploadResult struct {
	Key         string    `json:"key"`
	ETag        string    `json:"etag"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
	ContentType string    `json:"content_type"`
}

// NewEventArchive creates an archive writing to bucketName
func NewEventArchive(client S3API, bucketName string) *EventArchive {
	return &EventArchive{
		client:     client,
		bucketName: bucketName,
	}
}

// GetBucketName returns the archive bucket
func (a *EventArchive) GetBucketName() string {
	return a.bucketName
}

// ArchiveEvent uploads the record as <key>.json and the event as <key>.ics
func (a *EventArchive) ArchiveEvent(ctx context.Context, record *models.EventRecord) ([]*S3UploadResult, error) {
	jsonData, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event record to JSON: %w", err)
	}

	jsonResult, err := a.upload(ctx, models.CreateArchiveKey(record.UserID, record.EventID, "json"), jsonData, "application/json")
	if err != nil {
		return nil, err
	}

	icsData, err := EncodeICS(&record.CalendarEvent, record.EventID)
	if err != nil {
		return []*S3UploadResult{jsonResult}, err
	}

	icsResult, err := a.upload(ctx, models.CreateArchiveKey(record.UserID, record.EventID, "ics"), icsData, "text/calendar")
	if err != nil {
		return []*S3UploadResult{jsonResult}, err
	}

	return []*S3UploadResult{jsonResult, icsResult}, nil
}

// upload puts one object in the archive bucket
func (a *EventArchive) upload(ctx context.Context, key string, data []byte, contentType string) (*S3UploadResult, error) {
	output, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}

	return &S3UploadResult{
		Key:         key,
		ETag:        aws.ToString(output.ETag),
		Size:        int64(len(data)),
		UploadedAt:  time.Now(),
		ContentType: contentType,
	}, nil
}
