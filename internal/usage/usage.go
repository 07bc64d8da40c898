// Package usage writes one DynamoDB item per explain invocation.
// Items carry sizes and outcome only, never the text or the answer.
package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type PutItemClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Invocation is the outcome of one handler call.
type Invocation struct {
	RequestID    string
	StatusCode   int
	ErrorKind    string
	InputLength  int
	AnswerLength int
	Latency      time.Duration
	At           time.Time
}

// Item mirrors the DynamoDB structure.
type Item struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	RequestID    string `dynamodbav:"RequestID,omitempty"`
	StatusCode   int    `dynamodbav:"StatusCode"`
	ErrorKind    string `dynamodbav:"ErrorKind,omitempty"`
	InputLength  int    `dynamodbav:"InputLength"`
	AnswerLength int    `dynamodbav:"AnswerLength"`
	LatencyMs    int64  `dynamodbav:"LatencyMs"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
	ExpiresAt    int64  `dynamodbav:"ExpiresAt"`
}

type Recorder struct {
	ddb   PutItemClient
	table string
	ttl   time.Duration
}

func NewRecorder(ddb PutItemClient, table string, ttl time.Duration) *Recorder {
	return &Recorder{ddb: ddb, table: table, ttl: ttl}
}

func MakePK(at time.Time) string {
	return "DAY#" + at.UTC().Format("2006-01-02")
}

func MakeSK(at time.Time, requestID string) string {
	return at.UTC().Format(time.RFC3339Nano) + "#" + requestID
}

// NewItem shapes inv into the stored item.
func NewItem(inv Invocation, ttl time.Duration) Item {
	at := inv.At.UTC()
	return Item{
		PK:           MakePK(at),
		SK:           MakeSK(at, inv.RequestID),
		RequestID:    inv.RequestID,
		StatusCode:   inv.StatusCode,
		ErrorKind:    inv.ErrorKind,
		InputLength:  inv.InputLength,
		AnswerLength: inv.AnswerLength,
		LatencyMs:    inv.Latency.Milliseconds(),
		CreatedAt:    at.Format(time.RFC3339),
		ExpiresAt:    at.Add(ttl).Unix(),
	}
}

func (r *Recorder) Record(ctx context.Context, inv Invocation) error {
	av, err := attributevalue.MarshalMap(NewItem(inv, r.ttl))
	if err != nil {
		return fmt.Errorf("usage marshal: %w", err)
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("usage PutItem: %w", err)
	}
	return nil
}
