package alerts

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	in  *sns.PublishInput
	err error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage(Alert{RequestID: "req-9", Error: "HTTP status code 429", StatusCode: 429})
	assert.Contains(t, msg, "Request ID: req-9")
	assert.Contains(t, msg, "Status code: 429")
	assert.Contains(t, msg, "Error: HTTP status code 429")

	msg = BuildMessage(Alert{Error: "connection refused"})
	assert.NotContains(t, msg, "Request ID")
	assert.NotContains(t, msg, "Status code")
}

func TestNotifier_Notify(t *testing.T) {
	c := &fakeSNS{}
	n := NewNotifier(c, "arn:aws:sns:us-east-1:123456789012:explain-alerts")

	require.NoError(t, n.Notify(context.Background(), Alert{Error: "boom"}))
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:explain-alerts", aws.ToString(c.in.TopicArn))
	assert.Equal(t, "explain: provider error", aws.ToString(c.in.Subject))
	assert.Contains(t, aws.ToString(c.in.Message), "boom")
}

func TestNotifier_NotifyError(t *testing.T) {
	n := NewNotifier(&fakeSNS{err: errors.New("auth")}, "arn")
	err := n.Notify(context.Background(), Alert{Error: "boom"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth")
}
