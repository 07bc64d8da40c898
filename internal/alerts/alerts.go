// Package alerts publishes provider failures to an SNS topic.
package alerts

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

const subject = "explain: provider error"

type PublishClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Alert describes one failed provider call. StatusCode is zero when the
// failure happened before a response arrived.
type Alert struct {
	RequestID  string
	Error      string
	StatusCode int
}

type Notifier struct {
	sns      PublishClient
	topicARN string
}

func NewNotifier(c PublishClient, topicARN string) *Notifier {
	return &Notifier{sns: c, topicARN: topicARN}
}

func BuildMessage(a Alert) string {
	var b strings.Builder
	b.WriteString("The explain function could not get an answer from the provider.\n\n")
	if a.RequestID != "" {
		fmt.Fprintf(&b, "Request ID: %s\n", a.RequestID)
	}
	if a.StatusCode != 0 {
		fmt.Fprintf(&b, "Status code: %d\n", a.StatusCode)
	}
	fmt.Fprintf(&b, "Error: %s\n", a.Error)
	return b.String()
}

func (n *Notifier) Notify(ctx context.Context, a Alert) error {
	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(BuildMessage(a)),
	})
	if err != nil {
		return fmt.Errorf("sns Publish: %w", err)
	}
	return nil
}
