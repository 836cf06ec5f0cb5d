// Package fcm sends job-completion push notifications through Firebase
// Cloud Messaging.
package fcm

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type Client struct {
	client *messaging.Client
	topic  string
}

// NewClient initializes the messaging client. Without credentials the client
// stays disabled and every send becomes a no-op, so the server runs fine in
// environments that never configured push.
func NewClient(ctx context.Context, topic string) (*Client, error) {
	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		slog.Warn("no firebase credentials found, push notifications disabled")
		return &Client{topic: topic}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credPath))
	if err != nil {
		return nil, fmt.Errorf("fcm: init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("fcm: init messaging client: %w", err)
	}

	slog.Info("firebase cloud messaging initialized")
	return &Client{client: client, topic: topic}, nil
}

// Enabled reports whether sends will actually reach FCM.
func (c *Client) Enabled() bool {
	return c.client != nil
}

// NotifyJobComplete pushes a completion notice for a finished fetch job.
func (c *Client) NotifyJobComplete(ctx context.Context, jobID, versionID string, processedPairs int) error {
	if c.client == nil {
		return nil
	}

	msg := &messaging.Message{
		Topic: c.topic,
		Notification: &messaging.Notification{
			Title: "Chart fetch complete",
			Body:  fmt.Sprintf("Version %s: %d pairs captured", versionID, processedPairs),
		},
		Data: map[string]string{
			"jobId":          jobID,
			"versionId":      versionID,
			"processedPairs": fmt.Sprintf("%d", processedPairs),
		},
	}

	id, err := c.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("fcm: send completion notice: %w", err)
	}
	slog.Debug("sent completion notification", "message_id", id, "job_id", jobID)
	return nil
}
