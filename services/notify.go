package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"teamboard/repository"
)

// Message is a push notification. Data is delivered to the service worker
// untouched; Link is opened by its "view" action.
type Message struct {
	Title string
	Body  string
	Link  string
	Data  map[string]string
}

// Sender delivers one message to a set of device tokens.
type Sender interface {
	Send(ctx context.Context, tokens []string, msg Message) error
}

// Notifier resolves users to device tokens and pushes in the background.
// Delivery is best effort: failures are logged and dropped.
type Notifier struct {
	subs    repository.SubscriptionRepository
	sender  Sender
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewNotifier(subs repository.SubscriptionRepository, sender Sender) *Notifier {
	if sender == nil {
		sender = NoopSender{}
	}
	return &Notifier{subs: subs, sender: sender, timeout: 15 * time.Second}
}

// Notify pushes msg to every device of userIDs without blocking the caller.
func (n *Notifier) Notify(userIDs []string, msg Message) {
	if n == nil || len(userIDs) == 0 {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		tokens, err := n.subs.Tokens(ctx, userIDs)
		if err != nil {
			log.Printf("push: failed to load tokens for %d users: %v", len(userIDs), err)
			return
		}
		if len(tokens) == 0 {
			return
		}
		if err := n.sender.Send(ctx, tokens, msg); err != nil {
			log.Printf("push: failed to send %q: %v", msg.Title, err)
		}
	}()
}

// Wait blocks until in-flight pushes finish. Used on shutdown and in tests.
func (n *Notifier) Wait() {
	if n != nil {
		n.wg.Wait()
	}
}

// NoopSender is used when no push credentials are configured.
type NoopSender struct{}

func (NoopSender) Send(context.Context, []string, Message) error { return nil }

// FCM limits multicast messages to 500 tokens.
const fcmBatchSize = 500

// FCMSender delivers through Firebase Cloud Messaging as web push.
type FCMSender struct {
	client *messaging.Client
}

func InitializeFirebaseApp(ctx context.Context, projectID, serviceAccountKeyPath string) (*firebase.App, error) {
	var opts []option.ClientOption
	if serviceAccountKeyPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountKeyPath))
	}
	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %w", err)
	}
	return app, nil
}

func NewFCMSender(ctx context.Context, app *firebase.App) (*FCMSender, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Messaging client: %w", err)
	}
	return &FCMSender{client: client}, nil
}

func (s *FCMSender) Send(ctx context.Context, tokens []string, msg Message) error {
	data := map[string]string{"actions": "view,dismiss"}
	for k, v := range msg.Data {
		data[k] = v
	}
	if msg.Link != "" {
		data["url"] = msg.Link
	}

	var failed int
	for i := 0; i < len(tokens); i += fcmBatchSize {
		end := i + fcmBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[i:end]

		message := &messaging.MulticastMessage{
			Tokens: batch,
			Data:   data,
			Notification: &messaging.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Webpush: &messaging.WebpushConfig{
				Notification: &messaging.WebpushNotification{
					Title: msg.Title,
					Body:  msg.Body,
					Actions: []*messaging.WebpushNotificationAction{
						{Action: "view", Title: "View"},
						{Action: "dismiss", Title: "Dismiss"},
					},
				},
			},
		}
		if strings.HasPrefix(msg.Link, "https://") {
			message.Webpush.FCMOptions = &messaging.WebpushFCMOptions{Link: msg.Link}
		}

		response, err := s.client.SendEachForMulticast(ctx, message)
		if err != nil {
			log.Printf("push: batch %d-%d failed: %v", i, end-1, err)
			failed += len(batch)
			continue
		}
		if response.FailureCount > 0 {
			for idx, resp := range response.Responses {
				if !resp.Success {
					log.Printf("push: token %s rejected: %v", batch[idx], resp.Error)
				}
			}
			failed += response.FailureCount
		}
	}
	if failed == len(tokens) {
		return fmt.Errorf("all %d deliveries failed", failed)
	}
	return nil
}
