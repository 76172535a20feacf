// internal/app/system/push/fcm.go
package push

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FCM multicast requests accept at most 500 tokens.
const multicastChunkSize = 500

// FCM sends notifications through Firebase Cloud Messaging.
type FCM struct {
	client *messaging.Client
	log    *zap.Logger
}

// NewFCM builds an FCM sender. With an empty credentialsFile the Firebase
// SDK falls back to application-default credentials.
func NewFCM(ctx context.Context, credentialsFile string, logger *zap.Logger) (*FCM, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &FCM{client: client, log: logger}, nil
}

// SendMulticast implements Sender.
func (f *FCM) SendMulticast(ctx context.Context, tokens []string, msg Message) (Report, error) {
	var report Report
	for start := 0; start < len(tokens); start += multicastChunkSize {
		end := start + multicastChunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		chunk := tokens[start:end]

		resp, err := f.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens: chunk,
			Notification: &messaging.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
		})
		if err != nil {
			return report, err
		}

		report.SuccessCount += resp.SuccessCount
		report.FailureCount += resp.FailureCount
		for i, r := range resp.Responses {
			if r.Success {
				continue
			}
			if messaging.IsRegistrationTokenNotRegistered(r.Error) || errorutils.IsInvalidArgument(r.Error) {
				report.InvalidTokens = append(report.InvalidTokens, chunk[i])
			} else {
				f.log.Warn("push send failed", zap.Error(r.Error))
			}
		}
	}
	return report, nil
}

// SendToTopic implements Sender.
func (f *FCM) SendToTopic(ctx context.Context, topic string, msg Message) error {
	_, err := f.client.Send(ctx, &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	return err
}
