package push

import (
	"context"

	"go.uber.org/zap"
)

// LogSender is a Sender that logs payloads instead of delivering them.
// Used when push is disabled or no Firebase credentials are configured, so
// the rest of the pipeline (audience resolution, notification records)
// behaves the same in every environment.
type LogSender struct {
	log *zap.Logger
}

// NewLogSender returns a Sender that only logs.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{log: logger}
}

func (s *LogSender) SendMulticast(ctx context.Context, tokens []string, msg Message) (Report, error) {
	s.log.Info("push (logged, not sent)",
		zap.String("title", msg.Title),
		zap.String("body", msg.Body),
		zap.Int("tokens", len(tokens)))
	return Report{SuccessCount: len(tokens)}, nil
}

func (s *LogSender) SendToTopic(ctx context.Context, topic string, msg Message) error {
	s.log.Info("topic push (logged, not sent)",
		zap.String("topic", topic),
		zap.String("title", msg.Title))
	return nil
}
