package notifications

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Multicaster is the slice of *messaging.Client the dispatcher uses.
type Multicaster interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMSender sends push notifications via Firebase Cloud Messaging.
// Nil-safe: a nil sender returns ErrDispatchDisabled.
type FCMSender struct {
	client    Multicaster
	isInvalid func(error) bool
	logger    *slog.Logger
}

// NewFCMClient builds a messaging client from a service account file.
func NewFCMClient(ctx context.Context, credentialsFile string) (*messaging.Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	return client, nil
}

// NewFCMSender creates a sender from a service account credentials file.
// Returns nil if credentialsFile is empty (notifications disabled).
func NewFCMSender(ctx context.Context, credentialsFile string, logger *slog.Logger) (*FCMSender, error) {
	if credentialsFile == "" {
		return nil, nil
	}
	client, err := NewFCMClient(ctx, credentialsFile)
	if err != nil {
		return nil, err
	}
	return NewSender(client, logger), nil
}

// NewSender wraps an existing multicast client.
func NewSender(client Multicaster, logger *slog.Logger) *FCMSender {
	return &FCMSender{
		client:    client,
		isInvalid: isInvalidTokenError,
		logger:    logger,
	}
}

// Send delivers msg to every unique token. No retries are attempted; a
// returned error means the provider call itself failed. Per-token errors
// land in FailureCount, and the permanently undeliverable tokens are listed
// in InvalidTokens so the caller can delete them.
func (s *FCMSender) Send(ctx context.Context, tokens []string, msg Message) (SendResult, error) {
	if s == nil {
		return SendResult{}, ErrDispatchDisabled
	}
	unique := UniqueTokens(tokens)
	if len(unique) == 0 {
		return SendResult{}, fmt.Errorf("no tokens to send to")
	}

	var result SendResult
	for start := 0; start < len(unique); start += maxMulticastTokens {
		chunk := unique[start:min(start+maxMulticastTokens, len(unique))]
		resp, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens:       chunk,
			Notification: &messaging.Notification{Title: msg.Title, Body: msg.Body},
			Data:         msg.Data,
		})
		if err != nil {
			return result, fmt.Errorf("fcm multicast: %w", err)
		}
		result.SuccessCount += resp.SuccessCount
		result.FailureCount += resp.FailureCount
		for i, r := range resp.Responses {
			if r == nil || r.Success || i >= len(chunk) {
				continue
			}
			if s.isInvalid(r.Error) {
				result.InvalidTokens = append(result.InvalidTokens, chunk[i])
			} else {
				s.logger.Debug("transient fcm error", "error", r.Error)
			}
		}
	}
	return result, nil
}

// UniqueTokens drops blanks and duplicates, keeping first-seen order.
func UniqueTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// isInvalidTokenError classifies FCM errors that mean the token will never
// work again.
func isInvalidTokenError(err error) bool {
	if err == nil {
		return false
	}
	return messaging.IsUnregistered(err) ||
		messaging.IsInvalidArgument(err) ||
		messaging.IsSenderIDMismatch(err)
}
