package pushprovider

import (
	"context"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"unilance/providers"
)

type fcmService struct {
	client *messaging.Client
}

func NewPushProvider(ctx context.Context, credentialsFile string) (providers.PushProvider, error) {
	serviceAccountJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, err
	}

	opt := option.WithCredentialsJSON(serviceAccountJSON)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, err
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}

	return &fcmService{client: client}, nil
}

func (f *fcmService) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) (providers.PushResult, error) {
	if len(tokens) == 0 {
		return providers.PushResult{}, nil
	}

	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	resp, err := f.client.SendEachForMulticast(ctx, msg)
	if err != nil {
		return providers.PushResult{}, err
	}

	result := providers.PushResult{
		Delivered: resp.SuccessCount,
		Failed:    resp.FailureCount,
	}
	for i, r := range resp.Responses {
		if r.Error != nil && messaging.IsUnregistered(r.Error) {
			result.InvalidTokens = append(result.InvalidTokens, tokens[i])
		}
	}
	return result, nil
}
