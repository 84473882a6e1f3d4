package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zenmart/auth-service/pkg/logger"
	"go.uber.org/zap"
)

// SMSNotifier delivers reset links through an HTTP SMS gateway. The gateway
// expects a form POST with an API key header.
type SMSNotifier struct {
	apiURL string
	apiKey string
	client *http.Client
}

func NewSMSNotifier(apiURL, apiKey string) *SMSNotifier {
	return &SMSNotifier{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *SMSNotifier) SendResetLink(ctx context.Context, to Recipient, resetLink string) error {
	if to.Phone == "" {
		return nil
	}

	form := url.Values{}
	form.Set("numbers", to.Phone)
	form.Set("message", fmt.Sprintf("Password reset link (valid 15 minutes): %s", resetLink))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("authorization", n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call SMS gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("SMS gateway returned status %d", resp.StatusCode)
	}

	logger.GetLogger().Info("Reset link sent by SMS",
		zap.String("to", to.Phone),
		zap.Int("status", resp.StatusCode),
	)

	return nil
}
