package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NexmoProvider speaks the Vonage (Nexmo) SMS REST API. The endpoint is
// overridable so tests can point it at a local server.
type NexmoProvider struct {
	Endpoint  string
	APIKey    string
	APISecret string
	Client    *http.Client
}

// deliveredStatus is the per-message status Nexmo reports on acceptance.
const deliveredStatus = "0"

type nexmoResponse struct {
	Messages []struct {
		Status    string `json:"status"`
		MessageID string `json:"message-id"`
		ErrorText string `json:"error-text"`
	} `json:"messages"`
}

func (p *NexmoProvider) Name() string { return "nexmo" }

func (p *NexmoProvider) Send(ctx context.Context, msg Message) (string, error) {
	form := url.Values{}
	form.Set("api_key", p.APIKey)
	form.Set("api_secret", p.APISecret)
	form.Set("from", msg.From)
	form.Set("to", msg.To)
	form.Set("text", msg.Text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint+"/sms/json", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("nexmo error: %s", resp.Status)
	}

	var decoded nexmoResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode nexmo response: %w", err)
	}
	if len(decoded.Messages) == 0 {
		return "", fmt.Errorf("nexmo response contained no messages")
	}

	first := decoded.Messages[0]
	if first.Status != deliveredStatus {
		detail := first.ErrorText
		if detail == "" {
			detail = "status " + first.Status
		}
		return "", fmt.Errorf("nexmo rejected message: %s", detail)
	}
	return first.MessageID, nil
}
