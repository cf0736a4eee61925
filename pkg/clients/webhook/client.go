// Package webhook posts report notifications to an operator-configured HTTP
// endpoint, typically a chat integration.
package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/osvalr/cantina/internal/domain/models"
)

// Notifier delivers daily summaries to an external listener.
type Notifier interface {
	NotifySummary(ctx context.Context, summary models.DailySummary) error
}

// Client is a resty-backed Notifier.
type Client struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a notifier for the given webhook URL.
func NewClient(url string) *Client {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &Client{httpClient: restyClient, url: url}
}

type summaryPayload struct {
	Kind      string  `json:"kind"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Sales     float64 `json:"sales"`
	Purchases float64 `json:"purchases"`
	Expenses  float64 `json:"expenses"`
	Net       float64 `json:"net"`
}

// NotifySummary posts the summary as JSON and treats any non-2xx response as
// an error.
func (c *Client) NotifySummary(ctx context.Context, summary models.DailySummary) error {
	payload := summaryPayload{
		Kind:      "daily_summary",
		From:      summary.From.Format("2006-01-02"),
		To:        summary.To.Format("2006-01-02"),
		Sales:     summary.Sales,
		Purchases: summary.Purchases,
		Expenses:  summary.Expenses,
		Net:       summary.Net,
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post summary webhook: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("summary webhook rejected with status %d", resp.StatusCode())
	}
	return nil
}
