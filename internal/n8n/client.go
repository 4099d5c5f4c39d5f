// Package n8n talks to the external automation that performs the actual AI
// analysis. The webhook accepts the permit payload and later writes its
// suggestions back through the API callback; this client never waits for the
// analysis result.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AnalysisRequest is the payload posted to the n8n webhook.
type AnalysisRequest struct {
	JobID             string            `json:"jobId"`
	PermitID          uint              `json:"permitId"`
	PermitCode        string            `json:"permitCode"`
	Type              string            `json:"type"`
	Description       string            `json:"description"`
	WorkDescription   string            `json:"workDescription"`
	Department        string            `json:"department"`
	Location          string            `json:"location"`
	StartDate         string            `json:"startDate"`
	EndDate           string            `json:"endDate"`
	SelectedHazards   []string          `json:"selectedHazards"`
	HazardLabels      []string          `json:"hazardLabels"`
	HazardNotes       map[string]string `json:"hazardNotes"`
	IdentifiedHazards string            `json:"identifiedHazards"`
	OverallRisk       string            `json:"overallRisk"`
	CallbackURL       string            `json:"callbackUrl"`
}

// Trigger fires analysis requests at a webhook URL.
type Trigger interface {
	TriggerAnalysis(ctx context.Context, webhookURL string, req AnalysisRequest) error
}

// Client is a plain HTTP trigger implementation.
type Client struct {
	client *http.Client
}

func NewClient() *Client {
	return &Client{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// TriggerAnalysis posts the permit payload to the webhook. A 2xx status means
// the automation accepted the job; the suggestions arrive later out-of-band.
func (c *Client) TriggerAnalysis(ctx context.Context, webhookURL string, analysisReq AnalysisRequest) error {
	body, err := json.Marshal(analysisReq)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook call failed: %s - %s", resp.Status, string(detail))
	}
	return nil
}
