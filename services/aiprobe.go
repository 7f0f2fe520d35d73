package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"call_quality_app_go/config"

	"github.com/cenkalti/backoff/v4"
)

// AIProbeResult describes the outcome of checking the AI endpoint.
type AIProbeResult struct {
	Reachable bool     `json:"reachable"`
	Models    []string `json:"models,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// ProbeAIEndpoint checks that the configured AI endpoint is alive by
// listing its models. Transient failures retry with backoff.
func ProbeAIEndpoint(ctx context.Context, cfg *config.Config) *AIProbeResult {
	if cfg.AIAPIKey == "" {
		return &AIProbeResult{Error: "AI API key is not configured"}
	}

	url := strings.TrimSuffix(cfg.AIEndpoint, "/") + "/models"

	var models []string
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+cfg.AIAPIKey)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return backoff.Permanent(fmt.Errorf("AI endpoint rejected the API key (status %d)", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("AI endpoint returned status %d", resp.StatusCode)
		}

		var payload struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return backoff.Permanent(fmt.Errorf("unexpected response from AI endpoint: %w", err))
		}

		models = models[:0]
		for _, m := range payload.Data {
			models = append(models, m.ID)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 15 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return &AIProbeResult{Error: err.Error()}
	}

	return &AIProbeResult{Reachable: true, Models: models}
}
