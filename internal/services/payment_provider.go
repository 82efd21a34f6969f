package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPPaymentProvider charges through the configured processor's REST API.
type HTTPPaymentProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPPaymentProvider(baseURL, apiKey string) *HTTPPaymentProvider {
	return &HTTPPaymentProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
}

func (p *HTTPPaymentProvider) Charge(
	ctx context.Context,
	amount float64,
	currency string,
	description string,
) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"amount":      amount,
		"currency":    currency,
		"description": description,
	})
	if err != nil {
		return "", fmt.Errorf("marshal charge payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/charges", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build charge request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create charge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("create charge: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode charge response: %w", err)
	}
	if response.ID == "" {
		return "", fmt.Errorf("charge id missing from response")
	}

	return response.ID, nil
}
