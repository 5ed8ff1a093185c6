package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Remote asks a studydesk backend (POST /api/recommendation) for a
// recommendation. The response body may use any shape Normalize accepts.
type Remote struct {
	baseURL string
	client  *http.Client
}

// NewRemote creates a client for the backend at baseURL. A nil client uses
// one with a 10 second timeout.
func NewRemote(baseURL string, client *http.Client) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Remote{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (r *Remote) Recommend(ctx context.Context, in Input) (Result, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return Result{}, fmt.Errorf("marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/recommendation", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("recommendation request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return Result{}, fmt.Errorf("read recommendation: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("recommendation request: status %d", resp.StatusCode)
	}

	res, err := Normalize(json.RawMessage(data))
	if err != nil {
		return Result{}, err
	}
	if res.Method == "" {
		res.Method = MethodAI
	}
	return res, nil
}
