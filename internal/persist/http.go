package persist

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

// HTTPSink posts records to a studydesk backend (POST /api/sessions).
type HTTPSink struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSink creates a sink for the backend at baseURL. A nil client uses
// one with a 10 second timeout.
func NewHTTPSink(baseURL string, client *http.Client) *HTTPSink {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSink{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *HTTPSink) CreateSession(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/sessions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("create session: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
