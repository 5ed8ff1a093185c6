package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abhisek/studydesk/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with event logging. providerName is stored
// alongside the model so usage can be grouped per vendor.
func WithLogging(p Provider, providerName string, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, provider: providerName, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		MaterialID:  MaterialFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: clip(serializeRequest(req)),
	}
	switch {
	case resp != nil:
		ev.InputTokens, ev.OutputTokens = resp.Usage.InputTokens, resp.Usage.OutputTokens
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.ResponseBody = clip(string(resp.Content))
	case err != nil:
		ev.ErrorMessage = err.Error()
		ev.ResponseBody = clip(string(failedContent(err)))
		slog.Warn("llm request failed", "purpose", ev.Purpose, "material_id", ev.MaterialID, "model", ev.Model, "err", err)
	}

	// A failed audit write never fails the request.
	if logErr := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), ev); logErr != nil {
		slog.Warn("failed to log LLM request event", "err", logErr)
	}
	return resp, err
}

// failedContent returns whatever the model produced before a call was
// rejected, so truncated or off-schema replies stay inspectable.
func failedContent(err error) json.RawMessage {
	var mt *ErrMaxTokensExceeded
	if errors.As(err, &mt) {
		return mt.Content
	}
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		return inv.Content
	}
	return nil
}

// maxLoggedBody bounds each stored body; study material can be large.
const maxLoggedBody = 64 << 10

func clip(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	cut := maxLoggedBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n[truncated]"
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders the request as tagged plain-text sections.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}

	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}

	return b.String()
}
