package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider. Queued responses are served
// first in FIFO order; once the queue is empty, a response registered for
// the request's schema name is served on every call. All requests are
// recorded.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	bySchema  map[string]MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given queued responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses, bySchema: map[string]MockResponse{}}
}

// NewOfflineProvider returns a MockProvider that answers the session
// recommendation and practice question schemas with fixed study content.
// It backs STUDYDESK_LLM_PROVIDER=mock so the AI paths work without a key.
func NewOfflineProvider() *MockProvider {
	m := NewMockProvider()
	m.RespondTo("session-recommendation", MockResponse{
		Content: json.RawMessage(`{"minutes":25,"insight":"Offline coach: a standard 25-minute block keeps focus steady."}`),
		Usage:   Usage{InputTokens: 120, OutputTokens: 24, TotalTokens: 144},
	})
	m.RespondTo("practice-questions", MockResponse{
		Content: json.RawMessage(offlineQuestions),
		Usage:   Usage{InputTokens: 600, OutputTokens: 310, TotalTokens: 910},
	})
	return m
}

const offlineQuestions = `{"questions":[
{"prompt":"Which technique spreads reviews of the same material over increasing intervals?","type":"multiple_choice","options":["Spaced repetition","Cramming","Highlighting","Rereading"],"correct_index":0,"explanation":"Spaced repetition schedules reviews further apart as recall improves."},
{"prompt":"Actively recalling an answer strengthens memory more than rereading it.","type":"true_false","options":["True","False"],"correct_index":0,"explanation":"Retrieval practice is one of the most reliable ways to improve retention."},
{"prompt":"What is the usual length of a single Pomodoro study block?","type":"multiple_choice","options":["10 minutes","25 minutes","45 minutes","90 minutes"],"correct_index":1,"explanation":"The classic technique uses 25 minutes of focus followed by a short break."},
{"prompt":"Long breaks are normally taken after every study session.","type":"true_false","options":["True","False"],"correct_index":1,"explanation":"A long break comes after several study sessions, not after each one."},
{"prompt":"Which habit best reduces distractions during a focus session?","type":"multiple_choice","options":["Keeping notifications on","Switching tasks often","Silencing the phone","Studying in bed"],"correct_index":2,"explanation":"Removing interruptions such as phone notifications protects focus."}
]}`

// Generate returns the next queued response, then the response registered
// for req.Schema, or ErrProviderUnavailable when neither exists.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	case req.Schema != nil && m.hasSchema(req.Schema.Name):
		resp = m.bySchema[req.Schema.Name]
	default:
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: StopEnd,
	}, nil
}

func (m *MockProvider) hasSchema(name string) bool {
	_, ok := m.bySchema[name]
	return ok
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// RespondTo serves resp for every request whose schema is named schema
// once the queue is drained.
func (m *MockProvider) RespondTo(schema string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bySchema == nil {
		m.bySchema = map[string]MockResponse{}
	}
	m.bySchema[schema] = resp
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
