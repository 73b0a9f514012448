package submit

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the Mock submitter.
type MockResponse struct {
	Body json.RawMessage
	Err  error
}

// Call is one recorded Mock invocation.
type Call struct {
	Endpoint string
	Payload  any
}

// Mock is a deterministic Submitter for testing. It returns canned
// responses in FIFO order and records all calls.
type Mock struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Call
}

// NewMock creates a Mock with the given canned responses.
func NewMock(responses ...MockResponse) *Mock {
	return &Mock{responses: responses}
}

// Submit returns the next canned response, or ErrUnavailable when the
// queue is empty.
func (m *Mock) Submit(_ context.Context, endpoint string, payload any) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, Call{Endpoint: endpoint, Payload: payload})

	if len(m.responses) == 0 {
		return nil, &ErrUnavailable{Endpoint: endpoint, Err: ErrOffline}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Result{Endpoint: endpoint, Status: 200, Body: resp.Body}, nil
}

// Respond appends a JSON body to the queue.
func (m *Mock) Respond(body string) {
	m.AddResponse(MockResponse{Body: json.RawMessage(body)})
}

// Fail appends an error to the queue.
func (m *Mock) Fail(err error) {
	m.AddResponse(MockResponse{Err: err})
}

// AddResponse appends a canned response to the queue.
func (m *Mock) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Submit calls made.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Endpoints returns the endpoints called, in order.
func (m *Mock) Endpoints() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		out[i] = c.Endpoint
	}
	return out
}
