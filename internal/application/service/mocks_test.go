package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/garyjia/payroll-console/internal/domain/entity"
	"github.com/garyjia/payroll-console/internal/domain/event"
)

type apiCall struct {
	Method string
	Path   string
	Body   interface{}
}

// mockPayrollAPI serves canned JSON per path unless a func field overrides it
type mockPayrollAPI struct {
	meFunc       func(ctx context.Context) (*entity.Identity, error)
	getFunc      func(ctx context.Context, path string, out interface{}) error
	postFunc     func(ctx context.Context, path string, body interface{}, out interface{}) error
	downloadFunc func(ctx context.Context, path string) (*entity.PayslipFile, error)

	identity  *entity.Identity
	responses map[string]string
	errs      map[string]error

	mu    sync.Mutex
	calls []apiCall
}

func newMockAPI() *mockPayrollAPI {
	return &mockPayrollAPI{
		identity:  &entity.Identity{ID: "u1", Roles: []string{}},
		responses: map[string]string{},
		errs:      map[string]error{},
	}
}

func (m *mockPayrollAPI) record(method, path string, body interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, apiCall{Method: method, Path: path, Body: body})
}

func (m *mockPayrollAPI) Me(ctx context.Context) (*entity.Identity, error) {
	m.record("GET", "/auth/me", nil)
	if m.meFunc != nil {
		return m.meFunc(ctx)
	}
	return m.identity, nil
}

func (m *mockPayrollAPI) GetJSON(ctx context.Context, path string, out interface{}) error {
	m.record("GET", path, nil)
	if m.getFunc != nil {
		return m.getFunc(ctx, path, out)
	}
	return m.serve(path, out)
}

func (m *mockPayrollAPI) PostJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	m.record("POST", path, body)
	if m.postFunc != nil {
		return m.postFunc(ctx, path, body, out)
	}
	return m.serve(path, out)
}

func (m *mockPayrollAPI) Download(ctx context.Context, path string) (*entity.PayslipFile, error) {
	m.record("GET", path, nil)
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, path)
	}
	return nil, errors.New("no document")
}

func (m *mockPayrollAPI) serve(path string, out interface{}) error {
	m.mu.Lock()
	err, hasErr := m.errs[path]
	raw, ok := m.responses[path]
	m.mu.Unlock()

	if hasErr {
		return err
	}
	if !ok || out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("invalid response format from %s: %w", path, err)
	}
	return nil
}

func (m *mockPayrollAPI) callsTo(method, path string) []apiCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []apiCall
	for _, c := range m.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (m *mockPayrollAPI) countMethod(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockPublisher struct {
	mu     sync.Mutex
	events []*event.Event
}

func (m *mockPublisher) Publish(ctx context.Context, evt *event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return nil
}

type mockSpreadsheet struct {
	writeFunc func(sheet string, header []string, rows [][]interface{}) ([]byte, error)

	sheet  string
	header []string
	rows   [][]interface{}
}

func (m *mockSpreadsheet) Write(sheet string, header []string, rows [][]interface{}) ([]byte, error) {
	m.sheet, m.header, m.rows = sheet, header, rows
	if m.writeFunc != nil {
		return m.writeFunc(sheet, header, rows)
	}
	return []byte("xlsx"), nil
}

type mockPreviewer struct {
	previewFunc func(data []byte) ([]byte, error)
	pages       int
}

func (m *mockPreviewer) PreviewPNG(data []byte) ([]byte, error) {
	if m.previewFunc != nil {
		return m.previewFunc(data)
	}
	return []byte("png"), nil
}

func (m *mockPreviewer) PageCount(data []byte) (int, error) {
	return m.pages, nil
}

type mockAuthorizer struct {
	allowedFunc func(roles []string, pageKey string) (bool, error)
}

func (m *mockAuthorizer) Allowed(roles []string, pageKey string) (bool, error) {
	return m.allowedFunc(roles, pageKey)
}

func (m *mockPayrollAPI) serveRaw(raw string, out interface{}) error {
	return json.Unmarshal([]byte(raw), out)
}
