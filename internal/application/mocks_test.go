package application_test

import (
	"context"
	"errors"
	"sync"

	"github.com/ericfisherdev/qbique/internal/domain/model"
)

// --- Mock implementations ---

type mockSettingsStore struct {
	settings model.Settings
	report   model.LoadReport
	saves    []model.Settings
	saveErr  error
}

func newMockSettingsStore() *mockSettingsStore {
	return &mockSettingsStore{
		settings: model.DefaultSettings(),
		report:   model.LoadReport{Path: "config.json", Status: model.LoadAbsent},
	}
}

func (m *mockSettingsStore) Load(_ context.Context) (model.Settings, model.LoadReport) {
	return m.settings, m.report
}

func (m *mockSettingsStore) Save(_ context.Context, s model.Settings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves = append(m.saves, s)
	m.settings = s
	return nil
}

type mockCredentialStore struct {
	vault   model.Vault
	report  model.LoadReport
	saves   int
	saveErr error
}

func newMockCredentialStore(vault model.Vault) *mockCredentialStore {
	status := model.LoadOK
	if vault == nil {
		status = model.LoadAbsent
	}
	return &mockCredentialStore{
		vault:  vault,
		report: model.LoadReport{Path: "credentials.json", Status: status},
	}
}

func (m *mockCredentialStore) Load(_ context.Context) (model.Vault, model.LoadReport) {
	return m.vault.Clone(), m.report
}

func (m *mockCredentialStore) Save(_ context.Context, v model.Vault) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.vault = v.Clone()
	return nil
}

type mockLicenseStore struct {
	cache  map[string]model.License
	report model.LoadReport
	saves  int
}

func (m *mockLicenseStore) Load(_ context.Context) (map[string]model.License, model.LoadReport) {
	out := make(map[string]model.License, len(m.cache))
	for k, v := range m.cache {
		out[k] = v
	}
	return out, m.report
}

func (m *mockLicenseStore) Save(_ context.Context, cache map[string]model.License) error {
	m.saves++
	m.cache = make(map[string]model.License, len(cache))
	for k, v := range cache {
		m.cache[k] = v
	}
	return nil
}

type gatewayCall struct {
	Method string
	Path   string
	Opts   model.CallOptions
}

type gatewayReply struct {
	body string
	err  error
}

// mockGateway answers calls from a per-path queue. The last reply for a
// path is repeated once the queue drains.
type mockGateway struct {
	mu      sync.Mutex
	replies map[string][]gatewayReply
	calls   []gatewayCall
}

func newMockGateway() *mockGateway {
	return &mockGateway{replies: map[string][]gatewayReply{}}
}

func (m *mockGateway) reply(path, body string) *mockGateway {
	m.replies[path] = append(m.replies[path], gatewayReply{body: body})
	return m
}

func (m *mockGateway) fail(path string, err error) *mockGateway {
	m.replies[path] = append(m.replies[path], gatewayReply{err: err})
	return m
}

func (m *mockGateway) Call(_ context.Context, method, path string, _ any, opts model.CallOptions) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, gatewayCall{Method: method, Path: path, Opts: opts})
	queue := m.replies[path]
	if len(queue) == 0 {
		return nil, &model.RequestError{Kind: model.ErrKindAPI, Status: 404, Message: "Not Found"}
	}
	r := queue[0]
	if len(queue) > 1 {
		m.replies[path] = queue[1:]
	}
	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.body), nil
}

func (m *mockGateway) callCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Path == path {
			n++
		}
	}
	return n
}

var errDiskFull = errors.New("disk full")
