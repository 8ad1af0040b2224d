package cli

import (
	"bytes"
	"context"
	"strings"

	"github.com/quarrylabs/strata-cli/internal/core/domain"
)

// mockRetrievalService implements driving.RetrievalService for command tests.
type mockRetrievalService struct {
	indexCount int
	indexErr   error
	saveErr    error
	loadErr    error
	results    []domain.SearchResult
	searchErr  error
	answer     *domain.Answer
	askErr     error
	stats      domain.EngineStats

	lastIndexPath string
	lastQuery     string
	lastOpts      domain.SearchOptions
}

func (m *mockRetrievalService) Index(_ context.Context, path string) (int, error) {
	m.lastIndexPath = path
	return m.indexCount, m.indexErr
}

func (m *mockRetrievalService) BuildVectorIndex(context.Context, []domain.Document) error {
	return nil
}

func (m *mockRetrievalService) BuildKnowledgeGraph(context.Context, []domain.Document) error {
	return nil
}

func (m *mockRetrievalService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.searchErr
}

func (m *mockRetrievalService) Ask(_ context.Context, question string, opts domain.SearchOptions) (*domain.Answer, error) {
	m.lastQuery = question
	m.lastOpts = opts
	return m.answer, m.askErr
}

func (m *mockRetrievalService) Save(context.Context) error { return m.saveErr }
func (m *mockRetrievalService) Load(context.Context) error { return m.loadErr }
func (m *mockRetrievalService) Stats() domain.EngineStats  { return m.stats }

// mockConfigStore is an in-memory config store.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.values[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.values[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.values[key].(bool)
	return b
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	s, _ := m.values[key].([]string)
	return s
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }

func (m *mockConfigStore) Path() string { return "/tmp/strata-test/config.toml" }

func sampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Document: domain.Document{
				ID:       "notes_0",
				Content:  "Golang concurrency patterns",
				Metadata: map[string]any{domain.MetadataKeySource: "notes.txt"},
			},
			Score: 0.91,
		},
		{
			Document: domain.Document{
				ID:       "notes_1",
				Content:  "Channel fundamentals",
				Metadata: map[string]any{domain.MetadataKeySource: "notes.txt"},
			},
			Score: 0.44,
		},
	}
}

// setupTestServices installs mocks and returns the mock service plus a
// cleanup restoring the previous wiring and flag state.
func setupTestServices(svc *mockRetrievalService) (*mockRetrievalService, func()) {
	if svc == nil {
		svc = &mockRetrievalService{results: sampleResults()}
	}

	oldRetrieval := retrievalService
	oldConfig := configStore
	retrievalService = svc
	configStore = newMockConfigStore()

	return svc, func() {
		retrievalService = oldRetrieval
		configStore = oldConfig
		resetFlags()
	}
}

// resetFlags restores package-level flag variables between tests.
func resetFlags() {
	indexWatch = false
	searchMode = ""
	searchLimit = 0
	searchVectorWeight = 0
	searchGraphWeight = 0
	searchJSON = false
	askMode = ""
	askLimit = 0
	verbose = false
}

// executeCommand runs the root command with args and captures output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
