package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartsnap-backend/internal/domain"
	"chartsnap-backend/internal/progress"
	"chartsnap-backend/internal/repository"
	"chartsnap-backend/internal/usecase"
)

type stubSource struct{ symbols []string }

func (s stubSource) ListTopSymbols(_ context.Context, q domain.ListQuery) ([]string, error) {
	if q.Limit < len(s.symbols) {
		return s.symbols[:q.Limit], nil
	}
	return s.symbols, nil
}

type stubResolver struct{}

func (stubResolver) ResolvePreferredPair(_ context.Context, symbol string) (domain.CanonicalPair, bool, error) {
	if symbol == "ABC" {
		return "", false, nil
	}
	return domain.CanonicalPair(strings.ToUpper(symbol) + "USDT"), true, nil
}

type stubCapturer struct{}

func (stubCapturer) CaptureFullScreenshot(_ context.Context, url string) ([]byte, error) {
	return []byte("full"), nil
}

func (stubCapturer) Crop(data []byte, _ domain.CropBox) ([]byte, error) {
	return []byte("anon"), nil
}

type stubStorage struct{ keys []string }

func (s *stubStorage) Upload(_ context.Context, key string, _ []byte) (string, error) {
	s.keys = append(s.keys, key)
	return key, nil
}

type seqIDs struct{ n int }

func (g *seqIDs) GenerateID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type testEnv struct {
	router  http.Handler
	repo    *repository.InMemoryChartRepository
	storage *stubStorage
	logsDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ids := &seqIDs{}
	clock := fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	repo := repository.NewInMemoryChartRepository(ids, clock)
	storage := &stubStorage{}
	logsDir := t.TempDir()

	fetch := NewFetchHandler(
		usecase.DefaultFetchJobConfig(),
		usecase.FetchJobDeps{
			Symbols:  stubSource{symbols: []string{"BTC", "ETH", "ABC"}},
			Resolver: stubResolver{},
			Capturer: stubCapturer{},
			Storage:  storage,
			DB:       repo,
		},
		ids, clock, logsDir, progress.NewHub(), nil,
	)
	versions := NewVersionHandler(repo)

	return &testEnv{
		router:  NewRouter(fetch, versions),
		repo:    repo,
		storage: storage,
		logsDir: logsDir,
	}
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := doRequest(t, env.router, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStartFetchWithDefaults(t *testing.T) {
	env := newTestEnv(t)
	rec := doRequest(t, env.router, http.MethodPost, "/api/fetch/start", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp startFetchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.JobID)
	assert.NotEmpty(t, resp.VersionID)
	assert.Equal(t, 2, resp.ProcessedPairs)

	// includeAnonymized defaults to true: two artifacts per pair.
	assert.Len(t, env.storage.keys, 4)

	// A per-job progress log file exists and is bracketed by start/complete.
	data, err := os.ReadFile(filepath.Join(env.logsDir, "fetch-"+resp.JobID+".log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "job:start ")
	assert.Contains(t, lines[len(lines)-1], "job:complete ")
}

func TestStartFetchWithExplicitParams(t *testing.T) {
	env := newTestEnv(t)
	rec := doRequest(t, env.router, http.MethodPost, "/api/fetch/start",
		`{"limit":2,"source":"cg","includeAnonymized":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp startFetchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.ProcessedPairs)
	assert.Len(t, env.storage.keys, 2) // full only

	versions, err := env.repo.ListVersions(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, domain.SourceCoinGecko, versions[0].Source)
}

func TestStartFetchRejectsBadParams(t *testing.T) {
	env := newTestEnv(t)

	rec := doRequest(t, env.router, http.MethodPost, "/api/fetch/start", `{"limit":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, env.router, http.MethodPost, "/api/fetch/start", `{"source":"yahoo"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, env.router, http.MethodPost, "/api/fetch/start", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListVersionsAndImages(t *testing.T) {
	env := newTestEnv(t)
	rec := doRequest(t, env.router, http.MethodPost, "/api/fetch/start", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var started startFetchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))

	rec = doRequest(t, env.router, http.MethodGet, "/api/versions?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list listVersionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Versions, 1)
	assert.Equal(t, started.VersionID, list.Versions[0].ID)
	assert.Equal(t, 2, list.Versions[0].CoinCount)

	rec = doRequest(t, env.router, http.MethodGet, "/api/versions/"+started.VersionID+"/images", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var images versionImagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &images))
	assert.Len(t, images.Images, 4)
}

func TestListVersionsRejectsBadPagination(t *testing.T) {
	env := newTestEnv(t)

	rec := doRequest(t, env.router, http.MethodGet, "/api/versions?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, env.router, http.MethodGet, "/api/versions?limit=101", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, env.router, http.MethodGet, "/api/versions?offset=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVersionImagesNotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := doRequest(t, env.router, http.MethodGet, "/api/versions/nope/images", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
