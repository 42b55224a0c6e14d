package container

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paligo/taxonomy/internal/config"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig(csvFile, baseURL string) *config.Config {
	return &config.Config{
		Import: config.ImportConfig{CSVFile: csvFile, DefaultColor: 3},
		Paligo: config.PaligoConfig{
			BaseURL:  baseURL,
			Timeout:  5,
			Username: "user@example.com",
			APIKey:   "secret",
		},
	}
}

func useMiniredis(t *testing.T, cfg *config.Config) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg.Redis = config.RedisConfig{
		Enabled: true,
		Host:    mr.Host(),
		Port:    port,
		Stream:  "test:outcomes",
	}
	return mr
}

func TestNewDryRun(t *testing.T) {
	cfg := testConfig(writeCSV(t, "Animals\n,Mammals\n"), "")
	cfg.Import.DryRun = true

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)

	assert.Nil(t, app.Client)
	assert.Nil(t, app.Publisher)
	assert.Empty(t, app.observers)
	require.NotNil(t, app.Service)

	require.NoError(t, app.Run(context.Background()))
	require.NoError(t, app.Close())
}

func TestNewDryRunMissingFile(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing.csv"), "")
	cfg.Import.DryRun = true

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	require.Error(t, app.Run(context.Background()))
}

func TestNewLogOnlyObservers(t *testing.T) {
	cfg := testConfig("taxonomy.csv", "http://127.0.0.1:1/api/v2/")

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)

	assert.NotNil(t, app.Client)
	assert.NotNil(t, app.Publisher)
	assert.Len(t, app.observers, 1)
	assert.Nil(t, app.stream)
	require.NoError(t, app.Close())
}

func TestNewWithRedisStream(t *testing.T) {
	cfg := testConfig("taxonomy.csv", "http://127.0.0.1:1/api/v2/")
	useMiniredis(t, cfg)

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)

	assert.Len(t, app.observers, 2)
	require.NotNil(t, app.stream)
	require.NoError(t, app.Close())
}

func TestNewRedisUnreachable(t *testing.T) {
	cfg := testConfig("taxonomy.csv", "http://127.0.0.1:1/api/v2/")
	mr := useMiniredis(t, cfg)
	mr.Close()

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestRunImportStreamsOutcomes(t *testing.T) {
	var (
		mu     sync.Mutex
		titles []string
		nextID = 1
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		assert.Equal(t, "/api/v2/taxonomies/", r.URL.Path)
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		titles = append(titles, body["title"].(string))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": nextID, "title": body["title"]})
		nextID++
	}))
	defer server.Close()

	cfg := testConfig(writeCSV(t, "Animals\n,Mammals\n,,Dog\n,Birds\n"), server.URL+"/api/v2/")
	mr := useMiniredis(t, cfg)

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background()))
	require.NoError(t, app.Close())

	assert.Equal(t, []string{"Animals", "Mammals", "Dog", "Birds"}, titles)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	entries, err := rdb.XRange(context.Background(), "test:outcomes", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i, entry := range entries {
		assert.Equal(t, "created", entry.Values["status"])
		assert.Equal(t, titles[i], entry.Values["title"])
	}
}
