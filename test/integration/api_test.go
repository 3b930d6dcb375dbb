//go:build integration
// +build integration

package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pahe-web-go/api"
	"github.com/yourusername/pahe-web-go/internal/app"
	"github.com/yourusername/pahe-web-go/internal/domain"
	"github.com/yourusername/pahe-web-go/internal/infrastructure"
	"go.uber.org/zap"
)

// stubScript mimics the downloader CLI: search-only mode prints a JSON
// result map, download mode prints progress lines, and a title of "slow"
// keeps the process alive until it is killed.
const stubScript = `#!/bin/sh
for arg in "$@"; do
  if [ "$arg" = "--search-only" ]; then
    echo '{"One Piece":"session-1"}'
    exit 0
  fi
done
if [ "$2" = "slow" ]; then
  echo "Fetching episode list"
  sleep 30 >/dev/null 2>&1
  exit 0
fi
echo "Fetching episode list"
echo "Episode 1 done"
exit 0
`

func setupTestServer(t *testing.T) (*httptest.Server, *infrastructure.SQLiteHistoryRepository) {
	t.Helper()
	tmpDir := t.TempDir()

	scriptPath := filepath.Join(tmpDir, "stub.sh")
	require.NoError(t, os.WriteFile(scriptPath, []byte(stubScript), 0755))

	repo, err := infrastructure.NewSQLiteHistoryRepository(filepath.Join(tmpDir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	log := zap.NewNop()
	runner := infrastructure.NewScriptRunner(&domain.ScriptConfig{
		Interpreter: "/bin/sh",
		Path:        scriptPath,
	}, "", log)

	supervisor := app.NewSupervisor(runner, tmpDir, log)
	search := app.NewSearchService(runner, log)
	library := app.NewLibraryService(repo, nil, log)

	server := httptest.NewServer(api.SetupRouter(supervisor, search, library, log))
	t.Cleanup(server.Close)

	return server, repo
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func downloadPayload(title string) string {
	data, _ := json.Marshal(map[string]any{
		"anime":    map[string]any{"title": title},
		"settings": map[string]any{"startEpisode": 1, "quality": 1080},
	})
	return string(data)
}

func readEvents(t *testing.T, body io.Reader) []domain.StreamEvent {
	t.Helper()
	var out []domain.StreamEvent
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		var ev domain.StreamEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		out = append(out, ev)
	}
	return out
}

func TestAPI_SearchEndToEnd(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := postJSON(t, server.URL+"/search", `{"query":"one piece"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Success bool              `json:"success"`
		Results map[string]string `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.Equal(t, "session-1", result.Results["One Piece"])
}

func TestAPI_DownloadStreamAndHistory(t *testing.T) {
	server, repo := setupTestServer(t)

	resp := postJSON(t, server.URL+"/download", downloadPayload("One Piece"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-ndjson", resp.Header.Get("Content-Type"))

	events := readEvents(t, resp.Body)
	require.Len(t, events, 3)
	assert.Equal(t, "Fetching episode list", events[0].Log.Message)
	assert.Equal(t, "Episode 1 done", events[1].Log.Message)
	require.True(t, events[2].IsComplete())
	assert.True(t, events[2].Succeeded())

	require.Eventually(t, func() bool {
		records, err := repo.FindAll()
		return err == nil && len(records) == 1 && records[0].Status == domain.StatusCompleted
	}, 2*time.Second, 20*time.Millisecond)

	listResp, err := http.Get(server.URL + "/downloads")
	require.NoError(t, err)
	defer listResp.Body.Close()

	var list struct {
		Downloads []domain.DownloadRecord `json:"downloads"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Len(t, list.Downloads, 1)
	assert.Equal(t, "One Piece", list.Downloads[0].Title)
}

func TestAPI_ConcurrentDownloadRejectedThenCancelled(t *testing.T) {
	server, repo := setupTestServer(t)

	type streamResult struct {
		events []domain.StreamEvent
	}
	done := make(chan streamResult, 1)

	go func() {
		resp := postJSON(t, server.URL+"/download", downloadPayload("slow"))
		defer resp.Body.Close()
		done <- streamResult{events: readEvents(t, resp.Body)}
	}()

	// Wait until the slot is visibly occupied.
	require.Eventually(t, func() bool {
		resp, err := http.Get(server.URL + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var health struct {
			Download struct {
				Active bool `json:"active"`
			} `json:"download"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
			return false
		}
		return health.Download.Active
	}, 5*time.Second, 50*time.Millisecond)

	// A second download must be refused while the first is live.
	conflictResp := postJSON(t, server.URL+"/download", downloadPayload("One Piece"))
	assert.Equal(t, http.StatusConflict, conflictResp.StatusCode)
	conflictResp.Body.Close()

	cancelResp := postJSON(t, server.URL+"/download/cancel", "")
	assert.Equal(t, http.StatusOK, cancelResp.StatusCode)
	cancelResp.Body.Close()

	select {
	case result := <-done:
		// A cancelled run's stream ends without a complete event.
		for _, ev := range result.events {
			assert.False(t, ev.IsComplete())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled stream did not terminate")
	}

	require.Eventually(t, func() bool {
		records, err := repo.FindByStatus(domain.StatusCancelled)
		return err == nil && len(records) == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestAPI_ServesEmbeddedUI(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<html")
}
