package mockfeed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizfeed/internal/feedparse"
)

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestSamplePayloadParsesStrictly(t *testing.T) {
	res := feedparse.Parse(string(SamplePayload()))
	assert.Equal(t, feedparse.StageStrict, res.Stage)
	assert.Len(t, res.Questions, 4)
}

func TestCorruptionsStillRecover(t *testing.T) {
	for _, mode := range Corruptions {
		t.Run(string(mode), func(t *testing.T) {
			body := Corrupt(SamplePayload(), mode)
			assert.NotEqual(t, SamplePayload(), body)

			res := feedparse.Parse(string(body))
			assert.True(t, res.OK(), "stage %s", res.Stage)
			assert.NotEqual(t, feedparse.StageStrict, res.Stage)
		})
	}
}

func TestEmbeddedQuotesRecoverText(t *testing.T) {
	res := feedparse.Parse(string(Corrupt(SamplePayload(), CorruptEmbeddedQuotes)))
	require.Len(t, res.Questions, 4)
	assert.Equal(t, `What does the verb "fetch" mean?`, res.Questions[1].Text)
}

func TestParseCorruption(t *testing.T) {
	m, err := ParseCorruption("bom")
	require.NoError(t, err)
	assert.Equal(t, CorruptBOM, m)

	m, err = ParseCorruption("none")
	require.NoError(t, err)
	assert.Equal(t, CorruptNone, m)

	_, err = ParseCorruption("gzip")
	assert.Error(t, err)
}

func TestServerServesFeed(t *testing.T) {
	srv := httptest.NewServer(NewServer(Options{}))
	t.Cleanup(srv.Close)

	resp, body := get(t, srv, FeedPath)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, string(SamplePayload()), body)

	resp, body = get(t, srv, FeedPath+"?corrupt=truncated")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Less(t, len(body), len(SamplePayload()))

	resp, _ = get(t, srv, FeedPath+"?corrupt=zip")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, srv, "/healthz")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = get(t, srv, "/elsewhere")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServerFailureRate(t *testing.T) {
	s := NewServer(Options{FailureRate: 1})
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	resp, _ := get(t, srv, FeedPath)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
	assert.Equal(t, 1, s.Hits())
}

func TestServerRejectsPost(t *testing.T) {
	srv := httptest.NewServer(NewServer(Options{}))
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+FeedPath, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
