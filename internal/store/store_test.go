package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSequenceIsSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendFetch(ctx, FetchEventData{URL: "http://feed", Status: 200, Attempt: 1, Success: true}))
	require.NoError(t, repo.AppendParse(ctx, ParseEventData{RunID: "run-1", Stage: "strict", Questions: 3}))
	require.NoError(t, repo.AppendFetch(ctx, FetchEventData{URL: "http://feed", Status: 503, Attempt: 2, ErrorMessage: "unavailable"}))

	fetches, err := repo.QueryFetchEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, fetches, 2)
	parses, err := repo.QueryParseEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, parses, 1)

	assert.Equal(t, int64(3), fetches[0].Sequence, "newest first")
	assert.Equal(t, int64(1), fetches[1].Sequence)
	assert.Equal(t, int64(2), parses[0].Sequence)

	assert.Equal(t, 503, fetches[0].Status)
	assert.False(t, fetches[0].Success)
	assert.True(t, fetches[1].Success)
	assert.Equal(t, "run-1", parses[0].RunID)
	assert.WithinDuration(t, time.Now(), parses[0].Timestamp, time.Minute)
}

func TestQueryOpts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.AppendParse(ctx, ParseEventData{RunID: fmt.Sprint(i), Stage: "strict"}))
	}

	limited, err := repo.QueryParseEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "4", limited[0].RunID)

	window, err := repo.QueryParseEvents(ctx, QueryOpts{After: 1, Before: 4})
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, "2", window[0].RunID)
	assert.Equal(t, "1", window[1].RunID)
}

func TestParseStageCounts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, ev := range []ParseEventData{
		{RunID: "a", Stage: "strict"},
		{RunID: "b", Stage: "repair", Rule: "embedded-quotes"},
		{RunID: "c", Stage: "repair", Rule: "embedded-quotes"},
		{RunID: "d", Stage: "strict"},
		{RunID: "e", Stage: "strict"},
	} {
		require.NoError(t, repo.AppendParse(ctx, ev))
	}

	counts, err := repo.ParseStageCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []StageCount{
		{Stage: "strict", Runs: 3},
		{Stage: "repair", Rule: "embedded-quotes", Runs: 2},
	}, counts)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "anthropic", Model: "claude-haiku", Purpose: "explain",
		InputTokens: 100, OutputTokens: 50, LatencyMs: 300, Success: true,
		RequestBody: "[user]\nwhy", ResponseBody: `{"explanation":"because"}`,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "anthropic", Model: "claude-haiku", Purpose: "explain",
		InputTokens: 200, OutputTokens: 10, LatencyMs: 100, ErrorMessage: "rate limited",
	}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	got, err := repo.GetLLMEvent(ctx, events[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `{"explanation":"because"}`, got.ResponseBody)
	assert.True(t, got.Success)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 1)
	assert.Equal(t, LLMUsage{Purpose: "explain", Calls: 2, InputTokens: 300, OutputTokens: 60, AvgLatencyMs: 200}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 1)
	assert.Equal(t, "claude-haiku", byModel[0].Model)
}

func TestPayloadSaveLatestPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.PayloadRepo()
	ctx := context.Background()
	const url = "http://feed/question/"

	p, err := repo.Latest(ctx, url)
	require.NoError(t, err)
	assert.Nil(t, p, "expected nil payload when none exist")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Save(ctx, &Payload{
			URL:       url,
			FetchedAt: base.Add(time.Duration(i) * time.Minute),
			Body:      []byte(fmt.Sprintf(`{"items":[],"n":%d}`, i)),
		}))
	}
	require.NoError(t, repo.Save(ctx, &Payload{URL: "http://other", Body: []byte("x")}))

	p, err = repo.Latest(ctx, url)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, `{"items":[],"n":3}`, string(p.Body))

	require.NoError(t, repo.Prune(ctx, url, 2))
	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM payloads WHERE url = ?`, url).Scan(&n))
	assert.Equal(t, 2, n)

	other, err := repo.Latest(ctx, "http://other")
	require.NoError(t, err)
	assert.NotNil(t, other, "prune is scoped to one url")
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EventRepo().AppendFetch(ctx, FetchEventData{URL: "u"}))
	require.NoError(t, s.PayloadRepo().Save(ctx, &Payload{URL: "u", Body: []byte("{}")}))
	require.NoError(t, s.Reset(ctx))

	fetches, err := s.EventRepo().QueryFetchEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, fetches)
	p, err := s.PayloadRepo().Latest(ctx, "u")
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, s.EventRepo().AppendFetch(ctx, FetchEventData{URL: "u"}))
	fetches, err = s.EventRepo().QueryFetchEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, fetches, 1)
	assert.Equal(t, int64(2), fetches[0].Sequence)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QUIZFEED_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, dir+"/quizfeed/quizfeed.db", p)
	assert.DirExists(t, dir+"/quizfeed")

	t.Setenv("QUIZFEED_DB", dir+"/custom/x.db")
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, dir+"/custom/x.db", p)
}
