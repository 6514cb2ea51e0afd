package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// FetchEventData captures one HTTP attempt against the feed.
type FetchEventData struct {
	URL          string
	Status       int
	Attempt      int
	LatencyMs    int64
	Bytes        int
	FromCache    bool
	Success      bool
	ErrorMessage string
}

// FetchEventRecord is a stored fetch event.
type FetchEventRecord struct {
	FetchEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// ParseEventData captures the outcome of one pipeline run.
type ParseEventData struct {
	RunID            string
	Source           string
	Stage            string
	Rule             string
	Questions        int
	DroppedQuestions int
	DroppedOptions   int
	PayloadBytes     int
}

// ParseEventRecord is a stored parse event.
type ParseEventRecord struct {
	ParseEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// StageCount is the number of parse runs won by a stage.
type StageCount struct {
	Stage string
	Rule  string
	Runs  int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	LLMRequestEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to diagnostic events.
type EventRepo interface {
	// AppendFetch records one feed fetch attempt.
	AppendFetch(ctx context.Context, data FetchEventData) error

	// QueryFetchEvents returns fetch events, newest first.
	QueryFetchEvents(ctx context.Context, opts QueryOpts) ([]FetchEventRecord, error)

	// AppendParse records the outcome of one parse run.
	AppendParse(ctx context.Context, data ParseEventData) error

	// QueryParseEvents returns parse events, newest first.
	QueryParseEvents(ctx context.Context, opts QueryOpts) ([]ParseEventRecord, error)

	// ParseStageCounts groups parse runs by winning stage and rule.
	ParseStageCounts(ctx context.Context) ([]StageCount, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

// Payload is a raw feed body kept for offline play.
type Payload struct {
	ID        int
	URL       string
	FetchedAt time.Time
	Body      []byte
}

// PayloadRepo keeps the most recent raw feed bodies.
type PayloadRepo interface {
	// Save stores a new payload.
	Save(ctx context.Context, p *Payload) error

	// Latest returns the most recent payload for url, or nil if none exist.
	Latest(ctx context.Context, url string) (*Payload, error)

	// Prune deletes all but the N most recent payloads for url.
	Prune(ctx context.Context, url string, keep int) error
}
