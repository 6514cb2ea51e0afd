package feed

import (
	"github.com/abhisek/quizfeed/internal/config"
	"github.com/abhisek/quizfeed/internal/store"
)

// NewFetcher creates the HTTP fetcher for cfg wrapped with middleware.
// With a nil store only retry is applied.
func NewFetcher(cfg config.Config, st *store.Store) Fetcher {
	var f Fetcher = NewHTTPFetcher(cfg.Feed)

	// Wrap with middleware: caller → cache → retry → logging → base
	if st != nil {
		f = WithLogging(f, st.EventRepo())
	}
	f = WithRetry(f, cfg.Feed.Retry)
	if st != nil && cfg.Cache.Enabled {
		f = WithCache(f, st.PayloadRepo(), st.EventRepo(), cfg.Cache.Keep)
	}
	return f
}
