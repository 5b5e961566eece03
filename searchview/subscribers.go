package searchview

import (
	"github.com/rohanthewiz/logger"

	"solrview/backend"
	"solrview/metrics"
	"solrview/models"
)

// runSearches consumes search changes. Each request runs on its own goroutine
// so a slow response never holds up the next query.
func (v *View) runSearches() {
	defer v.workers.Done()
	for ch := range v.searchCh {
		go v.search(ch)
	}
}

func (v *View) runSuggestions() {
	defer v.workers.Done()
	for ch := range v.suggestCh {
		go v.suggest(ch)
	}
}

func (v *View) search(ch searchChange) {
	defer v.pending.Done()

	docs, err := v.searcher.Search(v.ctx, ch.query)
	if err != nil {
		v.report(backend.EndpointSearch, err)
		return
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	if v.sequencing == SequencingLatest && ch.gen != v.searchGen {
		v.mu.Unlock()
		metrics.StaleResponsesTotal.WithLabelValues(backend.EndpointSearch).Inc()
		logger.Debug("Discarding stale search response", "query", ch.query, "gen", ch.gen)
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}
	v.setResultsLocked(docs)
	rev := v.revision
	v.mu.Unlock()

	v.publish(Event{Kind: EventResults, Revision: rev})
}

func (v *View) suggest(ch suggestChange) {
	defer v.pending.Done()

	list, err := v.searcher.Suggest(v.ctx, ch.field, ch.value)
	if err != nil {
		v.report(backend.EndpointSuggestions, err)
		return
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	if v.sequencing == SequencingLatest && ch.gen != v.suggestGen[ch.field] {
		v.mu.Unlock()
		metrics.StaleResponsesTotal.WithLabelValues(backend.EndpointSuggestions).Inc()
		logger.Debug("Discarding stale suggestions response", "field", string(ch.field), "q", ch.value)
		return
	}
	if list == nil {
		list = []string{}
	}
	v.suggestions[ch.field] = list
	v.revision++
	rev := v.revision
	v.mu.Unlock()

	v.publish(Event{Kind: EventSuggestions, Field: ch.field, Revision: rev})
}

// report records exactly one diagnostic for a failed request.
// Failures caused by Close are not reported.
func (v *View) report(endpoint string, err error) {
	if v.ctx.Err() != nil {
		return
	}

	d := models.Diagnostic{
		SessionID: v.sessionID,
		Endpoint:  endpoint,
		Message:   err.Error(),
	}
	if rf, ok := backend.AsRequestFailure(err); ok {
		d.Endpoint = rf.Endpoint
		d.URL = rf.URL
		d.StatusCode = rf.StatusCode
	}
	v.diag.Record(v.ctx, d)
}
