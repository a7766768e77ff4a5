package browser

import (
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/uicontrols/pkg/models"
)

// RequestTracker records responses observed by a backend. Browser events arrive on driver
// goroutines, so every access is guarded.
type RequestTracker struct {
	mu      sync.Mutex
	methods map[string]string
	records []models.RequestRecord
	limit   int
}

// NewRequestTracker creates a tracker keeping at most limit records (0 = 1000)
func NewRequestTracker(limit int) *RequestTracker {
	if limit <= 0 {
		limit = 1000
	}
	return &RequestTracker{
		methods: make(map[string]string),
		records: make([]models.RequestRecord, 0),
		limit:   limit,
	}
}

// AddRequest remembers the method of an in-flight request
func (t *RequestTracker) AddRequest(id, method string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.methods[id] = method
}

// AddResponse records a completed exchange. id may be empty when the backend supplies method directly.
func (t *RequestTracker) AddResponse(id, method, url string, status int, receivedAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if method == "" {
		method = t.methods[id]
	}
	delete(t.methods, id)

	t.records = append(t.records, models.RequestRecord{
		Method:     method,
		URL:        url,
		Status:     status,
		ObservedAt: receivedAt,
	})
	if len(t.records) > t.limit {
		t.records = t.records[len(t.records)-t.limit:]
	}
}

// Requests returns a copy of the recorded exchanges
func (t *RequestTracker) Requests() []models.RequestRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.RequestRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Matching returns recorded exchanges with the method (empty = any) whose URL contains fragment
func (t *RequestTracker) Matching(method, fragment string) []models.RequestRecord {
	var out []models.RequestRecord
	for _, r := range t.Requests() {
		if method != "" && !strings.EqualFold(r.Method, method) {
			continue
		}
		if strings.Contains(r.URL, fragment) {
			out = append(out, r)
		}
	}
	return out
}
