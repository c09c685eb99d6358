package checking

import (
	"context"
	"errors"
	"sort"
	"sync"

	appErr "seminar-reminder/internal/errors"
	"seminar-reminder/internal/model"
	"seminar-reminder/internal/repositories"
)

type fakeSource struct {
	links     []string
	listErr   error
	seminars  map[string]model.Seminar
	fetchErrs map[string]error
	available bool

	mu      sync.Mutex
	fetched []string
	probed  []string
}

func (f *fakeSource) Source() string { return "fake" }

func (f *fakeSource) ListSeminars(context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.links, nil
}

func (f *fakeSource) FetchSeminar(_ context.Context, detailURL string) (model.Seminar, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, detailURL)
	f.mu.Unlock()

	if err := f.fetchErrs[detailURL]; err != nil {
		return model.Seminar{}, err
	}
	s, ok := f.seminars[detailURL]
	if !ok {
		return model.Seminar{}, appErr.NewParse("no seminar content on %s", detailURL)
	}
	return s, nil
}

func (f *fakeSource) RegistrationAvailable(_ context.Context, registerURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probed = append(f.probed, registerURL)
	return f.available
}

// memLedger is an in-memory SeminarLedger; sharing one between services models
// a durable store that outlives a process.
type memLedger struct {
	mu        sync.Mutex
	records   map[string]model.NotificationRecord
	state     map[string]string
	failIDs   map[string]bool
	failState bool
}

func newMemLedger() *memLedger {
	return &memLedger{records: map[string]model.NotificationRecord{}, state: map[string]string{}, failIDs: map[string]bool{}}
}

func (m *memLedger) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[id]
	return ok, nil
}

func (m *memLedger) RecordIfAbsent(_ context.Context, rec model.NotificationRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failIDs[rec.SeminarID] {
		return false, appErr.NewPersistence("record %s: connection reset", rec.SeminarID)
	}
	if _, ok := m.records[rec.SeminarID]; ok {
		return false, nil
	}
	m.records[rec.SeminarID] = rec
	return true, nil
}

func (m *memLedger) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.records)), nil
}

func (m *memLedger) List(context.Context) ([]model.NotificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.NotificationRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeminarID < out[j].SeminarID })
	return out, nil
}

func (m *memLedger) GetState(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failState {
		return "", appErr.NewPersistence("get state: timeout")
	}
	v, ok := m.state[key]
	if !ok {
		return "", repositories.ErrNotFound
	}
	return v, nil
}

func (m *memLedger) SetState(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state[key] = value
	return nil
}

type statusCall struct {
	ref     string
	summary model.RunSummary
}

type fakeNotifier struct {
	mu        sync.Mutex
	sent      []model.Announcement
	sendErr   error
	statuses  []statusCall
	statusRef string
	statusErr error
}

func (f *fakeNotifier) SendSeminar(_ context.Context, a model.Announcement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, a)
	return nil
}

func (f *fakeNotifier) PublishStatus(_ context.Context, ref string, summary model.RunSummary) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, statusCall{ref: ref, summary: summary})
	if f.statusErr != nil {
		return "", f.statusErr
	}
	if f.statusRef == "" {
		return ref, nil
	}
	return f.statusRef, nil
}

func (f *fakeNotifier) sentIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.sent))
	for _, a := range f.sent {
		ids = append(ids, a.Seminar.ID)
	}
	return ids
}

var errBoom = errors.New("boom")
