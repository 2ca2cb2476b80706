package performance

import (
	"context"
	"fmt"
	"sort"
	"time"
)

var _ StoreAPI = (*fakeStore)(nil)

// fakeStore keeps records in memory. Function fields override the default
// behaviour when set.
type fakeStore struct {
	kpis    map[string]KPI
	apars   map[string]Appraisal
	users   map[string]bool
	seq     int
	clock   time.Time
	updates int

	UpdateKPIFunc func(ctx context.Context, kpi KPI) (KPI, error)
}

func newFakeStore(users ...string) *fakeStore {
	store := &fakeStore{
		kpis:  map[string]KPI{},
		apars: map[string]Appraisal{},
		users: map[string]bool{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, u := range users {
		store.users[u] = true
	}
	return store
}

func (f *fakeStore) nextID(prefix string) (string, time.Time) {
	f.seq++
	f.clock = f.clock.Add(time.Minute)
	return fmt.Sprintf("%s-%d", prefix, f.seq), f.clock
}

func (f *fakeStore) GetKPI(_ context.Context, id string) (KPI, error) {
	k, ok := f.kpis[id]
	if !ok {
		return KPI{}, ErrNotFound
	}
	return k, nil
}

func (f *fakeStore) ListKPIs(_ context.Context, filter KPIFilter) ([]KPI, error) {
	var out []KPI
	for _, k := range f.kpis {
		if filter.OwnerID != "" && k.AssignedTo != filter.OwnerID {
			continue
		}
		if filter.Status != "" && k.Status != filter.Status {
			continue
		}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) CreateKPI(_ context.Context, k KPI) (KPI, error) {
	k.ID, k.CreatedAt = f.nextID("kpi")
	k.UpdatedAt = k.CreatedAt
	f.kpis[k.ID] = k
	return k, nil
}

func (f *fakeStore) UpdateKPI(ctx context.Context, k KPI) (KPI, error) {
	if f.UpdateKPIFunc != nil {
		return f.UpdateKPIFunc(ctx, k)
	}
	if _, ok := f.kpis[k.ID]; !ok {
		return KPI{}, ErrNotFound
	}
	f.updates++
	f.kpis[k.ID] = k
	return k, nil
}

func (f *fakeStore) DeleteKPI(_ context.Context, id string) error {
	if _, ok := f.kpis[id]; !ok {
		return ErrNotFound
	}
	delete(f.kpis, id)
	return nil
}

func (f *fakeStore) CompletedKPIScores(_ context.Context, ownerID string) ([]float64, error) {
	var scores []float64
	for _, k := range f.kpis {
		if k.AssignedTo == ownerID && k.Status == KPIStatusCompleted {
			scores = append(scores, k.Score)
		}
	}
	return scores, nil
}

func (f *fakeStore) GetAppraisal(_ context.Context, id string) (Appraisal, error) {
	a, ok := f.apars[id]
	if !ok {
		return Appraisal{}, ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) ListAppraisals(_ context.Context, filter AparFilter) ([]Appraisal, error) {
	var out []Appraisal
	for _, a := range f.apars {
		if filter.OwnerID != "" && a.EmployeeID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Year > 0 && a.Year != filter.Year {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) CreateAppraisal(_ context.Context, a Appraisal) (Appraisal, error) {
	a.ID, a.CreatedAt = f.nextID("apar")
	a.UpdatedAt = a.CreatedAt
	f.apars[a.ID] = a
	return a, nil
}

func (f *fakeStore) UpdateAppraisal(_ context.Context, a Appraisal) (Appraisal, error) {
	if _, ok := f.apars[a.ID]; !ok {
		return Appraisal{}, ErrNotFound
	}
	f.updates++
	f.apars[a.ID] = a
	return a, nil
}

func (f *fakeStore) UserExists(_ context.Context, userID string) (bool, error) {
	return f.users[userID], nil
}

type recordingNotifier struct {
	sent []string
}

func (n *recordingNotifier) Notify(_ context.Context, userID, ntype, _, _ string) error {
	n.sent = append(n.sent, userID+":"+ntype)
	return nil
}

type stubLocker struct {
	keys     []string
	released int
	err      error
}

func (l *stubLocker) Lock(_ context.Context, key string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.keys = append(l.keys, key)
	return func() { l.released++ }, nil
}
