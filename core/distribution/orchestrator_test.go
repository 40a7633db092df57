package distribution

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"distrofm/model"
)

type fakeReleaseRepo struct {
	releases map[int64]*model.Release
}

func (f *fakeReleaseRepo) CreateRelease(r *model.Release) (int64, error) { return r.ID, nil }
func (f *fakeReleaseRepo) GetReleaseByID(id int64) (*model.Release, error) {
	return f.releases[id], nil
}
func (f *fakeReleaseRepo) GetReleasesByUserID(userID int64) ([]*model.Release, error) {
	return nil, nil
}
func (f *fakeReleaseRepo) UpdateReleaseStatus(id int64, status model.ReleaseStatus) error {
	return nil
}

type fakeTrackRepo struct {
	tracks map[int64][]*model.Track
}

func (f *fakeTrackRepo) CreateTrack(t *model.Track) (int64, error)   { return t.ID, nil }
func (f *fakeTrackRepo) GetTrackByID(id int64) (*model.Track, error) { return nil, nil }
func (f *fakeTrackRepo) GetTracksByReleaseID(releaseID int64) ([]*model.Track, error) {
	return f.tracks[releaseID], nil
}

type fakePlatformRepo struct {
	platforms map[int64]*model.Platform
}

func (f *fakePlatformRepo) GetPlatformByID(id int64) (*model.Platform, error) {
	return f.platforms[id], nil
}
func (f *fakePlatformRepo) GetPlatformByName(name string) (*model.Platform, error) {
	return nil, nil
}
func (f *fakePlatformRepo) GetActivePlatforms() ([]*model.Platform, error) { return nil, nil }

// memDistributionRepo is an in-memory DistributionRepository with the same
// conditional-transition semantics as the store-backed one.
type memDistributionRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]*model.DistributionRecord
}

func newMemDistributionRepo() *memDistributionRepo {
	return &memDistributionRepo{nextID: 1, records: map[int64]*model.DistributionRecord{}}
}

func (m *memDistributionRepo) GetByID(ctx context.Context, id int64) (*model.DistributionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, nil
}

func (m *memDistributionRepo) GetByReleaseAndPlatform(ctx context.Context, releaseID, platformID int64) (*model.DistributionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ReleaseID == releaseID && r.PlatformID == platformID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memDistributionRepo) ListByRelease(ctx context.Context, releaseID int64) ([]*model.DistributionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.DistributionRecord
	for _, r := range m.records {
		if r.ReleaseID == releaseID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memDistributionRepo) Create(ctx context.Context, record *model.DistributionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ReleaseID == record.ReleaseID && r.PlatformID == record.PlatformID {
			return errors.New("duplicate entry for release/platform")
		}
	}
	record.ID = m.nextID
	m.nextID++
	if record.Status == "" {
		record.Status = model.DistributionStatusPending
	}
	copied := *record
	m.records[record.ID] = &copied
	return nil
}

func (m *memDistributionRepo) transition(id int64, from []model.DistributionStatus, apply func(*model.DistributionRecord)) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if r.Status == s {
			apply(r)
			return true, nil
		}
	}
	return false, nil
}

func (m *memDistributionRepo) ResetToPending(ctx context.Context, id int64) (bool, error) {
	return m.transition(id,
		[]model.DistributionStatus{model.DistributionStatusPending, model.DistributionStatusFailed},
		func(r *model.DistributionRecord) {
			r.Status = model.DistributionStatusPending
			r.PlatformReferenceID = nil
			r.DistributedAt = nil
			r.ErrorDetails = nil
		})
}

func (m *memDistributionRepo) BeginProcessing(ctx context.Context, id int64) (bool, error) {
	return m.transition(id,
		[]model.DistributionStatus{model.DistributionStatusPending},
		func(r *model.DistributionRecord) {
			r.Status = model.DistributionStatusProcessing
		})
}

func (m *memDistributionRepo) MarkDistributed(ctx context.Context, id int64, referenceID string, at time.Time) (bool, error) {
	return m.transition(id,
		[]model.DistributionStatus{model.DistributionStatusProcessing},
		func(r *model.DistributionRecord) {
			r.Status = model.DistributionStatusDistributed
			r.PlatformReferenceID = &referenceID
			r.DistributedAt = &at
			r.ErrorDetails = nil
		})
}

func (m *memDistributionRepo) MarkFailed(ctx context.Context, id int64, details string) (bool, error) {
	return m.transition(id,
		[]model.DistributionStatus{model.DistributionStatusPending, model.DistributionStatusProcessing},
		func(r *model.DistributionRecord) {
			r.Status = model.DistributionStatusFailed
			r.PlatformReferenceID = nil
			r.DistributedAt = nil
			r.ErrorDetails = &details
		})
}

// countingGateway records delivery calls and can be told to fail.
type countingGateway struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (g *countingGateway) Deliver(ctx context.Context, platform *model.Platform, release *model.Release, tracks []*model.Track) (*DeliveryResult, error) {
	g.mu.Lock()
	g.calls++
	fail := g.fail
	g.mu.Unlock()
	if fail {
		return nil, errors.New("upstream rejected the delivery")
	}
	return &DeliveryResult{
		ReferenceID: fmt.Sprintf("REF-%d-%d", release.ID, platform.ID),
		URL:         "https://example.com/release",
	}, nil
}

func (g *countingGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func activePlatform(id int64, name string) *model.Platform {
	return &model.Platform{
		ID:       id,
		Name:     name,
		IsActive: true,
		APIKey:   sql.NullString{String: "key", Valid: true},
	}
}

func newTestOrchestrator(platforms map[int64]*model.Platform, gateway PlatformGateway) (*Orchestrator, *memDistributionRepo) {
	records := newMemDistributionRepo()
	releases := &fakeReleaseRepo{releases: map[int64]*model.Release{
		1: {ID: 1, UserID: 1, Title: "Midnight Sessions", Artist: "The Wave Riders", UPC: "123456789012"},
	}}
	tracks := &fakeTrackRepo{tracks: map[int64][]*model.Track{
		1: {{ID: 10, ReleaseID: 1, Title: "Opening", AudioFile: "opening.mp3"}},
	}}
	o := NewOrchestrator(records, &fakePlatformRepo{platforms: platforms}, releases, tracks, gateway, nil)
	return o, records
}

func TestDistributeToPlatformSucceeds(t *testing.T) {
	gateway := &countingGateway{}
	o, records := newTestOrchestrator(map[int64]*model.Platform{2: activePlatform(2, "Spotify")}, gateway)

	result := o.DistributeToPlatform(context.Background(), 1, 2)
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if result.PlatformReferenceID == "" {
		t.Fatal("expected a platform reference id")
	}

	record, _ := records.GetByID(context.Background(), result.DistributionID)
	if record == nil || record.Status != model.DistributionStatusDistributed {
		t.Fatalf("expected distributed record, got %+v", record)
	}
	if record.DistributedAt == nil {
		t.Fatal("expected distributedAt to be set")
	}
}

func TestDistributeToUnknownPlatform(t *testing.T) {
	gateway := &countingGateway{}
	o, records := newTestOrchestrator(map[int64]*model.Platform{}, gateway)

	result := o.DistributeToPlatform(context.Background(), 1, 99)
	if result.Success {
		t.Fatal("expected failure for unknown platform")
	}
	if result.DistributionID != 0 {
		t.Fatal("no record should be created for a referential failure")
	}
	if rec, _ := records.GetByReleaseAndPlatform(context.Background(), 1, 99); rec != nil {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestDistributeToInactivePlatform(t *testing.T) {
	platform := activePlatform(2, "Spotify")
	platform.IsActive = false
	gateway := &countingGateway{}
	o, records := newTestOrchestrator(map[int64]*model.Platform{2: platform}, gateway)

	result := o.DistributeToPlatform(context.Background(), 1, 2)
	if result.Success {
		t.Fatal("expected failure for inactive platform")
	}
	record, _ := records.GetByID(context.Background(), result.DistributionID)
	if record == nil || record.Status != model.DistributionStatusFailed {
		t.Fatalf("expected failed record, got %+v", record)
	}
	if gateway.callCount() != 0 {
		t.Fatal("gateway must not be called for an inactive platform")
	}
}

func TestDistributeWithoutCredentials(t *testing.T) {
	platform := &model.Platform{ID: 2, Name: "Spotify", IsActive: true}
	gateway := &countingGateway{}
	o, _ := newTestOrchestrator(map[int64]*model.Platform{2: platform}, gateway)

	result := o.DistributeToPlatform(context.Background(), 1, 2)
	if result.Success {
		t.Fatal("expected failure without credentials")
	}
	if gateway.callCount() != 0 {
		t.Fatal("gateway must not be called without credentials")
	}
}

func TestRetryAfterFailureReusesRecord(t *testing.T) {
	gateway := &countingGateway{fail: true}
	o, records := newTestOrchestrator(map[int64]*model.Platform{2: activePlatform(2, "Spotify")}, gateway)

	first := o.DistributeToPlatform(context.Background(), 1, 2)
	if first.Success {
		t.Fatal("expected first attempt to fail")
	}
	record, _ := records.GetByID(context.Background(), first.DistributionID)
	if record.Status != model.DistributionStatusFailed {
		t.Fatalf("expected failed record, got %s", record.Status)
	}

	gateway.fail = false
	second := o.DistributeToPlatform(context.Background(), 1, 2)
	if !second.Success {
		t.Fatalf("expected retry to succeed, got: %s", second.Error)
	}
	if second.DistributionID != first.DistributionID {
		t.Fatalf("retry must reuse the record: %d != %d", second.DistributionID, first.DistributionID)
	}
}

func TestDistributedPairIsIdempotent(t *testing.T) {
	gateway := &countingGateway{}
	o, _ := newTestOrchestrator(map[int64]*model.Platform{2: activePlatform(2, "Spotify")}, gateway)

	first := o.DistributeToPlatform(context.Background(), 1, 2)
	second := o.DistributeToPlatform(context.Background(), 1, 2)

	if !first.Success || !second.Success {
		t.Fatalf("expected both calls to succeed: %+v / %+v", first, second)
	}
	if second.PlatformReferenceID != first.PlatformReferenceID {
		t.Fatalf("expected the stored reference id, got %s", second.PlatformReferenceID)
	}
	if gateway.callCount() != 1 {
		t.Fatalf("expected a single delivery, got %d", gateway.callCount())
	}
}

func TestConcurrentDistributeDeliversOnce(t *testing.T) {
	gateway := &countingGateway{}
	o, records := newTestOrchestrator(map[int64]*model.Platform{2: activePlatform(2, "Spotify")}, gateway)

	var wg sync.WaitGroup
	results := make([]model.PerPlatformResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = o.DistributeToPlatform(context.Background(), 1, 2)
		}(i)
	}
	wg.Wait()

	if gateway.callCount() != 1 {
		t.Fatalf("expected exactly one delivery, got %d", gateway.callCount())
	}
	record, _ := records.GetByReleaseAndPlatform(context.Background(), 1, 2)
	if record == nil || record.Status != model.DistributionStatusDistributed {
		t.Fatalf("expected a single distributed record, got %+v", record)
	}

	// Losers either observed the finished record (idempotent success) or
	// backed off with an in-progress error; nobody reports a partial state.
	for _, r := range results {
		if !r.Success && r.Error != "distribution already in progress for this platform" {
			t.Fatalf("unexpected loser error: %s", r.Error)
		}
	}
}

func TestDistributeReleaseKeepsRequestOrder(t *testing.T) {
	gateway := &countingGateway{}
	platforms := map[int64]*model.Platform{
		2: activePlatform(2, "Spotify"),
		3: activePlatform(3, "YouTube"),
	}
	o, _ := newTestOrchestrator(platforms, gateway)

	results := o.DistributeRelease(context.Background(), 1, []int64{3, 99, 2})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].PlatformID != 3 || results[1].PlatformID != 99 || results[2].PlatformID != 2 {
		t.Fatalf("results out of request order: %+v", results)
	}
	if !results[0].Success || results[1].Success || !results[2].Success {
		t.Fatalf("unexpected outcomes: %+v", results)
	}
}
