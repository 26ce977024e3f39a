package service_test

import (
	"fmt"
	"testing"
	"time"

	appErrors "github.com/ReeceHarding/leadify-sub002/internal/errors"
	"github.com/ReeceHarding/leadify-sub002/internal/model"
	"github.com/ReeceHarding/leadify-sub002/internal/platform"
	"github.com/ReeceHarding/leadify-sub002/internal/service"
)

// --- Mock repositories ---

type MockMonitorRepo struct {
	monitors []*model.Monitor
	logs     []*model.MonitorCheckLog
	posts    map[string]bool
}

func (m *MockMonitorRepo) GetByCampaignID(campaignID int) (*model.Monitor, error) {
	for _, mon := range m.monitors {
		if mon.CampaignID == campaignID {
			return mon, nil
		}
	}
	return nil, nil
}

func (m *MockMonitorRepo) Upsert(mon *model.Monitor) error {
	mon.ID = len(m.monitors) + 1
	m.monitors = append(m.monitors, mon)
	return nil
}

func (m *MockMonitorRepo) SelectDue(now time.Time) ([]*model.Monitor, error) {
	due := []*model.Monitor{}
	for _, mon := range m.monitors {
		if mon.Enabled && !mon.NextCheckAt.After(now) {
			due = append(due, mon)
		}
	}
	return due, nil
}

func (m *MockMonitorRepo) Update(mon *model.Monitor) error { return nil }

func (m *MockMonitorRepo) AppendCheckLog(entry *model.MonitorCheckLog) error {
	entry.ID = len(m.logs) + 1
	m.logs = append(m.logs, entry)
	return nil
}

func (m *MockMonitorRepo) InsertPost(p *model.MonitorPost) (bool, error) {
	if m.posts == nil {
		m.posts = map[string]bool{}
	}
	key := fmt.Sprintf("%d:%s", p.MonitorID, p.PostID)
	if m.posts[key] {
		return false, nil
	}
	m.posts[key] = true
	return true, nil
}

type MockCampaignRepo struct {
	campaigns map[int]*model.Campaign
}

func (m *MockCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return c, nil
}

func (m *MockCampaignRepo) Create(c *model.Campaign) error              { return nil }
func (m *MockCampaignRepo) UpdateStatus(campaignID int, s string) error { return nil }

// FixedDiscoverer returns the same posts for every pair.
type FixedDiscoverer struct {
	posts []model.Candidate
	calls int
}

func (d *FixedDiscoverer) Discover(keyword, community string, opts platform.DiscoverOptions) ([]model.Candidate, error) {
	d.calls++
	out := []model.Candidate{}
	for _, p := range d.posts {
		p.Keyword = keyword
		p.Community = community
		out = append(out, p)
	}
	return out, nil
}

// --- Tests ---

func TestRecordCheckEmptyResult(t *testing.T) {
	repo := &MockMonitorRepo{}
	svc := &service.MonitorService{MonitorRepo: repo}

	lastFound := time.Date(2025, 5, 30, 8, 0, 0, 0, time.UTC)
	m := &model.Monitor{
		ID:              1,
		CheckFrequency:  model.Freq1Hour,
		LastPostFoundAt: &lastFound,
		LastAPIReset:    time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		TotalChecks:     4,
	}
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	err := svc.RecordCheck(m, model.CheckResult{PostsFound: 0, APICallsUsed: 2, Success: true}, now)
	if err != nil {
		t.Fatal(err)
	}

	if want := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC); !m.NextCheckAt.Equal(want) {
		t.Errorf("expected nextCheckAt %v, got %v", want, m.NextCheckAt)
	}
	if m.ConsecutiveEmptyChecks != 1 {
		t.Errorf("expected 1 consecutive empty check, got %d", m.ConsecutiveEmptyChecks)
	}
	if !m.LastPostFoundAt.Equal(lastFound) {
		t.Error("lastPostFoundAt must not move on an empty check")
	}
	if m.TotalChecks != 5 {
		t.Errorf("expected totalChecks 5, got %d", m.TotalChecks)
	}
	if m.APICallsToday != 2 {
		t.Errorf("expected 2 api calls today, got %d", m.APICallsToday)
	}
	if len(repo.logs) != 1 || repo.logs[0].Status != "ok" {
		t.Fatalf("expected one ok ledger entry, got %+v", repo.logs)
	}
}

func TestRecordCheckPostsFound(t *testing.T) {
	repo := &MockMonitorRepo{}
	svc := &service.MonitorService{MonitorRepo: repo}

	m := &model.Monitor{
		ID:                     1,
		CheckFrequency:         model.Freq30Min,
		ConsecutiveEmptyChecks: 7,
		LastAPIReset:           time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	if err := svc.RecordCheck(m, model.CheckResult{PostsFound: 3, NewPostsAdded: 2, Success: true}, now); err != nil {
		t.Fatal(err)
	}

	if m.ConsecutiveEmptyChecks != 0 {
		t.Errorf("expected empty-check streak reset, got %d", m.ConsecutiveEmptyChecks)
	}
	if m.LastPostFoundAt == nil || !m.LastPostFoundAt.Equal(now) {
		t.Errorf("expected lastPostFoundAt %v, got %v", now, m.LastPostFoundAt)
	}
	if m.TotalPostsFound != 3 {
		t.Errorf("expected totalPostsFound 3, got %d", m.TotalPostsFound)
	}
}

func TestRecordCheckFailureStillAdvancesSchedule(t *testing.T) {
	repo := &MockMonitorRepo{}
	svc := &service.MonitorService{MonitorRepo: repo}

	m := &model.Monitor{ID: 1, CheckFrequency: model.Freq1Hour, LastAPIReset: time.Now()}
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	if err := svc.RecordCheck(m, model.CheckResult{Success: false, Error: "discovery unavailable"}, now); err != nil {
		t.Fatal(err)
	}

	if want := now.Add(time.Hour); !m.NextCheckAt.Equal(want) {
		t.Error("a failed check must still advance nextCheckAt")
	}
	if len(repo.logs) != 1 {
		t.Fatal("expected a ledger entry for the failed check")
	}
	if repo.logs[0].Status != "failed" || repo.logs[0].Error != "discovery unavailable" {
		t.Errorf("unexpected ledger entry: %+v", repo.logs[0])
	}
}

func TestRunSweepSelectsOnlyDueMonitors(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	repo := &MockMonitorRepo{
		monitors: []*model.Monitor{
			{ID: 1, CampaignID: 1, Enabled: true, CheckFrequency: model.Freq1Hour, NextCheckAt: now.Add(-time.Minute), LastAPIReset: now},
			{ID: 2, CampaignID: 1, Enabled: false, CheckFrequency: model.Freq1Hour, NextCheckAt: now.Add(-time.Hour), LastAPIReset: now},
			{ID: 3, CampaignID: 1, Enabled: true, CheckFrequency: model.Freq1Hour, NextCheckAt: now.Add(time.Hour), LastAPIReset: now},
		},
	}
	svc := &service.MonitorService{
		MonitorRepo: repo,
		CampaignRepo: &MockCampaignRepo{campaigns: map[int]*model.Campaign{
			1: {ID: 1, Keywords: []string{"ci"}, TargetCommunities: []string{"devops"}},
		}},
		Discoverer: &FixedDiscoverer{posts: []model.Candidate{{Recipient: "alice", PostID: "t3_1"}}},
	}

	result, err := svc.RunSweep(now)
	if err != nil {
		t.Fatal(err)
	}

	if result.Checked != 1 {
		t.Errorf("expected exactly the one due monitor checked, got %d", result.Checked)
	}
	if result.Found != 1 {
		t.Errorf("expected 1 new post found, got %d", result.Found)
	}
}

func TestRunSweepIsolatesMonitorFailures(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	repo := &MockMonitorRepo{
		monitors: []*model.Monitor{
			{ID: 1, CampaignID: 99, Enabled: true, CheckFrequency: model.Freq1Hour, NextCheckAt: now.Add(-time.Minute), LastAPIReset: now},
			{ID: 2, CampaignID: 1, Enabled: true, CheckFrequency: model.Freq1Hour, NextCheckAt: now.Add(-time.Minute), LastAPIReset: now},
		},
	}
	svc := &service.MonitorService{
		MonitorRepo: repo,
		CampaignRepo: &MockCampaignRepo{campaigns: map[int]*model.Campaign{
			1: {ID: 1, Keywords: []string{"ci"}, TargetCommunities: []string{"devops"}},
		}},
		Discoverer: &FixedDiscoverer{posts: []model.Candidate{{Recipient: "alice", PostID: "t3_1"}}},
	}

	result, err := svc.RunSweep(now)
	if err != nil {
		t.Fatal(err)
	}

	// Campaign 99 does not exist, so monitor 1 fails; monitor 2 must still
	// run and both checks must be recorded.
	if result.Checked != 2 {
		t.Errorf("expected both monitors processed, got %d", result.Checked)
	}
	if result.Found != 1 {
		t.Errorf("expected the healthy monitor's post counted, got %d", result.Found)
	}

	statuses := map[string]int{}
	for _, entry := range repo.logs {
		statuses[entry.Status]++
	}
	if statuses["failed"] != 1 || statuses["ok"] != 1 {
		t.Errorf("expected one failed and one ok ledger entry, got %v", statuses)
	}
}

// recordingDiscoverer returns fixed posts per keyword and records the
// cursor each call was given.
type recordingDiscoverer struct {
	postsByKeyword map[string][]model.Candidate
	cursors        map[string][]string
}

func (d *recordingDiscoverer) Discover(keyword, community string, opts platform.DiscoverOptions) ([]model.Candidate, error) {
	if d.cursors == nil {
		d.cursors = map[string][]string{}
	}
	d.cursors[keyword] = append(d.cursors[keyword], opts.AfterID)
	out := []model.Candidate{}
	for _, p := range d.postsByKeyword[keyword] {
		p.Keyword = keyword
		p.Community = community
		out = append(out, p)
	}
	return out, nil
}

func TestSweepCursorsAreIndependentPerKeyword(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	repo := &MockMonitorRepo{
		monitors: []*model.Monitor{
			{ID: 1, CampaignID: 1, Enabled: true, CheckFrequency: model.Freq1Hour, NextCheckAt: now.Add(-time.Minute), LastAPIReset: now},
		},
	}
	discoverer := &recordingDiscoverer{
		postsByKeyword: map[string][]model.Candidate{
			"ci":     {{Recipient: "alice", PostID: "t3_1"}},
			"builds": {{Recipient: "bob", PostID: "t3_2"}},
		},
	}
	svc := &service.MonitorService{
		MonitorRepo: repo,
		CampaignRepo: &MockCampaignRepo{campaigns: map[int]*model.Campaign{
			1: {ID: 1, Keywords: []string{"ci", "builds"}, TargetCommunities: []string{"devops"}},
		}},
		Discoverer: discoverer,
	}

	if _, err := svc.RunSweep(now); err != nil {
		t.Fatal(err)
	}

	// The second keyword scans the same community from its own cursor, not
	// from the position the first keyword already advanced to.
	if got := discoverer.cursors["builds"][0]; got != "" {
		t.Errorf("expected an empty initial cursor for the second keyword, got %q", got)
	}

	if _, err := svc.RunSweep(now.Add(2 * time.Hour)); err != nil {
		t.Fatal(err)
	}

	if got := discoverer.cursors["ci"][1]; got != "t3_1" {
		t.Errorf("expected ci to resume from its own last post, got %q", got)
	}
	if got := discoverer.cursors["builds"][1]; got != "t3_2" {
		t.Errorf("expected builds to resume from its own last post, got %q", got)
	}
}

func TestUpsertMonitorInitializesSchedule(t *testing.T) {
	repo := &MockMonitorRepo{}
	svc := &service.MonitorService{MonitorRepo: repo}

	before := time.Now()
	m, err := svc.UpsertMonitor(1, 1, true, model.Freq2Hours, 0)
	if err != nil {
		t.Fatal(err)
	}

	earliest := before.Add(2 * time.Hour)
	if m.NextCheckAt.Before(earliest.Add(-time.Second)) {
		t.Errorf("expected nextCheckAt around now + 2h, got %v", m.NextCheckAt)
	}
}
