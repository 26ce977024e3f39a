// internal/service/monitor_service.go
package service

import (
	"fmt"
	"log"
	"time"

	"github.com/ReeceHarding/leadify-sub002/internal/model"
	"github.com/ReeceHarding/leadify-sub002/internal/platform"
	"github.com/ReeceHarding/leadify-sub002/internal/repository"
)

// MonitorService owns monitor records: due selection, the per-monitor
// check against the discovery collaborator, and the post-check bookkeeping.
type MonitorService struct {
	MonitorRepo  repository.MonitorRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
	Discoverer   platform.Discoverer

	// DiscoverLimit caps how many posts one discovery call may return.
	DiscoverLimit int
}

// SweepResult summarizes one pass over all due monitors.
type SweepResult struct {
	Checked int `json:"checked"`
	Found   int `json:"found"`
}

// GetMonitor returns the monitor for a campaign, or nil when none exists.
func (s *MonitorService) GetMonitor(campaignID int) (*model.Monitor, error) {
	return s.MonitorRepo.GetByCampaignID(campaignID)
}

// UpsertMonitor creates or reconfigures the single monitor for a campaign.
// On creation next_check_at starts at now + frequency; reconfiguring never
// moves an existing schedule.
func (s *MonitorService) UpsertMonitor(campaignID, orgID int, enabled bool, frequency string, priority int) (*model.Monitor, error) {
	if frequency == "" {
		frequency = model.Freq1Hour
	}
	m := &model.Monitor{
		CampaignID:     campaignID,
		OrganizationID: orgID,
		Enabled:        enabled,
		CheckFrequency: frequency,
		Priority:       priority,
		SourceCursors:  map[string]string{},
		NextCheckAt:    time.Now().Add(model.FrequencyDuration(frequency)),
	}
	if err := s.MonitorRepo.Upsert(m); err != nil {
		return nil, err
	}
	return m, nil
}

// RunSweep processes every due monitor once. Monitors are independent: a
// failure on one is recorded on that monitor and never aborts the rest.
func (s *MonitorService) RunSweep(now time.Time) (*SweepResult, error) {
	due, err := s.MonitorRepo.SelectDue(now)
	if err != nil {
		return nil, fmt.Errorf("selecting due monitors: %w", err)
	}

	result := &SweepResult{}
	for _, m := range due {
		check := s.checkMonitor(m, now)
		if !check.Success {
			log.Printf("⚠️ monitor %d check failed: %s", m.ID, check.Error)
		}
		if err := s.RecordCheck(m, check, now); err != nil {
			log.Printf("⚠️ failed to record check for monitor %d: %v", m.ID, err)
			continue
		}
		result.Checked++
		result.Found += check.NewPostsAdded
	}
	return result, nil
}

func cursorKey(keyword, community string) string {
	return keyword + "|" + community
}

// checkMonitor runs one incremental scan over the campaign's keyword ×
// community pairs. A discovery failure on one pair is logged and skipped;
// only a missing campaign fails the whole check.
func (s *MonitorService) checkMonitor(m *model.Monitor, now time.Time) model.CheckResult {
	campaign, err := s.CampaignRepo.GetByID(m.CampaignID)
	if err != nil {
		return model.CheckResult{Success: false, Error: err.Error()}
	}

	result := model.CheckResult{Success: true}
	if m.SourceCursors == nil {
		m.SourceCursors = map[string]string{}
	}

	for _, keyword := range campaign.Keywords {
		for _, community := range campaign.TargetCommunities {
			// One cursor per (keyword, community) pair: keywords scan the
			// same community independently, so sharing a cursor between
			// them would skip posts matched by only the later keyword.
			cursor := cursorKey(keyword, community)
			opts := platform.DiscoverOptions{
				Limit:   s.DiscoverLimit,
				AfterID: m.SourceCursors[cursor],
			}
			result.APICallsUsed++
			posts, err := s.Discoverer.Discover(keyword, community, opts)
			if err != nil {
				log.Printf("⚠️ discovery failed for monitor %d (%s in %s): %v", m.ID, keyword, community, err)
				continue
			}

			result.PostsFound += len(posts)
			for _, p := range posts {
				inserted, err := s.MonitorRepo.InsertPost(&model.MonitorPost{
					MonitorID: m.ID,
					PostID:    p.PostID,
					Community: p.Community,
					Keyword:   p.Keyword,
					Author:    p.Recipient,
					Title:     p.PostTitle,
					URL:       p.PostURL,
					PostedAt:  p.CreatedAt,
					FoundAt:   now,
				})
				if err != nil {
					log.Printf("⚠️ failed to record post %s for monitor %d: %v", p.PostID, m.ID, err)
					continue
				}
				if inserted {
					result.NewPostsAdded++
				}
				// Discover returns posts oldest first, so the last post
				// seen is the newest.
				m.SourceCursors[cursor] = p.PostID
			}
		}
	}
	return result
}

// RecordCheck applies one check outcome to the monitor and appends the
// ledger entry. A failed check still advances next_check_at so a broken
// monitor does not spin; it is never retried inside the same sweep.
func (s *MonitorService) RecordCheck(m *model.Monitor, result model.CheckResult, now time.Time) error {
	checkedAt := now
	m.LastCheckAt = &checkedAt
	m.NextCheckAt = now.Add(model.FrequencyDuration(m.CheckFrequency))
	m.TotalChecks++
	m.TotalPostsFound += result.PostsFound

	if result.PostsFound == 0 {
		m.ConsecutiveEmptyChecks++
	} else {
		m.ConsecutiveEmptyChecks = 0
		m.LastPostFoundAt = &checkedAt
	}

	// Roll the API counters over day and month boundaries (UTC).
	lastReset := m.LastAPIReset.UTC()
	nowUTC := now.UTC()
	if lastReset.Year() != nowUTC.Year() || lastReset.YearDay() != nowUTC.YearDay() {
		m.APICallsToday = 0
		m.LastAPIReset = now
	}
	if lastReset.Year() != nowUTC.Year() || lastReset.Month() != nowUTC.Month() {
		m.APICallsMonth = 0
	}
	m.APICallsToday += result.APICallsUsed
	m.APICallsMonth += result.APICallsUsed

	status := "ok"
	if !result.Success {
		status = "failed"
	}
	entry := &model.MonitorCheckLog{
		MonitorID:     m.ID,
		Status:        status,
		PostsFound:    result.PostsFound,
		NewPostsAdded: result.NewPostsAdded,
		APICallsUsed:  result.APICallsUsed,
		Error:         result.Error,
		CheckedAt:     now,
	}
	if err := s.MonitorRepo.AppendCheckLog(entry); err != nil {
		log.Printf("⚠️ failed to append check log for monitor %d: %v", m.ID, err)
	}

	return s.MonitorRepo.Update(m)
}
