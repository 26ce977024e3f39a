// internal/service/automation_service.go
package service

import (
	"fmt"
	"log"
	"time"

	"github.com/ReeceHarding/leadify-sub002/internal/dedup"
	"github.com/ReeceHarding/leadify-sub002/internal/model"
	"github.com/ReeceHarding/leadify-sub002/internal/platform"
	"github.com/ReeceHarding/leadify-sub002/internal/ratelimit"
	"github.com/ReeceHarding/leadify-sub002/internal/repository"
)

// Progress checkpoints after each stage.
const (
	progressAfterLoad      = 10
	progressAfterDiscovery = 30
	progressAfterFiltering = 60
	progressAfterSending   = 95
	progressDone           = 100
)

// Stage names as they appear in workflow progress.
const (
	stageLoad     = "load"
	stageDiscover = "discover"
	stageDedup    = "deduplicate"
	stageFilter   = "filter_eligible"
	stageSend     = "generate_and_send"
	stageFinalize = "finalize"
)

// AutomationService drives the fixed six-stage outreach pipeline for one
// automation run: load -> discover -> deduplicate -> filter -> generate &
// send -> finalize. Sends are strictly serial; the only shared mutable
// state (the daily counter) moves through the limiter's atomic reserve.
type AutomationService struct {
	AutomationRepo repository.AutomationRepositoryInterface
	OrgRepo        repository.OrganizationRepositoryInterface
	OutreachRepo   repository.OutreachRepositoryInterface
	ProgressRepo   repository.ProgressRepositoryInterface

	Limiter *ratelimit.Limiter
	Guard   *dedup.Guard

	Discoverer  platform.Discoverer
	Eligibility platform.EligibilityChecker
	Generator   platform.MessageGenerator
	Sender      platform.Sender

	// Backpressure against external rate limits, not busy-waiting.
	EligibilityDelay time.Duration
	SendDelay        time.Duration

	// DiscoverLimit caps candidates per (keyword, community) pair.
	DiscoverLimit int
}

func NewAutomationService(
	automationRepo repository.AutomationRepositoryInterface,
	orgRepo repository.OrganizationRepositoryInterface,
	outreachRepo repository.OutreachRepositoryInterface,
	progressRepo repository.ProgressRepositoryInterface,
	discoverer platform.Discoverer,
	eligibility platform.EligibilityChecker,
	generator platform.MessageGenerator,
	sender platform.Sender,
) *AutomationService {
	return &AutomationService{
		AutomationRepo:   automationRepo,
		OrgRepo:          orgRepo,
		OutreachRepo:     outreachRepo,
		ProgressRepo:     progressRepo,
		Limiter:          &ratelimit.Limiter{History: outreachRepo, Budget: automationRepo},
		Guard:            &dedup.Guard{History: outreachRepo},
		Discoverer:       discoverer,
		Eligibility:      eligibility,
		Generator:        generator,
		Sender:           sender,
		EligibilityDelay: 500 * time.Millisecond,
		SendDelay:        2000 * time.Millisecond,
		DiscoverLimit:    10,
	}
}

// RunAutomation executes one full run and returns the final progress
// document. Only load-stage failures surface as a returned error; every
// later failure is absorbed into per-candidate records and counters.
func (s *AutomationService) RunAutomation(automationID int) (*model.WorkflowProgress, error) {
	progress := &model.WorkflowProgress{
		AutomationID: automationID,
		Status:       model.RunInProgress,
		Stages:       []model.StageResult{},
		StartedAt:    time.Now(),
	}
	s.saveProgress(progress)

	// Stage 1: load. Missing automation, template or organization aborts
	// the run; a missing business profile only degrades personalization.
	progress.CurrentStage = stageLoad
	automation, err := s.AutomationRepo.GetByID(automationID)
	if err != nil {
		return progress, s.failRun(progress, fmt.Errorf("loading automation: %w", err))
	}
	if !automation.IsActive {
		return progress, s.failRun(progress, fmt.Errorf("automation %d is not active", automationID))
	}
	template, err := s.OrgRepo.GetTemplate(automation.TemplateID)
	if err != nil {
		return progress, s.failRun(progress, fmt.Errorf("loading template: %w", err))
	}
	org, err := s.OrgRepo.GetByID(automation.OrganizationID)
	if err != nil {
		return progress, s.failRun(progress, fmt.Errorf("loading organization: %w", err))
	}
	profile, err := s.OrgRepo.GetBusinessProfile(org.ID)
	if err != nil {
		log.Printf("⚠️ business profile unavailable for org %d, personalization degraded: %v", org.ID, err)
		profile = nil
	}
	s.recordStage(progress, stageLoad, true,
		fmt.Sprintf("loaded automation %q with template %q", automation.Name, template.Name),
		progressAfterLoad)

	// Stage 2: discover.
	progress.CurrentStage = stageDiscover
	candidates := s.discoverCandidates(automation)
	progress.TotalUsersFound = len(candidates)
	s.recordStage(progress, stageDiscover, true,
		fmt.Sprintf("discovered %d candidates across %d keywords and %d communities",
			len(candidates), len(automation.Keywords), len(automation.TargetCommunities)),
		progressAfterDiscovery)

	// Stage 3: deduplicate. Fail closed: a recipient whose history cannot
	// be read is dropped, never optimistically kept.
	progress.CurrentStage = stageDedup
	fresh := s.dedupCandidates(automation.OrganizationID, candidates)
	s.recordStage(progress, stageDedup, true,
		fmt.Sprintf("%d of %d candidates not previously contacted", len(fresh), len(candidates)),
		progressAfterDiscovery)

	// Stage 4: filter eligible.
	progress.CurrentStage = stageFilter
	eligible := s.filterEligible(automation, fresh)
	progress.TotalUsersAnalyzed = len(fresh)
	s.recordStage(progress, stageFilter, true,
		fmt.Sprintf("%d of %d candidates eligible for outreach", len(eligible), len(fresh)),
		progressAfterFiltering)

	// Stage 5: generate & send.
	progress.CurrentStage = stageSend
	stopped := s.sendToCandidates(automation, template, profile, eligible, progress)
	if stopped {
		// Rewrite the terminal stop document with this run's counters; the
		// stop request's own write may have been overwritten by a progress
		// save that was already in flight.
		progress.Status = model.RunCompleted
		progress.Error = "stopped by user request"
		progress.Progress = progressDone
		s.saveProgress(progress)
		return progress, nil
	}
	s.recordStage(progress, stageSend, true,
		fmt.Sprintf("sent %d, failed %d", progress.TotalDMsSent, progress.TotalDMsFailed),
		progressAfterSending)

	// Stage 6: finalize. Quality ratio is reporting-only.
	progress.CurrentStage = stageFinalize
	quality := 0.0
	if len(candidates) > 0 {
		quality = float64(len(eligible)) / float64(len(candidates))
	}
	progress.Status = model.RunCompleted
	s.recordStage(progress, stageFinalize, true,
		fmt.Sprintf("run complete, quality ratio %.2f", quality),
		progressDone)

	return progress, nil
}

// discoverCandidates queries every (keyword, community) pair in
// keyword-major, community-minor order. Per-pair failures are logged and
// skipped.
func (s *AutomationService) discoverCandidates(a *model.Automation) []model.Candidate {
	candidates := []model.Candidate{}
	for _, keyword := range a.Keywords {
		for _, community := range a.TargetCommunities {
			found, err := s.Discoverer.Discover(keyword, community, platform.DiscoverOptions{Limit: s.DiscoverLimit})
			if err != nil {
				log.Printf("⚠️ discovery failed for %q in %s: %v", keyword, community, err)
				continue
			}
			candidates = append(candidates, found...)
		}
	}
	return candidates
}

// dedupCandidates drops already-contacted recipients and collapses the
// rest to one entry per recipient. First discovered wins, which is
// deterministic because discovery order is fixed.
func (s *AutomationService) dedupCandidates(orgID int, candidates []model.Candidate) []model.Candidate {
	seen := map[string]bool{}
	fresh := []model.Candidate{}
	for _, c := range candidates {
		if seen[c.Recipient] {
			continue
		}
		seen[c.Recipient] = true

		contacted, err := s.Guard.AlreadyContacted(orgID, c.Recipient)
		if err != nil {
			log.Printf("⚠️ dedup check failed for %s, dropping candidate: %v", c.Recipient, err)
			continue
		}
		if contacted {
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh
}

// filterEligible asks the platform whether each candidate can receive
// outreach, with a fixed delay between checks. A failed check excludes the
// candidate rather than aborting the run.
func (s *AutomationService) filterEligible(a *model.Automation, candidates []model.Candidate) []model.Candidate {
	eligible := []model.Candidate{}
	for i, c := range candidates {
		if s.runCancelled(a.ID) {
			log.Printf("🛑 automation %d stopped during eligibility filtering", a.ID)
			break
		}
		if i > 0 {
			time.Sleep(s.EligibilityDelay)
		}
		ok, err := s.Eligibility.IsEligible(a.OrganizationID, c.Recipient)
		if err != nil {
			log.Printf("⚠️ eligibility check failed for %s, excluding: %v", c.Recipient, err)
			continue
		}
		if ok {
			eligible = append(eligible, c)
		}
	}
	return eligible
}

// sendToCandidates runs the serialized send loop. Returns true when an
// external stop terminated the run. Budget exhaustion is a normal stop,
// not an error. A budget slot consumed by a failed generation is accepted
// loss.
func (s *AutomationService) sendToCandidates(
	a *model.Automation,
	template *model.MessageTemplate,
	profile *model.BusinessProfile,
	eligible []model.Candidate,
	progress *model.WorkflowProgress,
) bool {
	now := time.Now()
	limit := min(ratelimit.RemainingDailyBudget(a, now), len(eligible))

	for i := 0; i < limit; i++ {
		c := eligible[i]

		if s.runCancelled(a.ID) {
			log.Printf("🛑 automation %d stopped between candidates", a.ID)
			return true
		}

		// Community cooldown: one send per community per window. A
		// candidate inside the window is skipped, not failed, and costs
		// no budget.
		allowed, retryAt, err := s.Limiter.CanPostToCommunity(a.OrganizationID, c.Community, time.Now())
		if err != nil {
			log.Printf("⚠️ cooldown state unreadable for %s, skipping %s: %v", c.Community, c.Recipient, err)
			s.recordSkip(a, c, "cooldown state unavailable")
			continue
		}
		if !allowed {
			s.recordSkip(a, c, fmt.Sprintf("community %s in cooldown until %s", c.Community, retryAt.UTC().Format(time.RFC3339)))
			continue
		}

		// Atomic budget reservation. A false here means the daily cap is
		// reached and the run stops sending.
		reserved, err := s.Limiter.Reserve(a.ID, time.Now())
		if err != nil {
			log.Printf("⚠️ budget reservation unavailable for automation %d, stopping sends: %v", a.ID, err)
			break
		}
		if !reserved {
			log.Printf("⏹ automation %d daily limit reached after %d sends", a.ID, progress.TotalDMsSent)
			break
		}

		generated, err := s.Generator.GenerateMessage(platform.GenerationContext{
			OrganizationID:  a.OrganizationID,
			Template:        template,
			BusinessProfile: profile,
			Candidate:       c,
		})
		if err != nil {
			// The reserved slot is not refunded.
			log.Printf("⚠️ message generation failed for %s: %v", c.Recipient, err)
			s.recordFailure(a, c, "", "", fmt.Sprintf("generation failed: %v", err))
			progress.TotalDMsFailed++
			s.saveProgress(progress)
			continue
		}

		// The pending record exists before the send attempt so a crash
		// mid-send still leaves an auditable row.
		msg := &model.OutreachMessage{
			AutomationID:   a.ID,
			OrganizationID: a.OrganizationID,
			UserID:         a.UserID,
			Recipient:      c.Recipient,
			SourcePostID:   c.PostID,
			Community:      c.Community,
			Subject:        generated.Subject,
			Body:           generated.Body,
			Status:         model.DMPending,
		}
		if err := s.OutreachRepo.CreateMessage(msg); err != nil {
			log.Printf("⚠️ failed to create outreach record for %s: %v", c.Recipient, err)
			progress.TotalDMsFailed++
			s.saveProgress(progress)
			continue
		}

		result, err := s.Sender.Send(a.OrganizationID, c.Recipient, generated.Subject, generated.Body)
		if err != nil || !result.Success {
			reason := "send failed"
			if err != nil {
				reason = err.Error()
			} else if result.Error != "" {
				reason = result.Error
			}
			if markErr := s.OutreachRepo.MarkFailed(msg.ID, reason); markErr != nil {
				log.Printf("⚠️ failed to mark message %d failed: %v", msg.ID, markErr)
			}
			progress.TotalDMsFailed++
			s.saveProgress(progress)
			continue
		}

		sentAt := time.Now()
		if err := s.OutreachRepo.MarkSent(msg.ID, sentAt); err != nil {
			log.Printf("⚠️ failed to mark message %d sent: %v", msg.ID, err)
		}
		if err := s.OutreachRepo.AppendHistory(&model.OutreachHistory{
			OrganizationID: a.OrganizationID,
			AutomationID:   a.ID,
			Recipient:      c.Recipient,
			Community:      c.Community,
			SourcePostID:   c.PostID,
			SentAt:         sentAt,
		}); err != nil {
			log.Printf("⚠️ failed to append outreach history for %s: %v", c.Recipient, err)
		}
		progress.TotalDMsSent++
		s.saveProgress(progress)

		if i < limit-1 {
			time.Sleep(s.SendDelay)
		}
	}
	return false
}

// StopAutomation cooperatively cancels a run: the progress document is
// finalized with an explanatory message and the automation is deactivated.
// Work already started on the current candidate is allowed to finish.
func (s *AutomationService) StopAutomation(automationID int) error {
	progress, err := s.ProgressRepo.Get(automationID)
	if err != nil {
		return err
	}
	if progress == nil {
		progress = &model.WorkflowProgress{
			AutomationID: automationID,
			Stages:       []model.StageResult{},
			StartedAt:    time.Now(),
		}
	}
	progress.Status = model.RunCompleted
	progress.Error = "stopped by user request"
	progress.Progress = progressDone
	if err := s.ProgressRepo.Save(progress); err != nil {
		return err
	}
	return s.AutomationRepo.SetActive(automationID, false)
}

// GetProgress returns the stored progress for polling, or nil when the
// automation has never run.
func (s *AutomationService) GetProgress(automationID int) (*model.WorkflowProgress, error) {
	return s.ProgressRepo.Get(automationID)
}

// GetOutreachStats returns the outreach message counts by status for an
// automation.
func (s *AutomationService) GetOutreachStats(automationID int) (map[string]int, error) {
	return s.OutreachRepo.StatsByStatus(automationID)
}

// runCancelled reports whether an external stop was requested. The stored
// progress document alone is not enough: the run's own saves race with the
// stop's terminal write and can clobber it. The deactivation flag is never
// written by the run, so it survives that race.
func (s *AutomationService) runCancelled(automationID int) bool {
	if p, err := s.ProgressRepo.Get(automationID); err == nil && p != nil && p.Terminal() {
		return true
	}
	a, err := s.AutomationRepo.GetByID(automationID)
	if err != nil {
		return false
	}
	return !a.IsActive
}

// recordSkip writes a skipped outreach record for audit; skips cost no
// budget and do not count as failures.
func (s *AutomationService) recordSkip(a *model.Automation, c model.Candidate, reason string) {
	msg := &model.OutreachMessage{
		AutomationID:   a.ID,
		OrganizationID: a.OrganizationID,
		UserID:         a.UserID,
		Recipient:      c.Recipient,
		SourcePostID:   c.PostID,
		Community:      c.Community,
		Status:         model.DMSkipped,
		LastError:      reason,
	}
	if err := s.OutreachRepo.CreateMessage(msg); err != nil {
		log.Printf("⚠️ failed to record skipped candidate %s: %v", c.Recipient, err)
	}
}

// recordFailure writes a failed outreach record for a candidate that never
// reached the send attempt.
func (s *AutomationService) recordFailure(a *model.Automation, c model.Candidate, subject, body, reason string) {
	msg := &model.OutreachMessage{
		AutomationID:   a.ID,
		OrganizationID: a.OrganizationID,
		UserID:         a.UserID,
		Recipient:      c.Recipient,
		SourcePostID:   c.PostID,
		Community:      c.Community,
		Subject:        subject,
		Body:           body,
		Status:         model.DMFailed,
		LastError:      reason,
	}
	if err := s.OutreachRepo.CreateMessage(msg); err != nil {
		log.Printf("⚠️ failed to record failed candidate %s: %v", c.Recipient, err)
	}
}

func (s *AutomationService) recordStage(p *model.WorkflowProgress, step string, success bool, message string, pct int) {
	p.Stages = append(p.Stages, model.StageResult{
		Step:     step,
		Success:  success,
		Message:  message,
		Progress: pct,
	})
	p.Progress = pct
	s.saveProgress(p)
}

// failRun finalizes the progress document with error status and returns
// the original error for the caller.
func (s *AutomationService) failRun(p *model.WorkflowProgress, err error) error {
	p.Stages = append(p.Stages, model.StageResult{
		Step:     p.CurrentStage,
		Success:  false,
		Message:  err.Error(),
		Progress: p.Progress,
	})
	p.Status = model.RunError
	p.Error = err.Error()
	s.saveProgress(p)
	return err
}

func (s *AutomationService) saveProgress(p *model.WorkflowProgress) {
	if err := s.ProgressRepo.Save(p); err != nil {
		log.Printf("⚠️ failed to save workflow progress for automation %d: %v", p.AutomationID, err)
	}
}
