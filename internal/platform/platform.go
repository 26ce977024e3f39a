// Package platform defines the collaborator interfaces the outreach core
// consumes: content discovery, recipient eligibility, message generation
// and delivery. Real clients live outside this repo; mock implementations
// for local runs and tests are in mock.go.
package platform

import (
	"time"

	"github.com/ReeceHarding/leadify-sub002/internal/model"
)

// DiscoverOptions narrows a discovery query.
type DiscoverOptions struct {
	Limit   int
	AfterID string // last seen post id, for incremental scans
	Since   time.Time
}

// Discoverer searches one community for recent posts matching a keyword.
// Calls may fail individually; callers treat a failure as non-fatal.
type Discoverer interface {
	Discover(keyword, community string, opts DiscoverOptions) ([]model.Candidate, error)
}

// EligibilityChecker answers whether a recipient can currently receive
// outreach (account contactable, not reached through another channel).
type EligibilityChecker interface {
	IsEligible(orgID int, recipient string) (bool, error)
}

// GenerationContext carries everything the text generation service needs
// to personalize one message. Credentials and organization scope are
// explicit here rather than ambient state.
type GenerationContext struct {
	OrganizationID  int
	Template        *model.MessageTemplate
	BusinessProfile *model.BusinessProfile // nil when the org has none
	Candidate       model.Candidate
}

// GeneratedMessage is the personalized output of the generation service.
type GeneratedMessage struct {
	Subject  string
	Body     string
	FollowUp string
}

// MessageGenerator produces a personalized message. Treated as a black
// box; failures are non-fatal per candidate.
type MessageGenerator interface {
	GenerateMessage(ctx GenerationContext) (*GeneratedMessage, error)
}

// SendResult is the delivery outcome for one message.
type SendResult struct {
	Success bool
	Error   string
}

// Sender delivers a direct message on the platform.
type Sender interface {
	Send(orgID int, recipient, subject, body string) (*SendResult, error)
}
