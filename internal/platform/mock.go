// internal/platform/mock.go
package platform

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/ReeceHarding/leadify-sub002/internal/model"
)

// MockDiscoverer fabricates candidate posts for local runs.
type MockDiscoverer struct {
	PerPair int // candidates returned per (keyword, community) pair
}

func (d *MockDiscoverer) Discover(keyword, community string, opts DiscoverOptions) ([]model.Candidate, error) {
	n := d.PerPair
	if n == 0 {
		n = 3
	}
	if opts.Limit > 0 && opts.Limit < n {
		n = opts.Limit
	}
	out := make([]model.Candidate, 0, n)
	for i := 0; i < n; i++ {
		id := rand.Intn(100000)
		out = append(out, model.Candidate{
			Recipient: fmt.Sprintf("user_%s_%d", community, id),
			PostID:    fmt.Sprintf("t3_%06x", id),
			PostTitle: fmt.Sprintf("Looking for advice about %s", keyword),
			PostURL:   fmt.Sprintf("https://example.com/r/%s/comments/%06x", community, id),
			Community: community,
			Keyword:   keyword,
			CreatedAt: time.Now().Add(-time.Duration(rand.Intn(120)) * time.Minute),
		})
	}
	return out, nil
}

// MockEligibilityChecker approves ~80% of recipients.
type MockEligibilityChecker struct{}

func (c *MockEligibilityChecker) IsEligible(orgID int, recipient string) (bool, error) {
	return rand.Float64() < 0.8, nil
}

// MockGenerator renders the template with simple placeholder replacement.
type MockGenerator struct{}

func (g *MockGenerator) GenerateMessage(ctx GenerationContext) (*GeneratedMessage, error) {
	if ctx.Template == nil {
		return nil, fmt.Errorf("generation context missing template")
	}
	data := map[string]string{
		"recipient":  ctx.Candidate.Recipient,
		"post_title": ctx.Candidate.PostTitle,
		"community":  ctx.Candidate.Community,
		"keyword":    ctx.Candidate.Keyword,
	}
	if ctx.BusinessProfile != nil {
		data["business_summary"] = ctx.BusinessProfile.Summary
	}
	return &GeneratedMessage{
		Subject:  render(ctx.Template.Subject, data),
		Body:     render(ctx.Template.Body, data),
		FollowUp: render(ctx.Template.FollowUp, data),
	}, nil
}

func render(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		if v == "" {
			v = "<unknown>"
		}
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

// MockSender simulates delivery with 90% success
type MockSender struct{}

func (s *MockSender) Send(orgID int, recipient, subject, body string) (*SendResult, error) {
	if rand.Float64() < 0.9 {
		return &SendResult{Success: true}, nil
	}
	return &SendResult{Success: false, Error: "mock sending failed"}, nil
}

var (
	_ Discoverer         = (*MockDiscoverer)(nil)
	_ EligibilityChecker = (*MockEligibilityChecker)(nil)
	_ MessageGenerator   = (*MockGenerator)(nil)
	_ Sender             = (*MockSender)(nil)
)
