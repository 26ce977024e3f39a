package queue_test

import (
	"sync"
	"testing"

	"github.com/ReeceHarding/leadify-sub002/internal/model"
	"github.com/ReeceHarding/leadify-sub002/internal/queue"
)

// MockRunner records which automations were run
type MockRunner struct {
	mu  sync.Mutex
	ran []int
	wg  sync.WaitGroup
}

func (m *MockRunner) RunAutomation(automationID int) (*model.WorkflowProgress, error) {
	m.mu.Lock()
	m.ran = append(m.ran, automationID)
	m.mu.Unlock()
	m.wg.Done()
	return &model.WorkflowProgress{
		AutomationID: automationID,
		Status:       model.RunCompleted,
	}, nil
}

func TestAutomationRunSubscriber(t *testing.T) {
	q := queue.NewInMemoryQueue()
	runner := &MockRunner{}
	runner.wg.Add(1)

	queue.StartAutomationRunSubscriber(q, runner)

	// Subscribe happens on a goroutine; publish until a handler is
	// registered.
	for q.Publish("automation_runs", 42) != nil {
	}

	runner.wg.Wait()

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if len(runner.ran) != 1 || runner.ran[0] != 42 {
		t.Errorf("expected automation 42 run once, got %v", runner.ran)
	}
}
