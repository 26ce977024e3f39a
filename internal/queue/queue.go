package queue

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ReeceHarding/leadify-sub002/internal/model"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process pub/sub queue with retry, used by the
// server binary. The RabbitMQ worker in cmd/worker covers out-of-process
// runs.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("Job failed (attempt %d/%d): %+v, error: %v\n", job.RetryCount, job.MaxRetries, job.Payload, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("Job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
			return // No requeue
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// AutomationRunner is what the subscriber needs from the automation
// service.
type AutomationRunner interface {
	RunAutomation(automationID int) (*model.WorkflowProgress, error)
}

// StartAutomationRunSubscriber wires the automation_runs topic to the
// orchestrator. A run that ends in error status is not requeued: the final
// progress document already carries the failure and a retry must come from
// a new caller request.
func StartAutomationRunSubscriber(q Queue, runner AutomationRunner) {
	go func() {
		err := q.Subscribe("automation_runs", func(payload any) error {
			automationID, ok := payload.(int)
			if !ok {
				log.Println("⚠️ Invalid payload type, expected int")
				return nil
			}

			log.Println("📩 Processing queued automation run, ID:", automationID)

			progress, err := runner.RunAutomation(automationID)
			if err != nil {
				log.Println("⚠️ Automation run failed to start:", err)
				return nil
			}

			log.Printf("✅ Automation %d finished: status=%s sent=%d failed=%d\n",
				automationID, progress.Status, progress.TotalDMsSent, progress.TotalDMsFailed)
			return nil
		})

		if err != nil {
			log.Println("⚠️ Failed to start subscriber for automation_runs:", err)
		}
	}()
}
