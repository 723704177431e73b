// Package notifier dispatches user notifications. Dispatch is queued and
// asynchronous: enqueueing never fails the originating request and a failed
// delivery never rolls back the mutation that triggered it.
package notifier

import (
	"context"
	"log"
	"sync"

	"github.com/hiyona/orgflow-api/internal/models"
	"github.com/hiyona/orgflow-api/internal/repository"
)

// TaskAssignedEvent is fired when a task gains a new assignee.
type TaskAssignedEvent struct {
	Task         models.Task
	Assignee     models.User
	AssignerName string
}

// UserInvitedEvent is fired when an invitation is created.
type UserInvitedEvent struct {
	Invitation       models.Invitation
	OrganizationName string
	AcceptURL        string
}

// Notifier defines the interface for sending notifications.
type Notifier interface {
	NotifyTaskAssigned(ctx context.Context, e TaskAssignedEvent) error
	NotifyUserInvited(ctx context.Context, e UserInvitedEvent) error
}

// NoopNotifier is a no-op implementation used in tests.
type NoopNotifier struct{}

func (NoopNotifier) NotifyTaskAssigned(context.Context, TaskAssignedEvent) error { return nil }
func (NoopNotifier) NotifyUserInvited(context.Context, UserInvitedEvent) error   { return nil }

// QueueNotifier delivers notifications from a background worker. The
// database channel is always recorded for users; mail is sent only when the
// recipient opted in. Mail transport is a log boundary here.
type QueueNotifier struct {
	notifRepo repository.NotificationRepository
	queue     chan func()
	wg        sync.WaitGroup
	once      sync.Once
}

// NewQueueNotifier creates a QueueNotifier with the given queue capacity.
func NewQueueNotifier(notifRepo repository.NotificationRepository, buffer int) *QueueNotifier {
	return &QueueNotifier{
		notifRepo: notifRepo,
		queue:     make(chan func(), buffer),
	}
}

// Start launches the delivery worker.
func (n *QueueNotifier) Start() {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for job := range n.queue {
			job()
		}
	}()
	log.Println("Notification worker started")
}

// Close drains the queue and stops the worker.
func (n *QueueNotifier) Close() {
	n.once.Do(func() {
		close(n.queue)
	})
	n.wg.Wait()
}

// enqueue hands a job to the worker without blocking the caller. When the
// buffer is full the event is logged and dropped, trading at-least-once
// delivery for never stalling the originating request.
func (n *QueueNotifier) enqueue(job func()) {
	select {
	case n.queue <- job:
	default:
		log.Println("notification queue full, dropping event")
	}
}

// NotifyTaskAssigned records a database notification for the assignee and
// mails them when their preference allows it.
func (n *QueueNotifier) NotifyTaskAssigned(_ context.Context, e TaskAssignedEvent) error {
	n.enqueue(func() {
		record := &models.Notification{
			UserID: e.Assignee.ID,
			Type:   models.NotificationTaskAssigned,
			Data: models.JSONMap{
				"task_id":          e.Task.ID,
				"task_name":        e.Task.Name,
				"task_description": e.Task.Description,
				"assigner_name":    e.AssignerName,
			},
		}
		if err := n.notifRepo.Create(record); err != nil {
			log.Printf("failed to record task_assigned notification for user %d: %v", e.Assignee.ID, err)
		}

		if e.Assignee.EmailNotifications {
			n.sendMail(e.Assignee.Email, "New Task Assigned: "+e.Task.Name)
		}
	})
	return nil
}

// NotifyUserInvited mails the invitee. The invitee has no account yet, so
// there is no database channel for this event.
func (n *QueueNotifier) NotifyUserInvited(_ context.Context, e UserInvitedEvent) error {
	n.enqueue(func() {
		n.sendMail(e.Invitation.Email, "You have been invited to join "+e.OrganizationName)
	})
	return nil
}

func (n *QueueNotifier) sendMail(to, subject string) {
	// Mail delivery mechanics live behind an external provider; log the
	// handoff so operators can trace dispatches.
	log.Printf("mail queued to=%s subject=%q", to, subject)
}
