package mailer

import (
	"fmt"
	"time"

	"github.com/madatlas/madatlas-be/internal/models"
	"github.com/madatlas/madatlas-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const sweepBatchSize = 25

// Sender sends the operator notification for a contact message.
type Sender interface {
	SendContactNotification(msg models.ContactMessage) error
}

// Notifier sweeps the contact message outbox in the background and emails the
// operator about new submissions. Sending is fully decoupled from the request
// path: a stored message whose send fails simply stays in the outbox and is
// retried on the next sweep.
type Notifier struct {
	contacts services.ContactServiceProvider
	sender   Sender
	schedule cron.Schedule
	done     chan bool
}

// NewNotifier creates a notifier sweeping on the given cron expression
// (standard five-field syntax or descriptors like "@every 1m").
func NewNotifier(contacts services.ContactServiceProvider, sender Sender, sweepSchedule string) (*Notifier, error) {
	schedule, err := cron.ParseStandard(sweepSchedule)
	if err != nil {
		return nil, fmt.Errorf("invalid notify schedule %q: %w", sweepSchedule, err)
	}
	return &Notifier{
		contacts: contacts,
		sender:   sender,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the sweep loop. It blocks until Stop is called.
func (n *Notifier) Run() {
	log.Info().Msg("Starting contact notification sweeper")
	for {
		next := n.schedule.Next(time.Now())
		select {
		case <-n.done:
			log.Info().Msg("Stopping contact notification sweeper")
			return
		case <-time.After(time.Until(next)):
			n.sweep()
		}
	}
}

// Stop halts the sweep loop.
func (n *Notifier) Stop() {
	n.done <- true
}

// sweep sends notifications for pending messages and marks the ones that went
// out. Failures are logged and left pending.
func (n *Notifier) sweep() {
	pending, err := n.contacts.Unnotified(sweepBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("Notifier: failed to load pending contact messages")
		return
	}

	for _, msg := range pending {
		if err := n.sender.SendContactNotification(msg); err != nil {
			log.Error().Err(err).Int64("contact_id", msg.ID).Msg("Notifier: failed to send notification")
			continue
		}
		if err := n.contacts.MarkNotified(msg.ID); err != nil {
			log.Error().Err(err).Int64("contact_id", msg.ID).Msg("Notifier: failed to mark message notified")
			continue
		}
		log.Info().Int64("contact_id", msg.ID).Msg("Contact notification sent")
	}
}
