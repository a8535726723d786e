package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EmailQueue is the queue every outbound email goes through. Publishing and
// delivery are decoupled so a slow SMTP server never blocks a request.
const EmailQueue = "email_jobs"

const (
	TemplateAccessCode       = "access_code"
	TemplateVerificationLink = "verification_link"
	TemplatePasswordReset    = "password_reset"
	TemplateNotification     = "notification"
)

// EmailJob is the queue payload for one outbound email.
type EmailJob struct {
	To       string `json:"to"`
	Template string `json:"template"`
	Code     string `json:"code,omitempty"`
	Link     string `json:"link,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Content  string `json:"content,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

type Notifier interface {
	Enqueue(ctx context.Context, job EmailJob) error
}

type EmailSender interface {
	SendAccessCode(email, code string) error
	SendVerificationLink(email, link string) error
	SendPasswordReset(email, link string) error
	SendNotification(email, subject, content string) error
}

// NotificationService owns both ends of the email queue: services enqueue
// jobs through it, and its consumer drains them into SMTP.
type NotificationService struct {
	publisher Publisher
	sender    EmailSender
}

func NewNotificationService(publisher Publisher, sender EmailSender) *NotificationService {
	return &NotificationService{
		publisher: publisher,
		sender:    sender,
	}
}

func (s *NotificationService) Enqueue(ctx context.Context, job EmailJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal email job: %w", err)
	}
	return s.publisher.Publish(ctx, EmailQueue, body)
}

// Notify queues a free-form notification email.
func (s *NotificationService) Notify(ctx context.Context, to, subject, content string) error {
	return s.Enqueue(ctx, EmailJob{
		To:       to,
		Template: TemplateNotification,
		Subject:  subject,
		Content:  content,
	})
}

// HandleJob delivers a single dequeued email job.
func (s *NotificationService) HandleJob(body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("failed to unmarshal email job: %w", err)
	}

	switch job.Template {
	case TemplateAccessCode:
		return s.sender.SendAccessCode(job.To, job.Code)
	case TemplateVerificationLink:
		return s.sender.SendVerificationLink(job.To, job.Link)
	case TemplatePasswordReset:
		return s.sender.SendPasswordReset(job.To, job.Link)
	case TemplateNotification:
		return s.sender.SendNotification(job.To, job.Subject, job.Content)
	default:
		return fmt.Errorf("unknown email template: %s", job.Template)
	}
}

// Run drains the email queue until the channel closes. Malformed jobs are
// dropped; SMTP failures are requeued once and then dropped.
func (s *NotificationService) Run(deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		if err := s.HandleJob(d.Body); err != nil {
			log.Printf("Failed to deliver email job: %v", err)
			d.Nack(false, !d.Redelivered)
			continue
		}
		d.Ack(false)
	}
	log.Println("Email consumer stopped")
}
