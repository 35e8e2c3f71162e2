package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/alternativa-centar/site/internal/logging"
	mailer "github.com/alternativa-centar/site/internal/mail"
	"github.com/alternativa-centar/site/internal/mq"
	"github.com/alternativa-centar/site/types"
	"github.com/sirupsen/logrus"
)

const contactSubject = "Nova prijava"

// NeighborhoodTitles resolves a neighborhood slug to its display title.
type NeighborhoodTitles interface {
	TitleFor(ctx context.Context, value string) (string, error)
}

// ContactDispatcher hands an accepted submission to whatever delivers it.
type ContactDispatcher interface {
	Dispatch(ctx context.Context, submission types.ContactSubmission) error
}

// ContactService validates contact form submissions and dispatches them.
type ContactService struct {
	titles     NeighborhoodTitles
	dispatcher ContactDispatcher
	now        func() time.Time
	log        logrus.FieldLogger
}

func NewContactService(titles NeighborhoodTitles, dispatcher ContactDispatcher) *ContactService {
	return &ContactService{
		titles:     titles,
		dispatcher: dispatcher,
		now:        time.Now,
		log:        logrus.StandardLogger(),
	}
}

func (s *ContactService) Submit(ctx context.Context, submission types.ContactSubmission) error {
	submission.Name = strings.TrimSpace(submission.Name)
	submission.Email = strings.TrimSpace(submission.Email)
	submission.Phone = strings.TrimSpace(submission.Phone)
	submission.Neighborhood = strings.TrimSpace(submission.Neighborhood)
	submission.Comment = strings.TrimSpace(submission.Comment)

	if submission.Name == "" || submission.Email == "" || submission.Phone == "" {
		return invalid("Name, email and phone are required")
	}
	if _, err := mail.ParseAddress(submission.Email); err != nil {
		return invalid("Invalid email address")
	}

	if submission.Neighborhood != "" {
		title, err := s.titles.TitleFor(ctx, submission.Neighborhood)
		if err != nil {
			logging.FromContext(ctx, s.log).WithError(err).
				WithField("neighborhood", submission.Neighborhood).
				Warn("neighborhood lookup failed, mailing the raw value")
		}
		submission.NeighborhoodTitle = title
	}
	submission.SubmittedAt = s.now()

	return s.dispatcher.Dispatch(ctx, submission)
}

// MailDispatcher sends submissions straight to the configured recipient.
type MailDispatcher struct {
	mailer   mailer.Mailer
	from     string
	to       string
	location *time.Location
}

func NewMailDispatcher(m mailer.Mailer, from, to string) *MailDispatcher {
	location, err := time.LoadLocation("Europe/Belgrade")
	if err != nil {
		location = time.Local
	}
	return &MailDispatcher{mailer: m, from: from, to: to, location: location}
}

func (d *MailDispatcher) Dispatch(ctx context.Context, submission types.ContactSubmission) error {
	return d.mailer.Send(ctx, mailer.Message{
		From:    d.from,
		To:      d.to,
		ReplyTo: submission.Email,
		Subject: contactSubject,
		Text:    RenderContactEmail(submission, d.location),
	})
}

// QueueDispatcher publishes submissions for the mail worker.
type QueueDispatcher struct {
	queue *mq.MQ
	topic string
}

func NewQueueDispatcher(queue *mq.MQ, topic string) *QueueDispatcher {
	return &QueueDispatcher{queue: queue, topic: topic}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, submission types.ContactSubmission) error {
	if _, err := d.queue.PublishJSON(ctx, d.topic, submission); err != nil {
		return fmt.Errorf("queue contact submission: %w", err)
	}
	return nil
}

// RenderContactEmail formats the plain-text notification for a submission.
func RenderContactEmail(submission types.ContactSubmission, location *time.Location) string {
	if location == nil {
		location = time.UTC
	}

	var b strings.Builder
	b.WriteString("NOVA PRIJAVA\n")
	b.WriteString("--------------------------\n")
	fmt.Fprintf(&b, "Ime i prezime: %s\n", submission.Name)
	fmt.Fprintf(&b, "Email: %s\n", submission.Email)
	fmt.Fprintf(&b, "Broj telefona: %s\n", submission.Phone)
	if submission.Neighborhood != "" {
		title := submission.NeighborhoodTitle
		if title == "" {
			title = submission.Neighborhood
		}
		fmt.Fprintf(&b, "Mesna zajednica: %s\n", title)
	}
	if submission.Comment != "" {
		fmt.Fprintf(&b, "Dodatni komentar ili pitanje: %s\n", submission.Comment)
	}
	b.WriteString("--------------------------\n")
	fmt.Fprintf(&b, "Poslato: %s\n", submission.SubmittedAt.In(location).Format("02.01.2006. 15:04:05"))
	return b.String()
}
