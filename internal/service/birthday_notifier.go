package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
	"github.com/noah-isme/sabha-admin-api/pkg/jobs"
)

// BirthdayJobType identifies the notification job on the background queue.
const BirthdayJobType = "birthday.notify"

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

// BirthdayMessage is the payload every channel delivers.
type BirthdayMessage struct {
	Date      string            `json:"date"`
	Count     int               `json:"count"`
	Birthdays []models.Birthday `json:"birthdays"`
}

// Subject renders a one-line summary.
func (m BirthdayMessage) Subject() string {
	if m.Count == 1 {
		return fmt.Sprintf("Birthday today (%s): %s", m.Date, m.Birthdays[0].Name)
	}
	return fmt.Sprintf("%d birthdays today (%s)", m.Count, m.Date)
}

// Text renders one line per student.
func (m BirthdayMessage) Text() string {
	var b strings.Builder
	for _, bd := range m.Birthdays {
		fmt.Fprintf(&b, "%s turns %d", bd.Name, bd.Age)
		if bd.Grade != "" {
			fmt.Fprintf(&b, " (grade %s)", bd.Grade)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// BirthdayChannel delivers a birthday message somewhere.
type BirthdayChannel interface {
	Name() string
	Notify(ctx context.Context, msg BirthdayMessage) error
}

// LogChannel writes the message to the application log.
type LogChannel struct {
	logger *zap.Logger
}

// NewLogChannel builds a log-only channel.
func NewLogChannel(logger *zap.Logger) *LogChannel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogChannel{logger: logger}
}

func (c *LogChannel) Name() string { return "log" }

func (c *LogChannel) Notify(_ context.Context, msg BirthdayMessage) error {
	names := make([]string, 0, len(msg.Birthdays))
	for _, bd := range msg.Birthdays {
		names = append(names, bd.Name)
	}
	c.logger.Info("birthdays today", zap.String("date", msg.Date), zap.Int("count", msg.Count), zap.Strings("students", names))
	return nil
}

type publisher interface {
	Publish(ctx context.Context, channel string, payload interface{}) error
}

// RedisChannel publishes the message as JSON on a pub/sub channel.
type RedisChannel struct {
	pub     publisher
	channel string
}

// NewRedisChannel builds a pub/sub channel.
func NewRedisChannel(pub publisher, channel string) *RedisChannel {
	return &RedisChannel{pub: pub, channel: channel}
}

func (c *RedisChannel) Name() string { return "redis" }

func (c *RedisChannel) Notify(ctx context.Context, msg BirthdayMessage) error {
	return c.pub.Publish(ctx, c.channel, msg)
}

// MailSender hands a prepared message to the mail provider.
type MailSender func(ctx context.Context, m *sgmail.SGMailV3) error

// SendGridChannel emails the message to the configured recipients.
type SendGridChannel struct {
	from *sgmail.Email
	to   []string
	send MailSender
}

// NewSendGridChannel builds an email channel. A nil sender posts to the SendGrid API with key.
func NewSendGridChannel(key, fromName, fromEmail string, to []string, send MailSender) *SendGridChannel {
	if send == nil {
		send = sendGridSender(key)
	}
	return &SendGridChannel{from: sgmail.NewEmail(fromName, fromEmail), to: to, send: send}
}

func sendGridSender(key string) MailSender {
	return func(_ context.Context, m *sgmail.SGMailV3) error {
		req := sendgrid.GetRequest(key, sendGridEndpoint, sendGridHost)
		req.Method = http.MethodPost
		req.Body = sgmail.GetRequestBody(m)
		res, err := sendgrid.API(req)
		if err != nil {
			return fmt.Errorf("sendgrid: %w", err)
		}
		if res.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
		}
		return nil
	}
}

func (c *SendGridChannel) Name() string { return "sendgrid" }

func (c *SendGridChannel) Notify(ctx context.Context, msg BirthdayMessage) error {
	if len(c.to) == 0 {
		return errors.New("sendgrid: no recipients configured")
	}
	return c.send(ctx, c.prepare(msg))
}

func (c *SendGridChannel) prepare(msg BirthdayMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject()
	for _, addr := range c.to {
		p.AddTos(sgmail.NewEmail("", addr))
	}

	text := msg.Text()
	var htmlBody strings.Builder
	htmlBody.WriteString("<ul>")
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		htmlBody.WriteString("<li>" + html.EscapeString(line) + "</li>")
	}
	htmlBody.WriteString("</ul>")

	m := sgmail.NewV3Mail()
	m.SetFrom(c.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", text),
		sgmail.NewContent("text/html", htmlBody.String()),
	)
	return m
}

type birthdayFinder interface {
	On(ctx context.Context, at time.Time) ([]models.Birthday, error)
}

// BirthdayNotifierParams groups notifier dependencies.
type BirthdayNotifierParams struct {
	Birthdays birthdayFinder
	Channels  []BirthdayChannel
	Queue     *jobs.Queue
	Metrics   *MetricsService
	Logger    *zap.Logger
	Location  *time.Location
}

// BirthdayNotifier runs the daily birthday check on the background queue and fans the result out to
// every channel.
type BirthdayNotifier struct {
	birthdays birthdayFinder
	channels  []BirthdayChannel
	queue     *jobs.Queue
	metrics   *MetricsService
	logger    *zap.Logger
	loc       *time.Location
}

// NewBirthdayNotifier constructs the notifier and registers its job handler on the queue.
func NewBirthdayNotifier(params BirthdayNotifierParams) *BirthdayNotifier {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	n := &BirthdayNotifier{
		birthdays: params.Birthdays,
		channels:  params.Channels,
		queue:     params.Queue,
		metrics:   params.Metrics,
		logger:    logger,
		loc:       loc,
	}
	if n.queue != nil {
		n.queue.Register(BirthdayJobType, n.Handle)
	}
	return n
}

// Task returns the scheduler entry that enqueues a check on every tick and once at startup.
func (n *BirthdayNotifier) Task(schedule jobs.Schedule) jobs.Task {
	return jobs.Task{
		Name:       "birthday-check",
		Schedule:   schedule,
		RunOnStart: true,
		Run: func(_ context.Context, now time.Time) error {
			return n.queue.Enqueue(jobs.Job{Type: BirthdayJobType, Payload: now})
		},
	}
}

// Handle processes one birthday job. The payload is the instant the check was scheduled for.
func (n *BirthdayNotifier) Handle(ctx context.Context, job jobs.Job) error {
	at, ok := job.Payload.(time.Time)
	if !ok {
		return fmt.Errorf("birthday job %s: unexpected payload %T", job.ID, job.Payload)
	}
	return n.Notify(ctx, at)
}

// Notify finds the birthdays on the day containing at and delivers them. It fails only when
// every channel fails.
func (n *BirthdayNotifier) Notify(ctx context.Context, at time.Time) error {
	birthdays, err := n.birthdays.On(ctx, at)
	if err != nil {
		return err
	}
	day := at.In(n.loc).Format(query.DateLayout)
	if len(birthdays) == 0 {
		n.logger.Info("no birthdays today", zap.String("date", day))
		return nil
	}
	if len(n.channels) == 0 {
		return nil
	}

	msg := BirthdayMessage{Date: day, Count: len(birthdays), Birthdays: birthdays}
	var errs []error
	for _, ch := range n.channels {
		err := ch.Notify(ctx, msg)
		n.metrics.RecordNotification(ch.Name(), err)
		if err != nil {
			n.logger.Error("birthday notification failed", zap.String("channel", ch.Name()), zap.Error(err))
			errs = append(errs, err)
		}
	}
	if len(errs) == len(n.channels) {
		return fmt.Errorf("all birthday channels failed: %w", errors.Join(errs...))
	}
	return nil
}
