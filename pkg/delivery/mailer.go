package delivery

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/healthreport/pkg/email"
	"github.com/dmitrymomot/healthreport/pkg/logger"
	"github.com/dmitrymomot/healthreport/pkg/report"
	"github.com/dmitrymomot/healthreport/pkg/runner"
)

// DefaultTag marks report emails in the transport.
const DefaultTag = "health-report"

const reportContentType = "text/html; charset=utf-8"

// PayloadBuilder produces the data a report shows.
type PayloadBuilder interface {
	Build(ctx context.Context, userID uuid.UUID, rangeDays int, now time.Time) (report.Payload, error)
}

// Renderer turns a payload into the attached document and the email body.
type Renderer interface {
	Render(ctx context.Context, p report.Payload, generatedAt time.Time) (string, error)
	RenderBody(ctx context.Context, p report.Payload, generatedAt time.Time) (string, error)
}

// Mailer emails a rendered report. It implements runner.Deliverer.
type Mailer struct {
	builder  PayloadBuilder
	renderer Renderer
	sender   email.EmailSender
	logger   *slog.Logger
	clock    func() time.Time
	tag      string
}

var _ runner.Deliverer = (*Mailer)(nil)

// Option configures a Mailer.
type Option func(*Mailer)

func WithLogger(l *slog.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock sets the source of the report's reference instant.
// Use it to pin the deployment timezone: func() time.Time { return time.Now().In(loc) }.
func WithClock(now func() time.Time) Option {
	return func(m *Mailer) {
		if now != nil {
			m.clock = now
		}
	}
}

func WithTag(tag string) Option {
	return func(m *Mailer) {
		m.tag = tag
	}
}

func NewMailer(builder PayloadBuilder, renderer Renderer, sender email.EmailSender, opts ...Option) (*Mailer, error) {
	if builder == nil {
		return nil, ErrBuilderNil
	}
	if renderer == nil {
		return nil, ErrRendererNil
	}
	if sender == nil {
		return nil, ErrSenderNil
	}

	m := &Mailer{
		builder:  builder,
		renderer: renderer,
		sender:   sender,
		logger:   slog.Default(),
		clock:    time.Now,
		tag:      DefaultTag,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(logger.Component("delivery"))
	return m, nil
}

// Deliver builds the report for req, renders it and emails it to req.Recipient.
func (m *Mailer) Deliver(ctx context.Context, req runner.Request) error {
	now := m.clock()

	payload, err := m.builder.Build(ctx, req.UserID, int(req.RangeDays), now)
	if err != nil {
		return errors.Join(runner.ErrDeliveryFailed, ErrBuildFailed, err)
	}

	doc, err := m.renderer.Render(ctx, payload, now)
	if err != nil {
		return errors.Join(runner.ErrDeliveryFailed, ErrRenderFailed, err)
	}
	body, err := m.renderer.RenderBody(ctx, payload, now)
	if err != nil {
		return errors.Join(runner.ErrDeliveryFailed, ErrRenderFailed, err)
	}

	params := email.SendEmailParams{
		SendTo:   req.Recipient,
		Subject:  report.Subject(payload),
		BodyHTML: body,
		Tag:      m.tag,
		Attachments: []email.Attachment{{
			Filename:    report.Filename(payload),
			ContentType: reportContentType,
			Content:     []byte(doc),
		}},
	}
	if err := m.sender.SendEmail(ctx, params); err != nil {
		return errors.Join(runner.ErrDeliveryFailed, ErrSendFailed, err)
	}

	m.logger.DebugContext(ctx, "report email sent",
		logger.UserID(req.UserID),
		logger.Recipient(req.Recipient),
		slog.String("subject", params.Subject),
		slog.Bool("has_data", payload.HasData))
	return nil
}
