package delivery_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/healthreport/pkg/delivery"
	"github.com/dmitrymomot/healthreport/pkg/email"
	"github.com/dmitrymomot/healthreport/pkg/report"
	"github.com/dmitrymomot/healthreport/pkg/runner"
	"github.com/dmitrymomot/healthreport/pkg/schedule"
	"github.com/dmitrymomot/healthreport/pkg/storage/memory"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

type failingRenderer struct {
	err error
}

func (f failingRenderer) Render(context.Context, report.Payload, time.Time) (string, error) {
	return "", f.err
}

func (f failingRenderer) RenderBody(context.Context, report.Payload, time.Time) (string, error) {
	return "", f.err
}

var fixedNow = time.Date(2024, time.March, 30, 8, 30, 0, 0, time.UTC)

func seed(t *testing.T) (*memory.Store, uuid.UUID) {
	t.Helper()

	store := memory.New()
	id := uuid.New()
	store.PutAccount(report.Account{UserID: id, Username: "Jane Doe", FullName: "Jane Doe", Email: "jane@example.com"})
	for i := range 3 {
		require.NoError(t, store.AddRecord(context.Background(), id, report.Record{
			Date:       fixedNow.AddDate(0, 0, -i),
			HeartRate:  70 + i,
			SleepHours: 7.5,
			Steps:      8000,
		}))
	}
	return store, id
}

func newMailer(t *testing.T, store *memory.Store, sender email.EmailSender, opts ...delivery.Option) *delivery.Mailer {
	t.Helper()

	builder, err := report.NewBuilder(store)
	require.NoError(t, err)
	opts = append([]delivery.Option{delivery.WithClock(func() time.Time { return fixedNow })}, opts...)
	m, err := delivery.NewMailer(builder, report.NewRenderer(), sender, opts...)
	require.NoError(t, err)
	return m
}

func TestNewMailer(t *testing.T) {
	t.Parallel()

	store := memory.New()
	builder, err := report.NewBuilder(store)
	require.NoError(t, err)
	renderer := report.NewRenderer()
	sender := &MockEmailSender{}

	_, err = delivery.NewMailer(nil, renderer, sender)
	assert.ErrorIs(t, err, delivery.ErrBuilderNil)
	_, err = delivery.NewMailer(builder, nil, sender)
	assert.ErrorIs(t, err, delivery.ErrRendererNil)
	_, err = delivery.NewMailer(builder, renderer, nil)
	assert.ErrorIs(t, err, delivery.ErrSenderNil)

	m, err := delivery.NewMailer(builder, renderer, sender)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestMailer_Deliver(t *testing.T) {
	t.Parallel()

	store, id := seed(t)
	sender := &MockEmailSender{}
	sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendEmailParams) bool {
		if len(p.Attachments) != 1 {
			return false
		}
		a := p.Attachments[0]
		return p.SendTo == "reports@example.com" &&
			p.Subject == "Your Health Report (Mar 24, 2024 - Mar 30, 2024)" &&
			p.Tag == delivery.DefaultTag &&
			strings.Contains(p.BodyHTML, "is attached") &&
			a.Filename == "health_report_jane-doe_20240330.html" &&
			a.ContentType == "text/html; charset=utf-8" &&
			strings.Contains(string(a.Content), "Generated on Mar 30, 2024 08:30") &&
			p.Validate() == nil
	})).Return(nil).Once()

	m := newMailer(t, store, sender)
	err := m.Deliver(context.Background(), runner.Request{UserID: id, Recipient: "reports@example.com", RangeDays: schedule.RangeWeek})
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestMailer_Tag(t *testing.T) {
	t.Parallel()

	store, id := seed(t)
	sender := &MockEmailSender{}
	sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendEmailParams) bool {
		return p.Tag == "weekly-digest"
	})).Return(nil).Once()

	m := newMailer(t, store, sender, delivery.WithTag("weekly-digest"))
	require.NoError(t, m.Deliver(context.Background(), runner.Request{UserID: id, Recipient: "jane@example.com", RangeDays: schedule.RangeMonth}))
	sender.AssertExpectations(t)
}

func TestMailer_DeliverErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown account", func(t *testing.T) {
		t.Parallel()
		store, _ := seed(t)
		sender := &MockEmailSender{}
		m := newMailer(t, store, sender)

		err := m.Deliver(context.Background(), runner.Request{UserID: uuid.New(), Recipient: "x@example.com", RangeDays: schedule.RangeWeek})
		assert.ErrorIs(t, err, runner.ErrDeliveryFailed)
		assert.ErrorIs(t, err, delivery.ErrBuildFailed)
		assert.ErrorIs(t, err, report.ErrAccountNotFound)
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})

	t.Run("render failure", func(t *testing.T) {
		t.Parallel()
		store, id := seed(t)
		builder, err := report.NewBuilder(store)
		require.NoError(t, err)
		sender := &MockEmailSender{}
		m, err := delivery.NewMailer(builder, failingRenderer{err: errors.New("template broke")}, sender)
		require.NoError(t, err)

		err = m.Deliver(context.Background(), runner.Request{UserID: id, Recipient: "x@example.com", RangeDays: schedule.RangeWeek})
		assert.ErrorIs(t, err, runner.ErrDeliveryFailed)
		assert.ErrorIs(t, err, delivery.ErrRenderFailed)
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})

	t.Run("send failure", func(t *testing.T) {
		t.Parallel()
		store, id := seed(t)
		sender := &MockEmailSender{}
		sender.On("SendEmail", mock.Anything, mock.Anything).Return(email.ErrFailedToSendEmail).Once()
		m := newMailer(t, store, sender)

		err := m.Deliver(context.Background(), runner.Request{UserID: id, Recipient: "x@example.com", RangeDays: schedule.RangeWeek})
		assert.ErrorIs(t, err, runner.ErrDeliveryFailed)
		assert.ErrorIs(t, err, delivery.ErrSendFailed)
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
		sender.AssertExpectations(t)
	})
}

func TestEndToEnd_ScheduledReportIsSentOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, id := seed(t)

	configuredAt := time.Date(2024, time.March, 30, 7, 0, 0, 0, time.UTC)
	svc, err := schedule.NewService(store, schedule.WithClock(func() time.Time { return configuredAt }))
	require.NoError(t, err)
	_, err = svc.CreateDefault(ctx, id)
	require.NoError(t, err)
	cfg, err := svc.Configure(ctx, id, schedule.Input{
		Enabled:   true,
		Frequency: "daily",
		TimeOfDay: "08:00",
		RangeDays: 7,
	})
	require.NoError(t, err)
	require.NotNil(t, cfg.NextDueAt)

	sender := &MockEmailSender{}
	sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendEmailParams) bool {
		return p.SendTo == "jane@example.com"
	})).Return(nil).Once()

	r, err := runner.New(store, newMailer(t, store, sender))
	require.NoError(t, err)

	res, err := r.RunOnce(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)

	res, err = r.RunOnce(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Sent)
	assert.Equal(t, 1, res.NotDue)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.LastSentAt)
	assert.True(t, fixedNow.Equal(*got.LastSentAt))
	assert.Equal(t, time.Date(2024, time.March, 31, 8, 0, 0, 0, time.UTC), got.NextDueAt.UTC())
	sender.AssertExpectations(t)
}
