package mail

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// 送信内容
type Message struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP送信。一時的な失敗は指数バックオフで数回までリトライし、
// 試行ごとに email_logs を更新する。
type SMTPMailer struct {
	cfg        SMTPConfig
	dialer     *gomail.Dialer
	logRepo    repo.EmailLogRepository
	log        zerolog.Logger
	maxRetries uint64
}

func NewSMTPMailer(cfg SMTPConfig, logRepo repo.EmailLogRepository, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:        cfg,
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logRepo:    logRepo,
		log:        log,
		maxRetries: 3,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	logID, err := m.logRepo.Create(ctx, model.EmailLog{
		Recipient: msg.To,
		Subject:   msg.Subject,
		Status:    model.EmailStatusPending,
	})
	if err != nil {
		// 記録できなくても送信は試みる
		m.log.Warn().Err(err).Str("to", msg.To).Msg("email log create failed")
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.cfg.From)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	if msg.HTML {
		gm.SetBody("text/html", msg.Body)
	} else {
		gm.SetBody("text/plain", msg.Body)
	}

	attempts := 0
	op := func() error {
		attempts++
		return m.dialer.DialAndSend(gm)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(defaultBackOff(), m.maxRetries),
		ctx,
	)

	sendErr := backoff.Retry(op, policy)

	if logID > 0 {
		status := model.EmailStatusSent
		lastError := ""
		if sendErr != nil {
			status = model.EmailStatusFailed
			lastError = sendErr.Error()
		}
		if err := m.logRepo.Update(ctx, logID, status, attempts, lastError); err != nil {
			m.log.Warn().Err(err).Int64("email_log_id", logID).Msg("email log update failed")
		}
	}

	if sendErr != nil {
		m.log.Error().Err(sendErr).
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Int("attempts", attempts).
			Msg("email send failed")
		return sendErr
	}

	m.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("attempts", attempts).
		Msg("email sent")
	return nil
}

// SMTP未設定の環境用。送った体でログだけ残す。
type NopMailer struct {
	Log zerolog.Logger
}

func (m NopMailer) Send(ctx context.Context, msg Message) error {
	m.Log.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("mailer disabled, skipping send")
	return nil
}

var _ Mailer = (*SMTPMailer)(nil)
var _ Mailer = NopMailer{}

// バックオフの初期値調整用
func defaultBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 30 * time.Second
	return b
}
