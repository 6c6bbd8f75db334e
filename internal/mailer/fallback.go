package mailer

import "log/slog"

// FallbackMailer tries the primary transport and falls back to the
// secondary when it fails. Used for worker confirmations: a broken SMTP
// relay should downgrade to a simulated send instead of failing the
// registration.
type FallbackMailer struct {
	primary  Mailer
	fallback Mailer
	logger   *slog.Logger
}

func NewFallbackMailer(primary, fallback Mailer, logger *slog.Logger) *FallbackMailer {
	return &FallbackMailer{primary: primary, fallback: fallback, logger: logger}
}

func (m *FallbackMailer) Send(msg Message) error {
	if err := m.primary.Send(msg); err != nil {
		m.logger.Warn("primary mailer failed, using fallback", "error", err, "to", msg.To)
		return m.fallback.Send(msg)
	}
	return nil
}
