package mailer

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SimulatedMailer "delivers" by writing the HTML body to a timestamped
// file under <dir>/correos_enviados. It never returns an error: the
// worst case is a logged write failure, because the callers treat a
// simulated send as confirmation and a raised error here would abort
// registrations in environments without SMTP credentials.
type SimulatedMailer struct {
	dir    string
	logger *slog.Logger
}

func NewSimulatedMailer(dataDir string, logger *slog.Logger) *SimulatedMailer {
	return &SimulatedMailer{
		dir:    filepath.Join(dataDir, "correos_enviados"),
		logger: logger,
	}
}

func (m *SimulatedMailer) Send(msg Message) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		m.logger.Error("simulated send: cannot create directory", "error", err, "dir", m.dir)
		return nil
	}

	tag := sanitizeTag(msg.ArchiveTag)
	if tag == "" {
		tag = sanitizeTag(msg.To)
	}
	name := "correo_" + tag + "_" + time.Now().Format("20060102_150405") + ".html"
	path := filepath.Join(m.dir, name)

	if err := os.WriteFile(path, []byte(msg.HTMLBody), 0o644); err != nil {
		m.logger.Error("simulated send: write failed", "error", err, "file", path)
		return nil
	}

	m.logger.Info("simulated email written", "to", msg.To, "file", path)
	return nil
}

func sanitizeTag(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return -1
		}
	}, s)
}
