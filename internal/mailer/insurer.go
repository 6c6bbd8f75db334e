package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"time"
)

// InsurerSender mails a batch export to the insurance company. It
// satisfies the batch service's mailer contract: nil means the message
// was handed off, so the caller may confirm the batch.
type InsurerSender struct {
	mailer    Mailer
	recipient string
	logger    *slog.Logger
}

func NewInsurerSender(m Mailer, recipient string, logger *slog.Logger) *InsurerSender {
	return &InsurerSender{mailer: m, recipient: recipient, logger: logger}
}

var insurerTemplate = template.Must(template.New("insurer").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<p>Estimados,</p>
<p>Adjuntamos la nómina de nuevos registros del Seguro Complementario.</p>
<ul>
<li><strong>Número de lote:</strong> {{.BatchID}}</li>
<li><strong>Registros incluidos:</strong> {{.Count}}</li>
<li><strong>Fecha de envío:</strong> {{.Date}}</li>
</ul>
<p>Saludos cordiales,<br>Recursos Humanos</p>
</body>
</html>
`))

func (s *InsurerSender) SendBatchExport(batchID, attachmentPath string, registrationCount int) error {
	var buf bytes.Buffer
	err := insurerTemplate.Execute(&buf, struct {
		BatchID string
		Count   int
		Date    string
	}{
		BatchID: batchID,
		Count:   registrationCount,
		Date:    time.Now().Format("02-01-2006"),
	})
	if err != nil {
		return fmt.Errorf("failed to render insurer email: %w", err)
	}

	err = s.mailer.Send(Message{
		To:         s.recipient,
		Subject:    fmt.Sprintf("Nómina Seguro Complementario - %s", batchID),
		HTMLBody:   buf.String(),
		Attachment: attachmentPath,
		ArchiveTag: batchID,
	})
	if err != nil {
		return err
	}

	s.logger.Info("batch export mailed", "batch_id", batchID, "to", s.recipient)
	return nil
}
