package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/rbenavente/cargas-api/internal/registration"
	"github.com/rbenavente/cargas-api/internal/rut"
)

const confirmationSubject = "Confirmación de Registro - Seguro Complementario"

// altaBusinessDays is the processing window the insurer commits to.
const altaBusinessDays = 15

// AltaDate returns the estimated coverage start: n business days after
// from, skipping Saturdays and Sundays.
func AltaDate(from time.Time, businessDays int) time.Time {
	date := from
	added := 0
	for added < businessDays {
		date = date.AddDate(0, 0, 1)
		if wd := date.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return date
}

type confirmationData struct {
	Name          string
	RUT           string
	Email         string
	AltaDate      string
	BankName      string
	AccountType   string
	AccountNumber string
	Dependents    []confirmationDependent
	Year          int
}

type confirmationDependent struct {
	Relationship string
	Name         string
	RUT          string
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background: #1e3a5f; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
.content { background: #f9f9f9; padding: 20px; border: 1px solid #ddd; }
.info-box { background: #e8f4fd; border-left: 4px solid #1e3a5f; padding: 15px; margin: 15px 0; }
.footer { text-align: center; padding: 15px; font-size: 12px; color: #666; background: #f0f0f0; border-radius: 0 0 8px 8px; }
h3 { color: #1e3a5f; border-bottom: 2px solid #1e3a5f; padding-bottom: 5px; }
ul { background: white; padding: 15px 15px 15px 35px; border-radius: 5px; }
</style>
</head>
<body>
<div class="header">
<h1>Confirmación de Registro</h1>
<p>Seguro Complementario</p>
</div>
<div class="content">
<p>Estimado/a <strong>{{.Name}}</strong>,</p>
<p>Su registro en el Seguro Complementario ha sido recibido correctamente.</p>
<div class="info-box">
<strong>Fecha estimada de alta:</strong> {{.AltaDate}}<br>
<small>(15 días hábiles a partir de hoy)</small>
</div>
<h3>Datos del Trabajador:</h3>
<ul>
<li><strong>RUT:</strong> {{.RUT}}</li>
<li><strong>Nombre:</strong> {{.Name}}</li>
<li><strong>Email:</strong> {{.Email}}</li>
</ul>
{{if .BankName}}
<h3>Datos Bancarios:</h3>
<ul>
<li><strong>Banco:</strong> {{.BankName}}</li>
<li><strong>Tipo de Cuenta:</strong> {{.AccountType}}</li>
<li><strong>Número de Cuenta:</strong> {{.AccountNumber}}</li>
</ul>
{{end}}
{{if .Dependents}}
<h3>Cargas Familiares Registradas:</h3>
<ul>
{{range .Dependents}}<li><strong>{{.Relationship}}:</strong> {{.Name}} (RUT: {{.RUT}})</li>
{{end}}</ul>
{{else}}
<p><em>No se registraron cargas familiares.</em></p>
{{end}}
<p><strong>Próximos pasos:</strong></p>
<ol>
<li>Guarde este correo como comprobante</li>
<li>Su registro será procesado en los próximos días hábiles</li>
<li>Si detecta algún error, contacte a Recursos Humanos</li>
</ol>
</div>
<div class="footer">
<p>Este es un correo automático, por favor no responda a este mensaje.</p>
<p>Sistema de Gestión de Seguro Complementario © {{.Year}}</p>
</div>
</body>
</html>
`))

// ConfirmationSender renders and dispatches the worker's enrollment
// confirmation. It satisfies the registration service's mailer contract.
type ConfirmationSender struct {
	mailer Mailer
	logger *slog.Logger
}

func NewConfirmationSender(m Mailer, logger *slog.Logger) *ConfirmationSender {
	return &ConfirmationSender{mailer: m, logger: logger}
}

func (s *ConfirmationSender) SendRegistrationConfirmation(reg *registration.Registration) error {
	body, err := RenderConfirmation(reg, time.Now())
	if err != nil {
		return err
	}

	return s.mailer.Send(Message{
		To:         reg.Email,
		Subject:    confirmationSubject,
		HTMLBody:   body,
		ArchiveTag: reg.EmployeeRUT,
	})
}

// RenderConfirmation builds the confirmation HTML for a registration.
func RenderConfirmation(reg *registration.Registration, now time.Time) (string, error) {
	data := confirmationData{
		Name:     reg.EmployeeName,
		RUT:      rut.FormatDisplay(reg.EmployeeRUT),
		Email:    reg.Email,
		AltaDate: AltaDate(now, altaBusinessDays).Format("02-01-2006"),
		Year:     now.Year(),
	}
	if reg.BankName != nil {
		data.BankName = *reg.BankName
	}
	if reg.AccountType != nil {
		data.AccountType = *reg.AccountType
	}
	if reg.AccountNumber != nil {
		data.AccountNumber = *reg.AccountNumber
	}
	for _, dep := range reg.Dependents {
		if !dep.Active {
			continue
		}
		data.Dependents = append(data.Dependents, confirmationDependent{
			Relationship: dep.Relationship,
			Name:         dep.Name,
			RUT:          rut.FormatDisplay(dep.RUT),
		})
	}

	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render confirmation email: %w", err)
	}
	return buf.String(), nil
}
