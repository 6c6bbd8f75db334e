package mailer_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rbenavente/cargas-api/internal/mailer"
	"github.com/rbenavente/cargas-api/internal/registration"
)

type recordingMailer struct {
	sendError error
	messages  []mailer.Message
}

func (m *recordingMailer) Send(msg mailer.Message) error {
	if m.sendError != nil {
		return m.sendError
	}
	m.messages = append(m.messages, msg)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func sampleRegistration() *registration.Registration {
	bank := "Banco Estado"
	accountType := "Cuenta Vista"
	accountNumber := "12345678"
	return &registration.Registration{
		ID:            1,
		EmployeeRUT:   "123456785",
		EmployeeName:  "María González",
		Email:         "maria@empresa.cl",
		BankName:      &bank,
		AccountType:   &accountType,
		AccountNumber: &accountNumber,
		Active:        true,
		Dependents: []*registration.Dependent{
			{Relationship: registration.RelationshipChild, RUT: "98765433", Name: "Pedro Soto", Active: true},
			{Relationship: registration.RelationshipSpouse, RUT: "14123456K", Name: "Juan Soto", Active: false},
		},
	}
}

var _ = Describe("AltaDate", func() {
	It("should count only business days", func() {
		// Monday 2026-08-24 plus 15 business days lands on Monday 2026-09-14
		monday := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

		alta := mailer.AltaDate(monday, 15)

		Expect(alta.Weekday()).To(Equal(time.Monday))
		Expect(alta.Format("2006-01-02")).To(Equal("2026-09-14"))
	})

	It("should skip the weekend right after the start date", func() {
		friday := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

		alta := mailer.AltaDate(friday, 1)

		Expect(alta.Format("2006-01-02")).To(Equal("2026-08-31"))
	})
})

var _ = Describe("RenderConfirmation", func() {
	It("should include the worker's data with the RUT formatted for display", func() {
		body, err := mailer.RenderConfirmation(sampleRegistration(), time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC))

		Expect(err).ToNot(HaveOccurred())
		Expect(body).To(ContainSubstring("María González"))
		Expect(body).To(ContainSubstring("12.345.678-5"))
		Expect(body).To(ContainSubstring("maria@empresa.cl"))
		Expect(body).To(ContainSubstring("14-09-2026"))
		Expect(body).To(ContainSubstring("Banco Estado"))
	})

	It("should list only the active dependents", func() {
		body, err := mailer.RenderConfirmation(sampleRegistration(), time.Now())

		Expect(err).ToNot(HaveOccurred())
		Expect(body).To(ContainSubstring("Pedro Soto"))
		Expect(body).ToNot(ContainSubstring("Juan Soto"))
	})

	It("should fall back to the no-dependents note", func() {
		reg := sampleRegistration()
		reg.Dependents = nil

		body, err := mailer.RenderConfirmation(reg, time.Now())

		Expect(err).ToNot(HaveOccurred())
		Expect(body).To(ContainSubstring("No se registraron cargas familiares."))
	})

	It("should omit the bank section when no account was given", func() {
		reg := sampleRegistration()
		reg.BankName = nil
		reg.AccountType = nil
		reg.AccountNumber = nil

		body, err := mailer.RenderConfirmation(reg, time.Now())

		Expect(err).ToNot(HaveOccurred())
		Expect(body).ToNot(ContainSubstring("Datos Bancarios"))
	})
})

var _ = Describe("ConfirmationSender", func() {
	It("should address the worker and tag the archive with the RUT", func() {
		rec := &recordingMailer{}
		sender := mailer.NewConfirmationSender(rec, testLogger())

		Expect(sender.SendRegistrationConfirmation(sampleRegistration())).To(Succeed())
		Expect(rec.messages).To(HaveLen(1))
		Expect(rec.messages[0].To).To(Equal("maria@empresa.cl"))
		Expect(rec.messages[0].Subject).To(Equal("Confirmación de Registro - Seguro Complementario"))
		Expect(rec.messages[0].ArchiveTag).To(Equal("123456785"))
	})

	It("should propagate a transport failure", func() {
		rec := &recordingMailer{sendError: errors.New("smtp down")}
		sender := mailer.NewConfirmationSender(rec, testLogger())

		Expect(sender.SendRegistrationConfirmation(sampleRegistration())).To(MatchError("smtp down"))
	})
})

var _ = Describe("SimulatedMailer", func() {
	It("should write the body to the archive directory and never fail", func() {
		dataDir := GinkgoT().TempDir()
		sim := mailer.NewSimulatedMailer(dataDir, testLogger())

		err := sim.Send(mailer.Message{
			To:         "maria@empresa.cl",
			Subject:    "Prueba",
			HTMLBody:   "<p>hola</p>",
			ArchiveTag: "123456785",
		})
		Expect(err).ToNot(HaveOccurred())

		files, err := filepath.Glob(filepath.Join(dataDir, "correos_enviados", "correo_123456785_*.html"))
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(HaveLen(1))

		content, err := os.ReadFile(files[0])
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(Equal("<p>hola</p>"))
	})
})

var _ = Describe("FallbackMailer", func() {
	It("should only use the fallback when the primary fails", func() {
		primary := &recordingMailer{}
		fallback := &recordingMailer{}
		fb := mailer.NewFallbackMailer(primary, fallback, testLogger())

		Expect(fb.Send(mailer.Message{To: "maria@empresa.cl"})).To(Succeed())
		Expect(primary.messages).To(HaveLen(1))
		Expect(fallback.messages).To(BeEmpty())

		primary.sendError = errors.New("smtp down")
		Expect(fb.Send(mailer.Message{To: "maria@empresa.cl"})).To(Succeed())
		Expect(fallback.messages).To(HaveLen(1))
	})
})
