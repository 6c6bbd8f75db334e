package registration_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/rbenavente/cargas-api/internal"
	"github.com/rbenavente/cargas-api/internal/registration"
)

// Mock repository for testing
type mockRegistrationRepository struct {
	registrations map[int64]*registration.Registration
	byRUT         map[string]*registration.Registration
	dependents    map[int64]*registration.Dependent
	confirmations []int64
	createError   error
	markError     error
	nextRegID     int64
	nextDepID     int64
}

func newMockRegistrationRepository() *mockRegistrationRepository {
	return &mockRegistrationRepository{
		registrations: make(map[int64]*registration.Registration),
		byRUT:         make(map[string]*registration.Registration),
		dependents:    make(map[int64]*registration.Dependent),
		nextRegID:     1,
		nextDepID:     1,
	}
}

func (m *mockRegistrationRepository) Create(reg *registration.Registration) error {
	if m.createError != nil {
		return m.createError
	}
	if existing, ok := m.byRUT[reg.EmployeeRUT]; ok && existing.Active {
		return registration.ErrActiveRegistrationExists
	}
	reg.ID = m.nextRegID
	reg.CreatedAt = time.Now()
	m.nextRegID++
	for _, dep := range reg.Dependents {
		dep.ID = m.nextDepID
		dep.RegistrationID = reg.ID
		m.nextDepID++
		m.dependents[dep.ID] = dep
	}
	m.registrations[reg.ID] = reg
	m.byRUT[reg.EmployeeRUT] = reg
	return nil
}

func (m *mockRegistrationRepository) GetWithDependents(id int64) (*registration.Registration, error) {
	reg, ok := m.registrations[id]
	if !ok {
		return nil, registration.ErrRegistrationNotFound
	}
	return reg, nil
}

func (m *mockRegistrationRepository) FindActiveByEmployeeRUT(canonicalRUT string) (*registration.Registration, error) {
	reg, ok := m.byRUT[canonicalRUT]
	if !ok || !reg.Active {
		return nil, registration.ErrRegistrationNotFound
	}
	return reg, nil
}

func (m *mockRegistrationRepository) ListActive() ([]*registration.Registration, error) {
	var result []*registration.Registration
	for _, reg := range m.registrations {
		if reg.Active {
			result = append(result, reg)
		}
	}
	return result, nil
}

func (m *mockRegistrationRepository) AddDependent(dep *registration.Dependent) error {
	reg, ok := m.registrations[dep.RegistrationID]
	if !ok {
		return registration.ErrRegistrationNotFound
	}
	if !reg.Active {
		return registration.ErrRegistrationInactive
	}
	for _, existing := range reg.Dependents {
		if existing.Active && existing.RUT == dep.RUT {
			return registration.ErrDependentExists
		}
	}
	dep.ID = m.nextDepID
	m.nextDepID++
	m.dependents[dep.ID] = dep
	reg.Dependents = append(reg.Dependents, dep)
	return nil
}

func (m *mockRegistrationRepository) RemoveDependent(dependentID int64) error {
	dep, ok := m.dependents[dependentID]
	if !ok || !dep.Active {
		return registration.ErrDependentNotFound
	}
	dep.Active = false
	return nil
}

func (m *mockRegistrationRepository) Deactivate(registrationID int64, reason string) error {
	reg, ok := m.registrations[registrationID]
	if !ok || !reg.Active {
		return registration.ErrRegistrationNotFound
	}
	reg.Active = false
	reg.DeactivationReason = &reason
	for _, dep := range reg.Dependents {
		dep.Active = false
	}
	return nil
}

func (m *mockRegistrationRepository) MarkConfirmationEmailSent(registrationID int64) error {
	if m.markError != nil {
		return m.markError
	}
	m.confirmations = append(m.confirmations, registrationID)
	if reg, ok := m.registrations[registrationID]; ok {
		reg.EmailConfirmationSent = true
	}
	return nil
}

func (m *mockRegistrationRepository) Statistics() (*registration.Statistics, error) {
	return &registration.Statistics{}, nil
}

// Mock mailer for testing
type mockConfirmationMailer struct {
	sendError error
	sent      []*registration.Registration
}

func (m *mockConfirmationMailer) SendRegistrationConfirmation(reg *registration.Registration) error {
	if m.sendError != nil {
		return m.sendError
	}
	m.sent = append(m.sent, reg)
	return nil
}

const maxChildAge = 25

func birthDateYearsAgo(years int) string {
	return time.Now().AddDate(-years, 0, -1).Format("2006-01-02")
}

var _ = Describe("RegistrationService", func() {
	var (
		service    *registration.Service
		mockRepo   *mockRegistrationRepository
		mockMailer *mockConfirmationMailer
	)

	BeforeEach(func() {
		mockRepo = newMockRegistrationRepository()
		mockMailer = &mockConfirmationMailer{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = registration.NewService(mockRepo, mockMailer, maxChildAge, logger)
	})

	validDTO := func() registration.CreateRegistrationDTO {
		return registration.CreateRegistrationDTO{
			RUT:           "12.345.678-5",
			Name:          "maría gonzález",
			Email:         "maria@empresa.cl",
			BankName:      "Banco Estado",
			AccountType:   "Cuenta Vista",
			AccountNumber: "12345678",
		}
	}

	Describe("CreateRegistration", func() {
		It("should create the registration and send the confirmation email", func() {
			reg, err := service.CreateRegistration(validDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(reg.ID).To(BeNumerically(">", 0))
			Expect(reg.EmployeeRUT).To(Equal("123456785"))
			Expect(reg.EmployeeName).To(Equal("María González"))
			Expect(mockMailer.sent).To(HaveLen(1))
			Expect(reg.EmailConfirmationSent).To(BeTrue())
			Expect(mockRepo.confirmations).To(Equal([]int64{reg.ID}))
		})

		It("should create inline dependents with a snapshotted age", func() {
			dto := validDTO()
			dto.Dependents = []registration.AddDependentDTO{
				{Relationship: registration.RelationshipChild, RUT: "9.876.543-3", Name: "hijo uno", BirthDate: birthDateYearsAgo(10)},
			}

			reg, err := service.CreateRegistration(dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(reg.Dependents).To(HaveLen(1))
			Expect(reg.Dependents[0].RUT).To(Equal("98765433"))
			Expect(reg.Dependents[0].Name).To(Equal("Hijo Uno"))
			Expect(reg.Dependents[0].AgeAtRegistration).To(Equal(10))
		})

		It("should not fail the registration when the mailer errors", func() {
			mockMailer.sendError = errors.New("smtp down")

			reg, err := service.CreateRegistration(validDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(reg.EmailConfirmationSent).To(BeFalse())
			Expect(mockRepo.confirmations).To(BeEmpty())
		})

		It("should reject a second active registration for the same RUT", func() {
			_, err := service.CreateRegistration(validDTO())
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CreateRegistration(validDTO())
			Expect(err).To(Equal(registration.ErrActiveRegistrationExists))
		})

		It("should reject duplicate dependent RUTs within the same form", func() {
			dto := validDTO()
			dto.Dependents = []registration.AddDependentDTO{
				{Relationship: registration.RelationshipChild, RUT: "9876543-3", Name: "Hijo Uno", BirthDate: birthDateYearsAgo(5)},
				{Relationship: registration.RelationshipSpouse, RUT: "9.876.543-3", Name: "Misma Persona", BirthDate: birthDateYearsAgo(30)},
			}

			_, err := service.CreateRegistration(dto)
			Expect(err).To(Equal(registration.ErrDependentExists))
		})

		It("should reject a child above the configured age ceiling but accept a spouse with the same birth date", func() {
			over := birthDateYearsAgo(maxChildAge + 1)

			dto := validDTO()
			dto.Dependents = []registration.AddDependentDTO{
				{Relationship: registration.RelationshipChild, RUT: "9876543-3", Name: "Hijo Grande", BirthDate: over},
			}
			_, err := service.CreateRegistration(dto)
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeAgeExceeded))

			dto = validDTO()
			dto.Dependents = []registration.AddDependentDTO{
				{Relationship: registration.RelationshipSpouse, RUT: "9876543-3", Name: "Cónyuge Mayor", BirthDate: over},
			}
			_, err = service.CreateRegistration(dto)
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("AddDependent", func() {
		var regID int64

		BeforeEach(func() {
			reg, err := service.CreateRegistration(validDTO())
			Expect(err).ToNot(HaveOccurred())
			regID = reg.ID
		})

		It("should add a dependent to an active registration", func() {
			dep, err := service.AddDependent(regID, registration.AddDependentDTO{
				Relationship: registration.RelationshipChild,
				RUT:          "9876543-3",
				Name:         "Hijo Nuevo",
				BirthDate:    birthDateYearsAgo(3),
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(dep.ID).To(BeNumerically(">", 0))
			Expect(dep.RegistrationID).To(Equal(regID))
		})

		It("should reject an unknown relationship", func() {
			_, err := service.AddDependent(regID, registration.AddDependentDTO{
				Relationship: "Primo",
				RUT:          "9876543-3",
				Name:         "Primo Lejano",
				BirthDate:    birthDateYearsAgo(20),
			})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidRelationship))
		})

		It("should reject a future birth date", func() {
			_, err := service.AddDependent(regID, registration.AddDependentDTO{
				Relationship: registration.RelationshipChild,
				RUT:          "9876543-3",
				Name:         "Del Futuro",
				BirthDate:    time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
			})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidBirthDate))
		})

		It("should surface a duplicate RUT within the registration", func() {
			dto := registration.AddDependentDTO{
				Relationship: registration.RelationshipChild,
				RUT:          "9876543-3",
				Name:         "Hijo Uno",
				BirthDate:    birthDateYearsAgo(3),
			}
			_, err := service.AddDependent(regID, dto)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.AddDependent(regID, dto)
			Expect(err).To(Equal(registration.ErrDependentExists))
		})
	})

	Describe("DeactivateRegistration", func() {
		It("should use the default reason when none is given", func() {
			reg, err := service.CreateRegistration(validDTO())
			Expect(err).ToNot(HaveOccurred())

			Expect(service.DeactivateRegistration(reg.ID, "  ")).To(Succeed())
			Expect(reg.Active).To(BeFalse())
			Expect(reg.DeactivationReason).ToNot(BeNil())
			Expect(*reg.DeactivationReason).To(Equal("Solicitud del trabajador"))
		})
	})
})
