package batch_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rbenavente/cargas-api/internal/batch"
	"github.com/rbenavente/cargas-api/internal/registration"
)

// Mock repository for testing
type mockBatchRepository struct {
	pending       []*registration.Registration
	late          []*batch.LateAddition
	confirmedWith []string
	confirmError  error
	resetError    error
	resetCount    int64
}

func (m *mockBatchRepository) ListPending() ([]*registration.Registration, error) {
	return m.pending, nil
}

func (m *mockBatchRepository) ListLateAdditions() ([]*batch.LateAddition, error) {
	return m.late, nil
}

func (m *mockBatchRepository) ListAllActive() ([]*registration.Registration, error) {
	return m.pending, nil
}

func (m *mockBatchRepository) ConfirmBatchSent(batchID string) (int64, int64, error) {
	if m.confirmError != nil {
		return 0, 0, m.confirmError
	}
	m.confirmedWith = append(m.confirmedWith, batchID)
	depCount := int64(len(m.late))
	for _, reg := range m.pending {
		depCount += int64(len(reg.Dependents))
	}
	return int64(len(m.pending)), depCount, nil
}

func (m *mockBatchRepository) ResetSubmissionState() (int64, error) {
	if m.resetError != nil {
		return 0, m.resetError
	}
	return m.resetCount, nil
}

// Mock mailer for testing
type mockInsurerMailer struct {
	sendError error
	sentBatch string
	sentPath  string
	sentCount int
}

func (m *mockInsurerMailer) SendBatchExport(batchID, attachmentPath string, registrationCount int) error {
	if m.sendError != nil {
		return m.sendError
	}
	m.sentBatch = batchID
	m.sentPath = attachmentPath
	m.sentCount = registrationCount
	return nil
}

func pendingRegistration(rutValue, name string) *registration.Registration {
	return &registration.Registration{
		ID:           1,
		EmployeeRUT:  rutValue,
		EmployeeName: name,
		Email:        "trabajador@empresa.cl",
		CreatedAt:    time.Now(),
		Active:       true,
		Dependents: []*registration.Dependent{
			{
				ID:                1,
				RegistrationID:    1,
				Relationship:      registration.RelationshipChild,
				RUT:               "98765433",
				Name:              "Pedro Soto",
				BirthDate:         time.Now().AddDate(-4, 0, 0),
				AgeAtRegistration: 4,
				Active:            true,
			},
		},
	}
}

var _ = Describe("BatchService", func() {
	var (
		service    *batch.Service
		mockRepo   *mockBatchRepository
		mockMailer *mockInsurerMailer
		exportsDir string
	)

	BeforeEach(func() {
		mockRepo = &mockBatchRepository{}
		mockMailer = &mockInsurerMailer{}
		exportsDir = GinkgoT().TempDir()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = batch.NewService(mockRepo, mockMailer, exportsDir, logger)
	})

	Describe("NewBatchID", func() {
		It("should embed the date and stay unique across calls", func() {
			now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
			a := batch.NewBatchID(now)
			b := batch.NewBatchID(now)

			Expect(a).To(HavePrefix("LOTE-20260828-"))
			Expect(a).ToNot(Equal(b))
		})
	})

	Describe("SendToInsurer", func() {
		It("should export, mail and confirm in that order", func() {
			mockRepo.pending = []*registration.Registration{pendingRegistration("123456785", "María González")}

			result, err := service.SendToInsurer()

			Expect(err).ToNot(HaveOccurred())
			Expect(result.BatchID).To(HavePrefix("LOTE-"))
			Expect(result.RegistrationsMarked).To(Equal(int64(1)))
			Expect(result.DependentsMarked).To(Equal(int64(1)))
			Expect(mockRepo.confirmedWith).To(Equal([]string{result.BatchID}))
			Expect(mockMailer.sentBatch).To(Equal(result.BatchID))
			Expect(mockMailer.sentCount).To(Equal(1))
			Expect(result.ExportPath).To(BeAnExistingFile())
			Expect(mockMailer.sentPath).To(Equal(result.ExportPath))
		})

		It("should leave submission state untouched when the mail leg fails", func() {
			mockRepo.pending = []*registration.Registration{pendingRegistration("123456785", "María González")}
			mockMailer.sendError = errors.New("smtp down")

			_, err := service.SendToInsurer()

			Expect(err).To(MatchError("smtp down"))
			Expect(mockRepo.confirmedWith).To(BeEmpty())
		})

		It("should return ErrNothingPending when there is nothing to send", func() {
			_, err := service.SendToInsurer()
			Expect(err).To(Equal(batch.ErrNothingPending))
		})

		It("should still send a batch that consists only of late additions", func() {
			mockRepo.late = []*batch.LateAddition{
				{
					Dependent: &registration.Dependent{
						Relationship:      registration.RelationshipChild,
						RUT:               "98765433",
						Name:              "Pedro Soto",
						BirthDate:         time.Now().AddDate(-4, 0, 0),
						AgeAtRegistration: 4,
						Active:            true,
					},
					EmployeeRUT:  "123456785",
					EmployeeName: "María González",
				},
			}

			result, err := service.SendToInsurer()

			Expect(err).ToNot(HaveOccurred())
			Expect(result.DependentsMarked).To(Equal(int64(1)))
			Expect(mockRepo.confirmedWith).To(HaveLen(1))
		})

		It("should surface a confirmation failure after delivery", func() {
			mockRepo.pending = []*registration.Registration{pendingRegistration("123456785", "María González")}
			mockRepo.confirmError = errors.New("disk full")

			_, err := service.SendToInsurer()
			Expect(err).To(MatchError("disk full"))
		})
	})

	Describe("ExportPending", func() {
		It("should write the file without touching any flag", func() {
			mockRepo.pending = []*registration.Registration{pendingRegistration("123456785", "María González")}
			path := exportsDir + "/pendientes.xlsx"

			Expect(service.ExportPending(path)).To(Succeed())
			Expect(path).To(BeAnExistingFile())
			Expect(mockRepo.confirmedWith).To(BeEmpty())
		})

		It("should return ErrNothingPending on an empty pending set", func() {
			Expect(service.ExportPending(exportsDir + "/pendientes.xlsx")).To(Equal(batch.ErrNothingPending))
		})
	})

	Describe("ExportAll", func() {
		It("should write the full export even when nothing is pending", func() {
			path := exportsDir + "/registros.xlsx"
			Expect(service.ExportAll(path)).To(Succeed())
			Expect(path).To(BeAnExistingFile())
		})
	})

	Describe("ResetSubmissionState", func() {
		It("should return the registration count", func() {
			mockRepo.resetCount = 3
			Expect(service.ResetSubmissionState()).To(Equal(int64(3)))
		})

		It("should return -1 when the store fails", func() {
			mockRepo.resetError = errors.New("locked")
			Expect(service.ResetSubmissionState()).To(Equal(int64(-1)))
		})
	})
})
