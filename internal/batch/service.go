package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rbenavente/cargas-api/internal/registration"
)

// Repository is the submission-state view over the registration store.
type Repository interface {
	// ListPending returns active, unsubmitted registrations oldest-first
	// with their active dependents attached.
	ListPending() ([]*registration.Registration, error)
	// ListLateAdditions returns active unsubmitted dependents whose parent
	// registration was already reported.
	ListLateAdditions() ([]*LateAddition, error)
	// ListAllActive backs the full admin export.
	ListAllActive() ([]*registration.Registration, error)
	// ConfirmBatchSent stamps batch id and timestamp on every pending
	// registration and every active unsubmitted dependent, atomically.
	ConfirmBatchSent(batchID string) (registrations int64, dependents int64, err error)
	// ResetSubmissionState clears the flags on all active rows.
	ResetSubmissionState() (int64, error)
}

// InsurerMailer delivers one batch file to the insurer. Implementations
// must only return nil when delivery was actually handed off.
type InsurerMailer interface {
	SendBatchExport(batchID, attachmentPath string, registrationCount int) error
}

type Service struct {
	repo       Repository
	mailer     InsurerMailer
	exportsDir string
	logger     *slog.Logger
}

func NewService(repo Repository, mailer InsurerMailer, exportsDir string, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		mailer:     mailer,
		exportsDir: exportsDir,
		logger:     logger,
	}
}

// NewBatchID mints a lote number: date plus a short random suffix so two
// batches on the same day stay distinguishable.
func NewBatchID(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("LOTE-%s-%s", now.Format("20060102"), suffix)
}

func (s *Service) ListPending() ([]*registration.Registration, []*LateAddition, error) {
	pending, err := s.repo.ListPending()
	if err != nil {
		return nil, nil, err
	}
	late, err := s.repo.ListLateAdditions()
	if err != nil {
		return nil, nil, err
	}
	return pending, late, nil
}

// ExportPending writes the preview file covering exactly the pending
// registrations and their active dependents. No submission flag moves.
func (s *Service) ExportPending(path string) error {
	pending, err := s.repo.ListPending()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return ErrNothingPending
	}
	return s.writeWorkbook(path, pending, nil, false)
}

// ExportAll writes the full admin download: every active registration
// with worker bank detail on the dependents sheet.
func (s *Service) ExportAll(path string) error {
	regs, err := s.repo.ListAllActive()
	if err != nil {
		return err
	}
	return s.writeWorkbook(path, regs, nil, true)
}

// SendToInsurer runs the two-phase submission: produce the export file,
// mail it, and only after the mailer reports success confirm the batch.
// A mail failure leaves every submission flag untouched so the next call
// retries the same records.
func (s *Service) SendToInsurer() (*SendResult, error) {
	pending, err := s.repo.ListPending()
	if err != nil {
		return nil, err
	}
	late, err := s.repo.ListLateAdditions()
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 && len(late) == 0 {
		return nil, ErrNothingPending
	}

	now := time.Now()
	batchID := NewBatchID(now)
	path := filepath.Join(s.exportsDir, ExportFileName("lote_"+batchID, now))

	if err := s.writeWorkbook(path, pending, late, false); err != nil {
		s.logger.Error("batch export failed", "error", err, "batch_id", batchID)
		return nil, err
	}

	if err := s.mailer.SendBatchExport(batchID, path, len(pending)); err != nil {
		s.logger.Error("batch mail failed, submission state untouched",
			"error", err,
			"batch_id", batchID,
			"pending", len(pending))
		return nil, err
	}

	regCount, depCount, err := s.repo.ConfirmBatchSent(batchID)
	if err != nil {
		// delivered but unconfirmed: the records stay pending and the next
		// batch re-sends them, which the insurer tolerates better than a
		// silently lost registration
		s.logger.Error("failed to confirm batch after delivery", "error", err, "batch_id", batchID)
		return nil, err
	}

	s.logger.Info("batch sent to insurer",
		"batch_id", batchID,
		"registrations", regCount,
		"dependents", depCount,
		"file", path)

	return &SendResult{
		BatchID:             batchID,
		RegistrationsMarked: regCount,
		DependentsMarked:    depCount,
		ExportPath:          path,
	}, nil
}

// ConfirmBatchSent is exposed for flows where delivery is confirmed out of
// band (for example a manually forwarded export).
func (s *Service) ConfirmBatchSent(batchID string) (int64, int64, error) {
	return s.repo.ConfirmBatchSent(batchID)
}

// ResetSubmissionState clears submission flags on all active records and
// returns how many registrations were reset, or -1 on failure. For
// testing environments only.
func (s *Service) ResetSubmissionState() int64 {
	count, err := s.repo.ResetSubmissionState()
	if err != nil {
		s.logger.Error("failed to reset submission state", "error", err)
		return -1
	}
	s.logger.Warn("submission state reset", "registrations", count)
	return count
}

func (s *Service) writeWorkbook(path string, regs []*registration.Registration, late []*LateAddition, fullDetail bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := BuildWorkbook(regs, late, fullDetail)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save export %s: %w", path, err)
	}
	return nil
}
