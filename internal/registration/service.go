package registration

import (
	"log/slog"
	"strings"

	"github.com/rbenavente/cargas-api/internal/core/validation"
	"github.com/rbenavente/cargas-api/internal/rut"
)

// Repository defines the data access methods for registrations and their
// dependents. Create and Deactivate are transactional: Create enforces the
// one-active-registration-per-RUT rule, Deactivate cascades to dependents
// and appends the admin notification in the same transaction.
type Repository interface {
	Create(reg *Registration) error
	GetWithDependents(id int64) (*Registration, error)
	FindActiveByEmployeeRUT(canonicalRUT string) (*Registration, error)
	ListActive() ([]*Registration, error)
	AddDependent(dep *Dependent) error
	RemoveDependent(dependentID int64) error
	Deactivate(registrationID int64, reason string) error
	MarkConfirmationEmailSent(registrationID int64) error
	Statistics() (*Statistics, error)
}

// ConfirmationMailer sends the worker their enrollment confirmation. The
// simulated implementation never fails; the SMTP one can.
type ConfirmationMailer interface {
	SendRegistrationConfirmation(reg *Registration) error
}

type Service struct {
	repo        Repository
	mailer      ConfirmationMailer
	maxChildAge int
	logger      *slog.Logger
}

func NewService(repo Repository, mailer ConfirmationMailer, maxChildAge int, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		mailer:      mailer,
		maxChildAge: maxChildAge,
		logger:      logger,
	}
}

// CreateRegistration enrolls a worker along with any dependents submitted
// in the same form, then dispatches the confirmation email. Mail failure
// is logged and reflected in email_confirmation_sent, never surfaced as a
// registration failure.
func (s *Service) CreateRegistration(dto CreateRegistrationDTO) (*Registration, error) {
	if err := dto.Validate(s.maxChildAge); err != nil {
		s.logger.Warn("registration validation failed", "error", err, "rut", dto.RUT)
		return nil, err
	}

	reg := &Registration{
		EmployeeRUT:  rut.Canonicalize(dto.RUT),
		EmployeeName: validation.TitleCase(dto.Name),
		Email:        strings.ToLower(strings.TrimSpace(dto.Email)),
		Active:       true,
	}
	if v := strings.TrimSpace(dto.BankName); v != "" {
		reg.BankName = &v
	}
	if v := strings.TrimSpace(dto.AccountType); v != "" {
		reg.AccountType = &v
	}
	if v := strings.TrimSpace(dto.AccountNumber); v != "" {
		reg.AccountNumber = &v
	}

	seen := make(map[string]bool, len(dto.Dependents))
	for _, depDTO := range dto.Dependents {
		dep, err := depDTO.ToDomain(0)
		if err != nil {
			return nil, err
		}
		if seen[dep.RUT] {
			return nil, ErrDependentExists
		}
		seen[dep.RUT] = true
		reg.Dependents = append(reg.Dependents, dep)
	}

	if err := s.repo.Create(reg); err != nil {
		s.logger.Warn("failed to create registration", "error", err, "rut", reg.EmployeeRUT)
		return nil, err
	}
	s.logger.Info("registration created",
		"id", reg.ID,
		"rut", reg.EmployeeRUT,
		"dependents", len(reg.Dependents))

	s.sendConfirmation(reg)
	return reg, nil
}

func (s *Service) sendConfirmation(reg *Registration) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendRegistrationConfirmation(reg); err != nil {
		s.logger.Error("confirmation email failed", "error", err, "registration_id", reg.ID)
		return
	}
	if err := s.repo.MarkConfirmationEmailSent(reg.ID); err != nil {
		s.logger.Error("failed to mark confirmation sent", "error", err, "registration_id", reg.ID)
		return
	}
	reg.EmailConfirmationSent = true
}

// AddDependent attaches a dependent to an existing active registration.
// Duplicate RUT among the registration's active dependents is rejected at
// the store layer.
func (s *Service) AddDependent(registrationID int64, dto AddDependentDTO) (*Dependent, error) {
	if err := dto.Validate(s.maxChildAge); err != nil {
		s.logger.Warn("dependent validation failed", "error", err, "registration_id", registrationID)
		return nil, err
	}

	dep, err := dto.ToDomain(registrationID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddDependent(dep); err != nil {
		s.logger.Warn("failed to add dependent",
			"error", err,
			"registration_id", registrationID,
			"rut", dep.RUT)
		return nil, err
	}

	s.logger.Info("dependent added",
		"registration_id", registrationID,
		"dependent_id", dep.ID,
		"relationship", dep.Relationship)
	return dep, nil
}

// GetRegistration returns the registration with ALL its dependents, active
// or not. This is the export/admin view.
func (s *Service) GetRegistration(id int64) (*Registration, error) {
	return s.repo.GetWithDependents(id)
}

// GetActiveByRUT is the self-service portal view: the worker's current
// active registration with only its active dependents.
func (s *Service) GetActiveByRUT(rawRUT string) (*Registration, error) {
	return s.repo.FindActiveByEmployeeRUT(rut.Canonicalize(rawRUT))
}

func (s *Service) ListRegistrations() ([]*Registration, error) {
	return s.repo.ListActive()
}

// RemoveDependent soft-deletes a dependent. The store appends the
// DependentRemoved notification in the same transaction.
func (s *Service) RemoveDependent(dependentID int64) error {
	if err := s.repo.RemoveDependent(dependentID); err != nil {
		s.logger.Warn("failed to remove dependent", "error", err, "dependent_id", dependentID)
		return err
	}
	s.logger.Info("dependent removed", "dependent_id", dependentID)
	return nil
}

// DeactivateRegistration cancels the worker's enrollment, cascading the
// soft delete to every dependent atomically.
func (s *Service) DeactivateRegistration(registrationID int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Solicitud del trabajador"
	}
	if err := s.repo.Deactivate(registrationID, reason); err != nil {
		s.logger.Warn("failed to deactivate registration", "error", err, "registration_id", registrationID)
		return err
	}
	s.logger.Info("registration deactivated", "registration_id", registrationID, "reason", reason)
	return nil
}

// Statistics recomputes the dashboard aggregate on every call.
func (s *Service) Statistics() (*Statistics, error) {
	return s.repo.Statistics()
}
