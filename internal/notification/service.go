package notification

import "log/slog"

// Repository reads the feed the registration store writes to. Emission
// happens inside the registration transactions, so this repository only
// lists and flips read flags.
type Repository interface {
	ListUnread() ([]*AdminNotification, error)
	MarkRead(id int64) error
	MarkAllRead() (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListUnread() ([]*AdminNotification, error) {
	return s.repo.ListUnread()
}

func (s *Service) MarkRead(id int64) error {
	if err := s.repo.MarkRead(id); err != nil {
		s.logger.Warn("failed to mark notification read", "error", err, "id", id)
		return err
	}
	return nil
}

func (s *Service) MarkAllRead() (int64, error) {
	count, err := s.repo.MarkAllRead()
	if err != nil {
		s.logger.Warn("failed to mark all notifications read", "error", err)
		return 0, err
	}
	s.logger.Info("notifications marked read", "count", count)
	return count, nil
}
