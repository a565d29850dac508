package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homewalk-hq/inspect-engine/pkg/apperrors"
	"github.com/homewalk-hq/inspect-engine/pkg/config"
	"github.com/homewalk-hq/inspect-engine/pkg/models"
	"github.com/homewalk-hq/inspect-engine/pkg/notify"
	"github.com/homewalk-hq/inspect-engine/pkg/repositories"
)

// IssuedInspection pairs a created inspection with its shareable link.
type IssuedInspection struct {
	Inspection *models.Inspection `json:"inspection"`
	Link       string             `json:"link"`
}

// InspectionService defines the owner-facing inspection link operations.
type InspectionService interface {
	// Issue creates an active inspection for a home and returns the
	// shareable tenant link. When a tenant email is provided, the invite
	// is dispatched asynchronously; invite failures are logged and never
	// fail the issuance.
	Issue(ctx context.Context, userID string, homeID uuid.UUID, tenantName, tenantEmail string) (*IssuedInspection, error)
	ListByHome(ctx context.Context, userID string, homeID uuid.UUID) ([]*models.Inspection, error)
	// Deactivate invalidates an active link.
	Deactivate(ctx context.Context, userID string, inspectionID uuid.UUID) error
}

// inspectionService implements InspectionService.
type inspectionService struct {
	inspectionRepo repositories.InspectionRepository
	homeRepo       repositories.HomeRepository
	emailSender    notify.EmailSender
	cfg            *config.Config
	logger         *zap.Logger
}

// NewInspectionService creates a new inspection service with dependencies.
func NewInspectionService(
	inspectionRepo repositories.InspectionRepository,
	homeRepo repositories.HomeRepository,
	emailSender notify.EmailSender,
	cfg *config.Config,
	logger *zap.Logger,
) InspectionService {
	return &inspectionService{
		inspectionRepo: inspectionRepo,
		homeRepo:       homeRepo,
		emailSender:    emailSender,
		cfg:            cfg,
		logger:         logger,
	}
}

// Issue creates the inspection and optionally fires the invite email.
// Many active links may coexist for one home; each is an independent
// walkthrough session.
func (s *inspectionService) Issue(ctx context.Context, userID string, homeID uuid.UUID, tenantName, tenantEmail string) (*IssuedInspection, error) {
	home, err := s.homeRepo.Get(ctx, homeID)
	if err != nil {
		return nil, err
	}
	if home.UserID != userID {
		return nil, apperrors.ErrNotFound
	}

	inspection := &models.Inspection{
		HomeID:      homeID,
		OwnerUserID: userID,
		Status:      models.InspectionStatusActive,
		TenantName:  tenantName,
		TenantEmail: tenantEmail,
	}

	if err := s.inspectionRepo.Create(ctx, inspection); err != nil {
		return nil, err
	}

	link := s.cfg.InspectLink(inspection.ID.String())

	s.logger.Info("Inspection link issued",
		zap.String("inspection_id", inspection.ID.String()),
		zap.String("home_id", homeID.String()))

	if tenantEmail != "" {
		go s.sendInvite(inspection, home, link)
	}

	return &IssuedInspection{Inspection: inspection, Link: link}, nil
}

// sendInvite dispatches the invite email in the background.
func (s *inspectionService) sendInvite(inspection *models.Inspection, home *models.Home, link string) {
	ctx, cancel := context.WithTimeout(context.Background(), notify.DefaultTimeout)
	defer cancel()

	subject := fmt.Sprintf("Inspection requested for %s", home.Name)
	content := fmt.Sprintf(
		"Hello %s,\n\nPlease complete the walkthrough inspection for %s using the link below:\n\n%s\n\nThank you.",
		inspection.TenantName, home.Name, link)

	if err := s.emailSender.SendInvite(ctx, inspection.TenantEmail, subject, content); err != nil {
		s.logger.Error("Failed to send inspection invite",
			zap.String("inspection_id", inspection.ID.String()),
			zap.Error(err))
	}
}

// ListByHome retrieves all inspections issued for a home.
func (s *inspectionService) ListByHome(ctx context.Context, userID string, homeID uuid.UUID) ([]*models.Inspection, error) {
	home, err := s.homeRepo.Get(ctx, homeID)
	if err != nil {
		return nil, err
	}
	if home.UserID != userID {
		return nil, apperrors.ErrNotFound
	}

	return s.inspectionRepo.ListByHome(ctx, homeID)
}

// Deactivate invalidates a link after verifying ownership.
func (s *inspectionService) Deactivate(ctx context.Context, userID string, inspectionID uuid.UUID) error {
	inspection, err := s.inspectionRepo.Get(ctx, inspectionID)
	if err != nil {
		return err
	}
	if inspection.OwnerUserID != userID {
		return apperrors.ErrNotFound
	}

	if err := s.inspectionRepo.Deactivate(ctx, inspectionID); err != nil {
		return err
	}

	s.logger.Info("Inspection link deactivated",
		zap.String("inspection_id", inspectionID.String()))

	return nil
}

var _ InspectionService = (*inspectionService)(nil)
