package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"renovo-backend-go/internal/db"
	"renovo-backend-go/internal/events"
	"renovo-backend-go/internal/mailer"
	"renovo-backend-go/internal/metrics"
	"renovo-backend-go/internal/models"
)

// leadService stores leads, then emails the business and publishes an event.
type leadService struct {
	ResourceService[models.Lead]
	mail      mailer.Mailer
	publisher events.Publisher
	notifyTo  []string
	logger    *zap.Logger
}

// NewLeadService creates a LeadService. notifyTo may be empty to skip email.
func NewLeadService(repo db.Repository[models.Lead], mail mailer.Mailer, publisher events.Publisher, notifyTo []string, logger *zap.Logger) LeadService {
	return &leadService{
		ResourceService: NewResourceService[models.Lead](repo, "lead"),
		mail:            mail,
		publisher:       publisher,
		notifyTo:        notifyTo,
		logger:          logger,
	}
}

// Create persists the lead. Notification failures are logged only.
func (s *leadService) Create(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	created, err := s.ResourceService.Create(ctx, lead)
	if err != nil {
		return nil, err
	}
	metrics.LeadsCaptured.WithLabelValues(created.Source).Inc()

	if err := s.Notify(ctx, created); err != nil {
		s.logger.Warn("Lead notification email failed", zap.String("leadId", created.ID), zap.Error(err))
	}
	if err := s.publisher.Publish(ctx, events.TypeLeadCaptured, created); err != nil {
		s.logger.Warn("Lead event publish failed", zap.String("leadId", created.ID), zap.Error(err))
	}
	return created, nil
}

// Notify sends the lead notification email. It is a no-op without recipients.
func (s *leadService) Notify(ctx context.Context, lead *models.Lead) error {
	if len(s.notifyTo) == 0 {
		return nil
	}
	if err := s.mail.Send(ctx, leadEmail(lead, s.notifyTo)); err != nil {
		return fmt.Errorf("sending lead notification: %w", err)
	}
	return nil
}

func leadEmail(lead *models.Lead, to []string) mailer.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\n", lead.Name, lead.Email)
	if lead.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", lead.Phone)
	}
	for _, field := range []struct{ label, value string }{
		{"Budget", lead.Budget},
		{"Timeline", lead.Timeline},
		{"Size", lead.Size},
		{"Estimate", lead.Estimate},
	} {
		if field.value != "" {
			fmt.Fprintf(&b, "%s: %s\n", field.label, field.value)
		}
	}
	fmt.Fprintf(&b, "\n%s\n", lead.ProjectDetails)

	return mailer.Message{
		To:      to,
		Subject: fmt.Sprintf("New %s request from %s", lead.Source, lead.Name),
		Body:    b.String(),
	}
}
