package notion

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/metrics/counter"
)

const OpUpdatePage = "update_page"

// PageUpdater is the one Notion call the relay makes.
type PageUpdater interface {
	UpdatePageProperties(ctx context.Context, pageID string, properties map[string]any) (*Page, error)
}

// Service writes the completion status back onto a record.
type Service struct {
	pages          PageUpdater
	statusProperty string
	completedLabel string
}

func NewService(pages PageUpdater, statusProperty, completedLabel string) *Service {
	return &Service{
		pages:          pages,
		statusProperty: strings.TrimSpace(statusProperty),
		completedLabel: strings.TrimSpace(completedLabel),
	}
}

// MarkCompleted sets the status property to the completed label. It does not
// read the page first and does not retry.
func (s *Service) MarkCompleted(ctx context.Context, recordID string) error {
	_, err := s.pages.UpdatePageProperties(ctx, recordID, map[string]any{
		s.statusProperty: StatusValue{Status: StatusOption{Name: s.completedLabel}},
	})
	counter.AddRemoteCall(counter.PlatformDocument, OpUpdatePage, err)
	if err != nil {
		log.Error().Err(err).Str("record_id", recordID).Msg("failed to update record status")
		return err
	}
	return nil
}
