package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lindabi/backend/internal/domain/audit"
)

// JourneyService records and reads audit journey entries. Write paths are
// invoked from inside coordinator transactions with a transaction-scoped
// repository; the read path uses the service's own repository.
type JourneyService struct {
	journeyRepo audit.Repository
	logger      *zap.Logger
}

// NewJourneyService creates a journey service.
func NewJourneyService(journeyRepo audit.Repository, logger *zap.Logger) *JourneyService {
	return &JourneyService{
		journeyRepo: journeyRepo,
		logger:      logger,
	}
}

// AddSimpleLog appends a single activity entry ("created", "copied",
// "deleted") with no field diff. A nil repo falls back to the service's
// default repository.
func (s *JourneyService) AddSimpleLog(ctx context.Context, repo audit.Repository, ownerType string, ownerID uuid.UUID, activity string, actor uuid.UUID) error {
	if repo == nil {
		repo = s.journeyRepo
	}

	entry, err := audit.NewJourney(ownerType, ownerID, activity, actor.String())
	if err != nil {
		return err
	}
	return repo.Append(ctx, entry)
}

// AddDiffLogs compares a snapshot against a patch and appends one "updated"
// entry per changed property. Unchanged properties produce no entries.
func (s *JourneyService) AddDiffLogs(ctx context.Context, repo audit.Repository, ownerType string, ownerID uuid.UUID, existed, updated map[string]any, actor uuid.UUID) error {
	if repo == nil {
		repo = s.journeyRepo
	}

	for _, change := range audit.DiffFields(existed, updated) {
		entry, err := audit.NewJourney(ownerType, ownerID, "updated", actor.String())
		if err != nil {
			return err
		}
		entry.WithChange(change.Property, change.Existed, change.Updated)
		if err := repo.Append(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// JourneyEntry is a journey record prepared for display.
type JourneyEntry struct {
	ID        uuid.UUID `json:"id"`
	Activity  string    `json:"activity"`
	Property  string    `json:"property,omitempty"`
	Existed   string    `json:"existed,omitempty"`
	Updated   string    `json:"updated,omitempty"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

var propertyLabels = map[string]string{
	"status":        "Status",
	"number":        "Number",
	"contractor_id": "Contractor",
	"customer_id":   "Customer",
	"surcharge":     "Surcharge %",
	"discount":      "Discount %",
	"vat_key":       "VAT %",
	"fee":           "Survey fee",
	"returned":      "Survey fee returned",
	"currency":      "Currency",
	"valid_to":      "Valid to",
	"opened_on":     "Opened on",
	"notes":         "Notes",
	"name":          "Name",
	"quantity":      "Quantity",
	"unit":          "Unit",
}

var dateProperties = map[string]struct{}{
	"valid_to":  {},
	"opened_on": {},
}

// GetJourneys returns the owner's entries newest first, with property
// names replaced by display labels and values reformatted for reading.
func (s *JourneyService) GetJourneys(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]JourneyEntry, error) {
	records, err := s.journeyRepo.FindByOwner(ctx, ownerType, ownerID)
	if err != nil {
		s.logger.Error("failed to load journeys",
			zap.String("owner_type", ownerType),
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to load journeys: %w", err)
	}

	entries := make([]JourneyEntry, 0, len(records))
	for _, record := range records {
		entry := JourneyEntry{
			ID:        record.ID,
			Activity:  record.Activity,
			Actor:     record.Actor,
			CreatedAt: record.CreatedAt,
		}
		if record.Property != nil {
			entry.Property = displayLabel(*record.Property)
			entry.Existed = displayValue(*record.Property, deref(record.Existed))
			entry.Updated = displayValue(*record.Property, deref(record.Updated))
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func displayLabel(property string) string {
	if label, ok := propertyLabels[property]; ok {
		return label
	}
	return property
}

func displayValue(property, value string) string {
	if value == "" {
		return ""
	}
	if _, isDate := dateProperties[property]; isDate {
		if parsed, err := time.Parse(time.RFC3339, value); err == nil {
			return parsed.Format("2006-01-02")
		}
		return value
	}
	if property == "status" {
		return strings.ToUpper(value[:1]) + strings.ReplaceAll(value[1:], "_", " ")
	}
	return value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
