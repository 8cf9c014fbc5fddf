package tender

import (
	"fmt"

	"github.com/google/uuid"
)

// NumberCounter is the per-(tenant, contractor, year) allocation state
// behind tender numbering. Seq only increases; a failed request may burn a
// value (gaps are acceptable, duplicates are not).
type NumberCounter struct {
	TenantID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContractorID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Year         int       `gorm:"primaryKey"`
	Seq          int64     `gorm:"not null"`
}

// TableName returns the database table name.
func (NumberCounter) TableName() string {
	return "tender_number_counters"
}

// FormatNumber builds the human-readable tender number, e.g. "AB-2024-17".
func FormatNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%d", prefix, year, seq)
}
