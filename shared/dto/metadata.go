package dto

import (
	"prestige/shared/constant"
	"prestige/shared/model"
	"prestige/shared/timezone"
	"time"
)

// Metadata is the audit block rendered on every resource response.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at,omitempty"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func formatStamp(stamp time.Time) string {
	if stamp.IsZero() {
		return constant.Empty
	}

	return timezone.Format(stamp, constant.DateFormat)
}

// FromModel copies the audit columns. Stamps that were never set render empty.
func (m *Metadata) FromModel(metadata model.Metadata) {
	m.CreatedAt = formatStamp(metadata.CreatedAt)
	m.ModifiedAt = formatStamp(metadata.ModifiedAt)
	m.CreatedBy = metadata.CreatedBy
	m.ModifiedBy = metadata.ModifiedBy
}
