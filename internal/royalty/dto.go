package royalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
)

// ReportDTO is the outward representation of a royalty report. DownloadURL
// is a short-lived signed link populated when the report is listed.
type ReportDTO struct {
	ID            uuid.UUID  `json:"id"`
	ReportPeriod  string     `json:"report_period"`
	FileObjectKey string     `json:"file_object_key"`
	FileType      string     `json:"file_type"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	ArtistID      *uuid.UUID `json:"artist_id,omitempty"`
	LabelID       *uuid.UUID `json:"label_id,omitempty"`
	DownloadURL   string     `json:"download_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func fromModel(report *models.RoyaltyReport) *ReportDTO {
	if report == nil {
		return nil
	}
	return &ReportDTO{
		ID:            report.ID,
		ReportPeriod:  report.ReportPeriod,
		FileObjectKey: report.FileObjectKey,
		FileType:      report.FileType,
		UserID:        report.UserID,
		ArtistID:      report.ArtistID,
		LabelID:       report.LabelID,
		CreatedAt:     report.CreatedAt,
	}
}

// UploadReportRequest is the admin payload for publishing a royalty report.
// Exactly one of UserID, ArtistID or LabelID must be set; the report is
// visible to the account that owns the target.
type UploadReportRequest struct {
	ReportPeriod  string  `json:"report_period" validate:"required,min=4,max=40"`
	FileObjectKey string  `json:"file_object_key" validate:"required,max=512"`
	UserID        *string `json:"user_id,omitempty" validate:"omitempty,uuid"`
	ArtistID      *string `json:"artist_id,omitempty" validate:"omitempty,uuid"`
	LabelID       *string `json:"label_id,omitempty" validate:"omitempty,uuid"`

	// Optional earnings credited to the target owner's wallet alongside
	// the report.
	CreditAmount      *decimal.Decimal `json:"credit_amount,omitempty"`
	CreditDescription *string          `json:"credit_description,omitempty" validate:"omitempty,max=500"`
}

// ReportPage is a cursor page of royalty reports.
type ReportPage struct {
	Items      []ReportDTO `json:"items"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}
