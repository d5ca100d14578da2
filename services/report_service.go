package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/servicehub-pro/servicehub-api/models"
	"github.com/servicehub-pro/servicehub-api/utils"
)

// PaymentSource lists ledger entries. A blank customerID means all.
type PaymentSource interface {
	Payments(ctx context.Context, customerID string) ([]models.CustomerPayment, error)
}

// Export describes an uploaded report
type Export struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Rows int    `json:"rows"`
}

// ReportService renders ledger reports and publishes them to object storage
type ReportService struct {
	storage  ObjectStorage
	payments PaymentSource
	now      func() time.Time
	log      zerolog.Logger
}

// NewReportService creates a report service over storage
func NewReportService(storage ObjectStorage, payments PaymentSource, log zerolog.Logger) *ReportService {
	return &ReportService{storage: storage, payments: payments, now: time.Now, log: log}
}

// ExportPayments uploads the customer payment ledger as CSV and returns a
// presigned link to it
func (s *ReportService) ExportPayments(ctx context.Context) (Export, error) {
	payments, err := s.payments.Payments(ctx, "")
	if err != nil {
		return Export{}, err
	}

	body, err := utils.PaymentsCSV(payments)
	if err != nil {
		return Export{}, fmt.Errorf("render payments: %w", err)
	}

	key := fmt.Sprintf("reports/payments/%s.csv", s.now().UTC().Format("20060102T150405Z"))
	if err := s.storage.PutObject(ctx, key, body, "text/csv"); err != nil {
		return Export{}, fmt.Errorf("failed to store report: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ctx, key)
	if err != nil {
		return Export{}, fmt.Errorf("failed to generate report URL: %w", err)
	}

	s.log.Info().Str("key", key).Int("rows", len(payments)).Msg("payment report exported")
	return Export{Key: key, URL: url, Rows: len(payments)}, nil
}
