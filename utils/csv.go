package utils

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/servicehub-pro/servicehub-api/models"
)

// PaymentsCSVHeader is the header row of a payment report
var PaymentsCSVHeader = []string{"id", "customer_id", "customer_name", "tier", "type", "amount", "payment_date"}

// PaymentsCSV renders ledger entries as CSV, one row per payment
func PaymentsCSV(payments []models.CustomerPayment) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(PaymentsCSVHeader); err != nil {
		return nil, err
	}
	for _, p := range payments {
		row := []string{
			p.ID,
			p.CustomerID,
			p.CustomerName,
			p.Tier,
			string(p.Type),
			strconv.FormatFloat(p.Amount, 'f', 2, 64),
			p.PaymentDate.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
