package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/models"
)

// Period selects the window of an admin overview.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Since returns the start of the period containing now.
func (p Period) Since(now time.Time) (time.Time, error) {
	y, m, d := now.Date()
	switch p {
	case PeriodAll, "":
		return time.Time{}, nil
	case PeriodToday:
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), nil
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, now.Location()), nil
	}
	return time.Time{}, apperr.Validation("unknown period %q", p)
}

// Overview is the admin dashboard summary. Totals cover all time; the
// other counts cover the selected period.
type Overview struct {
	Period           Period `json:"period"`
	TotalCustomers   int64  `json:"total_customers"`
	NewCustomers     int64  `json:"new_customers"`
	TotalTechnicians int64  `json:"total_technicians"`
	NewTechnicians   int64  `json:"new_technicians"`
	OpenTickets      int64  `json:"open_tickets"`
	CompletedTickets int64  `json:"completed_tickets"`
}

// Overview counts users and tickets, windowed by creation time.
func (s *Store) Overview(ctx context.Context, period Period) (Overview, error) {
	since, err := period.Since(s.clock())
	if err != nil {
		return Overview{}, err
	}
	if period == "" {
		period = PeriodAll
	}

	db := s.db.WithContext(ctx)
	out := Overview{Period: period}
	counts := []struct {
		dst   *int64
		model any
		where string
		args  []any
	}{
		{&out.TotalCustomers, &models.User{}, "role = ?", []any{models.RoleCustomer}},
		{&out.NewCustomers, &models.User{}, "role = ? AND created_at >= ?", []any{models.RoleCustomer, since}},
		{&out.TotalTechnicians, &models.User{}, "role = ?", []any{models.RoleTechnician}},
		{&out.NewTechnicians, &models.User{}, "role = ? AND created_at >= ?", []any{models.RoleTechnician, since}},
		{&out.OpenTickets, &models.ServiceTicket{}, "status = ? AND created_at >= ?", []any{models.TicketOpen, since}},
		{&out.CompletedTickets, &models.ServiceTicket{}, "status = ? AND created_at >= ?", []any{models.TicketCompleted, since}},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where(c.where, c.args...).Count(c.dst).Error; err != nil {
			return Overview{}, fmt.Errorf("overview: %w", err)
		}
	}
	return out, nil
}

// Payouts splits completed tickets by payout status, newest completion
// first.
type Payouts struct {
	Pending      []models.ServiceTicket `json:"pending"`
	Paid         []models.ServiceTicket `json:"paid"`
	PendingTotal float64                `json:"pending_total"`
	PaidTotal    float64                `json:"paid_total"`
}

func (s *Store) TechnicianPayouts(ctx context.Context) (Payouts, error) {
	var tickets []models.ServiceTicket
	err := s.db.WithContext(ctx).
		Where("status = ? AND technician_earning IS NOT NULL", models.TicketCompleted).
		Order("completed_at DESC").
		Find(&tickets).Error
	if err != nil {
		return Payouts{}, fmt.Errorf("list payouts: %w", err)
	}

	out := Payouts{Pending: []models.ServiceTicket{}, Paid: []models.ServiceTicket{}}
	for _, t := range tickets {
		if t.PaymentStatus != nil && *t.PaymentStatus == models.PaymentPaid {
			out.Paid = append(out.Paid, t)
			out.PaidTotal += *t.TechnicianEarning
			continue
		}
		out.Pending = append(out.Pending, t)
		out.PendingTotal += *t.TechnicianEarning
	}
	return out, nil
}

// Earnings lists a technician's completed jobs in a window and what they
// earned. Year and Month are zero when not filtered.
type Earnings struct {
	TechnicianID string                 `json:"technician_id"`
	Year         int                    `json:"year,omitempty"`
	Month        int                    `json:"month,omitempty"`
	Jobs         []models.ServiceTicket `json:"jobs"`
	Total        float64                `json:"total"`
	Years        []int                  `json:"years"`
}

// TechnicianEarnings filters a technician's completed jobs by completion
// year and month. Zero means any.
func (s *Store) TechnicianEarnings(ctx context.Context, technicianID string, year, month int) (Earnings, error) {
	if month < 0 || month > 12 {
		return Earnings{}, apperr.Validation("month must be between 1 and 12")
	}
	if _, err := s.User(ctx, technicianID); err != nil {
		return Earnings{}, err
	}

	var completed []models.ServiceTicket
	err := s.db.WithContext(ctx).
		Where("technician_id = ? AND status = ?", technicianID, models.TicketCompleted).
		Order("completed_at DESC").
		Find(&completed).Error
	if err != nil {
		return Earnings{}, fmt.Errorf("list earnings: %w", err)
	}

	out := Earnings{TechnicianID: technicianID, Year: year, Month: month, Jobs: []models.ServiceTicket{}, Years: []int{}}
	seen := map[int]bool{}
	for _, t := range completed {
		if t.CompletedAt == nil {
			continue
		}
		at := t.CompletedAt.UTC()
		if !seen[at.Year()] {
			seen[at.Year()] = true
			out.Years = append(out.Years, at.Year())
		}
		if (year != 0 && at.Year() != year) || (month != 0 && int(at.Month()) != month) {
			continue
		}
		out.Jobs = append(out.Jobs, t)
		if t.TechnicianEarning != nil {
			out.Total += *t.TechnicianEarning
		}
	}
	return out, nil
}

// TechnicianStats summarizes a technician's workload from their tickets.
type TechnicianStats struct {
	TechnicianID  string  `json:"technician_id"`
	Completed     int     `json:"completed"`
	Active        int     `json:"active"`
	AverageRating float64 `json:"average_rating"`
	RatedJobs     int     `json:"rated_jobs"`
}

func (s *Store) TechnicianStats(ctx context.Context, technicianID string) (TechnicianStats, error) {
	tickets, err := s.Tickets(ctx, TicketFilter{TechnicianID: technicianID})
	if err != nil {
		return TechnicianStats{}, err
	}

	out := TechnicianStats{TechnicianID: technicianID}
	var ratingSum int
	for _, t := range tickets {
		switch t.Status {
		case models.TicketCompleted:
			out.Completed++
			if t.Rating != nil {
				out.RatedJobs++
				ratingSum += *t.Rating
			}
		case models.TicketAssigned, models.TicketInProgress:
			out.Active++
		}
	}
	if out.RatedJobs > 0 {
		out.AverageRating = math.Round(float64(ratingSum)/float64(out.RatedJobs)*10) / 10
	}
	return out, nil
}
