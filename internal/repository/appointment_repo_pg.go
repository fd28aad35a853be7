package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type AppointmentRepository interface {
	// Create inserts the appointment and all of its service lines as one
	// unit. It fails with domain.ErrSchedulingConflict when an active
	// appointment of the same staff member overlaps [StartAt, EndAt).
	Create(ctx context.Context, appt *domain.Appointment) error
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Appointment, error)
	ListActiveByStaff(ctx context.Context, staffID int64) ([]domain.Appointment, error)
	// ListBySalon returns appointments of the salon in the given status
	// whose start falls within [from, to).
	ListBySalon(ctx context.Context, salonID int64, status domain.AppointmentStatus, from, to time.Time) ([]domain.Appointment, error)
	// UpdateStatus moves the appointment from one status to another and
	// fails with domain.ErrInvalidTransition if it is no longer in from.
	UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) (*domain.Appointment, error)
}

type PGAppointmentRepository struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) AppointmentRepository {
	return &PGAppointmentRepository{db: db}
}

const appointmentColumns = `id, salon_id, staff_id, user_id, start_at, end_at, status, total_price::text, total_duration, notes, created_at, updated_at`

func (r *PGAppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return mapError("begin appointment tx", err)
	}
	defer tx.Rollback(ctx)

	// Serialises bookings per staff member for the lifetime of the tx.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, appt.StaffID); err != nil {
		return mapError("lock staff schedule", err)
	}

	var overlapping bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE staff_id = $1 AND status = ANY($2) AND start_at < $4 AND end_at > $3
		)`, appt.StaffID, statusStrings(domain.ActiveStatuses()), appt.StartAt, appt.EndAt).Scan(&overlapping); err != nil {
		return mapError("check staff overlap", err)
	}
	if overlapping {
		return domain.ErrSchedulingConflict
	}

	if err := tx.QueryRow(ctx, `INSERT INTO appointments (salon_id, staff_id, user_id, start_at, end_at, status, total_price, total_duration, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9)
		RETURNING id, created_at, updated_at`,
		appt.SalonID, appt.StaffID, appt.UserID, appt.StartAt, appt.EndAt, appt.Status, appt.TotalPrice.String(), appt.TotalDuration, appt.Notes).
		Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt); err != nil {
		return mapError("insert appointment", err)
	}

	for i := range appt.Services {
		line := &appt.Services[i]
		line.AppointmentID = appt.ID
		if err := tx.QueryRow(ctx, `INSERT INTO appointment_services (appointment_id, service_id, service_name, duration_minutes, price)
			VALUES ($1, $2, $3, $4, $5::numeric)
			RETURNING id`, line.AppointmentID, line.ServiceID, line.ServiceName, line.DurationMinutes, line.Price.String()).
			Scan(&line.ID); err != nil {
			return mapError("insert appointment service", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError("commit appointment", err)
	}
	return nil
}

func (r *PGAppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id=$1`, id)
	appt, err := scanAppointment(row)
	if err != nil {
		return nil, notFound("appointment", id, "get appointment", err)
	}
	if err := r.attachLines(ctx, []*domain.Appointment{appt}); err != nil {
		return nil, err
	}
	return appt, nil
}

func (r *PGAppointmentRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Appointment, error) {
	appts, err := r.list(ctx, "list user appointments", `SELECT `+appointmentColumns+` FROM appointments WHERE user_id=$1 ORDER BY start_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	ptrs := make([]*domain.Appointment, len(appts))
	for i := range appts {
		ptrs[i] = &appts[i]
	}
	if err := r.attachLines(ctx, ptrs); err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *PGAppointmentRepository) ListActiveByStaff(ctx context.Context, staffID int64) ([]domain.Appointment, error) {
	return r.list(ctx, "list staff appointments", `SELECT `+appointmentColumns+` FROM appointments WHERE staff_id=$1 AND status = ANY($2) ORDER BY start_at`,
		staffID, statusStrings(domain.ActiveStatuses()))
}

func (r *PGAppointmentRepository) ListBySalon(ctx context.Context, salonID int64, status domain.AppointmentStatus, from, to time.Time) ([]domain.Appointment, error) {
	return r.list(ctx, "list salon appointments", `SELECT `+appointmentColumns+` FROM appointments
		WHERE salon_id=$1 AND status=$2 AND start_at >= $3 AND start_at < $4 ORDER BY start_at`,
		salonID, status, from, to)
}

func (r *PGAppointmentRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) (*domain.Appointment, error) {
	row := r.db.QueryRow(ctx, `UPDATE appointments SET status=$1, updated_at=now() WHERE id=$2 AND status=$3 RETURNING `+appointmentColumns, to, id, from)
	appt, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, &domain.TransitionError{From: current.Status, To: to}
	}
	if err != nil {
		return nil, mapError("update appointment status", err)
	}
	if err := r.attachLines(ctx, []*domain.Appointment{appt}); err != nil {
		return nil, err
	}
	return appt, nil
}

func (r *PGAppointmentRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Appointment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	appts := make([]domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		appts = append(appts, *appt)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return appts, nil
}

func (r *PGAppointmentRepository) attachLines(ctx context.Context, appts []*domain.Appointment) error {
	if len(appts) == 0 {
		return nil
	}
	ids := make([]int64, len(appts))
	byID := make(map[int64]*domain.Appointment, len(appts))
	for i, a := range appts {
		ids[i] = a.ID
		byID[a.ID] = a
		a.Services = []domain.AppointmentServiceLine{}
	}

	rows, err := r.db.Query(ctx, `SELECT id, appointment_id, service_id, service_name, duration_minutes, price::text
		FROM appointment_services WHERE appointment_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return mapError("list appointment services", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line  domain.AppointmentServiceLine
			price string
		)
		if err := rows.Scan(&line.ID, &line.AppointmentID, &line.ServiceID, &line.ServiceName, &line.DurationMinutes, &price); err != nil {
			return mapError("scan appointment service", err)
		}
		if line.Price, err = decimal.NewFromString(price); err != nil {
			return mapError("decode line price", err)
		}
		if a := byID[line.AppointmentID]; a != nil {
			a.Services = append(a.Services, line)
		}
	}
	return mapError("list appointment services", rows.Err())
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a     domain.Appointment
		price string
	)
	if err := row.Scan(&a.ID, &a.SalonID, &a.StaffID, &a.UserID, &a.StartAt, &a.EndAt, &a.Status, &price, &a.TotalDuration, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	a.TotalPrice = total
	return &a, nil
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

var _ AppointmentRepository = (*PGAppointmentRepository)(nil)
