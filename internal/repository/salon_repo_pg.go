package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SalonRepository reads the salon, staff and service records owned by
// other subsystems. The engine never writes them.
type SalonRepository interface {
	GetSalon(ctx context.Context, id int64) (*domain.Salon, error)
	GetStaff(ctx context.Context, id int64) (*domain.Staff, error)
	GetServices(ctx context.Context, ids []int64) ([]domain.Service, error)
}

type PGSalonRepository struct {
	db *pgxpool.Pool
}

func NewSalonRepository(db *pgxpool.Pool) SalonRepository {
	return &PGSalonRepository{db: db}
}

func (r *PGSalonRepository) GetSalon(ctx context.Context, id int64) (*domain.Salon, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, operating_hours, created_at, updated_at FROM salons WHERE id=$1`, id)
	var (
		s   domain.Salon
		raw []byte
	)
	if err := row.Scan(&s.ID, &s.Name, &raw, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, notFound("salon", id, "get salon", err)
	}
	s.OperatingHours = domain.OperatingHours{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.OperatingHours); err != nil {
			return nil, mapError("decode operating hours", err)
		}
	}
	return &s, nil
}

func (r *PGSalonRepository) GetStaff(ctx context.Context, id int64) (*domain.Staff, error) {
	row := r.db.QueryRow(ctx, `SELECT id, salon_id, name, created_at FROM staff WHERE id=$1`, id)
	var s domain.Staff
	if err := row.Scan(&s.ID, &s.SalonID, &s.Name, &s.CreatedAt); err != nil {
		return nil, notFound("staff", id, "get staff", err)
	}
	return &s, nil
}

// GetServices returns the services that exist among ids; unknown ids are
// simply absent from the result.
func (r *PGSalonRepository) GetServices(ctx context.Context, ids []int64) ([]domain.Service, error) {
	if len(ids) == 0 {
		return []domain.Service{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id, name, duration_minutes, price::text, created_at FROM services WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, mapError("list services", err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0, len(ids))
	for rows.Next() {
		var (
			s     domain.Service
			price string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.DurationMinutes, &price, &s.CreatedAt); err != nil {
			return nil, mapError("scan service", err)
		}
		if s.Price, err = decimal.NewFromString(price); err != nil {
			return nil, mapError("decode service price", fmt.Errorf("service %d: %w", s.ID, err))
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list services", err)
	}
	return services, nil
}

var _ SalonRepository = (*PGSalonRepository)(nil)
