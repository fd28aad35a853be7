// Package memory is an in-process implementation of the salon and
// appointment repositories. It backs tests and the "memory" database
// driver.
package memory

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/Domenick1991/salonbooking/internal/repository"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Store struct {
	mu       sync.RWMutex
	salons   map[int64]domain.Salon
	staff    map[int64]domain.Staff
	services map[int64]domain.Service
	appts    map[int64]domain.Appointment
	nextAppt int64
	nextLine int64
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		salons:   make(map[int64]domain.Salon),
		staff:    make(map[int64]domain.Staff),
		services: make(map[int64]domain.Service),
		appts:    make(map[int64]domain.Appointment),
		now:      time.Now,
	}
}

func (s *Store) AddSalon(salon domain.Salon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.salons[salon.ID] = salon
}

func (s *Store) AddStaff(staff domain.Staff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff[staff.ID] = staff
}

func (s *Store) AddService(svc domain.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = svc
}

func (s *Store) GetSalon(_ context.Context, id int64) (*domain.Salon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	salon, ok := s.salons[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "salon", ID: id}
	}
	return &salon, nil
}

func (s *Store) GetStaff(_ context.Context, id int64) (*domain.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.staff[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "staff", ID: id}
	}
	return &st, nil
}

func (s *Store) GetServices(_ context.Context, ids []int64) ([]domain.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Service, 0, len(ids))
	for _, id := range ids {
		if svc, ok := s.services[id]; ok {
			out = append(out, svc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Create(_ context.Context, appt *domain.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.appts {
		if existing.StaffID != appt.StaffID || !existing.Status.Active() {
			continue
		}
		if domain.Overlaps(existing.StartAt, existing.EndAt, appt.StartAt, appt.EndAt) {
			return domain.ErrSchedulingConflict
		}
	}

	s.nextAppt++
	now := s.now()
	appt.ID = s.nextAppt
	appt.CreatedAt = now
	appt.UpdatedAt = now
	for i := range appt.Services {
		s.nextLine++
		appt.Services[i].ID = s.nextLine
		appt.Services[i].AppointmentID = appt.ID
	}
	s.appts[appt.ID] = clone(*appt)
	return nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	appt, ok := s.appts[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "appointment", ID: id}
	}
	out := clone(appt)
	return &out, nil
}

func (s *Store) ListByUser(_ context.Context, userID int64) ([]domain.Appointment, error) {
	out := s.filter(func(a domain.Appointment) bool { return a.UserID == userID })
	slices.Reverse(out)
	return out, nil
}

func (s *Store) ListActiveByStaff(_ context.Context, staffID int64) ([]domain.Appointment, error) {
	return s.filter(func(a domain.Appointment) bool {
		return a.StaffID == staffID && a.Status.Active()
	}), nil
}

func (s *Store) ListBySalon(_ context.Context, salonID int64, status domain.AppointmentStatus, from, to time.Time) ([]domain.Appointment, error) {
	return s.filter(func(a domain.Appointment) bool {
		return a.SalonID == salonID && a.Status == status && !a.StartAt.Before(from) && a.StartAt.Before(to)
	}), nil
}

func (s *Store) UpdateStatus(_ context.Context, id int64, from, to domain.AppointmentStatus) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appts[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "appointment", ID: id}
	}
	if appt.Status != from {
		return nil, &domain.TransitionError{From: appt.Status, To: to}
	}
	appt.Status = to
	appt.UpdatedAt = s.now()
	s.appts[id] = appt
	out := clone(appt)
	return &out, nil
}

// filter returns matching appointments ordered by start time.
func (s *Store) filter(keep func(domain.Appointment) bool) []domain.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Appointment, 0)
	for _, a := range s.appts {
		if keep(a) {
			out = append(out, clone(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartAt.Before(out[j].StartAt)
	})
	return out
}

func clone(a domain.Appointment) domain.Appointment {
	a.Services = slices.Clone(a.Services)
	if a.Services == nil {
		a.Services = []domain.AppointmentServiceLine{}
	}
	return a
}

// Seed is the on-disk catalog format accepted by LoadSeed.
type Seed struct {
	Salons []struct {
		ID    int64             `yaml:"id"`
		Name  string            `yaml:"name"`
		Hours map[string]string `yaml:"operating_hours"`
	} `yaml:"salons"`
	Staff []struct {
		ID      int64  `yaml:"id"`
		SalonID int64  `yaml:"salon_id"`
		Name    string `yaml:"name"`
	} `yaml:"staff"`
	Services []struct {
		ID              int64  `yaml:"id"`
		Name            string `yaml:"name"`
		DurationMinutes int    `yaml:"duration_minutes"`
		Price           string `yaml:"price"`
	} `yaml:"services"`
}

func (s *Store) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed: %w", err)
	}
	return s.Apply(seed)
}

func (s *Store) Apply(seed Seed) error {
	now := s.now()
	for _, sl := range seed.Salons {
		s.AddSalon(domain.Salon{ID: sl.ID, Name: sl.Name, OperatingHours: domain.OperatingHours(sl.Hours), CreatedAt: now, UpdatedAt: now})
	}
	for _, st := range seed.Staff {
		s.AddStaff(domain.Staff{ID: st.ID, SalonID: st.SalonID, Name: st.Name, CreatedAt: now})
	}
	for _, svc := range seed.Services {
		price, err := decimal.NewFromString(svc.Price)
		if err != nil {
			return fmt.Errorf("service %d: invalid price %q: %w", svc.ID, svc.Price, err)
		}
		s.AddService(domain.Service{ID: svc.ID, Name: svc.Name, DurationMinutes: svc.DurationMinutes, Price: price, CreatedAt: now})
	}
	return nil
}

var (
	_ repository.SalonRepository       = (*Store)(nil)
	_ repository.AppointmentRepository = (*Store)(nil)
)
