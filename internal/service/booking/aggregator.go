package booking

import (
	"context"
	"slices"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/Domenick1991/salonbooking/internal/repository"
	"github.com/shopspring/decimal"
)

// Aggregate is the combined cost and length of a set of services.
type Aggregate struct {
	TotalDuration int
	TotalPrice    decimal.Decimal
	Lines         []domain.AppointmentServiceLine
}

type ServiceAggregator struct {
	salons repository.SalonRepository
}

func NewServiceAggregator(salons repository.SalonRepository) *ServiceAggregator {
	return &ServiceAggregator{salons: salons}
}

// Aggregate resolves every id and sums durations and prices exactly.
// Duplicate ids count once. If any id is unknown the whole request fails
// with an InvalidServicesError listing all missing ids.
func (a *ServiceAggregator) Aggregate(ctx context.Context, serviceIDs []int64) (*Aggregate, error) {
	ids := slices.Clone(serviceIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return nil, &domain.InvalidServicesError{Requested: []int64{}}
	}

	services, err := a.salons.GetServices(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.InvalidServicesError{Requested: ids, Missing: missing}
	}

	agg := &Aggregate{TotalPrice: decimal.Zero, Lines: make([]domain.AppointmentServiceLine, 0, len(ids))}
	for _, id := range ids {
		svc := byID[id]
		agg.TotalDuration += svc.DurationMinutes
		agg.TotalPrice = agg.TotalPrice.Add(svc.Price)
		agg.Lines = append(agg.Lines, domain.AppointmentServiceLine{
			ServiceID:       svc.ID,
			ServiceName:     svc.Name,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
		})
	}
	return agg, nil
}
