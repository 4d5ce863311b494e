package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo ubicaciones en memoria.
type LocationRepo struct {
	store *Store
}

func (r *LocationRepo) Create(_ context.Context, loc *entity.Location) error {
	return r.store.view(nil, func(d *dataset) error {
		for _, l := range d.locations {
			if l.Code == loc.Code {
				return fmt.Errorf("ubicación %s: %w", loc.Code, domain.ErrDuplicate)
			}
		}
		c := *loc
		d.locations[loc.ID] = &c
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.store.view(nil, func(d *dataset) error {
		if l, ok := d.locations[id]; ok {
			c := *l
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) FirstActive(ctx context.Context) (*entity.Location, error) {
	list, err := r.ListActive(ctx)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func (r *LocationRepo) ListActive(_ context.Context) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.store.view(nil, func(d *dataset) error {
		for _, l := range d.locations {
			if l.Active {
				c := *l
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

// Deactivate marca una ubicación como inactiva (pruebas y semillas).
func (r *LocationRepo) Deactivate(_ context.Context, id string) error {
	return r.store.view(nil, func(d *dataset) error {
		l, ok := d.locations[id]
		if !ok {
			return fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
		}
		l.Active = false
		return nil
	})
}
