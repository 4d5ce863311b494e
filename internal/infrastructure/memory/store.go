// Package memory implementa los repositorios del libro de lotes en memoria.
// Cada transacción trabaja sobre una copia del estado que reemplaza al original solo si fn no falla.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/farmacia-lotes/internal/application/inventory"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store estado completo del almacén en memoria.
type Store struct {
	mu   sync.Mutex
	data *dataset

	failMovements error
}

type dataset struct {
	lots      map[string]*entity.Lot
	movements []*entity.Movement
	locations map[string]*entity.Location
	products  map[string]*entity.Product
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: &dataset{
		lots:      map[string]*entity.Lot{},
		locations: map[string]*entity.Location{},
		products:  map[string]*entity.Product{},
	}}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		lots:      make(map[string]*entity.Lot, len(d.lots)),
		movements: make([]*entity.Movement, len(d.movements)),
		locations: make(map[string]*entity.Location, len(d.locations)),
		products:  make(map[string]*entity.Product, len(d.products)),
	}
	for id, l := range d.lots {
		c.lots[id] = cloneLot(l)
	}
	// Los movimientos son inmutables: basta copiar el slice.
	copy(c.movements, d.movements)
	for id, l := range d.locations {
		loc := *l
		c.locations[id] = &loc
	}
	for id, p := range d.products {
		prod := *p
		c.products[id] = &prod
	}
	return c
}

// Run ejecuta fn con repos atados a una copia del estado; si fn no falla la copia pasa a ser el estado.
// Las transacciones se serializan con el mutex del almacén.
func (s *Store) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.data.clone()
	if err := fn(&LotRepo{store: s, tx: tx}, &MovementRepo{store: s, tx: tx}, &ProductRepo{store: s, tx: tx}); err != nil {
		return err
	}
	s.data = tx
	return nil
}

// Lots repositorio de lotes fuera de transacción.
func (s *Store) Lots() *LotRepo { return &LotRepo{store: s} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{store: s} }

// Locations repositorio de ubicaciones.
func (s *Store) Locations() *LocationRepo { return &LocationRepo{store: s} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{store: s} }

// PutProduct inserta o reemplaza un producto del catálogo (el catálogo lo gestiona otro módulo).
func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.products[p.ID] = &p
}

// FailMovementsWith hace que todo Record devuelva err (nil restablece). Simula una caída del libro.
func (s *Store) FailMovementsWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failMovements = err
}

// view ejecuta fn sobre el dataset de la tx o, sin tx, sobre el estado con el mutex tomado.
func (s *Store) view(tx *dataset, fn func(d *dataset) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func cloneLot(l *entity.Lot) *entity.Lot {
	c := *l
	if l.LocationID != nil {
		v := *l.LocationID
		c.LocationID = &v
	}
	if l.SalePrice != nil {
		v := *l.SalePrice
		c.SalePrice = &v
	}
	if l.ExpiryDate != nil {
		v := *l.ExpiryDate
		c.ExpiryDate = &v
	}
	if l.SupplierID != nil {
		v := *l.SupplierID
		c.SupplierID = &v
	}
	return &c
}
