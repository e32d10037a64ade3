package testhelpers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/plotline/mono-repo/backend/shared/go-models"
	"github.com/plotline/mono-repo/backend/shared/go-repositories"
)

const (
	TableLocations = "locations"
	TableLands     = "lands"
	TableBuildings = "buildings"
	TableUnits     = "units"
	TableProducts  = "products"
	TableLeases    = "leases"
	TableMedia     = "media"
)

/*
MemStore is an in-memory repositories.TxRunner for unit tests. It enforces
the same unique and foreign key constraints as schema.sql and reports
violations as *pgconn.PgError, so callers take the same error branches as
against Postgres.

Writes land in shared state immediately and are undone on rollback; other
transactions can observe them before commit. LockByID takes a real row
lock held until the transaction ends.
*/
type MemStore struct {
	mu        sync.Mutex
	locations map[uuid.UUID]models.Location
	lands     map[uuid.UUID]models.Land
	buildings map[uuid.UUID]models.Building
	units     map[uuid.UUID]models.Unit
	products  map[uuid.UUID]models.Product
	leases    map[uuid.UUID]models.Lease
	media     map[uuid.UUID]models.Media

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex

	// AfterNaturalKeyMiss runs after a natural-key lookup on table found
	// nothing. Tests use it to slip a competing transaction in between the
	// check and the insert.
	AfterNaturalKeyMiss func(table string)

	// BeforeInsert runs before a row is inserted into table. A non-nil
	// error fails the insert with that error.
	BeforeInsert func(table string) error

	// BeforeDelete is the delete counterpart of BeforeInsert.
	BeforeDelete func(table string) error
}

func NewMemStore() *MemStore {
	return &MemStore{
		locations: map[uuid.UUID]models.Location{},
		lands:     map[uuid.UUID]models.Land{},
		buildings: map[uuid.UUID]models.Building{},
		units:     map[uuid.UUID]models.Unit{},
		products:  map[uuid.UUID]models.Product{},
		leases:    map[uuid.UUID]models.Lease{},
		media:     map[uuid.UUID]models.Media{},
		locks:     map[uuid.UUID]*sync.Mutex{},
	}
}

// Count returns the number of committed or in-flight rows in table.
func (s *MemStore) Count(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch table {
	case TableLocations:
		return len(s.locations)
	case TableLands:
		return len(s.lands)
	case TableBuildings:
		return len(s.buildings)
	case TableUnits:
		return len(s.units)
	case TableProducts:
		return len(s.products)
	case TableLeases:
		return len(s.leases)
	case TableMedia:
		return len(s.media)
	}
	return 0
}

// Lease returns a copy of the stored lease, or nil.
func (s *MemStore) Lease(id uuid.UUID) *models.Lease {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leases[id]
	if !ok {
		return nil
	}
	return &l
}

func (s *MemStore) InTx(ctx context.Context, fn func(repositories.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memTx{s: s, held: map[uuid.UUID]*sync.Mutex{}}
	defer tx.releaseLocks()

	if err := fn(tx); err != nil {
		tx.rollbackTo(0)
		return err
	}
	return nil
}

func (s *MemStore) afterMiss(table string) {
	if s.AfterNaturalKeyMiss != nil {
		s.AfterNaturalKeyMiss(table)
	}
}

func (s *MemStore) beforeDelete(table string) error {
	if s.BeforeDelete != nil {
		return s.BeforeDelete(table)
	}
	return nil
}

func (s *MemStore) beforeInsert(table string) error {
	if s.BeforeInsert != nil {
		return s.BeforeInsert(table)
	}
	return nil
}

/* ------------------------------------------------------------------
   Transaction
------------------------------------------------------------------ */

type memTx struct {
	s    *MemStore
	undo []func()
	held map[uuid.UUID]*sync.Mutex
}

func (t *memTx) Locations() repositories.LocationRepository { return &memLocations{t} }
func (t *memTx) Lands() repositories.LandRepository         { return &memLands{t} }
func (t *memTx) Buildings() repositories.BuildingRepository { return &memBuildings{t} }
func (t *memTx) Units() repositories.UnitRepository         { return &memUnits{t} }
func (t *memTx) Products() repositories.ProductRepository   { return &memProducts{t} }
func (t *memTx) Leases() repositories.LeaseRepository       { return &memLeases{t} }
func (t *memTx) Media() repositories.MediaRepository        { return &memMedia{t} }

func (t *memTx) Savepoint(ctx context.Context, fn func(repositories.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mark := len(t.undo)
	if err := fn(t); err != nil {
		t.rollbackTo(mark)
		return err
	}
	return nil
}

func (t *memTx) rollbackTo(mark int) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := len(t.undo) - 1; i >= mark; i-- {
		t.undo[i]()
	}
	t.undo = t.undo[:mark]
}

func (t *memTx) lockRow(id uuid.UUID) {
	if _, ok := t.held[id]; ok {
		return
	}
	t.s.locksMu.Lock()
	m, ok := t.s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		t.s.locks[id] = m
	}
	t.s.locksMu.Unlock()

	m.Lock()
	t.held[id] = m
}

func (t *memTx) releaseLocks() {
	for id, m := range t.held {
		m.Unlock()
		delete(t.held, id)
	}
}

// The helpers below must be called with s.mu held.

func insertRow[T any](t *memTx, m map[uuid.UUID]T, id uuid.UUID, v T) {
	m[id] = v
	t.undo = append(t.undo, func() { delete(m, id) })
}

func replaceRow[T any](t *memTx, m map[uuid.UUID]T, id uuid.UUID, v T) {
	old := m[id]
	m[id] = v
	t.undo = append(t.undo, func() { m[id] = old })
}

func deleteRow[T any](t *memTx, m map[uuid.UUID]T, id uuid.UUID) bool {
	old, ok := m[id]
	if !ok {
		return false
	}
	delete(m, id)
	t.undo = append(t.undo, func() { m[id] = old })
	return true
}

func fkViolation(constraint string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		Message:        "violates foreign key constraint \"" + constraint + "\"",
		ConstraintName: constraint,
	}
}

func cloneList(s []string) []string {
	return append([]string{}, s...)
}

func tag(n int) pgconn.CommandTag {
	if n == 1 {
		return pgconn.CommandTag("UPDATE 1")
	}
	return pgconn.CommandTag("UPDATE 0")
}

func maxCode(codes []string, prefix string) string {
	var best string
	for _, c := range codes {
		if strings.HasPrefix(c, prefix) && len(c) == len(prefix)+3 && c > best {
			best = c
		}
	}
	return best
}

/* ------------------------------------------------------------------
   Locations
------------------------------------------------------------------ */

type memLocations struct{ t *memTx }

func (r *memLocations) Create(ctx context.Context, l *models.Location) error {
	if err := r.t.s.beforeInsert(TableLocations); err != nil {
		return err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.locations {
		if o.Country == l.Country && o.Latitude == l.Latitude && o.Longitude == l.Longitude {
			return repositories.UniqueViolation(repositories.ConstraintLocationNaturalKey)
		}
	}
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt, l.RowVersion = now, now, 1
	insertRow(r.t, s.locations, l.ID, *l)
	return nil
}

func (r *memLocations) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locations[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (r *memLocations) LockByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	r.t.lockRow(id)
	return r.GetByID(ctx, id)
}

func (r *memLocations) FindByNaturalKey(ctx context.Context, country, latitude, longitude string) (*models.Location, error) {
	s := r.t.s
	s.mu.Lock()
	for _, o := range s.locations {
		if o.Country == country && o.Latitude == latitude && o.Longitude == longitude {
			s.mu.Unlock()
			return &o, nil
		}
	}
	s.mu.Unlock()
	s.afterMiss(TableLocations)
	return nil, nil
}

func (r *memLocations) UpdateIfVersion(ctx context.Context, l *models.Location, expected int64) (pgconn.CommandTag, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.locations[l.ID]
	if !ok || cur.RowVersion != expected {
		return tag(0), nil
	}
	for id, o := range s.locations {
		if id != l.ID && o.Country == l.Country && o.Latitude == l.Latitude && o.Longitude == l.Longitude {
			return nil, repositories.UniqueViolation(repositories.ConstraintLocationNaturalKey)
		}
	}
	next := *l
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = time.Now().UTC()
	next.RowVersion = expected + 1
	replaceRow(r.t, s.locations, l.ID, next)
	return tag(1), nil
}

func (r *memLocations) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Location) error) error {
	return repositories.WithRetry(ctx, 3, id, r.GetByID, r.UpdateIfVersion, mutate)
}

func (r *memLocations) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.t.s.beforeDelete(TableLocations); err != nil {
		return err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lands {
		if l.LocationID == id {
			return fkViolation("lands_location_id_fkey")
		}
	}
	deleteRow(r.t, s.locations, id)
	return nil
}

/* ------------------------------------------------------------------
   Lands
------------------------------------------------------------------ */

type memLands struct{ t *memTx }

func cloneLand(l models.Land) models.Land {
	l.Features = cloneList(l.Features)
	return l
}

func (r *memLands) Create(ctx context.Context, l *models.Land) error {
	if err := r.t.s.beforeInsert(TableLands); err != nil {
		return err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locations[l.LocationID]; !ok {
		return fkViolation("lands_location_id_fkey")
	}
	for _, o := range s.lands {
		if o.Name == l.Name && o.LocationID == l.LocationID {
			return repositories.UniqueViolation(repositories.ConstraintLandNaturalKey)
		}
	}
	for _, o := range s.lands {
		if o.CustomID == l.CustomID {
			return repositories.UniqueViolation(repositories.ConstraintLandCustomID)
		}
	}
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt, l.RowVersion = now, now, 1
	l.Features = cloneList(l.Features)
	insertRow(r.t, s.lands, l.ID, cloneLand(*l))
	return nil
}

func (r *memLands) find(match func(models.Land) bool) *models.Land {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.lands {
		if match(o) {
			c := cloneLand(o)
			return &c
		}
	}
	return nil
}

func (r *memLands) GetByID(ctx context.Context, id uuid.UUID) (*models.Land, error) {
	return r.find(func(o models.Land) bool { return o.ID == id }), nil
}

func (r *memLands) GetByCustomID(ctx context.Context, customID string) (*models.Land, error) {
	return r.find(func(o models.Land) bool { return o.CustomID == customID }), nil
}

func (r *memLands) FindByNaturalKey(ctx context.Context, name string, locationID uuid.UUID) (*models.Land, error) {
	l := r.find(func(o models.Land) bool { return o.Name == name && o.LocationID == locationID })
	if l == nil {
		r.t.s.afterMiss(TableLands)
	}
	return l, nil
}

func (r *memLands) CustomIDExists(ctx context.Context, customID string) (bool, error) {
	return r.find(func(o models.Land) bool { return o.CustomID == customID }) != nil, nil
}

func (r *memLands) CountByLocationID(ctx context.Context, locationID uuid.UUID) (int, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, o := range s.lands {
		if o.LocationID == locationID {
			n++
		}
	}
	return n, nil
}

func (r *memLands) LockByID(ctx context.Context, id uuid.UUID) (*models.Land, error) {
	r.t.lockRow(id)
	return r.GetByID(ctx, id)
}

func (r *memLands) UpdateIfVersion(ctx context.Context, l *models.Land, expected int64) (pgconn.CommandTag, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.lands[l.ID]
	if !ok || cur.RowVersion != expected {
		return tag(0), nil
	}
	if _, ok := s.locations[l.LocationID]; !ok {
		return nil, fkViolation("lands_location_id_fkey")
	}
	for id, o := range s.lands {
		if id != l.ID && o.Name == l.Name && o.LocationID == l.LocationID {
			return nil, repositories.UniqueViolation(repositories.ConstraintLandNaturalKey)
		}
	}
	next := cloneLand(*l)
	next.CustomID = cur.CustomID
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = time.Now().UTC()
	next.RowVersion = expected + 1
	replaceRow(r.t, s.lands, l.ID, next)
	return tag(1), nil
}

func (r *memLands) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Land) error) error {
	return repositories.WithRetry(ctx, 3, id, r.GetByID, r.UpdateIfVersion, mutate)
}

func (r *memLands) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.t.s.beforeDelete(TableLands); err != nil {
		return err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.buildings {
		if b.LandID == id {
			return fkViolation("buildings_land_id_fkey")
		}
	}
	for _, p := range s.products {
		if p.LandID == id {
			return fkViolation("products_land_id_fkey")
		}
	}
	deleteRow(r.t, s.lands, id)
	return nil
}

/* ------------------------------------------------------------------
   Buildings
------------------------------------------------------------------ */

type memBuildings struct{ t *memTx }

func cloneBuilding(b models.Building) models.Building {
	b.Features = cloneList(b.Features)
	b.Amenities = cloneList(b.Amenities)
	return b
}

func (r *memBuildings) Create(ctx context.Context, b *models.Building) error {
	if err := r.t.s.beforeInsert(TableBuildings); err != nil {
		return err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lands[b.LandID]; !ok {
		return fkViolation("buildings_land_id_fkey")
	}
	for _, o := range s.buildings {
		if o.Name == b.Name && o.LandID == b.LandID {
			return repositories.UniqueViolation(repositories.ConstraintBuildingNaturalKey)
		}
	}
	for _, o := range s.buildings {
		if o.CustomID == b.CustomID {
			return repositories.UniqueViolation(repositories.ConstraintBuildingCustomID)
		}
	}
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt, b.RowVersion = now, now, 1
	b.Features, b.Amenities = cloneList(b.Features), cloneList(b.Amenities)
	insertRow(r.t, s.buildings, b.ID, cloneBuilding(*b))
	return nil
}

func (r *memBuildings) find(match func(models.Building) bool) *models.Building {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.buildings {
		if match(o) {
			c := cloneBuilding(o)
			return &c
		}
	}
	return nil
}

func (r *memBuildings) GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	return r.find(func(o models.Building) bool { return o.ID == id }), nil
}

func (r *memBuildings) GetByCustomID(ctx context.Context, customID string) (*models.Building, error) {
	return r.find(func(o models.Building) bool { return o.CustomID == customID }), nil
}

func (r *memBuildings) FindByNaturalKey(ctx context.Context, name string, landID uuid.UUID) (*models.Building, error) {
	b := r.find(func(o models.Building) bool { return o.Name == name && o.LandID == landID })
	if b == nil {
		r.t.s.afterMiss(TableBuildings)
	}
	return b, nil
}

func (r *memBuildings) ListByLandID(ctx context.Context, landID uuid.UUID) ([]*models.Building, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Building
	for _, o := range s.buildings {
		if o.LandID == landID {
			c := cloneBuilding(o)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomID < out[j].CustomID })
	return out, nil
}

func (r *memBuildings) MaxCustomIDWithPrefix(ctx context.Context, prefix string) (string, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := make([]string, 0, len(s.buildings))
	for _, o := range s.buildings {
		codes = append(codes, o.CustomID)
	}
	return maxCode(codes, prefix), nil
}

func (r *memBuildings) LockByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	r.t.lockRow(id)
	return r.GetByID(ctx, id)
}

func (r *memBuildings) UpdateIfVersion(ctx context.Context, b *models.Building, expected int64) (pgconn.CommandTag, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.buildings[b.ID]
	if !ok || cur.RowVersion != expected {
		return tag(0), nil
	}
	for id, o := range s.buildings {
		if id != b.ID && o.Name == b.Name && o.LandID == cur.LandID {
			return nil, repositories.UniqueViolation(repositories.ConstraintBuildingNaturalKey)
		}
	}
	next := cloneBuilding(*b)
	next.CustomID = cur.CustomID
	next.LandID = cur.LandID
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = time.Now().UTC()
	next.RowVersion = expected + 1
	replaceRow(r.t, s.buildings, b.ID, next)
	return tag(1), nil
}

func (r *memBuildings) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Building) error) error {
	return repositories.WithRetry(ctx, 3, id, r.GetByID, r.UpdateIfVersion, mutate)
}

func (r *memBuildings) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.t.s.beforeDelete(TableBuildings); err != nil {
		return err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.units {
		if u.BuildingID == id {
			return fkViolation("units_building_id_fkey")
		}
	}
	for _, p := range s.products {
		if p.BuildingID != nil && *p.BuildingID == id {
			return fkViolation("products_building_id_fkey")
		}
	}
	deleteRow(r.t, s.buildings, id)
	return nil
}

/* ------------------------------------------------------------------
   Units
------------------------------------------------------------------ */

type memUnits struct{ t *memTx }

func cloneUnit(u models.Unit) models.Unit {
	u.Features = cloneList(u.Features)
	u.Amenities = cloneList(u.Amenities)
	return u
}

func (r *memUnits) Create(ctx context.Context, u *models.Unit) error {
	if err := r.t.s.beforeInsert(TableUnits); err != nil {
		return err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buildings[u.BuildingID]; !ok {
		return fkViolation("units_building_id_fkey")
	}
	for _, o := range s.units {
		if o.Name == u.Name && o.BuildingID == u.BuildingID {
			return repositories.UniqueViolation(repositories.ConstraintUnitNaturalKey)
		}
	}
	for _, o := range s.units {
		if o.CustomID == u.CustomID {
			return repositories.UniqueViolation(repositories.ConstraintUnitCustomID)
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt, u.RowVersion = now, now, 1
	u.Features, u.Amenities = cloneList(u.Features), cloneList(u.Amenities)
	insertRow(r.t, s.units, u.ID, cloneUnit(*u))
	return nil
}

func (r *memUnits) find(match func(models.Unit) bool) *models.Unit {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.units {
		if match(o) {
			c := cloneUnit(o)
			return &c
		}
	}
	return nil
}

func (r *memUnits) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	return r.find(func(o models.Unit) bool { return o.ID == id }), nil
}

func (r *memUnits) GetByCustomID(ctx context.Context, customID string) (*models.Unit, error) {
	return r.find(func(o models.Unit) bool { return o.CustomID == customID }), nil
}

func (r *memUnits) FindByNaturalKey(ctx context.Context, name string, buildingID uuid.UUID) (*models.Unit, error) {
	u := r.find(func(o models.Unit) bool { return o.Name == name && o.BuildingID == buildingID })
	if u == nil {
		r.t.s.afterMiss(TableUnits)
	}
	return u, nil
}

func (r *memUnits) ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Unit, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Unit
	for _, o := range s.units {
		if o.BuildingID == buildingID {
			c := cloneUnit(o)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomID < out[j].CustomID })
	return out, nil
}

func (r *memUnits) MaxCustomIDWithPrefix(ctx context.Context, prefix string) (string, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := make([]string, 0, len(s.units))
	for _, o := range s.units {
		codes = append(codes, o.CustomID)
	}
	return maxCode(codes, prefix), nil
}

func (r *memUnits) UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.units[u.ID]
	if !ok || cur.RowVersion != expected {
		return tag(0), nil
	}
	for id, o := range s.units {
		if id != u.ID && o.Name == u.Name && o.BuildingID == cur.BuildingID {
			return nil, repositories.UniqueViolation(repositories.ConstraintUnitNaturalKey)
		}
	}
	next := cloneUnit(*u)
	next.CustomID = cur.CustomID
	next.BuildingID = cur.BuildingID
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = time.Now().UTC()
	next.RowVersion = expected + 1
	replaceRow(r.t, s.units, u.ID, next)
	return tag(1), nil
}

func (r *memUnits) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	return repositories.WithRetry(ctx, 3, id, r.GetByID, r.UpdateIfVersion, mutate)
}

func (r *memUnits) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.t.s.beforeDelete(TableUnits); err != nil {
		return err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteRow(r.t, s.units, id)
	return nil
}

func (r *memUnits) DeleteByBuildingID(ctx context.Context, buildingID uuid.UUID) (int64, error) {
	if err := r.t.s.beforeDelete(TableUnits); err != nil {
		return 0, err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, o := range s.units {
		if o.BuildingID == buildingID {
			deleteRow(r.t, s.units, id)
			n++
		}
	}
	return n, nil
}

/* ------------------------------------------------------------------
   Products, leases, media
------------------------------------------------------------------ */

type memProducts struct{ t *memTx }

func (r *memProducts) Create(ctx context.Context, p *models.Product) error {
	if err := r.t.s.beforeInsert(TableProducts); err != nil {
		return err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lands[p.LandID]; !ok {
		return fkViolation("products_land_id_fkey")
	}
	if p.BuildingID != nil {
		if _, ok := s.buildings[*p.BuildingID]; !ok {
			return fkViolation("products_building_id_fkey")
		}
	}
	if p.LeaseID != nil {
		if _, ok := s.leases[*p.LeaseID]; !ok {
			return fkViolation("products_lease_id_fkey")
		}
	}
	if p.MediaID != nil {
		if _, ok := s.media[*p.MediaID]; !ok {
			return fkViolation("products_media_id_fkey")
		}
	}
	for _, o := range s.products {
		if o.CustomID == p.CustomID {
			return repositories.UniqueViolation(repositories.ConstraintProductCustomID)
		}
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	insertRow(r.t, s.products, p.ID, *p)
	return nil
}

func (r *memProducts) list(match func(models.Product) bool) []*models.Product {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Product
	for _, o := range s.products {
		if match(o) {
			c := o
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomID < out[j].CustomID })
	return out
}

func (r *memProducts) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if out := r.list(func(o models.Product) bool { return o.ID == id }); len(out) > 0 {
		return out[0], nil
	}
	return nil, nil
}

func (r *memProducts) GetByCustomID(ctx context.Context, customID string) (*models.Product, error) {
	if out := r.list(func(o models.Product) bool { return o.CustomID == customID }); len(out) > 0 {
		return out[0], nil
	}
	return nil, nil
}

func (r *memProducts) ListByLandID(ctx context.Context, landID uuid.UUID) ([]*models.Product, error) {
	return r.list(func(o models.Product) bool { return o.LandID == landID }), nil
}

func (r *memProducts) ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Product, error) {
	return r.list(func(o models.Product) bool { return o.BuildingID != nil && *o.BuildingID == buildingID }), nil
}

func (r *memProducts) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.t.s.beforeDelete(TableProducts); err != nil {
		return err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if !deleteRow(r.t, s.products, id) {
		return nil
	}
	// leases.product_id is ON DELETE SET NULL.
	for lid, l := range s.leases {
		if l.ProductID != nil && *l.ProductID == id {
			l.ProductID = nil
			replaceRow(r.t, s.leases, lid, l)
		}
	}
	return nil
}

type memLeases struct{ t *memTx }

func (r *memLeases) Create(ctx context.Context, l *models.Lease) error {
	if err := r.t.s.beforeInsert(TableLeases); err != nil {
		return err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now
	insertRow(r.t, s.leases, l.ID, *l)
	return nil
}

func (r *memLeases) GetByID(ctx context.Context, id uuid.UUID) (*models.Lease, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.leases[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (r *memLeases) SetProductID(ctx context.Context, leaseID, productID uuid.UUID) error {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leases[leaseID]
	if !ok {
		return pgx.ErrNoRows
	}
	if _, ok := s.products[productID]; !ok {
		return fkViolation("leases_product_id_fkey")
	}
	l.ProductID = &productID
	l.UpdatedAt = time.Now().UTC()
	replaceRow(r.t, s.leases, leaseID, l)
	return nil
}

func (r *memLeases) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.t.s.beforeDelete(TableLeases); err != nil {
		return err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.LeaseID != nil && *p.LeaseID == id {
			return fkViolation("products_lease_id_fkey")
		}
	}
	deleteRow(r.t, s.leases, id)
	return nil
}

type memMedia struct{ t *memTx }

func (r *memMedia) Create(ctx context.Context, m *models.Media) error {
	if err := r.t.s.beforeInsert(TableMedia); err != nil {
		return err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	m.CreatedAt = time.Now().UTC()
	insertRow(r.t, s.media, m.ID, *m)
	return nil
}

func (r *memMedia) GetByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.media[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (r *memMedia) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.t.s.beforeDelete(TableMedia); err != nil {
		return err
	}
	s := r.t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.MediaID != nil && *p.MediaID == id {
			return fkViolation("products_media_id_fkey")
		}
	}
	deleteRow(r.t, s.media, id)
	return nil
}
