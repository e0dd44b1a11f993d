package services

// In-memory repository fakes. They mirror the contracts the SQL
// implementations give the services: missing rows come back (nil, nil),
// external-id uniqueness maps to ErrDuplicateEvent, capacity is enforced
// atomically inside the write methods, and booking updates are versioned.

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/ownstays/settlement-service/internal/constants"
	"github.com/ownstays/settlement-service/internal/models"
	"github.com/ownstays/settlement-service/internal/utils"
)

/* ---------- collections ---------- */

type fakeCollectionRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Collection
}

func newFakeCollectionRepo() *fakeCollectionRepo {
	return &fakeCollectionRepo{items: make(map[uuid.UUID]*models.Collection)}
}

func (f *fakeCollectionRepo) Create(_ context.Context, c *models.Collection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeCollectionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCollectionRepo) List(_ context.Context) ([]*models.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Collection, 0, len(f.items))
	for _, c := range f.items {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeCollectionRepo) Update(_ context.Context, c *models.Collection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

/* ---------- units ---------- */

type fakeUnitRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Unit
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{items: make(map[uuid.UUID]*models.Unit)}
}

func (f *fakeUnitRepo) Create(_ context.Context, u *models.Unit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.items[u.ID] = &cp
	return nil
}

func (f *fakeUnitRepo) CreateMany(ctx context.Context, list []models.Unit) error {
	for i := range list {
		if err := f.Create(ctx, &list[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeUnitRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUnitRepo) ListByCollectionID(_ context.Context, collectionID uuid.UUID) ([]*models.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Unit
	for _, u := range f.items {
		if u.CollectionID == collectionID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeUnitRepo) Update(_ context.Context, u *models.Unit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.items[u.ID] = &cp
	return nil
}

/* ---------- ownership ledger ---------- */

type fakeOwnershipRepo struct {
	mu      sync.Mutex
	units   *fakeUnitRepo
	records []*models.OwnershipRecord
}

func newFakeOwnershipRepo(units *fakeUnitRepo) *fakeOwnershipRepo {
	return &fakeOwnershipRepo{units: units}
}

func (f *fakeOwnershipRepo) totalLocked(unitID uuid.UUID) int {
	total := 0
	for _, r := range f.records {
		if r.UnitID == unitID {
			total += r.BasisPoints
		}
	}
	return total
}

func (f *fakeOwnershipRepo) TotalOwned(_ context.Context, unitID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totalLocked(unitID), nil
}

func (f *fakeOwnershipRepo) AvailableCapacity(_ context.Context, unitID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return constants.FullOwnershipBasisPoints - f.totalLocked(unitID), nil
}

func (f *fakeOwnershipRepo) CapacityByUnit(ctx context.Context, collectionID uuid.UUID) (map[uuid.UUID]int, error) {
	units, err := f.units.ListByCollectionID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uuid.UUID]int, len(units))
	for _, u := range units {
		out[u.ID] = constants.FullOwnershipBasisPoints - f.totalLocked(u.ID)
	}
	return out, nil
}

func (f *fakeOwnershipRepo) RecordAtomic(_ context.Context, unitID, userID uuid.UUID, basisPoints int, paymentID uuid.UUID) (*models.OwnershipRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.totalLocked(unitID)+basisPoints > constants.FullOwnershipBasisPoints {
		return nil, utils.ErrCapacityExceeded
	}
	rec := &models.OwnershipRecord{
		ID:          uuid.New(),
		UnitID:      unitID,
		UserID:      userID,
		BasisPoints: basisPoints,
		PaymentID:   paymentID,
		CreatedAt:   time.Now().UTC(),
	}
	f.records = append(f.records, rec)
	cp := *rec
	return &cp, nil
}

func (f *fakeOwnershipRepo) AllocateAndRecord(ctx context.Context, collectionID, userID uuid.UUID, basisPoints int, paymentID uuid.UUID) (*models.Unit, *models.OwnershipRecord, error) {
	units, err := f.units.ListByCollectionID(ctx, collectionID)
	if err != nil {
		return nil, nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range units {
		if f.totalLocked(u.ID)+basisPoints > constants.FullOwnershipBasisPoints {
			continue
		}
		rec := &models.OwnershipRecord{
			ID:          uuid.New(),
			UnitID:      u.ID,
			UserID:      userID,
			BasisPoints: basisPoints,
			PaymentID:   paymentID,
			CreatedAt:   time.Now().UTC(),
		}
		f.records = append(f.records, rec)
		cp := *rec
		return u, &cp, nil
	}
	return nil, nil, nil
}

func (f *fakeOwnershipRepo) ListByUnit(_ context.Context, unitID uuid.UUID) ([]*models.OwnershipRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.OwnershipRecord
	for _, r := range f.records {
		if r.UnitID == unitID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeOwnershipRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.OwnershipRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.OwnershipRecord
	for _, r := range f.records {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

/* ---------- payments ---------- */

type fakePaymentRepo struct {
	mu         sync.Mutex
	byExternal map[string]*models.PaymentRecord
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{byExternal: make(map[string]*models.PaymentRecord)}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *models.PaymentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byExternal[p.ExternalID]; exists {
		return utils.ErrDuplicateEvent
	}
	cp := *p
	f.byExternal[p.ExternalID] = &cp
	return nil
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byExternal {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) GetByExternalID(_ context.Context, externalID string) (*models.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byExternal[externalID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.PaymentRecord
	for _, p := range f.byExternal {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

/* ---------- users ---------- */

type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(u.Email)
	// ON CONFLICT (email) DO NOTHING
	if _, exists := f.byEmail[key]; exists {
		return nil
	}
	cp := *u
	cp.Email = key
	f.byEmail[key] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

/* ---------- affiliate links ---------- */

type fakeAffiliateRepo struct {
	mu    sync.Mutex
	items map[string]*models.AffiliateLink
}

func newFakeAffiliateRepo() *fakeAffiliateRepo {
	return &fakeAffiliateRepo{items: make(map[string]*models.AffiliateLink)}
}

func (f *fakeAffiliateRepo) Create(_ context.Context, l *models.AffiliateLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *l
	f.items[l.Code] = &cp
	return nil
}

func (f *fakeAffiliateRepo) GetByID(_ context.Context, id uuid.UUID) (*models.AffiliateLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.items {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAffiliateRepo) FindByCode(_ context.Context, code string) (*models.AffiliateLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.items[code]
	if !ok || !l.Active {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

/* ---------- pricing tiers ---------- */

type fakeTierRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.PricingTier
}

func newFakeTierRepo() *fakeTierRepo {
	return &fakeTierRepo{items: make(map[uuid.UUID]*models.PricingTier)}
}

func (f *fakeTierRepo) Create(_ context.Context, t *models.PricingTier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	f.items[t.ID] = &cp
	return nil
}

func (f *fakeTierRepo) GetByID(_ context.Context, id uuid.UUID) (*models.PricingTier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTierRepo) ListActiveByCollectionID(_ context.Context, collectionID uuid.UUID, at time.Time) ([]*models.PricingTier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.PricingTier
	for _, t := range f.items {
		if t.CollectionID == collectionID && t.PurchasableAt(at) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BasisPoints < out[j].BasisPoints })
	return out, nil
}

/* ---------- bookings ---------- */

type fakeBookingRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{items: make(map[uuid.UUID]*models.Booking)}
}

func copyBooking(b *models.Booking) *models.Booking {
	cp := *b
	cp.UnitIDs = append([]uuid.UUID(nil), b.UnitIDs...)
	return &cp
}

func (f *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := copyBooking(b)
	cp.RowVersion = 1
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	f.items[b.ID] = cp
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return copyBooking(b), nil
}

func (f *fakeBookingRepo) ListByCollectionID(_ context.Context, collectionID uuid.UUID) ([]*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Booking
	for _, b := range f.items {
		if b.CollectionID == collectionID {
			out = append(out, copyBooking(b))
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateIfVersion(_ context.Context, b *models.Booking, expectedVersion int64) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[b.ID]
	if !ok || stored.RowVersion != expectedVersion {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	cp := copyBooking(b)
	cp.RowVersion = expectedVersion + 1
	cp.UpdatedAt = time.Now().UTC()
	f.items[b.ID] = cp
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (f *fakeBookingRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.Booking) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := copyBooking(stored)
	if err := mutate(cp); err != nil {
		return err
	}
	cp.RowVersion = stored.RowVersion + 1
	cp.UpdatedAt = time.Now().UTC()
	f.items[id] = cp
	return nil
}

func (f *fakeBookingRepo) FindStalePending(_ context.Context, olderThan int, limit int) ([]*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cutoff := time.Now().Add(-time.Duration(olderThan) * time.Hour)
	var out []*models.Booking
	for _, b := range f.items {
		if b.Status == models.BookingStatusPendingPayment && b.CreatedAt.Before(cutoff) {
			out = append(out, copyBooking(b))
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}
