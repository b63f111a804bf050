package settlement_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tms-settlements/internal/domain"
	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria para los tests de casos de uso
// ──────────────────────────────────────────────────────────────────────────────

type fakeCompanies struct {
	items   []*entity.Company
	listErr error
}

func (f *fakeCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	for _, c := range f.items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCompanies) ListActive(_ context.Context) ([]*entity.Company, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*entity.Company
	for _, c := range f.items {
		if c.IsActive() {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeDrivers struct {
	items   []*entity.Driver
	listErr map[string]error // por companyID
}

func (f *fakeDrivers) GetByID(_ context.Context, id string) (*entity.Driver, error) {
	for _, d := range f.items {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDrivers) ListActiveByCompany(_ context.Context, companyID string, statuses []string) ([]*entity.Driver, error) {
	if err := f.listErr[companyID]; err != nil {
		return nil, err
	}
	var out []*entity.Driver
	for _, d := range f.items {
		if d.CompanyID == companyID && d.DeletedAt == nil && slices.Contains(statuses, d.Status) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeLoads struct {
	items    []*entity.Load
	countErr map[string]error // por driverID
}

func (f *fakeLoads) match(flt repository.LoadFilter) []*entity.Load {
	var out []*entity.Load
	for _, l := range f.items {
		if l.DriverID != flt.DriverID || l.DeletedAt != nil || l.DeliveredAt == nil {
			continue
		}
		if !slices.Contains(flt.Statuses, l.Status) {
			continue
		}
		if l.DeliveredAt.Before(flt.DeliveredFrom) || l.DeliveredAt.After(flt.DeliveredTo) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (f *fakeLoads) CountCompleted(_ context.Context, flt repository.LoadFilter) (int, error) {
	if err := f.countErr[flt.DriverID]; err != nil {
		return 0, err
	}
	return len(f.match(flt)), nil
}

func (f *fakeLoads) ListCompleted(_ context.Context, flt repository.LoadFilter) ([]*entity.Load, error) {
	return f.match(flt), nil
}

func (f *fakeLoads) ListByIDs(_ context.Context, ids []string) ([]*entity.Load, error) {
	var out []*entity.Load
	for _, l := range f.items {
		if slices.Contains(ids, l.ID) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeSettlements struct {
	mu        sync.Mutex
	items     []*entity.Settlement
	existsErr error
}

func (f *fakeSettlements) Create(_ context.Context, s *entity.Settlement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.items {
		if e.DriverID == s.DriverID && e.PeriodStart.Equal(s.PeriodStart) && e.PeriodEnd.Equal(s.PeriodEnd) {
			return domain.ErrDuplicate
		}
	}
	f.items = append(f.items, s)
	return nil
}

func (f *fakeSettlements) ExistsForPeriod(_ context.Context, driverID string, start, end time.Time) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.items {
		if e.DriverID == driverID && e.PeriodStart.Equal(start) && e.PeriodEnd.Equal(end) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSettlements) GetByID(_ context.Context, id string) (*entity.Settlement, error) {
	for _, s := range f.items {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSettlements) List(_ context.Context, flt repository.SettlementListFilter) ([]*entity.Settlement, int, error) {
	var out []*entity.Settlement
	for _, s := range f.items {
		if s.CompanyID == flt.CompanyID && (flt.DriverID == "" || s.DriverID == flt.DriverID) {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (f *fakeSettlements) countFor(driverID string) int {
	n := 0
	for _, s := range f.items {
		if s.DriverID == driverID {
			n++
		}
	}
	return n
}

type fakeUsers struct {
	items   []*entity.User
	listErr error
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range f.items {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.items {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) ListByCompanyAndRoles(_ context.Context, companyID string, roles []entity.Role) ([]*entity.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*entity.User
	for _, u := range f.items {
		if u.CompanyID == companyID && slices.Contains(roles, u.Role) {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeNotifications struct {
	items  []*entity.Notification
	failOn map[string]bool // por userID
}

func (f *fakeNotifications) Create(_ context.Context, n *entity.Notification) error {
	if f.failOn[n.UserID] {
		return context.DeadlineExceeded
	}
	f.items = append(f.items, n)
	return nil
}

func (f *fakeNotifications) ListByUser(_ context.Context, userID string, unreadOnly bool, _, _ int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range f.items {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, userID, id string) error {
	for _, n := range f.items {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeNotifications) forUser(userID string) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakeActivity struct {
	items     []*entity.ActivityLog
	createErr error
}

func (f *fakeActivity) Create(ctx context.Context, l *entity.ActivityLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.items = append(f.items, l)
	return nil
}

func (f *fakeActivity) ListByAction(_ context.Context, action string, _, _ int) ([]*entity.ActivityLog, error) {
	var out []*entity.ActivityLog
	for _, l := range f.items {
		if l.Action == action {
			out = append(out, l)
		}
	}
	return out, nil
}

// fakeTx ejecuta el callback con los repos en memoria (sin transacción real).
type fakeTx struct {
	loads       *fakeLoads
	settlements *fakeSettlements
}

func (f *fakeTx) RunSettlement(_ context.Context, fn func(repository.LoadRepository, repository.SettlementRepository) error) error {
	return fn(f.loads, f.settlements)
}

// fakeLocker lock en memoria con contención simulable.
type fakeLocker struct {
	held     bool
	err      error
	released int
}

func (f *fakeLocker) TryLock(_ context.Context, _ string, _ time.Duration) (func(context.Context) error, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.held {
		return nil, domain.ErrLockNotAcquired
	}
	f.held = true
	return func(context.Context) error {
		f.held = false
		f.released++
		return nil
	}, nil
}

// failingBuilder envuelve el builder real y falla para ciertos conductores.
type failingBuilder struct {
	inner interface {
		Build(ctx context.Context, driverID string, start, end time.Time) (*entity.Settlement, error)
	}
	errs  map[string]error
	calls []string
}

func (b *failingBuilder) Build(ctx context.Context, driverID string, start, end time.Time) (*entity.Settlement, error) {
	b.calls = append(b.calls, driverID)
	if err := b.errs[driverID]; err != nil {
		return nil, err
	}
	return b.inner.Build(ctx, driverID, start, end)
}

// ──────────────────────────────────────────────────────────────────────────────
// Constructores de datos
// ──────────────────────────────────────────────────────────────────────────────

func ptr[T any](v T) *T { return &v }

func newCompany(id string, active bool) *entity.Company {
	status := entity.CompanyStatusActive
	if !active {
		status = entity.CompanyStatusInactive
	}
	return &entity.Company{ID: id, Name: "Carrier " + id, Status: status}
}

func newDriver(id, companyID string) *entity.Driver {
	return &entity.Driver{
		ID:           id,
		CompanyID:    companyID,
		UserID:       "user-" + id,
		DriverNumber: "D-" + id,
		Status:       entity.DriverStatusAvailable,
		PayType:      entity.PayTypePerMile,
		PayRate:      decimal.RequireFromString("0.60"),
		FirstName:    "Driver",
		LastName:     id,
	}
}

func newLoad(id, driverID, status string, deliveredAt time.Time, pay string) *entity.Load {
	return &entity.Load{
		ID:          id,
		DriverID:    driverID,
		LoadNumber:  "L-" + id,
		Status:      status,
		DeliveredAt: ptr(deliveredAt),
		DriverPay:   decimal.RequireFromString(pay),
		TotalMiles:  decimal.NewFromInt(500),
		Revenue:     decimal.NewFromInt(2000),
	}
}
