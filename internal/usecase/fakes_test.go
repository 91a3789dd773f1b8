package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"marina-ops/internal/data/entity"
	"marina-ops/internal/data/repository"
	"marina-ops/pkg/lock"
	"marina-ops/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("store unavailable")

// fakeBookingRepo is an in-memory BookingRepository.
type fakeBookingRepo struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*entity.Booking
	applied  int
	applyErr error // if set, ApplyChanges returns this error
	findErr  error
}

func newFakeBookingRepo(bookings ...*entity.Booking) *fakeBookingRepo {
	f := &fakeBookingRepo{byID: make(map[uuid.UUID]*entity.Booking)}
	for _, b := range bookings {
		f.byID[b.ID] = b
	}
	return f
}

func (f *fakeBookingRepo) get(id uuid.UUID) entity.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.byID[id]
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	b, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) FindNonTerminalByBerth(ctx context.Context, berthID uuid.UUID) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.byID {
		if b.BerthID == berthID && !b.Status.IsTerminal() {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (f *fakeBookingRepo) ApplyChanges(ctx context.Context, id uuid.UUID, changes entity.BookingChanges) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	b, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next := changes.ApplyTo(*b)
	f.byID[id] = &next
	f.applied++
	cp := next
	return &cp, nil
}

type fakeMarinaRepo struct {
	byID map[uuid.UUID]*entity.Marina
}

func (f *fakeMarinaRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Marina, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMarinaRepo) SetConnectivity(ctx context.Context, id uuid.UUID, online bool) (*entity.Marina, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	m.IsOnline = online
	if online {
		now := time.Now()
		m.LastSyncAt = &now
	}
	cp := *m
	return &cp, nil
}

type fakeInvoiceRepo struct {
	byBooking map[uuid.UUID][]*entity.Invoice
}

func (f *fakeInvoiceRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Invoice, error) {
	return f.byBooking[bookingID], nil
}

type fakePendingOperationRepo struct {
	ops       []*entity.PendingOperation
	createErr error
}

func (f *fakePendingOperationRepo) Create(ctx context.Context, op *entity.PendingOperation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.ops = append(f.ops, op)
	return nil
}

func (f *fakePendingOperationRepo) ListByMarina(ctx context.Context, marinaID uuid.UUID, limit, offset int) ([]*entity.PendingOperation, error) {
	var out []*entity.PendingOperation
	for _, op := range f.ops {
		if op.MarinaID == marinaID {
			out = append(out, op)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePendingOperationRepo) CountByMarina(ctx context.Context, marinaID uuid.UUID) (int64, error) {
	var n int64
	for _, op := range f.ops {
		if op.MarinaID == marinaID {
			n++
		}
	}
	return n, nil
}

type fakeAuditRepo struct {
	mu     sync.Mutex
	events []*entity.AuditEvent
	err    error // if set, Insert returns this error
}

func (f *fakeAuditRepo) Insert(ctx context.Context, event *entity.AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return f.byEmail[email], nil
}

type fakeSessionRepo struct {
	byToken map[uuid.UUID]*entity.Session
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	f.byToken[session.Token] = session
	return nil
}

func (f *fakeSessionRepo) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	s, ok := f.byToken[token]
	if !ok || s.RevokedAt != nil {
		return nil, nil
	}
	return s, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, token uuid.UUID) error {
	s, ok := f.byToken[token]
	if !ok || s.RevokedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[uuid.UUID]bool
	acquired int
	released int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[uuid.UUID]bool)}
}

func (l *fakeLocker) Acquire(ctx context.Context, berthID uuid.UUID) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[berthID] {
		return nil, lock.ErrNotAcquired
	}
	l.held[berthID] = true
	l.acquired++
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, berthID)
		l.released++
		return nil
	}, nil
}

type publishedMessage struct {
	key string
	msg any
}

type fakePublisher struct {
	sent []publishedMessage
	err  error
}

func (p *fakePublisher) PublishJSON(ctx context.Context, key string, v any) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, publishedMessage{key: key, msg: v})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

// harness wires services over in-memory fakes with a fixed clock.
type harness struct {
	bookings  *fakeBookingRepo
	marinas   *fakeMarinaRepo
	invoices  *fakeInvoiceRepo
	ops       *fakePendingOperationRepo
	audits    *fakeAuditRepo
	users     *fakeUserRepo
	sessions  *fakeSessionRepo
	locker    *fakeLocker
	publisher *fakePublisher
	service   *Service
	booking   *bookingService
}

func newHarness(t *testing.T, now time.Time, marinas []*entity.Marina, bookings ...*entity.Booking) *harness {
	t.Helper()

	h := &harness{
		bookings:  newFakeBookingRepo(bookings...),
		marinas:   &fakeMarinaRepo{byID: make(map[uuid.UUID]*entity.Marina)},
		invoices:  &fakeInvoiceRepo{byBooking: make(map[uuid.UUID][]*entity.Invoice)},
		ops:       &fakePendingOperationRepo{},
		audits:    &fakeAuditRepo{},
		users:     &fakeUserRepo{byEmail: make(map[string]*entity.User)},
		sessions:  &fakeSessionRepo{byToken: make(map[uuid.UUID]*entity.Session)},
		locker:    newFakeLocker(),
		publisher: &fakePublisher{},
	}
	for _, m := range marinas {
		h.marinas.byID[m.ID] = m
	}

	repo := &repository.Repository{
		User:             h.users,
		Session:          h.sessions,
		Marina:           h.marinas,
		Booking:          h.bookings,
		Invoice:          h.invoices,
		PendingOperation: h.ops,
		Audit:            h.audits,
	}
	config := &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 24},
		Booking: utils.BookingConfig{BerthLockTTL: 10 * time.Second, RequestTimeout: 5 * time.Second},
	}

	h.service = NewService(repo, h.locker, h.publisher, config, zap.NewNop())

	clock := func() time.Time { return now }
	h.booking = h.service.Booking.(*bookingService)
	h.booking.now = clock
	h.booking.enqueuer.now = clock
	h.service.Audit.(*auditService).now = clock
	h.service.Auth.(*authService).now = clock

	return h
}

func day(s string) time.Time {
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newMarina(online bool) *entity.Marina {
	return &entity.Marina{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		Name:         "North Harbour",
		IsOnline:     online,
	}
}

func newBooking(marinaID, berthID uuid.UUID, start, end string, status entity.BookingStatus) *entity.Booking {
	return &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		BerthID:      berthID,
		MarinaID:     marinaID,
		CustomerID:   uuid.New(),
		BoatID:       uuid.New(),
		StartDate:    day(start),
		EndDate:      day(end),
		Status:       status,
	}
}

func managerOf(marinaID uuid.UUID) entity.AuthContext {
	return entity.AuthContext{UserID: uuid.New(), Role: entity.RoleManager, MarinaID: &marinaID}
}
