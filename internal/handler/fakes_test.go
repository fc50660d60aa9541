package handler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hallbooking/internal/model"
	"hallbooking/internal/repository"
	"hallbooking/internal/utils"
)

// In-memory store fakes. They mirror the MySQL repositories' contract,
// including the slot uniqueness rejection, so the handlers can be
// exercised without a database.

type memUsers struct {
	mu   sync.Mutex
	seq  uint64
	byID map[uint64]model.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uint64]model.User{}} }

func (m *memUsers) Create(ctx context.Context, name, login, password string, role model.Role, cost int) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.IsActive && u.Login == login {
			return 0, repository.ErrLoginExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	m.seq++
	m.byID[m.seq] = model.User{
		ID: m.seq, Name: name, Login: login, PasswordHash: hash,
		Role: role, IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	return m.seq, nil
}

func (m *memUsers) GetByLogin(ctx context.Context, login string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.IsActive && u.Login == login {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) Update(ctx context.Context, id uint64, patch repository.UserPatch, cost int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || !u.IsActive {
		return repository.ErrNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Password != nil {
		hash, err := utils.HashPassword(*patch.Password, cost)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	m.byID[id] = u
	return nil
}

func (m *memUsers) Deactivate(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || !u.IsActive {
		return repository.ErrNotFound
	}
	u.IsActive = false
	m.byID[id] = u
	return nil
}

func (m *memUsers) List(ctx context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, nil
}

type memTokenRow struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

type memTokens struct {
	mu     sync.Mutex
	byHash map[string]memTokenRow
}

func newMemTokens() *memTokens { return &memTokens{byHash: map[string]memTokenRow{}} }

func (m *memTokens) Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byHash[tokenHash] = memTokenRow{userID: userID, exp: exp}
	return nil
}

func (m *memTokens) Validate(ctx context.Context, tokenHash string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.byHash[tokenHash]
	if !ok || row.revoked || time.Now().After(row.exp) {
		return 0, repository.ErrNotFound
	}
	return row.userID, nil
}

func (m *memTokens) Revoke(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.byHash[tokenHash]; ok {
		row.revoked = true
		m.byHash[tokenHash] = row
	}
	return nil
}

func (m *memTokens) RevokeAllForUser(ctx context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for h, row := range m.byHash {
		if row.userID == userID {
			row.revoked = true
			m.byHash[h] = row
		}
	}
	return nil
}

type memBookings struct {
	mu   sync.Mutex
	seq  uint64
	byID map[uint64]model.Booking
}

func newMemBookings() *memBookings { return &memBookings{byID: map[uint64]model.Booking{}} }

func slotKey(hallID uint64, date string, shiftID uint64) string {
	return fmt.Sprintf("%d|%s|%d", hallID, date, shiftID)
}

func (m *memBookings) slotTaken(key string, exclude uint64) bool {
	for _, b := range m.byID {
		if b.ID != exclude && b.Released == 0 && slotKey(b.HallID, b.Date, b.ShiftID) == key {
			return true
		}
	}
	return false
}

func (m *memBookings) Create(ctx context.Context, b *model.Booking, services []repository.AttachmentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slotTaken(slotKey(b.HallID, b.Date, b.ShiftID), 0) {
		return repository.ErrSlotTaken
	}
	m.seq++
	b.ID = m.seq
	b.Released = 0
	m.byID[b.ID] = *b
	return nil
}

func (m *memBookings) Update(ctx context.Context, id uint64, patch repository.BookingPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok || b.Released != 0 {
		return repository.ErrNotFound
	}
	next := b
	if patch.Date != nil {
		next.Date = *patch.Date
	}
	if patch.ShiftID != nil {
		next.ShiftID = *patch.ShiftID
	}
	if patch.Theme != nil {
		next.Theme = *patch.Theme
	}
	if patch.TotalPrice != nil {
		next.TotalPrice = *patch.TotalPrice
	}
	if m.slotTaken(slotKey(next.HallID, next.Date, next.ShiftID), id) {
		return repository.ErrSlotTaken
	}
	m.byID[id] = next
	return nil
}

func (m *memBookings) IsAvailable(ctx context.Context, hallID uint64, date string, shiftID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.slotTaken(slotKey(hallID, date, shiftID), 0), nil
}

func (m *memBookings) Release(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok || b.Released != 0 {
		return repository.ErrNotFound
	}
	b.Released = b.ID
	m.byID[id] = b
	return nil
}

func toDetail(b model.Booking) repository.BookingDetail {
	return repository.BookingDetail{
		ID: b.ID, Date: b.Date, HallID: b.HallID, ShiftID: b.ShiftID,
		UserID: b.UserID, Theme: b.Theme, TotalPrice: b.TotalPrice,
	}
}

func (m *memBookings) ListAll(ctx context.Context) ([]repository.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []repository.BookingDetail{}
	for _, b := range m.byID {
		if b.Released == 0 {
			out = append(out, toDetail(b))
		}
	}
	return out, nil
}

func (m *memBookings) ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []repository.BookingDetail{}
	for _, b := range m.byID {
		if b.Released == 0 && b.UserID == userID {
			out = append(out, toDetail(b))
		}
	}
	return out, nil
}

func (m *memBookings) GetByID(ctx context.Context, id uint64) (repository.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok || b.Released != 0 {
		return repository.BookingDetail{}, repository.ErrNotFound
	}
	return toDetail(b), nil
}

type memAttachments struct {
	mu   sync.Mutex
	seq  uint64
	byID map[uint64]model.BookingService
}

func newMemAttachments() *memAttachments {
	return &memAttachments{byID: map[uint64]model.BookingService{}}
}

func (m *memAttachments) Attach(ctx context.Context, bookingID, serviceID uint64, quantity uint32, price float64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.byID[m.seq] = model.BookingService{
		ID: m.seq, BookingID: bookingID, ServiceID: serviceID,
		Quantity: quantity, Price: price, IsActive: true,
	}
	return m.seq, nil
}

func (m *memAttachments) ListForBooking(ctx context.Context, bookingID uint64) ([]repository.AttachmentDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []repository.AttachmentDetail{}
	for _, a := range m.byID {
		if a.IsActive && a.BookingID == bookingID {
			out = append(out, repository.AttachmentDetail{
				ID: a.ID, BookingID: a.BookingID, ServiceID: a.ServiceID,
				Quantity: a.Quantity, Price: a.Price,
			})
		}
	}
	return out, nil
}

func (m *memAttachments) GetByID(ctx context.Context, id uint64) (model.BookingService, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok || !a.IsActive {
		return model.BookingService{}, repository.ErrNotFound
	}
	return a, nil
}

func (m *memAttachments) Detach(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok || !a.IsActive {
		return repository.ErrNotFound
	}
	a.IsActive = false
	m.byID[id] = a
	return nil
}

type memHalls struct {
	mu   sync.Mutex
	seq  uint64
	byID map[uint64]model.Hall
}

func newMemHalls() *memHalls { return &memHalls{byID: map[uint64]model.Hall{}} }

func (m *memHalls) List(ctx context.Context) ([]model.Hall, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Hall{}
	for _, h := range m.byID {
		if h.IsActive {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memHalls) GetByID(ctx context.Context, id uint64) (model.Hall, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.byID[id]
	if !ok || !h.IsActive {
		return model.Hall{}, repository.ErrNotFound
	}
	return h, nil
}

func (m *memHalls) Create(ctx context.Context, h model.Hall) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	h.ID = m.seq
	h.IsActive = true
	m.byID[h.ID] = h
	return h.ID, nil
}

func (m *memHalls) Update(ctx context.Context, h model.Hall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[h.ID]
	if !ok || !cur.IsActive {
		return repository.ErrNotFound
	}
	h.IsActive = true
	m.byID[h.ID] = h
	return nil
}

func (m *memHalls) Delete(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.byID[id]
	if !ok || !h.IsActive {
		return repository.ErrNotFound
	}
	h.IsActive = false
	m.byID[id] = h
	return nil
}

type memShifts struct {
	mu   sync.Mutex
	seq  uint64
	byID map[uint64]model.Shift
}

func newMemShifts() *memShifts { return &memShifts{byID: map[uint64]model.Shift{}} }

func (m *memShifts) List(ctx context.Context) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Shift{}
	for _, s := range m.byID {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memShifts) GetByID(ctx context.Context, id uint64) (model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok || !s.IsActive {
		return model.Shift{}, repository.ErrNotFound
	}
	return s, nil
}

func (m *memShifts) Create(ctx context.Context, s model.Shift) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	s.ID = m.seq
	s.IsActive = true
	m.byID[s.ID] = s
	return s.ID, nil
}

func (m *memShifts) Update(ctx context.Context, s model.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[s.ID]
	if !ok || !cur.IsActive {
		return repository.ErrNotFound
	}
	s.IsActive = true
	m.byID[s.ID] = s
	return nil
}

func (m *memShifts) Delete(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok || !s.IsActive {
		return repository.ErrNotFound
	}
	s.IsActive = false
	m.byID[id] = s
	return nil
}

type memServices struct {
	mu   sync.Mutex
	seq  uint64
	byID map[uint64]model.Service
}

func newMemServices() *memServices { return &memServices{byID: map[uint64]model.Service{}} }

func (m *memServices) List(ctx context.Context) ([]model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Service{}
	for _, s := range m.byID {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memServices) GetByID(ctx context.Context, id uint64) (model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok || !s.IsActive {
		return model.Service{}, repository.ErrNotFound
	}
	return s, nil
}

func (m *memServices) Create(ctx context.Context, s model.Service) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	s.ID = m.seq
	s.IsActive = true
	m.byID[s.ID] = s
	return s.ID, nil
}

func (m *memServices) Update(ctx context.Context, s model.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[s.ID]
	if !ok || !cur.IsActive {
		return repository.ErrNotFound
	}
	s.IsActive = true
	m.byID[s.ID] = s
	return nil
}

func (m *memServices) Delete(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok || !s.IsActive {
		return repository.ErrNotFound
	}
	s.IsActive = false
	m.byID[id] = s
	return nil
}
