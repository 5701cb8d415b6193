package services

import (
	"context"
	"sync"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/repositories"
	"github.com/AnthonyFclub/glor-crm/wizard"
	"github.com/google/uuid"
)

// ============================================
// MOCKS de los repositorios para los tests
// ============================================

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: map[string]*domain.User{}}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	user, ok := m.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Password = hash
	return nil
}

func (m *mockUserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

type mockSessionRepository struct {
	sessions map[string]domain.AuthSession
	resets   map[string]string
	revoked  map[string]time.Time
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{
		sessions: map[string]domain.AuthSession{},
		resets:   map[string]string{},
		revoked:  map[string]time.Time{},
	}
}

func (m *mockSessionRepository) SaveSession(ctx context.Context, s *domain.AuthSession) error {
	m.sessions[s.ID] = *s
	return nil
}

func (m *mockSessionRepository) GetSession(ctx context.Context, id string) (*domain.AuthSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if at, ok := m.revoked[s.UserID]; ok && !s.IssuedAt.After(at) {
		return nil, repositories.ErrNotFound
	}
	return &s, nil
}

func (m *mockSessionRepository) RevokeUserSessions(ctx context.Context, userID string, ttl time.Duration) error {
	m.revoked[userID] = time.Now().UTC()
	return nil
}

func (m *mockSessionRepository) DeleteSession(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepository) SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	m.resets[token] = userID
	return nil
}

func (m *mockSessionRepository) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	userID, ok := m.resets[token]
	if !ok {
		return "", repositories.ErrNotFound
	}
	delete(m.resets, token)
	return userID, nil
}

func (m *mockSessionRepository) Close() {}

type mockPropertyRepository struct {
	mu         sync.Mutex
	properties map[string]*domain.Property
	failWith   error
}

func newMockPropertyRepository() *mockPropertyRepository {
	return &mockPropertyRepository{properties: map[string]*domain.Property{}}
}

func (m *mockPropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	p.ID = uuid.NewString()
	m.properties[p.ID] = p
	return nil
}

func (m *mockPropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.properties[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.properties[p.ID] = p
	return nil
}

func (m *mockPropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.properties[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return p, nil
}

func (m *mockPropertyRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.properties[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.properties, id)
	return nil
}

func (m *mockPropertyRepository) List(ctx context.Context, f dto.PropertyFilter) ([]domain.Property, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Property{}
	for _, p := range m.properties {
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

type mockContactRepository struct {
	contacts map[string]*domain.Contact
}

func newMockContactRepository() *mockContactRepository {
	return &mockContactRepository{contacts: map[string]*domain.Contact{}}
}

func (m *mockContactRepository) add(c domain.Contact) *domain.Contact {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.contacts[c.ID] = &c
	return &c
}

func (m *mockContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	c.ID = uuid.NewString()
	m.contacts[c.ID] = c
	return nil
}

func (m *mockContactRepository) Update(ctx context.Context, c *domain.Contact) error {
	if _, ok := m.contacts[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.contacts[c.ID] = c
	return nil
}

func (m *mockContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	c, ok := m.contacts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return c, nil
}

func (m *mockContactRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.contacts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.contacts, id)
	return nil
}

func (m *mockContactRepository) List(ctx context.Context, f dto.ContactFilter) ([]domain.Contact, int64, error) {
	all, _ := m.ListAll(ctx, f)
	return all, int64(len(all)), nil
}

func (m *mockContactRepository) ListAll(ctx context.Context, f dto.ContactFilter) ([]domain.Contact, error) {
	out := []domain.Contact{}
	for _, c := range m.contacts {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockContactRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.contacts)), nil
}

func (m *mockContactRepository) WithDates(ctx context.Context) ([]domain.Contact, error) {
	out := []domain.Contact{}
	for _, c := range m.contacts {
		if c.Birthday != nil || c.Anniversary != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

type mockDealRepository struct {
	deals   map[string]*domain.Deal
	revenue float64
}

func newMockDealRepository() *mockDealRepository {
	return &mockDealRepository{deals: map[string]*domain.Deal{}}
}

func (m *mockDealRepository) Create(ctx context.Context, d *domain.Deal) error {
	d.ID = uuid.NewString()
	m.deals[d.ID] = d
	return nil
}

func (m *mockDealRepository) Update(ctx context.Context, d *domain.Deal) error {
	if _, ok := m.deals[d.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.deals[d.ID] = d
	return nil
}

func (m *mockDealRepository) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	d, ok := m.deals[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return d, nil
}

func (m *mockDealRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.deals[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.deals, id)
	return nil
}

func (m *mockDealRepository) List(ctx context.Context, f dto.DealFilter) ([]domain.Deal, int64, error) {
	out := []domain.Deal{}
	for _, d := range m.deals {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (m *mockDealRepository) ListByStages(ctx context.Context, stages []domain.DealStage) ([]domain.Deal, error) {
	out := []domain.Deal{}
	for _, d := range m.deals {
		for _, s := range stages {
			if d.Stage == s {
				out = append(out, *d)
				break
			}
		}
	}
	return out, nil
}

func (m *mockDealRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	for _, d := range m.deals {
		if d.Stage.Active() {
			n++
		}
	}
	return n, nil
}

func (m *mockDealRepository) CommissionBetween(ctx context.Context, from, to time.Time) (float64, error) {
	return m.revenue, nil
}

type mockActivityRepository struct {
	activities map[string]*domain.Activity
	pending    int64
}

func newMockActivityRepository() *mockActivityRepository {
	return &mockActivityRepository{activities: map[string]*domain.Activity{}}
}

func (m *mockActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	a.ID = uuid.NewString()
	m.activities[a.ID] = a
	return nil
}

func (m *mockActivityRepository) Update(ctx context.Context, a *domain.Activity) error {
	if _, ok := m.activities[a.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.activities[a.ID] = a
	return nil
}

func (m *mockActivityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	a, ok := m.activities[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return a, nil
}

func (m *mockActivityRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.activities[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.activities, id)
	return nil
}

func (m *mockActivityRepository) List(ctx context.Context, f dto.ActivityFilter) ([]domain.Activity, int64, error) {
	out := []domain.Activity{}
	for _, a := range m.activities {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (m *mockActivityRepository) CountPendingFollowUps(ctx context.Context, until time.Time) (int64, error) {
	return m.pending, nil
}

// mockWizardSessions guarda las sesiones en un mapa
type mockWizardSessions struct {
	mu       sync.Mutex
	sessions map[string]*wizard.Session
}

func newMockWizardSessions() *mockWizardSessions {
	return &mockWizardSessions{sessions: map[string]*wizard.Session{}}
}

func (m *mockWizardSessions) Save(s *wizard.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

func (m *mockWizardSessions) Get(id string) (*wizard.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *mockWizardSessions) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *mockWizardSessions) Close() {}

// recordingPublisher guarda los eventos publicados
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.EntityEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.EntityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Events() []domain.EntityEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.EntityEvent(nil), p.events...)
}
