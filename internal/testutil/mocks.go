package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/dafibh/prolink/prolink-backend/internal/websocket"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of domain.UserRepository.
// CreateWithProfile also inserts the default profile into Profiles.
type MockUserRepository struct {
	mu       sync.Mutex
	ByID     map[uuid.UUID]*domain.User
	Profiles *MockProfileRepository

	// CreateFn overrides CreateWithProfile when set
	CreateFn    func(id uuid.UUID, email string) (*domain.User, *domain.Profile, error)
	GetErr      error
	CreateCalls int
}

// NewMockUserRepository creates a new MockUserRepository backed by profiles
func NewMockUserRepository(profiles *MockProfileRepository) *MockUserRepository {
	return &MockUserRepository{
		ByID:     make(map[uuid.UUID]*domain.User),
		Profiles: profiles,
	}
}

// AddUser adds a user to the mock repository (for test setup)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ByID[user.ID] = user
}

// UserCount returns the number of stored users
func (m *MockUserRepository) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ByID)
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateWithProfile inserts the user and its default profile
func (m *MockUserRepository) CreateWithProfile(ctx context.Context, id uuid.UUID, email string) (*domain.User, *domain.Profile, error) {
	m.mu.Lock()
	m.CreateCalls++
	if m.CreateFn != nil {
		fn := m.CreateFn
		m.mu.Unlock()
		return fn(id, email)
	}
	if _, ok := m.ByID[id]; ok {
		m.mu.Unlock()
		return nil, nil, domain.ErrAlreadyExists
	}
	for _, u := range m.ByID {
		if u.Email == email {
			m.mu.Unlock()
			return nil, nil, domain.ErrAlreadyExists
		}
	}
	now := time.Now()
	user := &domain.User{ID: id, Email: email, CreatedAt: now, UpdatedAt: now}
	m.ByID[id] = user
	m.mu.Unlock()

	var profile *domain.Profile
	if m.Profiles != nil {
		p, err := m.Profiles.EnsureForUser(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		profile = p
	}
	return user, profile, nil
}

// MockProfileRepository is a mock implementation of domain.ProfileRepository
type MockProfileRepository struct {
	mu       sync.Mutex
	Profiles map[uuid.UUID]*domain.Profile

	// Err, when set, is returned by every operation
	Err               error
	AvatarUpdateCalls int
	UpdateCalls       int
}

// NewMockProfileRepository creates a new MockProfileRepository
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		Profiles: make(map[uuid.UUID]*domain.Profile),
	}
}

// AddProfile adds a profile to the mock repository (for test setup)
func (m *MockProfileRepository) AddProfile(p *domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.Profiles[p.ID] = p
}

// CountForUser returns how many profiles a user owns
func (m *MockProfileRepository) CountForUser(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.Profiles {
		if p.UserID == userID {
			n++
		}
	}
	return n
}

// List returns all profiles
func (m *MockProfileRepository) List(_ context.Context) ([]*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]*domain.Profile, 0, len(m.Profiles))
	for _, p := range m.Profiles {
		result = append(result, clone(p))
	}
	return result, nil
}

// ListExcept returns all profiles not owned by userID, ordered by full name
func (m *MockProfileRepository) ListExcept(_ context.Context, userID uuid.UUID) ([]*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]*domain.Profile, 0, len(m.Profiles))
	for _, p := range m.Profiles {
		if p.UserID != userID {
			result = append(result, clone(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result, nil
}

// GetByID retrieves a profile by ID
func (m *MockProfileRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if p, ok := m.Profiles[id]; ok {
		return clone(p), nil
	}
	return nil, domain.ErrProfileNotFound
}

// GetByUserID retrieves a profile by its owner
func (m *MockProfileRepository) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if p := m.byUser(userID); p != nil {
		return clone(p), nil
	}
	return nil, domain.ErrProfileNotFound
}

// Create inserts a profile for userID
func (m *MockProfileRepository) Create(_ context.Context, userID uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.byUser(userID) != nil {
		return nil, domain.ErrAlreadyExists
	}
	p := m.insert(userID)
	update.Apply(p)
	return clone(p), nil
}

// EnsureForUser returns the user's profile, inserting a default one if absent
func (m *MockProfileRepository) EnsureForUser(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if p := m.byUser(userID); p != nil {
		return clone(p), nil
	}
	return clone(m.insert(userID)), nil
}

// Update applies a partial update by profile ID
func (m *MockProfileRepository) Update(_ context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	update.Apply(p)
	p.UpdatedAt = time.Now()
	return clone(p), nil
}

// UpdateByUserID applies a partial update by owner
func (m *MockProfileRepository) UpdateByUserID(_ context.Context, userID uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	p := m.byUser(userID)
	if p == nil {
		return nil, domain.ErrProfileNotFound
	}
	update.Apply(p)
	p.UpdatedAt = time.Now()
	return clone(p), nil
}

// UpdateAvatarByUserID sets only the avatar URL
func (m *MockProfileRepository) UpdateAvatarByUserID(_ context.Context, userID uuid.UUID, avatarURL string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AvatarUpdateCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	p := m.byUser(userID)
	if p == nil {
		return nil, domain.ErrProfileNotFound
	}
	p.AvatarURL = avatarURL
	p.UpdatedAt = time.Now()
	return clone(p), nil
}

// Delete removes a profile and returns it
func (m *MockProfileRepository) Delete(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	delete(m.Profiles, id)
	return p, nil
}

func (m *MockProfileRepository) byUser(userID uuid.UUID) *domain.Profile {
	for _, p := range m.Profiles {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

func (m *MockProfileRepository) insert(userID uuid.UUID) *domain.Profile {
	p := domain.NewDefaultProfile(userID)
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.Profiles[p.ID] = p
	return p
}

func clone(p *domain.Profile) *domain.Profile {
	c := *p
	return &c
}

// MockAuthProvider is a mock implementation of domain.AuthProvider.
// Set the *Err fields to make the matching call fail.
type MockAuthProvider struct {
	User    *domain.AuthUser
	Session *domain.Session

	SignUpErr    error
	SignInErr    error
	SignOutErr   error
	ResetErr     error
	UpdateErr    error
	ExchangeErr  error
	AuthorizeErr error

	LastEmail        string
	LastPassword     string
	LastMetadata     map[string]any
	LastToken        string
	LastRedirect     string
	LastProvider     string
	LastCodeVerifier string
}

// NewMockAuthProvider creates a provider that succeeds with a fixed user and session
func NewMockAuthProvider() *MockAuthProvider {
	user := &domain.AuthUser{ID: uuid.NewString(), Email: "a@x.com"}
	return &MockAuthProvider{
		User: user,
		Session: &domain.Session{
			AccessToken:  "access-token",
			TokenType:    "bearer",
			ExpiresIn:    3600,
			RefreshToken: "refresh-token",
			User:         user,
		},
	}
}

// SignUp records the call and returns User
func (m *MockAuthProvider) SignUp(_ context.Context, email, password string, metadata map[string]any) (*domain.AuthUser, *domain.Session, error) {
	m.LastEmail, m.LastPassword, m.LastMetadata = email, password, metadata
	if m.SignUpErr != nil {
		return nil, nil, m.SignUpErr
	}
	return m.User, nil, nil
}

// SignInWithPassword records the call and returns Session
func (m *MockAuthProvider) SignInWithPassword(_ context.Context, email, password string) (*domain.Session, error) {
	m.LastEmail, m.LastPassword = email, password
	if m.SignInErr != nil {
		return nil, m.SignInErr
	}
	return m.Session, nil
}

// SignOut records the token
func (m *MockAuthProvider) SignOut(_ context.Context, accessToken string) error {
	m.LastToken = accessToken
	return m.SignOutErr
}

// ResetPasswordForEmail records the email and redirect
func (m *MockAuthProvider) ResetPasswordForEmail(_ context.Context, email, redirectTo string) error {
	m.LastEmail, m.LastRedirect = email, redirectTo
	return m.ResetErr
}

// UpdatePassword records the call and returns User
func (m *MockAuthProvider) UpdatePassword(_ context.Context, accessToken, password string) (*domain.AuthUser, error) {
	m.LastToken, m.LastPassword = accessToken, password
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	return m.User, nil
}

// MockCodeVerifier is the verifier returned by MockAuthProvider.Authorize
const MockCodeVerifier = "mock-code-verifier"

// Authorize records the call and returns a fake provider URL
func (m *MockAuthProvider) Authorize(_ context.Context, provider, redirectTo string) (*domain.OAuthRedirect, error) {
	m.LastProvider, m.LastRedirect = provider, redirectTo
	if m.AuthorizeErr != nil {
		return nil, m.AuthorizeErr
	}
	return &domain.OAuthRedirect{
		URL:          "https://auth.example.com/authorize?provider=" + provider,
		CodeVerifier: MockCodeVerifier,
	}, nil
}

// ExchangeCodeForSession records the verifier and returns Session
func (m *MockAuthProvider) ExchangeCodeForSession(_ context.Context, _ string, codeVerifier string) (*domain.Session, error) {
	m.LastCodeVerifier = codeVerifier
	if m.ExchangeErr != nil {
		return nil, m.ExchangeErr
	}
	return m.Session, nil
}

// PublishedEvent is an event captured by MockEventPublisher
type PublishedEvent struct {
	UserID uuid.UUID // uuid.Nil for events sent to everyone
	Event  websocket.Event
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records an event sent to every client
func (m *MockEventPublisher) Publish(event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{Event: event})
}

// PublishToUser records an event sent to one user
func (m *MockEventPublisher) PublishToUser(userID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// Types returns the type of every recorded event, in order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}
