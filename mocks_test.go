package auth_test

import (
	"context"
	"io"
	"mime/multipart"
	"sync"
	"time"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/souqworks/go-auth"
	"github.com/stretchr/testify/mock"
)

// MockAuthenticator implements auth.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, identifier, password string) (*auth.TokenPair, auth.Identity, error) {
	args := m.Called(ctx, identifier, password)
	pair, _ := args.Get(0).(*auth.TokenPair)
	identity, _ := args.Get(1).(auth.Identity)
	return pair, identity, args.Error(2)
}

func (m *MockAuthenticator) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, auth.Identity, error) {
	args := m.Called(ctx, refreshToken)
	pair, _ := args.Get(0).(*auth.TokenPair)
	identity, _ := args.Get(1).(auth.Identity)
	return pair, identity, args.Error(2)
}

func (m *MockAuthenticator) Logout(ctx context.Context, identityID string) error {
	args := m.Called(ctx, identityID)
	return args.Error(0)
}

func (m *MockAuthenticator) SessionFromToken(token string) (auth.Session, error) {
	args := m.Called(token)
	session, _ := args.Get(0).(auth.Session)
	return session, args.Error(1)
}

func (m *MockAuthenticator) IdentityFromSession(ctx context.Context, session auth.Session) (auth.Identity, error) {
	args := m.Called(ctx, session)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

// MockIdentity implements auth.Identity
type MockIdentity struct {
	IDValue       string
	UsernameValue string
	EmailValue    string
}

func (m MockIdentity) ID() string       { return m.IDValue }
func (m MockIdentity) Username() string { return m.UsernameValue }
func (m MockIdentity) Email() string    { return m.EmailValue }

// MockLoginPayload implements auth.LoginPayload
type MockLoginPayload struct {
	Identifier string
	Password   string
}

func (m MockLoginPayload) GetIdentifier() string {
	return m.Identifier
}

func (m MockLoginPayload) GetPassword() string {
	return m.Password
}

// MockConfig implements auth.Config with sane test defaults
type MockConfig struct {
	SigningKey        string
	TokenLookup       string
	SecureCookies     bool
	TokenExpiration   time.Duration
	RefreshExpiration time.Duration
}

func (m MockConfig) GetSigningKey() string {
	if m.SigningKey == "" {
		return "test-signing-key"
	}
	return m.SigningKey
}

func (m MockConfig) GetSigningMethod() string { return "HS256" }
func (m MockConfig) GetContextKey() string    { return "user" }

func (m MockConfig) GetTokenExpiration() time.Duration {
	if m.TokenExpiration != 0 {
		return m.TokenExpiration
	}
	return time.Hour
}

func (m MockConfig) GetRefreshTokenExpiration() time.Duration {
	if m.RefreshExpiration != 0 {
		return m.RefreshExpiration
	}
	return 240 * time.Hour
}

func (m MockConfig) GetTokenLookup() string {
	if m.TokenLookup == "" {
		return "cookie:accessToken,header:Authorization"
	}
	return m.TokenLookup
}

func (m MockConfig) GetAuthScheme() string  { return "Bearer" }
func (m MockConfig) GetIssuer() string      { return "test-issuer" }
func (m MockConfig) GetAudience() []string  { return []string{"test-audience"} }
func (m MockConfig) GetSecureCookies() bool { return m.SecureCookies }

// memStore is an in-memory IdentityStore used to exercise the full
// login/refresh/logout cycle without a database.
type memStore struct {
	mu      sync.Mutex
	byID    map[string]*auth.User
	byEmail map[string]*auth.User

	createErr error
	findErr   error
}

func newMemStore() *memStore {
	return &memStore{
		byID:    map[string]*auth.User{},
		byEmail: map[string]*auth.User{},
	}
}

func (s *memStore) seed(user *auth.User) *auth.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[user.ID.String()] = user
	s.byEmail[user.Email] = user
	return user
}

func (s *memStore) remove(user *auth.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, user.ID.String())
	delete(s.byEmail, user.Email)
}

func (s *memStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	user, ok := s.byEmail[auth.NormalizeEmail(email)]
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}
	return user, nil
}

func (s *memStore) FindByID(ctx context.Context, id string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	user, ok := s.byID[id]
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}
	return user, nil
}

func (s *memStore) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, exists := s.byEmail[user.Email]; exists {
		return nil, auth.ErrDuplicateIdentity
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.byID[user.ID.String()] = user
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *memStore) UpdateRefreshToken(ctx context.Context, id string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return auth.ErrIdentityNotFound
	}
	user.RefreshToken = token
	return nil
}

// MockContext mocks router.Context
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) QueryValues(key string) []string {
	args := m.Called(key)
	vals, _ := args.Get(0).([]string)
	return vals
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) RouteName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) RouteParams() map[string]string {
	args := m.Called()
	params, _ := args.Get(0).(map[string]string)
	return params
}

func (m *MockContext) LocalsMerge(key any, value map[string]any) map[string]any {
	args := m.Called(key, value)
	merged, _ := args.Get(0).(map[string]any)
	return merged
}

func (m *MockContext) FormFile(key string) (*multipart.FileHeader, error) {
	args := m.Called(key)
	header, _ := args.Get(0).(*multipart.FileHeader)
	return header, args.Error(1)
}

func (m *MockContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) IP() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) SendStatus(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) SendStream(r io.Reader) error {
	args := m.Called(r)
	return args.Error(0)
}
