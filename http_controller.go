package auth

import (
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// GetRouterSession rebuilds the session view from the claims the gate
// middleware stored in the router context.
func GetRouterSession(c router.Context, key string) (*SessionObject, error) {
	claims, ok := GetRouterClaims(c, key)
	if !ok {
		return nil, ErrUnableToFindSession
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		return nil, ErrUnableToDecodeSession
	}

	return session, nil
}

// RegisterAuthRoutes mounts the JSON auth endpoints. Logout and the
// current-user endpoint sit behind the access token gate.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	protected := controller.Auther.ProtectedRoute(
		controller.Config,
		controller.Auther.MakeClientRouteAuthErrorHandler(false),
	)

	app.
		Post(controller.Routes.Register, controller.wrap(controller.RegisterPost)).
		SetName("auth.register.post")

	app.
		Post(controller.Routes.Login, controller.wrap(controller.LoginPost)).
		SetName("auth.login.post")

	app.
		Post(controller.Routes.Logout, controller.wrap(controller.LogoutPost), protected).
		SetName("auth.logout.post")

	app.
		Post(controller.Routes.Refresh, controller.wrap(controller.RefreshPost)).
		SetName("auth.refresh.post")

	app.
		Get(controller.Routes.Me, controller.wrap(controller.CurrentUserShow), protected).
		SetName("auth.me.get")
}

type AuthControllerRoutes struct {
	Register string
	Login    string
	Logout   string
	Refresh  string
	Me       string
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Store  IdentityStore
	Config Config
	Routes *AuthControllerRoutes
	Auther HTTPAuthenticator
	Hasher PasswordAuthenticator
	Sink   *ErrorSink
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register: "/auth/register",
			Login:    "/auth/login",
			Logout:   "/auth/logout",
			Refresh:  "/auth/refresh",
			Me:       "/auth/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Store == nil {
		panic("Missing IdentityStore in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing HTTPAuthenticator in auth controller...")
	}

	if c.Config == nil {
		panic("Missing Config in auth controller...")
	}

	if c.Sink == nil {
		c.Sink = NewErrorSink().WithLogger(c.Logger)
		c.Sink.Debug = c.Debug
	}

	return c
}

func WithControllerStore(store IdentityStore) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Store = store
		return c
	}
}

func WithControllerAuther(auther HTTPAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Config = cfg
		return c
	}
}

// WithControllerHasher sets the password hasher used for registration,
// e.g. one built with NewHasher to pin the bcrypt work factor.
func WithControllerHasher(hasher PasswordAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Hasher = hasher
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func (a *AuthController) wrap(handler router.HandlerFunc) router.HandlerFunc {
	return WrapHandler(a.Sink, handler)
}

// LoginRequest payload
type LoginRequest struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Identifier
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := RegisterUserMessage{}

	if err := ctx.Bind(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse registration payload").
			WithCode(goerrors.CodeBadRequest)
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	var created *PublicUser
	payload.OnResponse = func(u *PublicUser) {
		created = u
	}

	registerUser := NewRegisterUserHandler(a.Store).
		WithLogger(a.Logger).
		WithHasher(a.Hasher)
	if err := registerUser.Execute(ctx.Context(), payload); err != nil {
		return err
	}

	return RespondOK(ctx, http.StatusCreated, "User registered successfully", created)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse login payload").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload").
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{
				"fields": FormatValidationErrorToMap(err),
			})
	}

	identity, err := a.Auther.Login(ctx, payload)
	if err != nil {
		return err
	}

	user, err := a.Store.FindByID(ctx.Context(), identity.ID())
	if err != nil || user == nil {
		// login succeeded, the projection lookup is best effort
		a.Logger.Warn("Login could not load user projection: %v", err)
		return RespondOK(ctx, http.StatusOK, "Logged in successfully", nil)
	}

	return RespondOK(ctx, http.StatusOK, "Logged in successfully", user.Sanitize())
}

func (a *AuthController) LogoutPost(ctx router.Context) error {
	if err := a.Auther.Logout(ctx); err != nil {
		return err
	}

	return RespondOK(ctx, http.StatusOK, "Logged out successfully", nil)
}

func (a *AuthController) RefreshPost(ctx router.Context) error {
	if _, err := a.Auther.Refresh(ctx); err != nil {
		return err
	}

	return RespondOK(ctx, http.StatusOK, "Session refreshed", nil)
}

func (a *AuthController) CurrentUserShow(ctx router.Context) error {
	session, err := GetRouterSession(ctx, a.Config.GetContextKey())
	if err != nil {
		return err
	}

	user, err := a.Store.FindByID(ctx.Context(), session.GetUserID())
	if err != nil {
		return err
	}

	if user == nil {
		return ErrIdentityNotFound
	}

	return RespondOK(ctx, http.StatusOK, "", user.Sanitize())
}
