package auth

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/nyaruka/phonenumbers"
)

// RegisterUserMessage carries the registration payload. OnResponse, when
// set, receives the sanitized projection of the created user.
type RegisterUserMessage struct {
	FullName   string            `form:"full_name" json:"full_name"`
	Username   string            `form:"username" json:"username"`
	Email      string            `form:"email" json:"email"`
	Phone      string            `form:"phone_number" json:"phone_number"`
	Password   string            `form:"password" json:"password"`
	OnResponse func(*PublicUser) `json:"-" form:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate runs validation rules. Every failing field is reported in a
// single pass so the caller sees all the missing pieces at once.
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&e.Phone, validation.By(ValidatePhoneNumber)),
		validation.Field(&e.Password, validation.Required),
	)
}

type RegisterUserHandler struct {
	store  IdentityStore
	hasher PasswordAuthenticator
	logger Logger
}

func NewRegisterUserHandler(store IdentityStore) *RegisterUserHandler {
	return &RegisterUserHandler{
		store:  store,
		hasher: defaultHasher,
		logger: defLogger{},
	}
}

func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) WithHasher(hasher PasswordAuthenticator) *RegisterUserHandler {
	if hasher != nil {
		h.hasher = hasher
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload").
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{
				"fields": FormatValidationErrorToMap(err),
			})
	}

	hash, err := h.hasher.HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		FullName:     event.FullName,
		Email:        NormalizeEmail(event.Email),
		Phone:        event.Phone,
		Username:     getUsername(event.Username, event.Email),
		PasswordHash: hash,
	}

	if id, err := hashid.NewUUID(user.Email); err == nil {
		user.ID = id
	}

	created, err := h.store.Create(ctx, user)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryConflict {
			h.logger.Info("registration rejected for existing account: %s", user.Email)
			// generic so the response does not confirm which accounts exist
			return ErrDuplicateIdentity
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}

	if event.OnResponse != nil {
		event.OnResponse(created.Sanitize())
	}

	return nil
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}

// ValidatePhoneNumber accepts empty values and otherwise requires a
// parseable, valid number.
func ValidatePhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "US")
	if err != nil {
		return goerrors.New("must be a valid phone number", goerrors.CategoryValidation)
	}

	if !phonenumbers.IsValidNumber(num) {
		return goerrors.New("must be a valid phone number", goerrors.CategoryValidation)
	}

	return nil
}
