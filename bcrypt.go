package auth

import (
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Work factor bounds we consider sane for interactive logins. bcrypt
// itself accepts 4..31 but anything below 10 is trivially brute forced
// offline and anything above 14 stalls request handling.
const (
	MinWorkFactor     = 10
	MaxWorkFactor     = 14
	DefaultWorkFactor = 12
)

// Hasher hashes and verifies passwords with a configurable bcrypt cost.
// The zero value uses the build default cost.
type Hasher struct {
	WorkFactor int
}

// NewHasher returns a Hasher with the given work factor. Factors outside
// the supported window are rejected so a bad config cannot silently
// weaken stored hashes.
func NewHasher(workFactor int) (*Hasher, error) {
	if workFactor < MinWorkFactor || workFactor > MaxWorkFactor {
		return nil, errors.New("bcrypt work factor out of range", errors.CategoryValidation).
			WithMetadata(map[string]any{
				"work_factor": workFactor,
				"min":         MinWorkFactor,
				"max":         MaxWorkFactor,
			})
	}
	return &Hasher{WorkFactor: workFactor}, nil
}

func (h *Hasher) cost() int {
	if h == nil || h.WorkFactor == 0 {
		return passwordHashCost()
	}
	return h.WorkFactor
}

// HashPassword will generate a password hash. bcrypt salts internally so
// hashing the same password twice yields different stored hashes.
func (h *Hasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		// resource exhaustion or an invalid cost, never a validation issue
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	return string(hash), nil
}

// ComparePasswordAndHash will validate the given cleartext password
// matches the hashed password. Comparison cost is dominated by the
// bcrypt work factor regardless of where the mismatch occurs.
func (h *Hasher) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		// an undecodable stored hash is a data problem, but reporting it
		// differently would leak which factor failed
		return ErrMismatchedHashAndPassword
	}
	return nil
}

var defaultHasher = &Hasher{}

// HashPassword will generate a password hash using the default work factor
func HashPassword(password string) (string, error) {
	return defaultHasher.HashPassword(password)
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	return defaultHasher.ComparePasswordAndHash(password, hash)
}

// RandomPasswordHash is a temporary password
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}

var _ PasswordAuthenticator = (*Hasher)(nil)
