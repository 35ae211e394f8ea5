// The adminauth package extracts the acting admin's identity from their
// bearer credential. The identity is recorded on audit records as-is; it is
// not a trusted foreign key into any store.
package adminauth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/pascaldekloe/jwt"
)

const adminRole = "ADMIN"

var (
	ErrInvalidToken = errors.New("adminauth: invalid or expired token")
	ErrNotAdmin     = errors.New("adminauth: token does not carry the admin role")
)

type AdminIdentity struct {
	Username string
	ID       int64
}

type Verifier struct {
	secretKey []byte
}

func New(secretKey string) *Verifier {
	return &Verifier{secretKey: []byte(secretKey)}
}

// FromBearerToken validates the token signature and expiry, checks the admin
// role, and returns the username and admin id claims.
func (v *Verifier) FromBearerToken(token string) (*AdminIdentity, error) {
	token = strings.TrimPrefix(token, "Bearer ")

	claims, err := jwt.HMACCheck([]byte(token), v.secretKey)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !claims.Valid(time.Now()) {
		return nil, ErrInvalidToken
	}

	role, _ := claims.String("role")
	if role != adminRole {
		return nil, ErrNotAdmin
	}

	identity := &AdminIdentity{
		Username: claims.Subject,
	}

	if id, ok := claims.Number("userId"); ok {
		identity.ID = int64(id)
	} else if raw, ok := claims.String("userId"); ok {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, ErrInvalidToken
		}
		identity.ID = parsed
	}

	return identity, nil
}
