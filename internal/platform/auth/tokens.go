package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/workerhealth/hid/internal/domain/access"
	"github.com/workerhealth/hid/internal/domain/account"
)

// ErrInvalidToken covers every reason a session token is rejected.
var ErrInvalidToken = errors.New("invalid session token")

// Claims is the session token payload.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenConfig configures token issuance. Zero TTL and Issuer take defaults.
type TokenConfig struct {
	Issuer     string
	SigningKey []byte
	TTL        time.Duration
}

// Tokens issues and verifies HS256 session tokens carrying the account id
// as subject and the role as a claim.
type Tokens struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokens creates a token issuer and verifier for cfg.
func NewTokens(cfg TokenConfig) *Tokens {
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "hid-server"
	}
	return &Tokens{cfg: cfg, now: time.Now}
}

// Issue signs a session token for the account.
func (t *Tokens) Issue(accountID uuid.UUID, role account.Role) (string, error) {
	now := t.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.TTL)),
		},
		Role: string(role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.SigningKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenStr and returns the principal it carries.
func (t *Tokens) Parse(tokenStr string) (*access.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	role := account.Role(claims.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	return &access.Principal{AccountID: id, Role: role}, nil
}
