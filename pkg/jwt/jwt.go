package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
)

const (
	defaultSecret = "ppm-dashboard-dev-secret-change-in-production"
	issuer        = "go-ppm-dashboard"
)

// Privileges understood by the API
const (
	PrivProductView     = "product:view"
	PrivProductCreate   = "product:create"
	PrivProductUpdate   = "product:update"
	PrivProductDelete   = "product:delete"
	PrivProductImport   = "product:import"
	PrivAlternateUpdate = "alternate:update"
	PrivDashboardView   = "dashboard:view"
	PrivDashboardAct    = "dashboard:act"
)

// AllPrivileges is what an operator with full access carries
var AllPrivileges = []string{
	PrivProductView, PrivProductCreate, PrivProductUpdate, PrivProductDelete,
	PrivProductImport, PrivAlternateUpdate, PrivDashboardView, PrivDashboardAct,
}

// Claims represents the JWT claims structure
type Claims struct {
	Operator   string   `json:"operator"`
	Privileges []string `json:"privileges"`
	jwt.RegisteredClaims
}

// Signer issues and validates operator tokens with one HMAC secret
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner falls back to a development secret when secret is empty.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if secret == "" {
		secret = defaultSecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// GenerateToken creates a new JWT token for an operator
func (s *Signer) GenerateToken(operator string, privileges []string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Operator:   operator,
		Privileges: privileges,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   operator,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and validates a JWT token
func (s *Signer) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
