package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/faqplusplus/faqplusplus/internal/shared/authorization"
)

// Claims identifies a caller of the admin and tickets API.
type Claims struct {
	UserPrincipalName string                   `json:"upn"`
	ObjectID          string                   `json:"oid"`
	Roles             []authorization.UserRole `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the caller holds role.
func (c *Claims) HasRole(role authorization.UserRole) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type JWTService struct {
	secret     []byte
	issuer     string
	expMinutes int
	nowFunc    func() time.Time
}

func NewJWTService(secret, issuer string, expMinutes int) *JWTService {
	if expMinutes <= 0 {
		expMinutes = 60
	}
	return &JWTService{
		secret:     []byte(secret),
		issuer:     issuer,
		expMinutes: expMinutes,
		nowFunc:    time.Now,
	}
}

// Generate signs an HS256 token for the given identity.
func (s *JWTService) Generate(upn, objectID string, roles ...authorization.UserRole) (string, error) {
	now := s.nowFunc().UTC()
	claims := &Claims{
		UserPrincipalName: upn,
		ObjectID:          objectID,
		Roles:             roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   objectID,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.nowFunc)}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UserPrincipalName == "" {
		return nil, fmt.Errorf("token has no upn claim")
	}
	return claims, nil
}
