package services

import (
	"fmt"
	"time"

	"github.com/SiRoHK/MiniAnazinClone/models"
	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is the fixed validity window of an issued token. There is no
// refresh mechanism.
const TokenTTL = time.Hour

// AuthClaims is the verified identity extracted from a session token.
type AuthClaims struct {
	UserID      uint
	Email       string
	Role        string
	Permissions map[string]bool
}

// HasPermission reports whether the token carried the named permission claim.
func (c *AuthClaims) HasPermission(permission string) bool {
	return c.Permissions[permission]
}

// TokenService creates and validates signed session tokens.
type TokenService struct {
	secretKey []byte
	issuer    string
	audience  string
}

// NewTokenService creates a TokenService with a symmetric signing key.
func NewTokenService(secret, issuer, audience string) *TokenService {
	return &TokenService{
		secretKey: []byte(secret),
		issuer:    issuer,
		audience:  audience,
	}
}

// Generate issues an HS256 token for the user: subject is the email, with
// user id and role claims. Admins additionally carry the two fixed
// permission claims.
func (s *TokenService) Generate(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.Email,
		"uid":  user.ID,
		"role": user.Role,
		"iss":  s.issuer,
		"aud":  s.audience,
		"iat":  now.Unix(),
		"exp":  now.Add(TokenTTL).Unix(),
	}
	if user.Role == models.RoleAdmin {
		claims["permissions"] = []string{
			models.PermissionCanViewOrders,
			models.PermissionCanRefundOrders,
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Validate parses and verifies a token string and returns its claims.
func (s *TokenService) Validate(tokenStr string) (*AuthClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return nil, fmt.Errorf("invalid token issuer")
	}
	if !claims.VerifyAudience(s.audience, true) {
		return nil, fmt.Errorf("invalid token audience")
	}

	email, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token: subject claim missing")
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid token: uid claim missing")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token: role claim missing")
	}

	permissions := make(map[string]bool)
	if raw, ok := claims["permissions"].([]interface{}); ok {
		for _, p := range raw {
			if name, ok := p.(string); ok {
				permissions[name] = true
			}
		}
	}

	return &AuthClaims{
		UserID:      uint(uid),
		Email:       email,
		Role:        role,
		Permissions: permissions,
	}, nil
}
