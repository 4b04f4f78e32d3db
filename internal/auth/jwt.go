package auth

import (
	"errors"
	"time"

	"scavenger-hunt-api/internal/config"
	"scavenger-hunt-api/internal/game"
	"scavenger-hunt-api/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims
type Claims struct {
	UserID string      `json:"user_id"`
	TeamID string      `json:"team_id,omitempty"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Session converts the claims into the caller identity the game engine expects
func (c *Claims) Session() game.Session {
	return game.Session{UserID: c.UserID, TeamID: c.TeamID, Role: c.Role}
}

// Manager issues and validates tokens for one secret, issuer and audience
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewManager builds a Manager from the JWT configuration
func NewManager(cfg config.JWTConfig) *Manager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// GenerateToken generates a JWT token for the given account
func (m *Manager) GenerateToken(account models.Account) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: account.ID,
		TeamID: account.TeamID,
		Role:   account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken validates a JWT token and returns the claims
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}

		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Role != models.RoleTeam && claims.Role != models.RoleAdmin {
		return nil, errors.New("invalid token role")
	}
	if claims.Role == models.RoleTeam && claims.TeamID == "" {
		return nil, errors.New("team token without a team")
	}
	return claims, nil
}
