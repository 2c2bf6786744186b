package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mindgauge/internal/apperr"
	"mindgauge/internal/config"
	"mindgauge/internal/model"
)

// AuthService issues and validates role-scoped tokens. Staff (admin and
// counselor) log in with configured credentials; participants register and
// receive a generated identity, since respondent identity management lives
// outside this service.
type AuthService struct {
	cfg       *config.Config
	jwtSecret []byte
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:       cfg,
		jwtSecret: []byte(cfg.JWTSecret),
	}
}

// Login validates staff credentials and returns a role token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	var role model.Role
	switch {
	case username == s.cfg.AdminUsername && password == s.cfg.AdminPassword:
		role = model.RoleAdmin
	case username == s.cfg.CounselorUsername && password == s.cfg.CounselorPassword:
		role = model.RoleCounselor
	default:
		return nil, apperr.Forbidden("invalid username or password")
	}

	userID := string(role) + "_" + uuid.New().String()[:8]
	token, err := s.issueToken(userID, role)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, UserID: userID, Role: role}, nil
}

// Register creates a participant identity and returns its token
func (s *AuthService) Register() (*model.LoginResponse, error) {
	userID := "user_" + uuid.NewString()
	token, err := s.issueToken(userID, model.RoleUser)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, UserID: userID, Role: model.RoleUser}, nil
}

func (s *AuthService) issueToken(userID string, role model.Role) (string, error) {
	claims := &model.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken parses a JWT and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*model.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperr.Forbidden("invalid or expired token")
	}
	claims, ok := token.Claims.(*model.Claims)
	if !ok || !token.Valid {
		return nil, apperr.Forbidden("invalid or expired token")
	}
	return claims, nil
}
