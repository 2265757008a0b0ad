package service

import (
	"context"
	"time"

	"bookpos/internal/apierror"
	"bookpos/internal/config"
	"bookpos/internal/dto"
	"bookpos/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService checks the single shared operator password and issues station
// tokens. There are no user accounts — the token's job is carrying the
// operator name and station id, not identity.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{cfg: cfg}
}

func (s *authService) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.OperatorPasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.New(apierror.KindValidationFailed, "wrong password")
	}

	expiry := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	claims := middleware.StationClaims{
		OperatorName: req.OperatorName,
		StationID:    req.StationID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, apierror.Wrap(err, "could not sign token")
	}

	return &dto.LoginResponse{
		AccessToken:  signed,
		ExpiresIn:    int(expiry.Seconds()),
		OperatorName: req.OperatorName,
		StationID:    req.StationID,
	}, nil
}
