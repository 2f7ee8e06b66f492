package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edusphere-api/internal/models"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
)

type accountRepository interface {
	FindByEmail(email string) (models.Account, error)
}

type studentLookup interface {
	Find(id string) (models.Student, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService logs demo accounts in and turns access tokens back into principals.
type AuthService struct {
	accounts  accountRepository
	students  studentLookup
	audit     *AuditService
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(accounts accountRepository, students studentLookup, audit *AuditService, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 12 * time.Hour
	}
	return &AuthService{accounts: accounts, students: students, audit: audit, validator: validate, logger: logger, config: config, now: time.Now}
}

// Login authenticates a demo account for the requested role and issues an access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	account, err := s.accounts.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			s.recordLogin(ctx, nil, req, models.AuditDenied)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.recordLogin(ctx, nil, req, models.AuditDenied)
		return nil, appErrors.ErrInvalidCredentials
	}
	// The role picker must agree with the account; a mismatch reads as bad credentials.
	if account.Role != req.Role {
		s.recordLogin(ctx, nil, req, models.AuditDenied)
		return nil, appErrors.ErrInvalidCredentials
	}

	principal := account.Principal()
	token, issuedAt, err := s.generateAccessToken(principal)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.recordLogin(ctx, &principal, req, models.AuditAllowed)

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		Principal:   principal,
		IssuedAt:    issuedAt,
	}, nil
}

// Logout records the end of a session. Tokens are stateless and simply expire.
func (s *AuthService) Logout(ctx context.Context, p *models.Principal, ip, userAgent string) error {
	if p.IsGuest() {
		return appErrors.ErrUnauthenticated
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: "auth.logout", Resource: "auth", ResourceID: p.ID, Outcome: models.AuditAllowed, IP: ip, UserAgent: userAgent})
	return nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now)}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.AccessTokenSecret), nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthenticated.Code, appErrors.ErrUnauthenticated.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid token claims")
	}
	if !claims.Role.Valid() || claims.Role == models.RoleGuest {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid token role")
	}
	return claims, nil
}

// Principal rebuilds the session principal from claims and resolves the current
// grades of its linked students. Students that no longer exist are dropped.
func (s *AuthService) Principal(claims *models.JWTClaims) models.Principal {
	p := claims.Principal()
	if s.students == nil {
		return p
	}
	seen := make(map[string]struct{})
	for _, id := range p.OwnedStudentIDs() {
		st, err := s.students.Find(id)
		if err != nil {
			continue
		}
		if _, dup := seen[st.Grade]; dup {
			continue
		}
		seen[st.Grade] = struct{}{}
		p.Grades = append(p.Grades, st.Grade)
	}
	return p
}

func (s *AuthService) generateAccessToken(p models.Principal) (string, time.Time, error) {
	if s.config.AccessTokenSecret == "" {
		return "", time.Time{}, fmt.Errorf("access token secret missing")
	}
	issuedAt := s.now().UTC()
	claims := models.JWTClaims{
		PrincipalID:      p.ID,
		Role:             p.Role,
		Name:             p.Name,
		LinkedStudentIDs: p.LinkedStudentIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.ID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

func (s *AuthService) recordLogin(ctx context.Context, p *models.Principal, req models.LoginRequest, outcome string) {
	s.audit.Record(ctx, AuditEntry{
		Principal: p,
		Action:    "auth.login",
		Resource:  "auth",
		Outcome:   outcome,
		Details:   map[string]interface{}{"email": req.Email, "role": req.Role},
		IP:        req.IP,
		UserAgent: req.UserAgent,
	})
}
