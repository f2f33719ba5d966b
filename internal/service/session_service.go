package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "github.com/aditya/worknearby/internal/errors"
	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/internal/repository"
	"github.com/aditya/worknearby/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "worknearby"

// Authorizer gates mutating operations on an authenticated session.
type Authorizer interface {
	Authorize(ctx context.Context) error
}

type SessionService interface {
	Authorizer
	SignUp(ctx context.Context, req *models.SignUpRequest) (*models.User, error)
	Login(ctx context.Context, creds *models.Credentials) (*models.Session, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, bool)
	IsAuthenticated(ctx context.Context) bool
	Verify(ctx context.Context, token string) (*models.Session, error)
}

type SessionConfig struct {
	Secret     []byte
	TTL        time.Duration
	BcryptCost int
}

// Claims carried by session access tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Phone  string `json:"phone"`
	jwt.RegisteredClaims
}

// sessionService holds the single client session for the process.
type sessionService struct {
	userRepo repository.UserRepository
	credRepo repository.CredentialRepository
	cfg      SessionConfig
	now      func() time.Time

	mu      sync.RWMutex
	current *models.Session
}

func NewSessionService(
	userRepo repository.UserRepository,
	credRepo repository.CredentialRepository,
	cfg SessionConfig,
) SessionService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &sessionService{
		userRepo: userRepo,
		credRepo: credRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *sessionService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("user with this phone already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:  req.Name,
		Phone: req.Phone,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return nil, apperrors.Conflict("user with this phone already exists")
		}
		return nil, err
	}

	if err := s.credRepo.Create(ctx, &models.Credential{UserID: user.ID, PasswordHash: hash}); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *sessionService) Login(ctx context.Context, creds *models.Credentials) (*models.Session, error) {
	creds.Phone = strings.TrimSpace(creds.Phone)
	if err := utils.ValidateStruct(creds); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByPhone(ctx, creds.Phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.Authentication("invalid phone or password")
	}

	cred, err := s.credRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, apperrors.Authentication("invalid phone or password")
	}
	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(creds.Password)); err != nil {
		return nil, apperrors.Authentication("invalid phone or password")
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	return cloneSession(session), nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return apperrors.Unauthorized("no active session")
	}
	s.current = nil
	return nil
}

func (s *sessionService) CurrentUser(ctx context.Context) (*models.User, bool) {
	session := s.active()
	if session == nil {
		return nil, false
	}
	// Prefer the live record so profile edits show up without a new login.
	if user, err := s.userRepo.GetByID(ctx, session.User.ID); err == nil && user != nil {
		return user, true
	}
	return session.User, true
}

func (s *sessionService) IsAuthenticated(ctx context.Context) bool {
	return s.active() != nil
}

func (s *sessionService) Authorize(ctx context.Context) error {
	if s.active() == nil {
		return apperrors.Unauthorized("login required")
	}
	return nil
}

// Verify checks the token signature and that it belongs to the live session.
func (s *sessionService) Verify(ctx context.Context, token string) (*models.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.Unauthorized("missing session token")
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.cfg.Secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(tokenIssuer))
	if err != nil || !parsed.Valid {
		return nil, apperrors.Unauthorized("invalid or expired session token")
	}

	session := s.active()
	if session == nil || session.Token != token {
		return nil, apperrors.Unauthorized("session is no longer active")
	}
	return session, nil
}

// active returns a copy of the current session, dropping it once expired.
func (s *sessionService) active() *models.Session {
	s.mu.RLock()
	session := s.current
	s.mu.RUnlock()

	if session == nil {
		return nil
	}
	if !s.now().Before(session.ExpiresAt) {
		s.mu.Lock()
		if s.current == session {
			s.current = nil
		}
		s.mu.Unlock()
		return nil
	}
	return cloneSession(session)
}

func (s *sessionService) issue(user *models.User) (*models.Session, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.TTL)

	claims := &Claims{
		UserID: user.ID,
		Phone:  user.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        utils.GenerateID(),
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &models.Session{
		Token:     token,
		User:      user.Clone(),
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

func cloneSession(s *models.Session) *models.Session {
	c := *s
	c.User = s.User.Clone()
	return &c
}
