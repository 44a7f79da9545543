package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/waslahq/wasla/internal/auth/domain"
	"github.com/waslahq/wasla/internal/auth/password"
	"github.com/waslahq/wasla/internal/clock"
	"github.com/waslahq/wasla/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	sessionTokenBytes = 32

	minPasswordLength = 8
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Cfg         config.Config
	Clock       clock.Clock
	GenID       *snowflake.Node
	Repo        domain.Repository
	SessionRepo domain.SessionRepository
}

type Service struct {
	log         *zap.Logger
	clock       clock.Clock
	genID       *snowflake.Node
	repo        domain.Repository
	sessionRepo domain.SessionRepository
	sessionTTL  time.Duration
}

func New(p Params) domain.Service {
	return &Service{
		log:         p.Log.Named("auth.service"),
		clock:       p.Clock,
		genID:       p.GenID,
		repo:        p.Repo,
		sessionRepo: p.SessionRepo,
		sessionTTL:  time.Duration(p.Cfg.SessionTTLMinutes) * time.Minute,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	user, err := s.createAccount(ctx, req.Email, req.Password, req.FullName, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if !req.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	return s.createAccount(ctx, req.Email, req.Password, req.FullName, req.Role)
}

func (s *Service) createAccount(ctx context.Context, rawEmail, rawPassword, fullName string, role domain.Role) (*domain.User, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if len(strings.TrimSpace(rawPassword)) < minPasswordLength {
		return nil, domain.ErrInvalidPassword
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		PasswordHash: hashed,
		FullName:     strings.TrimSpace(fullName),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	session := &domain.Session{
		ID:               s.genID.Generate(),
		UserID:           user.ID,
		SessionTokenHash: hashToken(rawToken),
		UserAgent:        strings.TrimSpace(req.UserAgent),
		IPAddress:        strings.TrimSpace(req.IPAddress),
		ExpiresAt:        now.Add(s.sessionTTL),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("session_id", session.ID.String()),
	)

	return &domain.LoginResult{
		User:      user,
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
		SessionID: session.ID,
	}, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrSessionNotFound
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		return err
	}
	return s.sessionRepo.RevokeSession(ctx, session.ID, s.clock.Now())
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.User, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	user, err := s.repo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if err := s.sessionRepo.UpdateLastSeen(ctx, session.ID, now); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdateRole(ctx context.Context, actor *domain.User, userID snowflake.ID, role domain.Role) error {
	if !role.Valid() {
		return domain.ErrInvalidRole
	}
	// An admin cannot change their own role. This keeps at least one
	// admin reachable without manual database surgery.
	if actor != nil && actor.ID == userID {
		return domain.ErrRoleChangeDenied
	}
	target, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	// Technical staff manage accounts but cannot strip admins of the
	// admin role.
	if actor != nil && actor.Role == domain.RoleTechnical &&
		target.Role == domain.RoleAdmin && role != domain.RoleAdmin {
		return domain.ErrRoleChangeDenied
	}
	return s.repo.UpdateFields(ctx, userID, map[string]any{
		"role":       role,
		"updated_at": s.clock.Now(),
	})
}

func (s *Service) UpdateStatus(ctx context.Context, userID snowflake.ID, isActive bool) error {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, userID, map[string]any{
		"is_active":  isActive,
		"updated_at": s.clock.Now(),
	})
}

func (s *Service) DeleteUser(ctx context.Context, actor *domain.User, userID snowflake.ID) error {
	if actor != nil && actor.ID == userID {
		return domain.ErrSelfDelete
	}
	return s.repo.Delete(ctx, userID)
}

func (s *Service) SetAccessOverride(ctx context.Context, userID snowflake.ID, allow bool) error {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, userID, map[string]any{
		"allow_access_without_subscription": allow,
		"updated_at":                        s.clock.Now(),
	})
}

func (s *Service) ListSalesmen(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListByRole(ctx, domain.RoleSalesman, true)
}

func (s *Service) FindUser(ctx context.Context, userID snowflake.ID) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *Service) CountUsers(ctx context.Context) (total, active int64, err error) {
	if total, err = s.repo.Count(ctx, false); err != nil {
		return 0, 0, err
	}
	if active, err = s.repo.Count(ctx, true); err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
