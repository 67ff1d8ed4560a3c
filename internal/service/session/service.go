package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carbonpay/internal/domain"
	sessionrepo "carbonpay/internal/repository/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidWallet = errors.New("wallet address required")
)

// Service issues and validates wallet sessions.
type Service struct {
	repo   sessionrepo.Repository
	tokens *tokenManager
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func New(repo sessionrepo.Repository, secret string, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		tokens: newTokenManager(secret),
		ttl:    ttl,
		logger: logger.Named("session"),
		now:    time.Now,
	}
}

// Issued is a freshly connected session and its bearer token.
type Issued struct {
	Token   string         `json:"token"`
	Session domain.Session `json:"session"`
}

// NormalizeWallet trims and lower-cases an address so the same wallet always
// maps to the same owner.
func NormalizeWallet(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func (s *Service) Connect(ctx context.Context, walletAddress string) (Issued, error) {
	owner := NormalizeWallet(walletAddress)
	if owner == "" {
		return Issued{}, ErrInvalidWallet
	}
	now := s.now().UTC().Truncate(time.Second)
	sess := domain.Session{
		ID:        uuid.NewString(),
		OwnerID:   owner,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	token, err := s.tokens.Issue(sess.ID, sess.OwnerID, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return Issued{}, fmt.Errorf("sign token: %w", err)
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return Issued{}, fmt.Errorf("store session: %w", err)
	}
	s.logger.Info("wallet connected", zap.String("owner", owner), zap.String("session", sess.ID))
	return Issued{Token: token, Session: sess}, nil
}

// Validate checks the token and that its session has not been revoked.
func (s *Service) Validate(ctx context.Context, token string) (*domain.Session, error) {
	now := s.now()
	claims, err := s.tokens.Parse(token, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sess, err := s.repo.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: session revoked", ErrInvalidToken)
		}
		return nil, err
	}
	if sess.OwnerID != claims.Subject || sess.Expired(now) {
		return nil, fmt.Errorf("%w: session expired", ErrInvalidToken)
	}
	return sess, nil
}

// Disconnect revokes the session behind token.
func (s *Service) Disconnect(ctx context.Context, token string) error {
	sess, err := s.Validate(ctx, token)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, sess.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	s.logger.Info("wallet disconnected", zap.String("owner", sess.OwnerID), zap.String("session", sess.ID))
	return nil
}

// Sweep deletes expired sessions.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
