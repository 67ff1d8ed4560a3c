package onboarding

import (
	"context"
	"errors"
	"time"

	"carbonpay/internal/domain"
	"carbonpay/internal/events"
	onboardingrepo "carbonpay/internal/repository/onboarding"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	MessageMissingFields = "Missing required fields"
	MessageSaved         = "Onboarding data saved successfully"
	MessageSaveFailed    = "Failed to save onboarding data"
	MessageAlreadyDone   = "Onboarding already completed"
)

var submissions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "carbonpay_onboarding_submissions_total",
		Help: "Onboarding submissions by outcome",
	},
	[]string{"outcome"},
)

// Result is the outcome of a submission. Validation failures are results,
// not errors.
type Result struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	RecordID string `json:"recordId,omitempty"`
}

type Service struct {
	repo     onboardingrepo.Repository
	notifier events.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func New(repo onboardingrepo.Repository, notifier events.Notifier, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = events.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger.Named("onboarding"),
		now:      time.Now,
	}
}

// Submit stores the completed form for owner. The returned error is non-nil
// only when the store itself failed.
func (s *Service) Submit(ctx context.Context, ownerID string, form domain.OnboardingForm) (Result, error) {
	if !filled(form.Name, form.CompanyName, form.Country, form.RegistrationNumber) {
		submissions.WithLabelValues("missing_fields").Inc()
		s.logger.Info("onboarding submission rejected", zap.String("owner", ownerID), zap.String("reason", MessageMissingFields))
		return Result{Success: false, Message: MessageMissingFields}, nil
	}

	now := s.now().UTC()
	rec := domain.OnboardingRecord{
		ID:             "onboarding-" + now.Format(time.RFC3339Nano),
		OwnerID:        ownerID,
		CreatedAt:      now,
		OnboardingForm: form.Clone(),
	}
	rec.PrimaryEmissionSources = dedupe(rec.PrimaryEmissionSources)
	rec.SustainabilityPrograms = dedupe(rec.SustainabilityPrograms)

	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			submissions.WithLabelValues("duplicate").Inc()
			s.logger.Info("onboarding already completed", zap.String("owner", ownerID))
			return Result{Success: false, Message: MessageAlreadyDone}, nil
		}
		submissions.WithLabelValues("error").Inc()
		s.logger.Error("save onboarding", zap.String("owner", ownerID), zap.Error(err))
		return Result{Success: false, Message: MessageSaveFailed}, err
	}

	ev := events.Event{
		Type:       events.TypeOnboardingCompleted,
		OwnerID:    ownerID,
		RecordID:   rec.ID,
		OccurredAt: now,
	}
	if err := s.notifier.Notify(ctx, ev); err != nil {
		s.logger.Warn("notify onboarding completed", zap.String("record", rec.ID), zap.Error(err))
	}

	submissions.WithLabelValues("saved").Inc()
	s.logger.Info("onboarding saved", zap.String("owner", ownerID), zap.String("record", rec.ID))
	return Result{Success: true, Message: MessageSaved, RecordID: rec.ID}, nil
}

// Status returns the owner's record, or nil when onboarding is pending.
func (s *Service) Status(ctx context.Context, ownerID string) (*domain.OnboardingRecord, error) {
	rec, err := s.repo.GetByOwner(ctx, ownerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

// List returns every stored record, oldest first.
func (s *Service) List(ctx context.Context) ([]domain.OnboardingRecord, error) {
	return s.repo.List(ctx)
}

// First returns the oldest record or nil.
func (s *Service) First(ctx context.Context) (*domain.OnboardingRecord, error) {
	rec, err := s.repo.First(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

// StatusMessage is the dashboard banner for a status read.
func StatusMessage(rec *domain.OnboardingRecord) string {
	if rec == nil {
		return "Please complete your onboarding to unlock all features of CarbonPay."
	}
	return "Welcome, " + rec.Name + "! Your company " + rec.CompanyName + " is now set up."
}
