package portfolio

import (
	"context"
	"fmt"

	"carbonpay/internal/domain"
	"carbonpay/internal/events"
	catalogrepo "carbonpay/internal/repository/catalog"
	"carbonpay/internal/service/onboarding"
	"go.uber.org/zap"
)

const (
	unknownProject     = "Unknown project"
	dashboardKeyPrefix = "dashboard:"
)

type statusReader interface {
	Status(ctx context.Context, ownerID string) (*domain.OnboardingRecord, error)
}

// Service computes the dashboard, assets and emissions views.
type Service struct {
	catalog catalogrepo.Repository
	status  statusReader
	cache   *Cache
	logger  *zap.Logger
}

func New(catalog catalogrepo.Repository, status statusReader, cache *Cache, logger *zap.Logger) *Service {
	if cache == nil {
		cache = NewCache(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: catalog, status: status, cache: cache, logger: logger.Named("portfolio")}
}

type CreditRow struct {
	domain.CarbonCredit
	ProjectName string `json:"projectName"`
}

type Assets struct {
	Summary CreditSummary `json:"summary"`
	Credits []CreditRow   `json:"credits"`
}

type EmissionsOverview struct {
	Summary EmissionSummary `json:"summary"`
	Rows    []EmissionRow   `json:"rows"`
}

type Metrics struct {
	TotalOffset      int `json:"totalOffset"`
	CreditsAvailable int `json:"creditsAvailable"`
	OffsetPercentage int `json:"offsetPercentage"`
	TotalEmissions   int `json:"totalEmissions"`
}

type OnboardingStatus struct {
	Completed bool                     `json:"completed"`
	Message   string                   `json:"message"`
	Record    *domain.OnboardingRecord `json:"record,omitempty"`
}

type Dashboard struct {
	Onboarding    OnboardingStatus      `json:"onboarding"`
	Metrics       Metrics               `json:"metrics"`
	Projects      []domain.Project      `json:"projects"`
	RecentOffsets []domain.RecentOffset `json:"recentOffsets"`
}

func (s *Service) Assets(ctx context.Context) (Assets, error) {
	credits, err := s.catalog.ListCredits(ctx)
	if err != nil {
		return Assets{}, fmt.Errorf("list credits: %w", err)
	}
	projects, err := s.catalog.ListProjects(ctx)
	if err != nil {
		return Assets{}, fmt.Errorf("list projects: %w", err)
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	rows := make([]CreditRow, 0, len(credits))
	for _, c := range credits {
		name, ok := names[c.ProjectID]
		if !ok {
			s.logger.Warn("credit references unknown project", zap.String("credit", c.ID), zap.String("project", c.ProjectID))
			name = unknownProject
		}
		rows = append(rows, CreditRow{CarbonCredit: c, ProjectName: name})
	}
	return Assets{Summary: SummarizeCredits(credits), Credits: rows}, nil
}

func (s *Service) Emissions(ctx context.Context) (EmissionsOverview, error) {
	emissions, err := s.catalog.ListEmissions(ctx)
	if err != nil {
		return EmissionsOverview{}, fmt.Errorf("list emissions: %w", err)
	}
	return EmissionsOverview{Summary: SummarizeEmissions(emissions), Rows: EmissionRows(emissions)}, nil
}

// Dashboard returns the owner's dashboard, served from cache when fresh.
func (s *Service) Dashboard(ctx context.Context, ownerID string) (Dashboard, error) {
	key := dashboardKeyPrefix + ownerID
	if v, ok := s.cache.Get(key); ok {
		return v.(Dashboard), nil
	}
	gen := s.cache.Generation(key)

	rec, err := s.status.Status(ctx, ownerID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("onboarding status: %w", err)
	}
	credits, err := s.catalog.ListCredits(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list credits: %w", err)
	}
	emissions, err := s.catalog.ListEmissions(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list emissions: %w", err)
	}
	projects, err := s.catalog.ListProjects(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list projects: %w", err)
	}
	offsets, err := s.catalog.ListRecentOffsets(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list recent offsets: %w", err)
	}

	cs := SummarizeCredits(credits)
	es := SummarizeEmissions(emissions)
	d := Dashboard{
		Onboarding: OnboardingStatus{
			Completed: rec != nil,
			Message:   onboarding.StatusMessage(rec),
			Record:    rec,
		},
		Metrics: Metrics{
			TotalOffset:      es.TotalOffset,
			CreditsAvailable: cs.AvailableCredits,
			OffsetPercentage: es.OffsetPercentage,
			TotalEmissions:   es.TotalEmissions,
		},
		Projects:      projects,
		RecentOffsets: offsets,
	}
	if !s.cache.SetAt(key, gen, d) {
		s.logger.Debug("dashboard invalidated while building, not cached", zap.String("owner", ownerID))
	}
	return d, nil
}

// Notify drops cached dashboards affected by ev.
func (s *Service) Notify(_ context.Context, ev events.Event) error {
	if ev.Type != events.TypeOnboardingCompleted {
		return nil
	}
	if ev.OwnerID == "" {
		s.cache.DeleteByPrefix(dashboardKeyPrefix)
	} else {
		s.cache.Delete(dashboardKeyPrefix + ev.OwnerID)
	}
	s.logger.Debug("dashboard cache invalidated", zap.String("owner", ev.OwnerID))
	return nil
}

// SweepCache drops expired cache entries.
func (s *Service) SweepCache() int { return s.cache.Sweep() }
