package portfolio

import (
	"context"
	"testing"
	"time"

	"carbonpay/internal/catalog"
	"carbonpay/internal/domain"
	"carbonpay/internal/events"
	catalogrepo "carbonpay/internal/repository/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStatus struct {
	records map[string]*domain.OnboardingRecord
	calls   int
}

func (s *stubStatus) Status(_ context.Context, owner string) (*domain.OnboardingRecord, error) {
	s.calls++
	return s.records[owner], nil
}

func TestAssets_JoinsProjectNames(t *testing.T) {
	ds := catalog.Default()
	ds.Credits = append(ds.Credits, domain.CarbonCredit{ID: "9", ProjectID: "404", TotalAmount: 1, AvailableAmount: 1})
	svc := New(catalogrepo.NewStatic(ds), &stubStatus{}, nil, nil)

	a, err := svc.Assets(context.Background())
	require.NoError(t, err)
	require.Len(t, a.Credits, 4)
	assert.Equal(t, "São Carlos Solar Energy Project", a.Credits[0].ProjectName)
	assert.Equal(t, unknownProject, a.Credits[3].ProjectName)
	assert.Equal(t, 3501, a.Summary.TotalCredits)
}

func TestEmissions(t *testing.T) {
	svc := New(catalogrepo.NewStatic(catalog.Default()), &stubStatus{}, nil, nil)

	e, err := svc.Emissions(context.Background())
	require.NoError(t, err)
	assert.Len(t, e.Rows, 3)
	assert.Equal(t, 767, e.Summary.TotalEmissions)
}

func TestDashboard_CachedUntilOnboardingEvent(t *testing.T) {
	status := &stubStatus{records: map[string]*domain.OnboardingRecord{}}
	svc := New(catalogrepo.NewStatic(catalog.Default()), status, NewCache(time.Minute), nil)
	ctx := context.Background()

	d, err := svc.Dashboard(ctx, "0xabc")
	require.NoError(t, err)
	assert.False(t, d.Onboarding.Completed)
	assert.Equal(t, "Please complete your onboarding to unlock all features of CarbonPay.", d.Onboarding.Message)
	assert.Equal(t, 500, d.Metrics.TotalOffset)
	assert.Equal(t, 2600, d.Metrics.CreditsAvailable)
	assert.Equal(t, 65, d.Metrics.OffsetPercentage)
	assert.Len(t, d.Projects, 3)
	assert.Len(t, d.RecentOffsets, 2)

	status.records["0xabc"] = &domain.OnboardingRecord{
		ID:             "onboarding-1",
		OnboardingForm: domain.OnboardingForm{Name: "A", CompanyName: "B"},
	}
	d, _ = svc.Dashboard(ctx, "0xabc")
	assert.False(t, d.Onboarding.Completed)
	assert.Equal(t, 1, status.calls)

	require.NoError(t, svc.Notify(ctx, events.Event{Type: events.TypeOnboardingCompleted, OwnerID: "0xabc"}))

	d, err = svc.Dashboard(ctx, "0xabc")
	require.NoError(t, err)
	assert.True(t, d.Onboarding.Completed)
	assert.Equal(t, "Welcome, A! Your company B is now set up.", d.Onboarding.Message)
	assert.Equal(t, 2, status.calls)
}

// completingStatus reports no record on its first read and completes the
// onboarding (publishing the event) while that read is in flight.
type completingStatus struct {
	svc       *Service
	allOwners bool
	done      bool
}

func (s *completingStatus) Status(ctx context.Context, owner string) (*domain.OnboardingRecord, error) {
	if s.done {
		return &domain.OnboardingRecord{ID: "onboarding-1", OnboardingForm: domain.OnboardingForm{Name: "A", CompanyName: "B"}}, nil
	}
	s.done = true
	ev := events.Event{Type: events.TypeOnboardingCompleted, OwnerID: owner}
	if s.allOwners {
		ev.OwnerID = ""
	}
	if err := s.svc.Notify(ctx, ev); err != nil {
		return nil, err
	}
	return nil, nil
}

func TestDashboard_InvalidationDuringBuildIsNotCached(t *testing.T) {
	for _, allOwners := range []bool{false, true} {
		status := &completingStatus{allOwners: allOwners}
		svc := New(catalogrepo.NewStatic(catalog.Default()), status, NewCache(time.Minute), nil)
		status.svc = svc
		ctx := context.Background()

		d, err := svc.Dashboard(ctx, "0xabc")
		require.NoError(t, err)
		assert.False(t, d.Onboarding.Completed)

		d, err = svc.Dashboard(ctx, "0xabc")
		require.NoError(t, err)
		assert.True(t, d.Onboarding.Completed, "all owners %v", allOwners)
	}
}

func TestCache_SetAtRejectsStaleGeneration(t *testing.T) {
	c := NewCache(time.Minute)

	gen := c.Generation("a")
	c.Delete("a")
	assert.False(t, c.SetAt("a", gen, 1))
	_, ok := c.Get("a")
	assert.False(t, ok)

	gen = c.Generation("a")
	c.DeleteByPrefix("b")
	assert.False(t, c.SetAt("a", gen, 1))

	gen = c.Generation("a")
	assert.True(t, c.SetAt("a", gen, 2))
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCache_Expiry(t *testing.T) {
	now := time.Now()
	c := NewCache(time.Second)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 0, c.Size())
}

func TestCache_DisabledWithZeroTTL(t *testing.T) {
	c := NewCache(0)
	c.Set("a", 1)
	_, ok := c.Get("a")
	assert.False(t, ok)
}
