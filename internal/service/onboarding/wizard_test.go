package onboarding

import (
	"context"
	"errors"
	"sync"
	"testing"

	"carbonpay/internal/domain"
	onboardingrepo "carbonpay/internal/repository/onboarding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edit(t *testing.T, w *Wizard, body string) Snapshot {
	t.Helper()
	snap, err := w.Edit(patchOf(t, body))
	require.NoError(t, err)
	return snap
}

func fillAndAdvance(t *testing.T, w *Wizard, upTo int) {
	t.Helper()
	bodies := []string{
		`{"name": "A"}`,
		`{"companyName": "B", "country": "C", "registrationNumber": "D"}`,
		`{"industry": "Energy", "companySize": "11-50 employees", "companyDescription": "solar"}`,
		`{"hasEmissionsHistory": false, "primaryEmissionSources": ["Supply chain"]}`,
		`{"sustainabilityPrograms": ["None currently"], "offsettingExperience": "none"}`,
	}
	for i := 0; i < upTo; i++ {
		edit(t, w, bodies[i])
		_, err := w.Continue(context.Background())
		require.NoError(t, err)
	}
}

func noSubmit(context.Context, domain.OnboardingForm) (Result, error) {
	return Result{}, errors.New("unexpected submit")
}

func TestWizard_ContinueRequiresValidStep(t *testing.T) {
	w := NewWizard(noSubmit)

	snap := w.Snapshot()
	assert.False(t, snap.CanGoBack)
	assert.False(t, snap.CanContinue)

	snap, err := w.Continue(context.Background())
	assert.ErrorIs(t, err, ErrStepInvalid)
	assert.Equal(t, 0, snap.CurrentStep)

	snap = edit(t, w, `{"name": "A"}`)
	assert.True(t, snap.CanContinue)
	assert.Equal(t, 0, snap.CurrentStep)

	snap, err = w.Continue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CurrentStep)
	assert.Equal(t, "company", snap.StepID)
	assert.True(t, snap.CanGoBack)
	assert.False(t, snap.CanContinue)
}

func TestWizard_Back(t *testing.T) {
	w := NewWizard(noSubmit)

	_, err := w.Back()
	assert.ErrorIs(t, err, ErrAtFirstStep)

	fillAndAdvance(t, w, 2)
	snap, err := w.Back()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CurrentStep)
	assert.Equal(t, "B", snap.Form.CompanyName)
}

func TestWizard_ProgressStatuses(t *testing.T) {
	w := NewWizard(noSubmit)
	fillAndAdvance(t, w, 2)

	snap := w.Snapshot()
	assert.Equal(t, 2, snap.CompletedSteps)
	statuses := make([]string, 0, len(snap.Steps))
	for _, s := range snap.Steps {
		statuses = append(statuses, s.Status)
	}
	assert.Equal(t, []string{StatusComplete, StatusComplete, StatusCurrent, StatusUpcoming, StatusUpcoming}, statuses)
}

func TestWizard_BackwardEditInvalidatesForwardProgress(t *testing.T) {
	w := NewWizard(noSubmit)
	fillAndAdvance(t, w, 3)

	edit(t, w, `{"name": ""}`)
	edit(t, w, `{"hasEmissionsHistory": true, "primaryEmissionSources": ["Business travel"]}`)

	snap, err := w.Continue(context.Background())
	assert.ErrorIs(t, err, ErrEarlierStepInvalid)
	assert.Equal(t, 0, snap.CurrentStep)
}

func TestWizard_SubmitsOnLastStep(t *testing.T) {
	svc := New(onboardingrepo.NewMemory(), nil, nil)
	w := NewWizard(func(ctx context.Context, form domain.OnboardingForm) (Result, error) {
		return svc.Submit(ctx, "0xabc", form)
	})
	fillAndAdvance(t, w, 4)
	edit(t, w, `{"sustainabilityPrograms": ["None currently"], "offsettingExperience": "none"}`)

	snap, err := w.Continue(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Submitted)
	require.NotNil(t, snap.LastResult)
	assert.True(t, snap.LastResult.Success)
	assert.Equal(t, 5, snap.CompletedSteps)

	_, err = w.Continue(context.Background())
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	_, err = w.Back()
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	_, err = w.Edit(Patch{})
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	rec, err := svc.Status(context.Background(), "0xabc")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "A", rec.Name)
}

func TestWizard_FailedSubmissionStaysOnLastStep(t *testing.T) {
	w := NewWizard(func(context.Context, domain.OnboardingForm) (Result, error) {
		return Result{Success: false, Message: MessageAlreadyDone}, nil
	})
	fillAndAdvance(t, w, 4)
	edit(t, w, `{"sustainabilityPrograms": ["None currently"], "offsettingExperience": "none"}`)

	snap, err := w.Continue(context.Background())
	require.NoError(t, err)
	assert.False(t, snap.Submitted)
	assert.Equal(t, 4, snap.CurrentStep)
	assert.Equal(t, MessageAlreadyDone, snap.LastResult.Message)
}

func TestWizard_ConcurrentCompleteSubmitsOnce(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	calls := 0
	w := NewWizard(func(context.Context, domain.OnboardingForm) (Result, error) {
		calls++
		close(entered)
		<-release
		return Result{Success: true, Message: MessageSaved}, nil
	})
	fillAndAdvance(t, w, 4)
	edit(t, w, `{"sustainabilityPrograms": ["None currently"], "offsettingExperience": "none"}`)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = w.Continue(context.Background())
	}()
	<-entered

	snap, err := w.Continue(context.Background())
	assert.ErrorIs(t, err, ErrTransitionInFlight)
	assert.True(t, snap.InFlight)
	assert.False(t, snap.CanContinue)
	_, err = w.Back()
	assert.ErrorIs(t, err, ErrTransitionInFlight)

	close(release)
	wg.Wait()

	assert.Equal(t, 1, calls)
	assert.True(t, w.Snapshot().Submitted)
}

func TestWizards_PerOwner(t *testing.T) {
	svc := New(onboardingrepo.NewMemory(), nil, nil)
	reg := NewWizards(svc, 0)

	a := reg.Get("a")
	_, err := a.Edit(patchOf(t, `{"name": "A"}`))
	require.NoError(t, err)

	assert.Same(t, a, reg.Get("a"))
	assert.Empty(t, reg.Get("b").Snapshot().Form.Name)
	assert.Empty(t, reg.Restart("a").Snapshot().Form.Name)
}
