package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"carbonpay/internal/domain"
)

var (
	ErrStepInvalid        = errors.New("current step is incomplete")
	ErrEarlierStepInvalid = errors.New("an earlier step is no longer complete")
	ErrAtFirstStep        = errors.New("already at the first step")
	ErrTransitionInFlight = errors.New("another transition is in progress")
	ErrAlreadySubmitted   = errors.New("onboarding already submitted")
)

const (
	StatusComplete = "complete"
	StatusCurrent  = "current"
	StatusUpcoming = "upcoming"
)

// SubmitFunc hands the finished form to the submission handler.
type SubmitFunc func(ctx context.Context, form domain.OnboardingForm) (Result, error)

// Wizard walks one owner through the onboarding steps. It is safe for
// concurrent use; transitions are serialised and a transition that is still
// running rejects any other.
type Wizard struct {
	mu        sync.Mutex
	steps     []Step
	current   int
	form      domain.OnboardingForm
	inFlight  bool
	submitted bool
	last      *Result
	submit    SubmitFunc
}

func NewWizard(submit SubmitFunc) *Wizard {
	return &Wizard{steps: Steps(), submit: submit}
}

// StepStatus is a progress indicator entry.
type StepStatus struct {
	Step
	Status string `json:"status"`
	Valid  bool   `json:"valid"`
}

// Snapshot is a consistent view of the wizard.
type Snapshot struct {
	CurrentStep    int                   `json:"currentStep"`
	StepID         string                `json:"stepId"`
	Steps          []StepStatus          `json:"steps"`
	CompletedSteps int                   `json:"completedSteps"`
	Form           domain.OnboardingForm `json:"form"`
	CanGoBack      bool                  `json:"canGoBack"`
	CanContinue    bool                  `json:"canContinue"`
	IsLastStep     bool                  `json:"isLastStep"`
	InFlight       bool                  `json:"inFlight"`
	Submitted      bool                  `json:"submitted"`
	LastResult     *Result               `json:"lastResult,omitempty"`
}

func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Edit merges field edits into the form without moving between steps.
func (w *Wizard) Edit(patch Patch) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardLocked(); err != nil {
		return w.snapshotLocked(), err
	}
	form, err := ApplyPatch(w.form, patch)
	if err != nil {
		return w.snapshotLocked(), err
	}
	w.form = form
	return w.snapshotLocked(), nil
}

// Back moves to the previous step without validation.
func (w *Wizard) Back() (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardLocked(); err != nil {
		return w.snapshotLocked(), err
	}
	if w.current == 0 {
		return w.snapshotLocked(), ErrAtFirstStep
	}
	w.current--
	return w.snapshotLocked(), nil
}

// Continue advances past the current step when every step up to it is
// complete. On the last step it submits the form; the wizard becomes
// terminal only when the submission succeeds.
func (w *Wizard) Continue(ctx context.Context) (Snapshot, error) {
	w.mu.Lock()
	if err := w.guardLocked(); err != nil {
		defer w.mu.Unlock()
		return w.snapshotLocked(), err
	}
	for i := 0; i < w.current; i++ {
		if !w.steps[i].IsValid(w.form) {
			w.current = i
			defer w.mu.Unlock()
			return w.snapshotLocked(), fmt.Errorf("%w: %s", ErrEarlierStepInvalid, w.steps[i].ID)
		}
	}
	if !w.steps[w.current].IsValid(w.form) {
		defer w.mu.Unlock()
		return w.snapshotLocked(), fmt.Errorf("%w: %s", ErrStepInvalid, w.steps[w.current].ID)
	}
	if w.current < len(w.steps)-1 {
		w.current++
		defer w.mu.Unlock()
		return w.snapshotLocked(), nil
	}

	w.inFlight = true
	form := w.form.Clone()
	w.mu.Unlock()

	res, err := w.submit(ctx, form)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
	w.last = &res
	if err == nil && res.Success {
		w.submitted = true
	}
	return w.snapshotLocked(), err
}

func (w *Wizard) guardLocked() error {
	if w.submitted {
		return ErrAlreadySubmitted
	}
	if w.inFlight {
		return ErrTransitionInFlight
	}
	return nil
}

func (w *Wizard) snapshotLocked() Snapshot {
	statuses := make([]StepStatus, len(w.steps))
	completed := 0
	for i, s := range w.steps {
		st := StepStatus{Step: s, Valid: s.IsValid(w.form)}
		switch {
		case w.submitted || i < w.current:
			st.Status = StatusComplete
			completed++
		case i == w.current:
			st.Status = StatusCurrent
		default:
			st.Status = StatusUpcoming
		}
		statuses[i] = st
	}
	var last *Result
	if w.last != nil {
		r := *w.last
		last = &r
	}
	return Snapshot{
		CurrentStep:    w.current,
		StepID:         w.steps[w.current].ID,
		Steps:          statuses,
		CompletedSteps: completed,
		Form:           w.form.Clone(),
		CanGoBack:      !w.submitted && w.current > 0,
		CanContinue:    !w.submitted && !w.inFlight && w.steps[w.current].IsValid(w.form),
		IsLastStep:     w.current == len(w.steps)-1,
		InFlight:       w.inFlight,
		Submitted:      w.submitted,
		LastResult:     last,
	}
}
