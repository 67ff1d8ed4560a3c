package onboarding

import (
	"context"
	"time"

	"carbonpay/internal/domain"
	"carbonpay/internal/statecache"
)

// Wizards holds one wizard per owner. Idle wizards are dropped by Sweep.
type Wizards struct {
	cache *statecache.Cache[*Wizard]
}

func NewWizards(svc *Service, idleTTL time.Duration) *Wizards {
	return &Wizards{
		cache: statecache.New(idleTTL, func(owner string) *Wizard {
			return NewWizard(func(ctx context.Context, form domain.OnboardingForm) (Result, error) {
				return svc.Submit(ctx, owner, form)
			})
		}),
	}
}

// Get returns the owner's wizard, starting one if needed.
func (w *Wizards) Get(owner string) *Wizard { return w.cache.Get(owner) }

// Restart discards any progress and starts over.
func (w *Wizards) Restart(owner string) *Wizard { return w.cache.Reset(owner) }

func (w *Wizards) Drop(owner string) { w.cache.Drop(owner) }

func (w *Wizards) Sweep() int { return w.cache.Sweep() }
