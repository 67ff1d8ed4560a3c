package purchase

import (
	"time"

	"carbonpay/internal/statecache"
	"go.uber.org/zap"
)

// Dialogs holds one purchase dialog per owner.
type Dialogs struct {
	cache *statecache.Cache[*Dialog]
}

func NewDialogs(catalog Catalog, currency string, idleTTL time.Duration, logger *zap.Logger) *Dialogs {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("purchase")
	return &Dialogs{
		cache: statecache.New(idleTTL, func(owner string) *Dialog {
			return NewDialog(catalog, currency, logger.With(zap.String("owner", owner)))
		}),
	}
}

func (d *Dialogs) Get(owner string) *Dialog { return d.cache.Get(owner) }

func (d *Dialogs) Drop(owner string) { d.cache.Drop(owner) }

func (d *Dialogs) Sweep() int { return d.cache.Sweep() }
