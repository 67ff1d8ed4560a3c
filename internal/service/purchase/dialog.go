package purchase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"carbonpay/internal/domain"
	"carbonpay/internal/money"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNoSelection     = errors.New("select a project and quantity first")
	ErrWrongState      = errors.New("action not allowed in current dialog state")
)

type State string

const (
	StateSelecting  State = "selecting_project"
	StateConfirming State = "confirming"
)

// Catalog is what the dialog needs from the project catalog.
type Catalog interface {
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	Wallet(ctx context.Context) (domain.Wallet, error)
}

// Dialog is the two-step buy-credits flow for one owner.
type Dialog struct {
	mu       sync.Mutex
	catalog  Catalog
	currency string
	logger   *zap.Logger
	now      func() time.Time

	state    State
	project  *domain.Project
	quantity int
}

func NewDialog(catalog Catalog, currency string, logger *zap.Logger) *Dialog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dialog{
		catalog:  catalog,
		currency: currency,
		logger:   logger,
		now:      time.Now,
		state:    StateSelecting,
		quantity: 1,
	}
}

// View is what the dialog renders.
type View struct {
	State            State           `json:"state"`
	Project          *domain.Project `json:"project,omitempty"`
	Quantity         int             `json:"quantity"`
	MaxQuantity      int             `json:"maxQuantity,omitempty"`
	TotalCost        float64         `json:"totalCost"`
	TotalCostDisplay string          `json:"totalCostDisplay"`
	CanContinue      bool            `json:"canContinue"`
	Wallet           *domain.Wallet  `json:"wallet,omitempty"`
}

// Receipt describes a confirmed purchase. No balance or ledger is touched.
type Receipt struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"projectId"`
	ProjectName      string    `json:"projectName"`
	Quantity         int       `json:"quantity"`
	PricePerTon      float64   `json:"pricePerTon"`
	TotalCost        float64   `json:"totalCost"`
	TotalCostDisplay string    `json:"totalCostDisplay"`
	WalletAddress    string    `json:"walletAddress,omitempty"`
	ConfirmedAt      time.Time `json:"confirmedAt"`
}

func (d *Dialog) View(ctx context.Context) View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewLocked(ctx)
}

// SelectProject picks a project and re-clamps the quantity to its capacity.
// An unknown id leaves the dialog unchanged.
func (d *Dialog) SelectProject(ctx context.Context, id string) (View, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateSelecting {
		return d.viewLocked(ctx), ErrWrongState
	}
	p, err := d.catalog.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			d.logger.Warn("purchase: unknown project", zap.String("project", id))
			return d.viewLocked(ctx), fmt.Errorf("%w: %s", ErrProjectNotFound, id)
		}
		return d.viewLocked(ctx), err
	}
	d.project = p
	d.quantity = d.clamp(d.quantity)
	return d.viewLocked(ctx), nil
}

// SetQuantity clamps n into [1, availableCapacity].
func (d *Dialog) SetQuantity(ctx context.Context, n int) (View, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateSelecting {
		return d.viewLocked(ctx), ErrWrongState
	}
	d.quantity = d.clamp(n)
	return d.viewLocked(ctx), nil
}

// SetQuantityInput parses raw user input. Text that is not a whole number
// is ignored and the quantity stays as it was.
func (d *Dialog) SetQuantityInput(ctx context.Context, raw string) (View, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) {
		// Atoi saturates out-of-range input at the int bounds.
		return d.SetQuantity(ctx, n)
	}
	if err != nil {
		d.logger.Debug("purchase: ignoring malformed quantity", zap.String("input", raw))
		return d.View(ctx), nil
	}
	return d.SetQuantity(ctx, n)
}

// SetQuantityNumber sets the quantity from a decoded JSON number. Values
// beyond the int32 range saturate before clamping; fractions are ignored.
func (d *Dialog) SetQuantityNumber(ctx context.Context, f float64) (View, error) {
	if math.IsNaN(f) || f != math.Trunc(f) {
		d.logger.Debug("purchase: ignoring fractional quantity", zap.Float64("quantity", f))
		return d.View(ctx), nil
	}
	switch {
	case f > math.MaxInt32:
		f = math.MaxInt32
	case f < math.MinInt32:
		f = math.MinInt32
	}
	return d.SetQuantity(ctx, int(f))
}

// Continue moves to the confirmation step.
func (d *Dialog) Continue(ctx context.Context) (View, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateSelecting {
		return d.viewLocked(ctx), ErrWrongState
	}
	if !d.canContinueLocked() {
		return d.viewLocked(ctx), ErrNoSelection
	}
	d.state = StateConfirming
	return d.viewLocked(ctx), nil
}

// Confirm completes the purchase and resets the dialog.
func (d *Dialog) Confirm(ctx context.Context) (Receipt, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateConfirming || d.project == nil {
		return Receipt{}, ErrWrongState
	}
	total := d.project.PricePerTon * float64(d.quantity)
	r := Receipt{
		ID:               uuid.NewString(),
		ProjectID:        d.project.ID,
		ProjectName:      d.project.Name,
		Quantity:         d.quantity,
		PricePerTon:      d.project.PricePerTon,
		TotalCost:        total,
		TotalCostDisplay: money.Format(total, d.currency),
		ConfirmedAt:      d.now().UTC(),
	}
	if w, err := d.catalog.Wallet(ctx); err == nil {
		r.WalletAddress = w.Address
	}
	d.logger.Info("purchase confirmed",
		zap.String("receipt", r.ID),
		zap.String("project", r.ProjectID),
		zap.Int("quantity", r.Quantity),
		zap.Float64("total", r.TotalCost),
	)
	d.resetLocked()
	return r, nil
}

// Close abandons the dialog from any state.
func (d *Dialog) Close(ctx context.Context) View {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
	return d.viewLocked(ctx)
}

func (d *Dialog) resetLocked() {
	d.state = StateSelecting
	d.project = nil
	d.quantity = 1
}

func (d *Dialog) clamp(n int) int {
	if n < 1 {
		n = 1
	}
	if d.project != nil && n > d.project.AvailableCapacity {
		n = d.project.AvailableCapacity
	}
	return n
}

func (d *Dialog) canContinueLocked() bool {
	return d.project != nil && d.quantity > 0
}

func (d *Dialog) viewLocked(ctx context.Context) View {
	v := View{
		State:       d.state,
		Quantity:    d.quantity,
		CanContinue: d.state == StateSelecting && d.canContinueLocked(),
	}
	if d.project != nil {
		p := *d.project
		v.Project = &p
		v.MaxQuantity = p.AvailableCapacity
		v.TotalCost = p.PricePerTon * float64(d.quantity)
	}
	v.TotalCostDisplay = money.Format(v.TotalCost, d.currency)
	if d.state == StateConfirming {
		w, err := d.catalog.Wallet(ctx)
		if err != nil {
			d.logger.Warn("purchase: wallet unavailable", zap.Error(err))
		} else {
			v.Wallet = &w
		}
	}
	return v
}
