// Package checkout drives a client from a filled cart to a created order.
//
// Each client has at most one flow:
//
//	Idle -> AwaitingAuth -> FormEntry -> Submitting -> Success
//	                            ^            |
//	                            +-- Failed <-+
//
// A flow in Submitting rejects further submissions until the order request
// resolves.
package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/apperr"
	"storefront/internal/cart"
	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/metrics"
	"storefront/internal/validate"
)

type State string

const (
	Idle         State = "idle"
	AwaitingAuth State = "awaiting_auth"
	FormEntry    State = "form_entry"
	Submitting   State = "submitting"
	Success      State = "success"
	Failed       State = "failed"
)

const (
	MsgRequestFailed   = "order could not be created"
	MsgTransportFailed = "connection error"
)

// DefaultPaymentDelay stands in for the bank round-trip.
const DefaultPaymentDelay = 1500 * time.Millisecond

const clearAttempts = 3

var ErrSubmissionInFlight = apperr.New(apperr.CodeConflict, "a checkout is already being submitted")

type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, in domain.NewOrder) (domain.Order, error)
}

// Form is the delivery form. Every field is required.
type Form struct {
	Character string `json:"senderCharacter" validate:"required"`
	FullName  string `json:"fullName" validate:"required"`
	Address   string `json:"address" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
}

// View is what a client sees of its flow.
type View struct {
	State      State    `json:"state"`
	Characters []string `json:"characters,omitempty"`
	Character  string   `json:"senderCharacter,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Receipt describes a created order. CartCleared is false only when the
// ledger could not be emptied afterwards; the client must not resubmit.
type Receipt struct {
	Order       domain.Order    `json:"order"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	CartCleared bool            `json:"cartCleared"`
}

type flow struct {
	state   State
	failure string
}

type Process struct {
	catalog Catalog
	orders  OrderCreator
	delay   time.Duration
	sleep   func(context.Context, time.Duration) error
	metrics *metrics.Store
	now     func() time.Time

	mu    sync.Mutex
	flows map[string]*flow
}

type Option func(*Process)

func WithDelay(d time.Duration) Option { return func(p *Process) { p.delay = d } }

// WithSleep replaces the payment delay wait. Tests use it to skip or block.
func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(p *Process) { p.sleep = fn }
}

func WithMetrics(m *metrics.Store) Option { return func(p *Process) { p.metrics = m } }

func New(catalog Catalog, orders OrderCreator, opts ...Option) *Process {
	p := &Process{
		catalog: catalog,
		orders:  orders,
		delay:   DefaultPaymentDelay,
		sleep:   sleepCtx,
		now:     time.Now,
		flows:   make(map[string]*flow),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Begin opens checkout for the client. Without an identity the flow waits
// for login; calling Begin again after login resumes at the form.
func (p *Process) Begin(clientID string, id *domain.Identity) View {
	p.mu.Lock()
	defer p.mu.Unlock()

	f := p.flowLocked(clientID)
	if f.state == Submitting {
		return viewOf(f, id)
	}
	f.failure = ""
	if id == nil || !id.Valid() {
		f.state = AwaitingAuth
	} else {
		f.state = FormEntry
	}
	return viewOf(f, id)
}

// Current reports the client's flow without changing it.
func (p *Process) Current(clientID string, id *domain.Identity) View {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, ok := p.flows[clientID]
	if !ok {
		return View{State: Idle}
	}
	return viewOf(f, id)
}

// Reset drops the client's flow, e.g. on logout. An in-flight submission
// keeps its flow.
func (p *Process) Reset(clientID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := p.flows[clientID]; ok && f.state != Submitting {
		delete(p.flows, clientID)
	}
}

func viewOf(f *flow, id *domain.Identity) View {
	v := View{State: f.state, Error: f.failure}
	if id != nil && v.State != AwaitingAuth {
		v.Characters = append([]string{}, id.Characters...)
		v.Character = id.DefaultCharacter()
	}
	return v
}

func (p *Process) flowLocked(clientID string) *flow {
	f, ok := p.flows[clientID]
	if !ok {
		f = &flow{state: Idle}
		p.flows[clientID] = f
	}
	return f
}

func (p *Process) set(clientID string, state State, failure string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := p.flowLocked(clientID)
	f.state = state
	f.failure = failure
}

// settle records an early exit. A running submission owns the flow, so the
// caller gets ErrSubmissionInFlight instead and the state is left alone.
func (p *Process) settle(clientID string, state State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := p.flowLocked(clientID)
	if f.state == Submitting {
		return ErrSubmissionInFlight
	}
	f.state = state
	f.failure = ""
	return nil
}

// enter moves the flow to Submitting unless a submission is already running.
func (p *Process) enter(clientID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := p.flowLocked(clientID)
	if f.state == Submitting {
		return ErrSubmissionInFlight
	}
	f.state = Submitting
	f.failure = ""
	return nil
}

// Submit validates the form, snapshots the ledger against the catalog, waits
// out the payment delay and asks for exactly one order. The ledger is cleared
// only after the order exists; any failure leaves it untouched.
func (p *Process) Submit(ctx context.Context, clientID string, id *domain.Identity, ledger *cart.Ledger, form Form) (Receipt, error) {
	if id == nil || !id.Valid() {
		if err := p.settle(clientID, AwaitingAuth); err != nil {
			return Receipt{}, err
		}
		return Receipt{}, apperr.New(apperr.CodeUnauthorized, "login required to check out")
	}

	form = form.normalize(*id)
	if err := form.check(*id); err != nil {
		if busy := p.settle(clientID, FormEntry); busy != nil {
			return Receipt{}, busy
		}
		return Receipt{}, err
	}

	if err := p.enter(clientID); err != nil {
		return Receipt{}, err
	}
	start := p.now()

	products, err := p.catalog.ListProducts(ctx)
	if err != nil {
		return Receipt{}, p.fail(clientID, start, err)
	}
	res := ledger.Resolve(products)
	if len(res.Missing) > 0 {
		applog.Warn("checkout.cart.missing", nil, map[string]any{"client_id": clientID, "missing": res.Missing})
	}
	if res.Count == 0 {
		p.set(clientID, FormEntry, "")
		return Receipt{}, apperr.New(apperr.CodeValidation, "cart is empty")
	}

	payload := domain.NewOrder{
		Username:        id.Username,
		DisplayName:     id.DisplayName,
		SenderCharacter: form.Character,
		FullName:        form.FullName,
		Address:         form.Address,
		Phone:           form.Phone,
		Items:           res.Snapshot(),
		Total:           res.Total,
		PaymentMethod:   domain.PaymentBankTransfer,
	}

	if err := p.sleep(ctx, p.delay); err != nil {
		return Receipt{}, p.fail(clientID, start, err)
	}
	order, err := p.orders.CreateOrder(ctx, payload)
	if err != nil {
		return Receipt{}, p.fail(clientID, start, err)
	}

	cleared := clearLedger(ctx, ledger, clientID, order.ID)
	p.set(clientID, Success, "")
	p.metrics.Checkout("success", p.now().Sub(start))
	return Receipt{Order: order, Total: payload.Total, Currency: domain.Currency, CartCleared: cleared}, nil
}

// clearLedger empties the ledger once the order exists. The order is already
// placed, so a cancelled request context must not stop the clear.
func clearLedger(ctx context.Context, ledger *cart.Ledger, clientID, orderID string) bool {
	ctx = context.WithoutCancel(ctx)
	var err error
	for attempt := 1; attempt <= clearAttempts; attempt++ {
		if err = ledger.Clear(ctx); err == nil {
			return true
		}
		applog.Warn("checkout.cart.clear.retry", err, map[string]any{
			"client_id": clientID, "order_id": orderID, "attempt": attempt,
		})
	}
	applog.Error(nil, "checkout.cart.clear.fail", err, map[string]any{"client_id": clientID, "order_id": orderID})
	return false
}

func (p *Process) fail(clientID string, start time.Time, cause error) error {
	err := classify(cause)
	p.set(clientID, Failed, err.Message())
	outcome := "request_failed"
	if err.Code() == apperr.CodeDependency {
		outcome = "transport_failed"
	}
	p.metrics.Checkout(outcome, p.now().Sub(start))
	return err
}

// classify separates "the order service said no" from "we never reached it".
func classify(err error) *apperr.Error {
	if apperr.IsCode(err, apperr.CodeDependency) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return apperr.Wrap(apperr.CodeDependency, err, MsgTransportFailed).Expose()
	}
	code := apperr.CodeInternal
	if apperr.IsCode(err, apperr.CodeValidation) {
		code = apperr.CodeValidation
	}
	return apperr.Wrap(code, err, MsgRequestFailed).Expose()
}

func (f Form) normalize(id domain.Identity) Form {
	f.Character = strings.TrimSpace(f.Character)
	f.FullName = strings.TrimSpace(f.FullName)
	f.Address = strings.TrimSpace(f.Address)
	f.Phone = strings.TrimSpace(f.Phone)
	if f.Character == "" {
		f.Character = id.DefaultCharacter()
	}
	return f
}

// check reports every problem at once; a single failing field rejects the form.
func (f Form) check(id domain.Identity) error {
	details := map[string]string{}
	if err := validate.Struct(f); err != nil {
		d, ok := apperr.As(err).Details().(map[string]string)
		if !ok {
			return err
		}
		for k, v := range d {
			details[k] = v
		}
	}
	if f.Character != "" && !id.HasCharacter(f.Character) {
		details["senderCharacter"] = "must be one of your characters"
	}
	if len(details) > 0 {
		return apperr.New(apperr.CodeValidation, "please fill in all delivery fields").WithDetails(details)
	}
	return nil
}
