// Package viewstate implements the Loading/Loaded/Error display controller.
package viewstate

import (
	"context"

	"github.com/five82/lunchbox/internal/mealdb"
)

// State is the active display mode. Exactly one is active at a time.
type State int

const (
	Loading State = iota
	Loaded
	Error
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Panels is the visibility of the three mutually exclusive panels.
type Panels struct {
	Loading bool
	Meal    bool
	Error   bool
}

// Panels returns the panel visibility for s. Entering a state always hides
// the other two panels.
func (s State) Panels() Panels {
	return Panels{Loading: s == Loading, Meal: s == Loaded, Error: s == Error}
}

// Policy decides whether a result from an older request may replace the
// display.
type Policy int

const (
	// LatestIssued applies only the result of the most recently issued request.
	LatestIssued Policy = iota
	// LastResolved applies every result; whichever resolves last wins.
	LastResolved
)

// Ticket identifies one issued request.
type Ticket uint64

// FetchOp is a meal fetch, such as Client.FetchRandom or a bound FetchByID.
type FetchOp func(ctx context.Context) (mealdb.Meal, error)

// Controller tracks the view state and the current meal. It is not safe for
// concurrent use; callers drive it from a single event loop.
type Controller struct {
	policy  Policy
	state   State
	issued  Ticket
	meal    mealdb.Meal
	hasMeal bool
	err     error
}

// New returns a controller in the Loading state.
func New(policy Policy) *Controller {
	return &Controller{policy: policy, state: Loading}
}

// State returns the active state.
func (c *Controller) State() State { return c.state }

// Policy returns the stale-result policy.
func (c *Controller) Policy() Policy { return c.policy }

// Meal returns the most recently applied meal. It stays available in the
// Error state so a later toggle still refers to the last shown meal.
func (c *Controller) Meal() (mealdb.Meal, bool) { return c.meal, c.hasMeal }

// Err returns the failure that caused the Error state, if any.
func (c *Controller) Err() error {
	if c.state != Error {
		return nil
	}
	return c.err
}

// Pending reports whether t is the most recently issued request.
func (c *Controller) Pending(t Ticket) bool { return t == c.issued }

// Begin transitions to Loading and issues a ticket for the new request.
func (c *Controller) Begin() Ticket {
	c.issued++
	c.state = Loading
	c.err = nil
	return c.issued
}

// Resolve applies the outcome of request t. It returns false when the policy
// discards the result as stale.
func (c *Controller) Resolve(t Ticket, meal mealdb.Meal, err error) bool {
	if c.policy == LatestIssued && t != c.issued {
		return false
	}
	if err != nil {
		c.state = Error
		c.err = err
		return true
	}
	c.meal = meal
	c.hasMeal = true
	c.state = Loaded
	c.err = nil
	return true
}

// RequestMeal runs op synchronously between Begin and Resolve.
func (c *Controller) RequestMeal(ctx context.Context, op FetchOp) State {
	t := c.Begin()
	meal, err := op(ctx)
	c.Resolve(t, meal, err)
	return c.state
}
