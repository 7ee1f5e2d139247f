// Package actions defines the conversational operations the agent can
// perform and routes free-form text to them.
package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/extract"
	"github.com/injhive/injhive/internal/gateway"
	"github.com/injhive/injhive/internal/model"
)

// Deps bundles everything a handler may need.
type Deps struct {
	Prices     *gateway.Prices
	TVL        *gateway.TVL
	Bank       *gateway.Bank
	Explorer   *gateway.Explorer
	Transfers  *gateway.Transfers
	Swaps      *gateway.Swaps
	WalletAddr string
	LLM        *extract.LLM
	Log        zerolog.Logger
}

// Result pairs the machine-readable envelope with the reply shown to
// the user.
type Result struct {
	Reply    string
	Response *model.Response
}

// Action is one operation the agent can run against a user message.
type Action struct {
	Name        string
	Description string
	Similes     []string
	Examples    []string
	Match       func(text string) bool
	Handle      func(ctx context.Context, d *Deps, text string) (*Result, error)
}

// Registry holds actions in priority order.
type Registry struct {
	actions []Action

	// Policy, when set, is consulted before any action runs.
	Policy func(action string) error
}

// NewRegistry builds the default action set.
func NewRegistry() *Registry {
	return &Registry{actions: []Action{
		swapAction,
		transferINJAction,
		transferAction,
		priceAction,
		tvlAction,
		portfolioAction,
		balanceAction,
		walletInfoAction,
		networkStatsAction,
		latestBlocksAction,
		latestTransactionsAction,
		yieldsAction,
	}}
}

// Actions lists the registered actions in dispatch order.
func (r *Registry) Actions() []Action { return r.actions }

// Find returns an action by name.
func (r *Registry) Find(name string) (Action, bool) {
	for _, a := range r.actions {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Action{}, false
}

// Dispatch routes text to the first matching action. When nothing
// matches and a model-backed extractor is available, it classifies the
// message and retries by action name.
func (r *Registry) Dispatch(ctx context.Context, d *Deps, text string) *Result {
	for _, a := range r.actions {
		if a.Match != nil && a.Match(text) {
			return r.run(ctx, d, a, text)
		}
	}
	if d.LLM != nil {
		intent, err := d.LLM.ParseIntent(ctx, text)
		if err == nil {
			if a, ok := r.Find(intent.Action); ok {
				return r.run(ctx, d, a, text)
			}
		} else {
			d.Log.Debug().Err(err).Msg("intent classification failed")
		}
	}
	return &Result{
		Reply:    helpReply(r.actions),
		Response: model.Fail(apierr.CodeDataNotAvailable.Tag(), "no action matched the message", ""),
	}
}

// run executes one action with panic containment: a handler crash turns
// into an apologetic reply, never a process crash.
func (r *Registry) run(ctx context.Context, d *Deps, a Action, text string) (res *Result) {
	if r.Policy != nil {
		if err := r.Policy(a.Name); err != nil {
			return &Result{
				Reply:    "That action is disabled on this deployment.",
				Response: model.Fail(apierr.Tag(err), userMessage(err), ""),
			}
		}
	}
	defer func() {
		if rec := recover(); rec != nil {
			d.Log.Error().Interface("panic", rec).Str("action", a.Name).Msg("handler panicked")
			res = &Result{
				Reply:    "Sorry, something went wrong while handling that request. Please try again.",
				Response: model.Fail(apierr.CodeInternal.Tag(), fmt.Sprintf("handler %s panicked", a.Name), ""),
			}
		}
	}()

	res, err := a.Handle(ctx, d, text)
	if err != nil {
		d.Log.Warn().Err(err).Str("action", a.Name).Msg("action failed")
		res = &Result{
			Reply:    "Sorry, I couldn't complete that: " + userMessage(err),
			Response: model.Fail(apierr.Tag(err), userMessage(err), detailsOf(err)),
		}
	}
	if res.Response != nil {
		res.Response.Meta.Action = a.Name
	}
	return res
}

func userMessage(err error) string {
	if e, ok := apierr.As(err); ok {
		return e.Message
	}
	return err.Error()
}

func detailsOf(err error) string {
	if e, ok := apierr.As(err); ok {
		return e.Details
	}
	return ""
}

func helpReply(actions []Action) string {
	var b strings.Builder
	b.WriteString("I didn't understand that. Here's what I can do:\n")
	for _, a := range actions {
		fmt.Fprintf(&b, "- **%s**: %s\n", a.Name, a.Description)
	}
	return b.String()
}
