package action

import (
	"context"

	"farmstead/internal/domain/farm"
)

type bankOp int

const (
	bankLoan bankOp = iota
	bankRepay
	bankDeposit
	bankWithdraw
)

// bankHandler covers the four account verbs; the money rules live in the
// domain, the handler only maps failures to the error taxonomy and stages the
// versioned player save.
type bankHandler struct {
	BaseHandler
	op bankOp
}

func (h bankHandler) Execute(ctx context.Context, uc UseCase, ac *ActionContext) error {
	amount := ac.In.Req.Intent.Amount
	actor := ac.View.Actor

	var ok bool
	var eventType string
	switch h.op {
	case bankLoan:
		ok = farm.Loan(&actor, amount, uc.Catalog.Rules().LoanLimit)
		eventType = "loan_taken"
	case bankRepay:
		ok = farm.Repay(&actor, amount)
		eventType = "loan_repaid"
	case bankDeposit:
		ok = farm.Deposit(&actor, amount)
		eventType = "deposit_made"
	case bankWithdraw:
		ok = farm.Withdraw(&actor, amount)
		eventType = "withdrawal_made"
	}
	if !ok {
		return ErrInsufficientFunds
	}

	ac.planActorSave(actor)
	ac.appendEvent(eventType, map[string]any{"amount": amount})
	ac.Tmp.Result = Result{Code: farm.ResultOK, Coins: actor.Coins}
	return nil
}
