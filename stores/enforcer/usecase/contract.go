package usecase

import (
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/abi"
	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/log"
	"github.com/x-xyz/goroyalty/base/metrics"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/enforcer"
	"github.com/x-xyz/goroyalty/domain/ledger"
)

type handlerFunc func(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error)

type route struct {
	method    abi.Method
	adminOnly bool
	handle    handlerFunc
}

type contract struct {
	routes []route
	met    metrics.Service
}

// NewContract returns the royalty enforcer program
func NewContract() ledger.Contract {
	ct := &contract{met: metrics.New("enforcer")}
	ct.routes = []route{
		{enforcer.MethodSetAdministrator, true, ct.setAdministrator},
		{enforcer.MethodSetPolicy, true, ct.setPolicy},
		{enforcer.MethodSetPaymentAsset, true, ct.setPaymentAsset},
		{enforcer.MethodRoyaltyFreeMove, true, ct.royaltyFreeMove},
		{enforcer.MethodOffer, false, ct.offer},
		{enforcer.MethodTransfer, false, ct.transfer},
		{enforcer.MethodGetPolicy, false, ct.getPolicy},
		{enforcer.MethodGetOffer, false, ct.getOffer},
		{enforcer.MethodGetAdministrator, false, ct.getAdministrator},
	}
	return ct
}

func (ct *contract) Program() string {
	return enforcer.Program
}

func (ct *contract) Approve(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	if call.Creating {
		return ledger.NewResult(ledger.GlobalPut{
			Key:   enforcer.KeyAdministrator,
			Value: ledger.BytesValue(call.Sender().Bytes()),
		}), nil
	}

	switch call.Txn().Completion() {
	case ledger.OnCompletionOptIn, ledger.OnCompletionCloseOut:
		return ledger.NewResult(), nil
	case ledger.OnCompletionDelete, ledger.OnCompletionUpdate:
		if err := ct.requireAdmin(c, call); err != nil {
			return nil, err
		}
		return ledger.NewResult(), nil
	}

	selector := call.Selector()
	for _, r := range ct.routes {
		if !r.method.Matches(selector) {
			continue
		}
		if r.adminOnly {
			if err := ct.requireAdmin(c, call); err != nil {
				return nil, err
			}
		}
		defer ct.met.BumpTime("call.time", "method", r.method.Name()).End()
		res, err := r.handle(c, call)
		if err != nil {
			ct.met.BumpSum("call.reject", 1, "method", r.method.Name())
			c.WithFields(log.Fields{"err": err, "appId": call.AppId, "method": r.method.Name()}).Debug("call rejected")
			return nil, err
		}
		return res, nil
	}
	return nil, xerrors.Errorf("selector %x: %w", selector, domain.ErrUnknownSelector)
}

func (ct *contract) requireAdmin(c ctx.Ctx, call *ledger.Call) error {
	admin, err := loadAdministrator(c, call.View, call.AppId, call.Creator)
	if err != nil {
		return err
	}
	if call.Sender() != admin {
		return xerrors.Errorf("%s is not administrator: %w", call.Sender(), domain.ErrUnauthorized)
	}
	return nil
}

func (ct *contract) setAdministrator(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	admin, err := call.AddressArg(1)
	if err != nil {
		return nil, err
	}
	return ledger.NewResult(ledger.GlobalPut{
		Key:   enforcer.KeyAdministrator,
		Value: ledger.BytesValue(admin.Bytes()),
	}), nil
}

func (ct *contract) getAdministrator(c ctx.Ctx, call *ledger.Call) (*ledger.Result, error) {
	admin, err := loadAdministrator(c, call.View, call.AppId, call.Creator)
	if err != nil {
		return nil, err
	}
	return ledger.NewResult().WithReturn(admin.Bytes()), nil
}
