package usecase

import (
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/log"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/ledger"
)

// execution applies one submitted group, inner groups included, on an overlay
type execution struct {
	*overlay
	contracts map[string]ledger.Contract
	applied   int
	inner     []ledger.Txn
}

func (ex *execution) applyGroup(c ctx.Ctx, txns []ledger.Txn, depth int) ([]hexutil.Bytes, error) {
	returns := make([]hexutil.Bytes, len(txns))
	for i := range txns {
		ex.applied++
		if ex.applied > ledger.MaxAppliedTxns {
			return nil, xerrors.Errorf("more than %d txns applied: %w", ledger.MaxAppliedTxns, domain.ErrBudgetExceeded)
		}
		if depth == 0 {
			if err := ex.requireKeyed(c, &txns[i]); err != nil {
				return nil, xerrors.Errorf("txn %d (%s): %w", i, txns[i].Type, err)
			}
		}
		ret, err := ex.applyTxn(c, txns, i, depth)
		if err != nil {
			return nil, xerrors.Errorf("txn %d (%s) at depth %d: %w", i, txns[i].Type, depth, err)
		}
		returns[i] = ret
	}
	return returns, nil
}

// requireKeyed rejects a submitted txn sent from an application account
func (ex *execution) requireKeyed(c ctx.Ctx, txn *ledger.Txn) error {
	if txn.Sender.IsZero() {
		return nil
	}
	acct, err := ex.Account(c, txn.Sender)
	if err != nil {
		return err
	}
	if acct.App != 0 {
		return xerrors.Errorf("%s is the account of app %s: %w", txn.Sender, acct.App, domain.ErrUnauthorized)
	}
	return nil
}

func (ex *execution) applyTxn(c ctx.Ctx, txns []ledger.Txn, i, depth int) ([]byte, error) {
	txn := &txns[i]
	if txn.Sender.IsZero() {
		return nil, xerrors.Errorf("missing sender: %w", domain.ErrBadParamInput)
	}

	var (
		ret []byte
		err error
	)
	switch txn.Type {
	case ledger.TxnTypePayment:
		err = ex.pay(c, txn)
	case ledger.TxnTypeAssetTransfer:
		err = ex.assetTransfer(c, txn)
	case ledger.TxnTypeAssetConfig:
		ret, err = ex.assetConfig(c, txn)
	case ledger.TxnTypeAppCall:
		ret, err = ex.appCall(c, txns, i, depth)
	default:
		err = xerrors.Errorf("txn type %q: %w", txn.Type, domain.ErrBadParamInput)
	}
	if err != nil {
		return nil, err
	}

	if !txn.RekeyTo.IsZero() {
		if err := ex.rekey(c, txn.Sender, txn.RekeyTo); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// rekey delegates signing authority, rekeying to oneself clears it
func (ex *execution) rekey(c ctx.Ctx, addr, to domain.Address) error {
	acct, err := ex.Account(c, addr)
	if err != nil {
		return err
	}
	acct.AuthAddr = to
	if to == addr {
		acct.AuthAddr = domain.ZeroAddress
	}
	ex.putAccount(acct)
	return nil
}

func (ex *execution) pay(c ctx.Ctx, txn *ledger.Txn) error {
	if err := ex.movePayment(c, txn.Sender, txn.Receiver, txn.Amount); err != nil {
		return err
	}
	if txn.CloseRemainderTo.IsZero() {
		return nil
	}
	sender, err := ex.Account(c, txn.Sender)
	if err != nil {
		return err
	}
	return ex.movePayment(c, txn.Sender, txn.CloseRemainderTo, sender.Balance)
}

func (ex *execution) movePayment(c ctx.Ctx, from, to domain.Address, amount uint64) error {
	if to.IsZero() {
		return xerrors.Errorf("missing receiver: %w", domain.ErrBadParamInput)
	}
	sender, err := ex.Account(c, from)
	if err != nil {
		return err
	}
	if sender.Balance < amount {
		return xerrors.Errorf("%s holds %d, needs %d: %w", from, sender.Balance, amount, domain.ErrInsufficientBalance)
	}
	sender.Balance -= amount
	ex.putAccount(sender)

	receiver, err := ex.Account(c, to)
	if err != nil {
		return err
	}
	receiver.Balance += amount
	ex.putAccount(receiver)
	return nil
}

func (ex *execution) assetTransfer(c ctx.Ctx, txn *ledger.Txn) error {
	asset, err := ex.Asset(c, txn.XferAsset)
	if err != nil {
		return err
	}

	if txn.IsOptIn() {
		if _, err := ex.Holding(c, txn.Sender, asset.Id); err == nil {
			return nil
		} else if !errors.Is(err, domain.ErrAssetNotOptedIn) {
			return err
		}
		ex.putHolding(&ledger.Holding{
			Address: txn.Sender,
			AssetId: asset.Id,
			Frozen:  asset.Params.DefaultFrozen,
		})
		return nil
	}

	from := txn.Sender
	clawback := txn.IsClawback()
	if clawback {
		if asset.Params.Clawback.IsZero() || txn.Sender != asset.Params.Clawback {
			return xerrors.Errorf("%s is not clawback of asset %s: %w", txn.Sender, asset.Id, domain.ErrUnauthorized)
		}
		if !txn.AssetCloseTo.IsZero() {
			return xerrors.Errorf("clawback cannot close out: %w", domain.ErrBadParamInput)
		}
		from = txn.AssetSender
	}

	if err := ex.moveAsset(c, asset.Id, from, txn.AssetReceiver, txn.AssetAmount, clawback); err != nil {
		return err
	}
	if txn.AssetCloseTo.IsZero() {
		return nil
	}
	if from == asset.Params.Creator {
		return xerrors.Errorf("creator cannot close out asset %s: %w", asset.Id, domain.ErrPrecondition)
	}
	holding, err := ex.Holding(c, from, asset.Id)
	if err != nil {
		return err
	}
	if err := ex.moveAsset(c, asset.Id, from, txn.AssetCloseTo, holding.Amount, false); err != nil {
		return err
	}
	ex.delHolding(from, asset.Id)
	return nil
}

// moveAsset requires both sides opted in. Frozen holdings only move by clawback.
func (ex *execution) moveAsset(c ctx.Ctx, id domain.AssetId, from, to domain.Address, amount uint64, clawback bool) error {
	if to.IsZero() {
		return xerrors.Errorf("missing asset receiver: %w", domain.ErrBadParamInput)
	}
	src, err := ex.Holding(c, from, id)
	if err != nil {
		return err
	}
	if src.Frozen && !clawback {
		return xerrors.Errorf("%s on asset %s: %w", from, id, domain.ErrAssetFrozen)
	}
	if src.Amount < amount {
		return xerrors.Errorf("%s holds %d of asset %s, needs %d: %w", from, src.Amount, id, amount, domain.ErrInsufficientBalance)
	}
	src.Amount -= amount
	ex.putHolding(src)

	dst, err := ex.Holding(c, to, id)
	if err != nil {
		return err
	}
	if dst.Frozen && !clawback {
		return xerrors.Errorf("%s on asset %s: %w", to, id, domain.ErrAssetFrozen)
	}
	dst.Amount += amount
	ex.putHolding(dst)
	return nil
}

// assetConfig only creates assets, the creator receives the full supply
func (ex *execution) assetConfig(c ctx.Ctx, txn *ledger.Txn) ([]byte, error) {
	if txn.AssetParams == nil || txn.XferAsset != 0 {
		return nil, xerrors.Errorf("only asset creation is supported: %w", domain.ErrBadParamInput)
	}
	id, err := ex.next(c, ledger.CounterAsset)
	if err != nil {
		return nil, err
	}
	params := *txn.AssetParams
	params.Creator = txn.Sender
	asset := &ledger.Asset{Id: domain.AssetId(id), Params: params}
	ex.putAsset(asset)
	ex.putHolding(&ledger.Holding{
		Address: txn.Sender,
		AssetId: asset.Id,
		Amount:  params.Total,
	})
	c.WithFields(log.Fields{"assetId": asset.Id, "creator": txn.Sender}).Debug("asset created")
	return domain.Itob(id), nil
}

func (ex *execution) appCall(c ctx.Ctx, txns []ledger.Txn, i, depth int) ([]byte, error) {
	txn := &txns[i]

	creating := txn.ApplicationId == 0
	var app *ledger.App
	if creating {
		id, err := ex.next(c, ledger.CounterApp)
		if err != nil {
			return nil, err
		}
		app = &ledger.App{Id: domain.AppId(id), Creator: txn.Sender, Program: txn.Program}
	} else {
		var err error
		if app, err = ex.App(c, txn.ApplicationId); err != nil {
			return nil, err
		}
	}

	contract, ok := ex.contracts[app.Program]
	if !ok {
		return nil, xerrors.Errorf("%q: %w", app.Program, domain.ErrUnknownProgram)
	}
	if creating {
		ex.putApp(app)
		acct, err := ex.Account(c, app.Id.Address())
		if err != nil {
			return nil, err
		}
		acct.App = app.Id
		ex.putAccount(acct)
	}

	call := &ledger.Call{
		AppId:    app.Id,
		Creator:  app.Creator,
		Creating: creating,
		Group:    txns,
		Index:    i,
		View:     ex.overlay,
	}
	res, err := contract.Approve(c, call)
	if err != nil {
		return nil, xerrors.Errorf("app %s rejected: %w", app.Id, err)
	}
	if res == nil {
		res = ledger.NewResult()
	}

	for _, effect := range res.Effects {
		if err := ex.applyEffect(c, app.Id, effect, depth); err != nil {
			return nil, err
		}
	}

	switch txn.Completion() {
	case ledger.OnCompletionDelete:
		if !creating {
			ex.delApp(app.Id)
		}
	case ledger.OnCompletionUpdate:
		if !creating && txn.Program != "" {
			if _, ok := ex.contracts[txn.Program]; !ok {
				return nil, xerrors.Errorf("%q: %w", txn.Program, domain.ErrUnknownProgram)
			}
			app.Program = txn.Program
			ex.putApp(app)
		}
	}

	if creating && res.Return == nil {
		return domain.Itob(uint64(app.Id)), nil
	}
	return res.Return, nil
}

func (ex *execution) applyEffect(c ctx.Ctx, app domain.AppId, effect ledger.Effect, depth int) error {
	switch e := effect.(type) {
	case ledger.GlobalPut:
		ex.putGlobal(app, e.Key, e.Value)
	case ledger.GlobalDel:
		ex.delGlobal(app, e.Key)
	case ledger.LocalPut:
		ex.putLocal(app, e.Account, e.Key, e.Value)
	case ledger.LocalDel:
		ex.delLocal(app, e.Account, e.Key)
	case ledger.InnerGroup:
		return ex.applyInner(c, app, e.Txns, depth)
	default:
		return xerrors.Errorf("unknown effect %T: %w", effect, domain.ErrInternalServerError)
	}
	return nil
}

// applyInner runs txns as the application account
func (ex *execution) applyInner(c ctx.Ctx, app domain.AppId, txns []ledger.Txn, depth int) error {
	if depth+1 > ledger.MaxInnerDepth {
		return xerrors.Errorf("inner depth above %d: %w", ledger.MaxInnerDepth, domain.ErrBudgetExceeded)
	}
	if len(txns) == 0 || len(txns) > ledger.MaxGroupSize {
		return xerrors.Errorf("inner group of %d txns: %w", len(txns), domain.ErrBadParamInput)
	}
	appAddr := app.Address()
	inner := make([]ledger.Txn, len(txns))
	for i, txn := range txns {
		if txn.Sender.IsZero() {
			txn.Sender = appAddr
		}
		if txn.Sender != appAddr {
			return xerrors.Errorf("inner txn sent by %s, app account is %s: %w", txn.Sender, appAddr, domain.ErrUnauthorized)
		}
		inner[i] = txn
	}
	ex.inner = append(ex.inner, inner...)
	_, err := ex.applyGroup(c, inner, depth+1)
	return err
}
