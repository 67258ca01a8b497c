package ledger

import (
	"github.com/x-xyz/goroyalty/domain"
)

type TxnType string

const (
	TxnTypePayment       TxnType = "pay"
	TxnTypeAssetTransfer TxnType = "axfer"
	TxnTypeAssetConfig   TxnType = "acfg"
	TxnTypeAppCall       TxnType = "appl"
)

type OnCompletion string

const (
	OnCompletionNoOp     OnCompletion = "noop"
	OnCompletionOptIn    OnCompletion = "optin"
	OnCompletionCloseOut OnCompletion = "closeout"
	OnCompletionUpdate   OnCompletion = "update"
	OnCompletionDelete   OnCompletion = "delete"
)

// Txn is a single operation. Which fields are read depends on Type.
type Txn struct {
	Type    TxnType        `json:"type" validate:"required,oneof=pay axfer acfg appl"`
	Sender  domain.Address `json:"sender" validate:"nonzeroaddr"`
	RekeyTo domain.Address `json:"rekeyTo"`
	Note    []byte         `json:"note,omitempty"`

	// pay
	Receiver         domain.Address `json:"receiver"`
	Amount           uint64         `json:"amount,omitempty"`
	CloseRemainderTo domain.Address `json:"closeRemainderTo"`

	// axfer; a non-zero AssetSender makes this a clawback
	XferAsset     domain.AssetId `json:"xferAsset,omitempty"`
	AssetAmount   uint64         `json:"assetAmount,omitempty"`
	AssetSender   domain.Address `json:"assetSender"`
	AssetReceiver domain.Address `json:"assetReceiver"`
	AssetCloseTo  domain.Address `json:"assetCloseTo"`

	// acfg, creation only
	AssetParams *AssetParams `json:"assetParams,omitempty"`

	// appl; ApplicationId 0 creates an application running Program
	ApplicationId domain.AppId     `json:"applicationId,omitempty"`
	OnCompletion  OnCompletion     `json:"onCompletion,omitempty"`
	Program       string           `json:"program,omitempty"`
	Args          [][]byte         `json:"args,omitempty"`
	Accounts      []domain.Address `json:"accounts,omitempty"`
	ForeignAssets []domain.AssetId `json:"foreignAssets,omitempty"`
	ForeignApps   []domain.AppId   `json:"foreignApps,omitempty"`
}

// Group is a set of transactions that commit or abort together
type Group struct {
	Id   string `json:"groupId"`
	Txns []Txn  `json:"txns" validate:"required,min=1,dive"`
}

func (t *Txn) IsClawback() bool {
	return t.Type == TxnTypeAssetTransfer && !t.AssetSender.IsZero()
}

func (t *Txn) IsOptIn() bool {
	return t.Type == TxnTypeAssetTransfer &&
		t.AssetAmount == 0 &&
		t.AssetSender.IsZero() &&
		t.AssetCloseTo.IsZero() &&
		t.Sender == t.AssetReceiver
}

func (t *Txn) Completion() OnCompletion {
	if t.OnCompletion == "" {
		return OnCompletionNoOp
	}
	return t.OnCompletion
}

func Payment(sender, receiver domain.Address, amount uint64) Txn {
	return Txn{
		Type:     TxnTypePayment,
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
	}
}

func AssetTransfer(sender, receiver domain.Address, asset domain.AssetId, amount uint64) Txn {
	return Txn{
		Type:          TxnTypeAssetTransfer,
		Sender:        sender,
		XferAsset:     asset,
		AssetAmount:   amount,
		AssetReceiver: receiver,
	}
}

func AssetOptIn(sender domain.Address, asset domain.AssetId) Txn {
	return AssetTransfer(sender, sender, asset, 0)
}

// Clawback moves amount of asset from owner to receiver on the clawback's authority
func Clawback(clawback, owner, receiver domain.Address, asset domain.AssetId, amount uint64) Txn {
	txn := AssetTransfer(clawback, receiver, asset, amount)
	txn.AssetSender = owner
	return txn
}

func AssetCreate(sender domain.Address, params AssetParams) Txn {
	return Txn{
		Type:        TxnTypeAssetConfig,
		Sender:      sender,
		AssetParams: &params,
	}
}

func AppCreate(sender domain.Address, program string) Txn {
	return Txn{
		Type:         TxnTypeAppCall,
		Sender:       sender,
		OnCompletion: OnCompletionNoOp,
		Program:      program,
	}
}

func AppCall(sender domain.Address, app domain.AppId, args [][]byte) Txn {
	return Txn{
		Type:          TxnTypeAppCall,
		Sender:        sender,
		ApplicationId: app,
		OnCompletion:  OnCompletionNoOp,
		Args:          args,
	}
}
