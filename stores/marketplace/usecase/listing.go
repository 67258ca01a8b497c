package usecase

import (
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/ledger"
	"github.com/x-xyz/goroyalty/domain/marketplace"
)

// loadListing reports ok=false when no listing is active. A partial record is
// an internal error, the five keys are written and deleted together.
func loadListing(c ctx.Ctx, view ledger.StateView, app domain.AppId) (*marketplace.Listing, bool, error) {
	values := make([]*ledger.Value, len(marketplace.ListingKeys))
	present := 0
	for i, key := range marketplace.ListingKeys {
		v, ok, err := view.Global(c, app, key)
		if err != nil {
			return nil, false, err
		}
		if ok {
			present++
		}
		values[i] = v
	}
	switch present {
	case 0:
		return nil, false, nil
	case len(marketplace.ListingKeys):
	default:
		return nil, false, xerrors.Errorf("listing of app %s has %d of %d keys: %w", app, present, len(marketplace.ListingKeys), domain.ErrInternalServerError)
	}

	account, err := domain.BytesToAddress(values[4].AsBytes())
	if err != nil {
		return nil, false, err
	}
	return &marketplace.Listing{
		App:     domain.AppId(values[0].AsUint()),
		Asset:   domain.AssetId(values[1].AsUint()),
		Price:   values[2].AsUint(),
		Amount:  values[3].AsUint(),
		Account: account,
	}, true, nil
}

func listingPuts(l *marketplace.Listing) []ledger.Effect {
	return []ledger.Effect{
		ledger.GlobalPut{Key: marketplace.KeyApp, Value: ledger.UintValue(uint64(l.App))},
		ledger.GlobalPut{Key: marketplace.KeyAsset, Value: ledger.UintValue(uint64(l.Asset))},
		ledger.GlobalPut{Key: marketplace.KeyPrice, Value: ledger.UintValue(l.Price)},
		ledger.GlobalPut{Key: marketplace.KeyAmount, Value: ledger.UintValue(l.Amount)},
		ledger.GlobalPut{Key: marketplace.KeyAccount, Value: ledger.BytesValue(l.Account.Bytes())},
	}
}

func listingDels() []ledger.Effect {
	res := make([]ledger.Effect, len(marketplace.ListingKeys))
	for i, key := range marketplace.ListingKeys {
		res[i] = ledger.GlobalDel{Key: key}
	}
	return res
}
