package repository

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/log"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/ledger"
	"github.com/x-xyz/goroyalty/service/query"
)

// amounts are stored as decimal strings, bson has no unsigned 64 bit type

type accountDoc struct {
	Address  string `bson:"address"`
	Balance  string `bson:"balance"`
	AuthAddr string `bson:"authAddr"`
	App      int64  `bson:"app,omitempty"`
}

type assetDoc struct {
	AssetId       int64  `bson:"assetId"`
	Total         string `bson:"total"`
	Decimals      uint32 `bson:"decimals"`
	DefaultFrozen bool   `bson:"defaultFrozen"`
	UnitName      string `bson:"unitName"`
	Name          string `bson:"name"`
	URL           string `bson:"url"`
	Creator       string `bson:"creator"`
	Manager       string `bson:"manager"`
	Reserve       string `bson:"reserve"`
	Freeze        string `bson:"freeze"`
	Clawback      string `bson:"clawback"`
}

type holdingDoc struct {
	Address string `bson:"address"`
	AssetId int64  `bson:"assetId"`
	Amount  string `bson:"amount"`
	Frozen  bool   `bson:"frozen"`
}

type appDoc struct {
	AppId   int64  `bson:"appId"`
	Creator string `bson:"creator"`
	Program string `bson:"program"`
}

type stateDoc struct {
	AppId   int64            `bson:"appId"`
	Address string           `bson:"address,omitempty"`
	Key     string           `bson:"key"`
	Type    ledger.ValueType `bson:"type"`
	Bytes   string           `bson:"bytes"`
	Uint    string           `bson:"uint"`
}

type counterDoc struct {
	Name  string `bson:"name"`
	Value string `bson:"value"`
}

type groupDoc struct {
	GroupId     string    `bson:"groupId"`
	Round       int64     `bson:"round"`
	Record      string    `bson:"record"`
	CommittedAt time.Time `bson:"committedAt"`
}

type mongoRepo struct {
	q query.Mongo
}

// NewMongoRepo keeps world state in mongo, Commit runs in one transaction
func NewMongoRepo(q query.Mongo) ledger.Repo {
	return &mongoRepo{q: q}
}

func fmtU64(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func parseU64(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, xerrors.Errorf("parse %q: %w", s, domain.ErrInvalidNumberFormat)
	}
	return v, nil
}

func hexOf(a domain.Address) string {
	if a.IsZero() {
		return ""
	}
	return a.Hex()
}

func parseAddr(s string) (domain.Address, error) {
	if s == "" {
		return domain.ZeroAddress, nil
	}
	return domain.HexToAddress(s)
}

// mapNotFound turns the query sentinel into the domain one
func mapNotFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, query.ErrNotFound) {
		return notFound(format, args...)
	}
	return err
}

func (r *mongoRepo) FindAccount(c ctx.Ctx, addr domain.Address) (*ledger.Account, error) {
	doc := accountDoc{}
	if err := r.q.FindOne(c, domain.TableLedgerAccounts, bson.M{"address": addr.Hex()}, &doc); err != nil {
		return nil, mapNotFound(err, "account %s", addr)
	}
	balance, err := parseU64(doc.Balance)
	if err != nil {
		return nil, err
	}
	auth, err := parseAddr(doc.AuthAddr)
	if err != nil {
		return nil, err
	}
	return &ledger.Account{Address: addr, Balance: balance, AuthAddr: auth, App: domain.AppId(doc.App)}, nil
}

func (r *mongoRepo) FindAsset(c ctx.Ctx, id domain.AssetId) (*ledger.Asset, error) {
	doc := assetDoc{}
	if err := r.q.FindOne(c, domain.TableLedgerAssets, bson.M{"assetId": int64(id)}, &doc); err != nil {
		return nil, mapNotFound(err, "asset %s", id)
	}
	return doc.toAsset()
}

func (d *assetDoc) toAsset() (*ledger.Asset, error) {
	total, err := parseU64(d.Total)
	if err != nil {
		return nil, err
	}
	params := ledger.AssetParams{
		Total:         total,
		Decimals:      d.Decimals,
		DefaultFrozen: d.DefaultFrozen,
		UnitName:      d.UnitName,
		Name:          d.Name,
		URL:           d.URL,
	}
	for _, f := range []struct {
		dst *domain.Address
		src string
	}{
		{&params.Creator, d.Creator},
		{&params.Manager, d.Manager},
		{&params.Reserve, d.Reserve},
		{&params.Freeze, d.Freeze},
		{&params.Clawback, d.Clawback},
	} {
		if *f.dst, err = parseAddr(f.src); err != nil {
			return nil, err
		}
	}
	return &ledger.Asset{Id: domain.AssetId(d.AssetId), Params: params}, nil
}

func toAssetDoc(a *ledger.Asset) *assetDoc {
	return &assetDoc{
		AssetId:       int64(a.Id),
		Total:         fmtU64(a.Params.Total),
		Decimals:      a.Params.Decimals,
		DefaultFrozen: a.Params.DefaultFrozen,
		UnitName:      a.Params.UnitName,
		Name:          a.Params.Name,
		URL:           a.Params.URL,
		Creator:       hexOf(a.Params.Creator),
		Manager:       hexOf(a.Params.Manager),
		Reserve:       hexOf(a.Params.Reserve),
		Freeze:        hexOf(a.Params.Freeze),
		Clawback:      hexOf(a.Params.Clawback),
	}
}

func (d *holdingDoc) toHolding() (*ledger.Holding, error) {
	addr, err := parseAddr(d.Address)
	if err != nil {
		return nil, err
	}
	amount, err := parseU64(d.Amount)
	if err != nil {
		return nil, err
	}
	return &ledger.Holding{
		Address: addr,
		AssetId: domain.AssetId(d.AssetId),
		Amount:  amount,
		Frozen:  d.Frozen,
	}, nil
}

func (r *mongoRepo) FindHolding(c ctx.Ctx, addr domain.Address, id domain.AssetId) (*ledger.Holding, error) {
	doc := holdingDoc{}
	if err := r.q.FindOne(c, domain.TableLedgerHoldings, bson.M{"address": addr.Hex(), "assetId": int64(id)}, &doc); err != nil {
		return nil, mapNotFound(err, "holding of %s by %s", id, addr)
	}
	return doc.toHolding()
}

func (r *mongoRepo) FindHoldings(c ctx.Ctx, addr domain.Address) ([]ledger.Holding, error) {
	docs := []holdingDoc{}
	if err := r.q.Search(c, domain.TableLedgerHoldings, 0, 0, "assetId", bson.M{"address": addr.Hex()}, &docs); err != nil {
		return nil, err
	}
	res := make([]ledger.Holding, 0, len(docs))
	for i := range docs {
		h, err := docs[i].toHolding()
		if err != nil {
			return nil, err
		}
		res = append(res, *h)
	}
	return res, nil
}

func (r *mongoRepo) FindApp(c ctx.Ctx, id domain.AppId) (*ledger.App, error) {
	doc := appDoc{}
	if err := r.q.FindOne(c, domain.TableLedgerApps, bson.M{"appId": int64(id)}, &doc); err != nil {
		return nil, mapNotFound(err, "app %s", id)
	}
	creator, err := parseAddr(doc.Creator)
	if err != nil {
		return nil, err
	}
	return &ledger.App{Id: id, Creator: creator, Program: doc.Program}, nil
}

func (d *stateDoc) toValue() (*ledger.Value, error) {
	v := ledger.Value{Type: d.Type}
	switch d.Type {
	case ledger.ValueTypeBytes:
		b, err := hexutil.Decode(d.Bytes)
		if err != nil {
			return nil, xerrors.Errorf("decode state bytes: %w", domain.ErrInternalServerError)
		}
		v.Bytes = b
	case ledger.ValueTypeUint:
		u, err := parseU64(d.Uint)
		if err != nil {
			return nil, err
		}
		v.Uint = u
	}
	return &v, nil
}

func newStateDoc(app domain.AppId, addr string, key string, v *ledger.Value) *stateDoc {
	doc := &stateDoc{
		AppId:   int64(app),
		Address: addr,
		Key:     hexutil.Encode([]byte(key)),
		Type:    v.Type,
	}
	if v.Type == ledger.ValueTypeBytes {
		doc.Bytes = hexutil.Encode(v.Bytes)
	} else {
		doc.Uint = fmtU64(v.Uint)
	}
	return doc
}

func (r *mongoRepo) FindGlobal(c ctx.Ctx, app domain.AppId, key []byte) (*ledger.Value, error) {
	doc := stateDoc{}
	if err := r.q.FindOne(c, domain.TableLedgerAppGlobals, bson.M{"appId": int64(app), "key": hexutil.Encode(key)}, &doc); err != nil {
		return nil, mapNotFound(err, "global %x of app %s", key, app)
	}
	return doc.toValue()
}

func (r *mongoRepo) FindGlobals(c ctx.Ctx, app domain.AppId) ([]ledger.KeyValue, error) {
	docs := []stateDoc{}
	if err := r.q.Search(c, domain.TableLedgerAppGlobals, 0, 0, "key", bson.M{"appId": int64(app)}, &docs); err != nil {
		return nil, err
	}
	res := make([]ledger.KeyValue, 0, len(docs))
	for i := range docs {
		key, err := hexutil.Decode(docs[i].Key)
		if err != nil {
			return nil, xerrors.Errorf("decode state key: %w", domain.ErrInternalServerError)
		}
		v, err := docs[i].toValue()
		if err != nil {
			return nil, err
		}
		res = append(res, ledger.KeyValue{Key: key, Value: *v})
	}
	return res, nil
}

func (r *mongoRepo) FindLocal(c ctx.Ctx, app domain.AppId, addr domain.Address, key []byte) (*ledger.Value, error) {
	doc := stateDoc{}
	selector := bson.M{"appId": int64(app), "address": addr.Hex(), "key": hexutil.Encode(key)}
	if err := r.q.FindOne(c, domain.TableLedgerAppLocals, selector, &doc); err != nil {
		return nil, mapNotFound(err, "local %x of %s in app %s", key, addr, app)
	}
	return doc.toValue()
}

func (r *mongoRepo) FindCounter(c ctx.Ctx, name string) (uint64, error) {
	doc := counterDoc{}
	if err := r.q.FindOne(c, domain.TableLedgerCounters, bson.M{"name": name}, &doc); errors.Is(err, query.ErrNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return parseU64(doc.Value)
}

func (r *mongoRepo) FindGroup(c ctx.Ctx, groupId string) (*ledger.GroupRecord, error) {
	doc := groupDoc{}
	if err := r.q.FindOne(c, domain.TableLedgerGroups, bson.M{"groupId": groupId}, &doc); err != nil {
		return nil, mapNotFound(err, "group %s", groupId)
	}
	record := &ledger.GroupRecord{}
	if err := json.Unmarshal([]byte(doc.Record), record); err != nil {
		c.WithFields(log.Fields{"err": err, "groupId": groupId}).Error("failed to json.Unmarshal")
		return nil, err
	}
	return record, nil
}

func (r *mongoRepo) Commit(c ctx.Ctx, delta *ledger.Delta) error {
	return r.q.RunWithTransaction(c, func(c ctx.Ctx) error {
		return r.commit(c, delta)
	})
}

func (r *mongoRepo) commit(c ctx.Ctx, delta *ledger.Delta) error {
	for addr, a := range delta.Accounts {
		doc := &accountDoc{Address: addr.Hex(), Balance: fmtU64(a.Balance), AuthAddr: hexOf(a.AuthAddr), App: int64(a.App)}
		if err := r.q.Upsert(c, domain.TableLedgerAccounts, bson.M{"address": doc.Address}, doc); err != nil {
			return err
		}
	}

	for id, a := range delta.Assets {
		selector := bson.M{"assetId": int64(id)}
		if a == nil {
			if _, err := r.q.RemoveAll(c, domain.TableLedgerAssets, selector); err != nil {
				return err
			}
			continue
		}
		if err := r.q.Upsert(c, domain.TableLedgerAssets, selector, toAssetDoc(a)); err != nil {
			return err
		}
	}

	for k, h := range delta.Holdings {
		selector := bson.M{"address": k.Address.Hex(), "assetId": int64(k.AssetId)}
		if h == nil {
			if _, err := r.q.RemoveAll(c, domain.TableLedgerHoldings, selector); err != nil {
				return err
			}
			continue
		}
		doc := &holdingDoc{Address: k.Address.Hex(), AssetId: int64(k.AssetId), Amount: fmtU64(h.Amount), Frozen: h.Frozen}
		if err := r.q.Upsert(c, domain.TableLedgerHoldings, selector, doc); err != nil {
			return err
		}
	}

	for id, a := range delta.Apps {
		selector := bson.M{"appId": int64(id)}
		if a != nil {
			doc := &appDoc{AppId: int64(id), Creator: hexOf(a.Creator), Program: a.Program}
			if err := r.q.Upsert(c, domain.TableLedgerApps, selector, doc); err != nil {
				return err
			}
			continue
		}
		for _, table := range []domain.Table{domain.TableLedgerApps, domain.TableLedgerAppGlobals, domain.TableLedgerAppLocals} {
			if _, err := r.q.RemoveAll(c, table, selector); err != nil {
				return err
			}
		}
	}

	for k, v := range delta.Globals {
		selector := bson.M{"appId": int64(k.App), "key": hexutil.Encode([]byte(k.Key))}
		if v == nil {
			if _, err := r.q.RemoveAll(c, domain.TableLedgerAppGlobals, selector); err != nil {
				return err
			}
			continue
		}
		if err := r.q.Upsert(c, domain.TableLedgerAppGlobals, selector, newStateDoc(k.App, "", k.Key, v)); err != nil {
			return err
		}
	}

	for k, v := range delta.Locals {
		selector := bson.M{"appId": int64(k.App), "address": k.Address.Hex(), "key": hexutil.Encode([]byte(k.Key))}
		if v == nil {
			if _, err := r.q.RemoveAll(c, domain.TableLedgerAppLocals, selector); err != nil {
				return err
			}
			continue
		}
		if err := r.q.Upsert(c, domain.TableLedgerAppLocals, selector, newStateDoc(k.App, k.Address.Hex(), k.Key, v)); err != nil {
			return err
		}
	}

	for name, v := range delta.Counters {
		doc := &counterDoc{Name: name, Value: fmtU64(v)}
		if err := r.q.Upsert(c, domain.TableLedgerCounters, bson.M{"name": name}, doc); err != nil {
			return err
		}
	}

	if g := delta.Group; g != nil {
		raw, err := json.Marshal(g)
		if err != nil {
			return err
		}
		doc := &groupDoc{GroupId: g.GroupId, Round: int64(g.Round), Record: string(raw), CommittedAt: g.CommittedAt}
		if err := r.q.Insert(c, domain.TableLedgerGroups, doc); err != nil {
			return err
		}
	}
	return nil
}
