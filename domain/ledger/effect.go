package ledger

import (
	"github.com/x-xyz/goroyalty/domain"
)

// Effect is a state change requested by a contract. Contracts never write
// state themselves; the executor applies effects in order.
type Effect interface {
	effect()
}

type GlobalPut struct {
	Key   []byte
	Value Value
}

type GlobalDel struct {
	Key []byte
}

type LocalPut struct {
	Account domain.Address
	Key     []byte
	Value   Value
}

type LocalDel struct {
	Account domain.Address
	Key     []byte
}

// InnerGroup is submitted by the application account as its own group,
// inside the enclosing atomic unit.
type InnerGroup struct {
	Txns []Txn
}

func (GlobalPut) effect()  {}
func (GlobalDel) effect()  {}
func (LocalPut) effect()   {}
func (LocalDel) effect()   {}
func (InnerGroup) effect() {}

// Result is what a contract hands back to the executor
type Result struct {
	Effects []Effect
	// Return is the method return value, nil for void methods
	Return []byte
}

func NewResult(effects ...Effect) *Result {
	return &Result{Effects: effects}
}

func (r *Result) Add(effects ...Effect) *Result {
	r.Effects = append(r.Effects, effects...)
	return r
}

func (r *Result) WithReturn(ret []byte) *Result {
	r.Return = ret
	return r
}
