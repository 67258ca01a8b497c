package abi

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/xerrors"

	"github.com/x-xyz/goroyalty/domain"
)

// SelectorLength is the byte length of a method selector
const SelectorLength = 4

// Method is an application method identified by its full signature,
// e.g. "set_policy(uint64,address)void".
type Method struct {
	Signature string
	Selector  []byte
}

// NewMethod hashes the signature into its selector
func NewMethod(signature string) Method {
	return Method{
		Signature: signature,
		Selector:  crypto.Keccak256([]byte(signature))[:SelectorLength],
	}
}

// Name is the part of the signature before the argument list
func (m Method) Name() string {
	if i := strings.IndexByte(m.Signature, '('); i >= 0 {
		return m.Signature[:i]
	}
	return m.Signature
}

func (m Method) Matches(selector []byte) bool {
	return bytes.Equal(m.Selector, selector)
}

func (m Method) String() string {
	return fmt.Sprintf("%s[%x]", m.Signature, m.Selector)
}

// Args prepends the selector to the encoded arguments
func (m Method) Args(args ...[]byte) [][]byte {
	res := make([][]byte, 0, len(args)+1)
	res = append(res, m.Selector)
	return append(res, args...)
}

func Uint64(v uint64) []byte {
	return domain.Itob(v)
}

func Bool(v bool) []byte {
	if v {
		return Uint64(1)
	}
	return Uint64(0)
}

func Address(a domain.Address) []byte {
	return a.Bytes()
}

// DecodeUint64 requires exactly 8 bytes
func DecodeUint64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, xerrors.Errorf("uint64 arg has %d bytes: %w", len(b), domain.ErrBadParamInput)
	}
	return domain.Btoi(b)
}

func DecodeBool(b []byte) (bool, error) {
	v, err := DecodeUint64(b)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func DecodeAddress(b []byte) (domain.Address, error) {
	return domain.BytesToAddress(b)
}
