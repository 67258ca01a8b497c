package domain

import (
	"encoding/binary"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/xerrors"
)

// AddressLength is the byte length of an account identity
const AddressLength = 32

// Address is a 32 byte account identity. Text form is 0x-prefixed hex.
type Address [AddressLength]byte

// ZeroAddress is the unset identity
var ZeroAddress = Address{}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) Hex() string {
	return hexutil.Encode(a[:])
}

func (a Address) String() string {
	return a.Hex()
}

func (a Address) Equals(b Address) bool {
	return a == b
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *Address) UnmarshalText(input []byte) error {
	if len(input) == 0 {
		*a = ZeroAddress
		return nil
	}
	addr, err := HexToAddress(string(input))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// BytesToAddress requires exactly AddressLength bytes
func BytesToAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLength {
		return a, xerrors.Errorf("address must be %d bytes, got %d: %w", AddressLength, len(b), ErrInvalidAddress)
	}
	copy(a[:], b)
	return a, nil
}

func HexToAddress(s string) (Address, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Address{}, xerrors.Errorf("decode %q: %w", s, ErrInvalidAddress)
	}
	return BytesToAddress(b)
}

// MustHexToAddress panics on malformed input, for constants and tests
func MustHexToAddress(s string) Address {
	a, err := HexToAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

type AssetId uint64

func (id AssetId) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Key is the 8 byte big-endian form used as a local state key
func (id AssetId) Key() []byte {
	return Itob(uint64(id))
}

type AppId uint64

func (id AppId) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Address derives the account controlled by the application
func (id AppId) Address() Address {
	var a Address
	copy(a[:], crypto.Keccak256([]byte("appID"), Itob(uint64(id))))
	return a
}

func Itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func Btoi(b []byte) (uint64, error) {
	if len(b) > 8 {
		return 0, xerrors.Errorf("btoi of %d bytes: %w", len(b), ErrBadParamInput)
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// Table names a mongo collection
type Table string

const (
	TableLedgerAccounts   Table = "ledger_accounts"
	TableLedgerAssets     Table = "ledger_assets"
	TableLedgerHoldings   Table = "ledger_holdings"
	TableLedgerApps       Table = "ledger_apps"
	TableLedgerAppGlobals Table = "ledger_app_globals"
	TableLedgerAppLocals  Table = "ledger_app_locals"
	TableLedgerCounters   Table = "ledger_counters"
	TableLedgerGroups     Table = "ledger_groups"
)
