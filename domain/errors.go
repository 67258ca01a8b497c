package domain

import (
	"errors"

	"golang.org/x/xerrors"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the expected previous state does not match the stored one
	ErrConflict = errors.New("Stored state does not match expected state")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")
	// ErrUnauthorized will throw if the sender may not perform the action
	ErrUnauthorized = errors.New("Sender is not authorized")
	// ErrPrecondition will throw if the ledger state does not allow the action
	ErrPrecondition = errors.New("Precondition failed")

	// classified errors, errors.Is matches their class
	ErrInvalidAddress      = xerrors.Errorf("invalid address: %w", ErrBadParamInput)
	ErrInvalidNumberFormat = xerrors.Errorf("invalid number format: %w", ErrBadParamInput)
	ErrUnknownSelector     = xerrors.Errorf("unknown method selector: %w", ErrBadParamInput)
	ErrUnknownProgram      = xerrors.Errorf("unknown program: %w", ErrBadParamInput)
	ErrBudgetExceeded      = xerrors.Errorf("group resource budget exceeded: %w", ErrPrecondition)
	ErrInsufficientBalance = xerrors.Errorf("insufficient balance: %w", ErrPrecondition)
	ErrAssetNotOptedIn     = xerrors.Errorf("account not opted in to asset: %w", ErrPrecondition)
	ErrAssetFrozen         = xerrors.Errorf("asset holding is frozen: %w", ErrPrecondition)
)
