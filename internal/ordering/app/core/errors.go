package core

import (
	"errors"

	xerrors "restaurant-pos/internal/xpkg/errors"
)

var (
	ErrParseCmd = xerrors.ErrParseCmd
	ErrHelp     = xerrors.ErrHelp
	ErrDBConn   = xerrors.ErrDBConn

	ErrProductNotFound  = xerrors.ErrProductNotFound
	ErrRevisionConflict = xerrors.ErrRevisionConflict

	ErrCartNotFound = errors.New("cart not found")
	ErrLineNotFound = errors.New("product is not in the cart")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrInvalidTable = errors.New("table number must be positive")
)
