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

	ErrInvalidProduct = errors.New("invalid product")
	ErrEmptyName      = errors.New("product name is required")
	ErrNegativePrice  = errors.New("price must be a non-negative number")
)
