package core

import (
	"errors"

	xerrors "restaurant-pos/internal/xpkg/errors"
)

var (
	ErrParseCmd = xerrors.ErrParseCmd
	ErrHelp     = xerrors.ErrHelp
	ErrDBConn   = xerrors.ErrDBConn

	ErrOrderNotFound     = xerrors.ErrOrderNotFound
	ErrInvalidTransition = xerrors.ErrInvalidTransition
	ErrUnknownStatus     = xerrors.ErrUnknownStatus
	ErrRevisionConflict  = xerrors.ErrRevisionConflict

	ErrWorkerStopped = errors.New("worker stopped")
)
