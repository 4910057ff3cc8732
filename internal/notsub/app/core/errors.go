package core

import (
	"errors"

	xerrors "restaurant-pos/internal/xpkg/errors"
)

var (
	ErrParseCmd = xerrors.ErrParseCmd
	ErrHelp     = xerrors.ErrHelp
	ErrRMQConn  = xerrors.ErrRMQConn

	ErrBrokerDisabled = errors.New("rabbitmq host is not configured")
	ErrBadMessage     = errors.New("malformed notification")
)
