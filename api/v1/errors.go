package v1

import "errors"

var (
	ErrEntryCtx    = errors.New("entry missing in context")
	ErrCapsCtx     = errors.New("capabilities missing in context")
	ErrContentType = errors.New("Content-Type must be application/json")
	ErrReadOnlyID  = errors.New("id is assigned by the server")
	ErrReadOnlyDL  = errors.New("download is owned by the transfer engine")
)
