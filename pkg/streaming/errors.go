package streaming

import "errors"

// Sentinel errors shared by every layer. Wrap them with fmt.Errorf("...: %w").
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrInvalidID         = errors.New("invalid id")
	ErrDuplicateClientID = errors.New("duplicate client id")
	ErrMapUninitialized  = errors.New("map uninitialized")
	ErrNotImplemented    = errors.New("not implemented")
	ErrDisposed          = errors.New("disposed")
)

// Wire error codes.
const (
	CodeInvalidArgument   = "InvalidArgument"
	CodeNotFound          = "NotFound"
	CodeInvalidID         = "InvalidId"
	CodeDuplicateClientID = "DuplicateClientId"
	CodeMapUninitialized  = "MapUninitialized"
	CodeNotImplemented    = "NotImplemented"
	CodeDisposed          = "Disposed"
	CodeInternal          = "Internal"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrDisposed, CodeDisposed},
	{ErrMapUninitialized, CodeMapUninitialized},
	{ErrNotImplemented, CodeNotImplemented},
	{ErrDuplicateClientID, CodeDuplicateClientID},
	{ErrInvalidID, CodeInvalidID},
	{ErrNotFound, CodeNotFound},
	{ErrInvalidArgument, CodeInvalidArgument},
}

// Code returns the wire code for err. Joined errors report the first
// recognised sentinel in priority order. nil returns "".
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}
