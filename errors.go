package driver

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// InputValidationError reports a missing or malformed request field. The
// handler logs it and still produces a reply.
type InputValidationError struct {
	Field  string
	Reason string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UpstreamConnectionError reports that no channel to the upstream gateway
// could be established.
type UpstreamConnectionError struct {
	Address string
	Err     error
}

func (e *UpstreamConnectionError) Error() string {
	return fmt.Sprintf("connect upstream %s: %v", e.Address, e.Err)
}

func (e *UpstreamConnectionError) Unwrap() error { return e.Err }

// ReachabilityError reports a failed reachability probe. It never reaches the
// caller; the reply carries status=false instead.
type ReachabilityError struct {
	EquipmentID uint32
	Err         error
}

func (e *ReachabilityError) Error() string {
	return fmt.Sprintf("equipment %d unreachable: %v", e.EquipmentID, e.Err)
}

func (e *ReachabilityError) Unwrap() error { return e.Err }

// UnknownParameterSetError is returned by Resolver.ResolveStrict.
type UnknownParameterSetError struct {
	Key ParameterSetKey
}

func (e *UnknownParameterSetError) Error() string {
	return fmt.Sprintf("unknown parameter set %q", string(e.Key))
}
