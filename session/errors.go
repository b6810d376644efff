// SPDX-License-Identifier: MIT

package session

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProtocol indicates no scope or default policy is registered for a protocol.
	ErrUnknownProtocol = errors.New("session: no policy registered for protocol")

	// ErrStackDiscipline indicates a release of an entry that is not the top of its stack.
	// The stack is left unchanged.
	ErrStackDiscipline = errors.New("session: entry is not the top of its stack")

	// ErrReleased indicates a Guard was released twice.
	ErrReleased = errors.New("session: guard already released")

	// ErrNilPolicy indicates a nil policy was pushed.
	ErrNilPolicy = errors.New("session: nil policy")

	// ErrPolicyType indicates the resolved policy does not have the requested type.
	ErrPolicyType = errors.New("session: policy has unexpected type")
)

// sessionErrorf wraps err with an operation tag and the protocol name.
func sessionErrorf(tag string, p Protocol, err error) error {
	return fmt.Errorf("%s(%s): %w", tag, p, err)
}
