// Package common defines shared constants and sentinel errors used across
// userstore layers. Callers should use errors.Is to match these values;
// repository and hasher errors wrap them with additional context.
package common

import "errors"

var (
	// Storage-layer errors. Raw driver errors never escape the repository;
	// they are wrapped into one of these.
	ErrConnection  = errors.New("connection error")
	ErrTransaction = errors.New("transaction error")
	ErrRead        = errors.New("read error")
	ErrWrite       = errors.New("write error")

	// Row-level outcomes.
	ErrNotFound               = errors.New("not found")
	ErrAlreadyExists          = errors.New("already exists")
	ErrCannotDeleteReferenced = errors.New("cannot delete referenced entity")

	// Input validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// Credential errors. Mismatch and corrupt digest are deliberately
	// indistinguishable to callers.
	ErrCredentialFailure = errors.New("credential verification failed")

	// Worker-pool dispatch errors (pool full or shut down).
	ErrTaskDispatch = errors.New("task dispatch failed")
)
