package application

import "errors"

// Application-layer errors for the bill record service.
var (
	// ErrTransitionNotAllowed indicates the catalog has no transition from
	// the bill's current status to the target for the acting role.
	ErrTransitionNotAllowed = errors.New("transition not allowed")

	// ErrQuorumNotMet indicates the transition requires a verified vote
	// quorum and the caller did not confirm one.
	ErrQuorumNotMet = errors.New("quorum requirement not met")

	// ErrDeadlineNotExpired indicates the transition may only run after the
	// source status's deadline has lapsed.
	ErrDeadlineNotExpired = errors.New("deadline has not expired")

	// ErrBillAlreadyReturned indicates the President has already returned
	// the bill once; a second return is unconstitutional.
	ErrBillAlreadyReturned = errors.New("bill has already been returned once")
)
