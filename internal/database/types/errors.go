package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the base error for rejected input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidLimit indicates a non-positive result limit.
	ErrInvalidLimit = fmt.Errorf("%w: limit must be at least 1", ErrInvalidArgument)
	// ErrDuplicateSubmission indicates the user already has a pending submission in the guild.
	ErrDuplicateSubmission = errors.New("user already has a pending submission in this guild")
	// ErrSubmissionNotFound indicates the submission was already approved, rejected or never existed.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrUnauthorized indicates the caller is neither an owner nor a reviewer of the guild.
	ErrUnauthorized = errors.New("not authorized for this guild")
)

// ErrLastOwner indicates that removing the owner would leave the guild without one.
var ErrLastOwner = errors.New("cannot remove the last owner of a guild")
