package bill

import "errors"

// Domain errors for the bill model.
var (
	// ErrInvalidStatus indicates the status is not a recognized canonical status.
	ErrInvalidStatus = errors.New("invalid bill status")

	// ErrInvalidCategory indicates the category is not a recognized canonical category.
	ErrInvalidCategory = errors.New("invalid bill category")

	// ErrInvalidHouse indicates the house is not one of the two chambers.
	ErrInvalidHouse = errors.New("invalid house")

	// ErrRoleNotPermitted indicates the role may not execute mutating operations.
	ErrRoleNotPermitted = errors.New("role not permitted to mutate bills")

	// ErrEmptyTitle indicates a bill was created without a title.
	ErrEmptyTitle = errors.New("bill title must not be empty")

	// ErrBillNotFound is returned when a bill does not exist.
	ErrBillNotFound = errors.New("bill not found")

	// ErrBillExists is returned when creating a bill that already exists.
	ErrBillExists = errors.New("bill already exists")

	// ErrInvalidBillID is returned when a bill ID is invalid (e.g., empty).
	ErrInvalidBillID = errors.New("invalid bill ID")

	// ErrStatusConflict is returned when a compare-and-swap status update
	// loses a race against a concurrent transition.
	ErrStatusConflict = errors.New("bill status changed concurrently")
)
