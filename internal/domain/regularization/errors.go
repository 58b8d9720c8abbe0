package regularization

import "errors"

var (
	ErrRegularizationNotFound = errors.New("regularization not found")
	ErrAlreadyApproved        = errors.New("regularization is already approved")
	ErrCannotDeleteApproved   = errors.New("cannot delete an approved regularization")
	ErrAlreadyDeleted         = errors.New("regularization is already deleted")
)
