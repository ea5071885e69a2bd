package storage

import (
	apperrors "github.com/kbukum/vlmscribe/errors"
)

// Translate converts a storage error into an AppError. ErrNotFound becomes
// a NOT_FOUND error for resource/id, anything else a STORAGE_ERROR for op.
func Translate(err error, op, resource, id string) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return apperrors.NotFound(resource, id).WithCause(err)
	}
	return apperrors.StorageError(op, err)
}
