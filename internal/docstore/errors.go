package docstore

import (
	"errors"
	"fmt"

	"libraryhub/internal/shared"

	"go.mongodb.org/mongo-driver/mongo"
)

// codeDocumentValidationFailure is returned by the server when a write does
// not satisfy the collection's $jsonSchema validator
const codeDocumentValidationFailure = 121

// mapError translates driver errors into the shared error kinds
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, shared.ErrNotFound)
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w: %w", op, shared.ErrValidationRejected, err)
	}
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(codeDocumentValidationFailure) {
		return fmt.Errorf("%s: %w: %w", op, shared.ErrValidationRejected, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
