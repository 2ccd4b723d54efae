package shared

import "errors"

// error kinds shared across the stores, services and the HTTP boundary.
// Callers wrap them with fmt.Errorf("...: %w") and test with errors.Is.
var (
	// ErrNotFound: a referenced relational or document entity is absent
	ErrNotFound = errors.New("not found")

	// ErrIdentityInconsistency: the link table and the document store disagree
	// (no identity after insert, link without document, document without link)
	ErrIdentityInconsistency = errors.New("identity inconsistency between stores")

	// ErrValidationRejected: schema validation or a unique index refused the write
	ErrValidationRejected = errors.New("validation rejected")

	// ErrTransactionAborted: an explicit multi-document transaction was rolled back
	ErrTransactionAborted = errors.New("transaction aborted")

	// ErrConflict: the write is valid but the current state does not allow it
	ErrConflict = errors.New("conflict")
)
