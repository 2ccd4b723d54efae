package docstore

import (
	"context"
	"fmt"

	"libraryhub/internal/shared"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside one multi-document transaction. Store calls made
// with the ctx passed to fn join the transaction. Any failure aborts every write
// and is reported as shared.ErrTransactionAborted; nothing is retried.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(context.Background())

	err = mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		if err := session.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = session.AbortTransaction(context.Background())
			return err
		}
		return session.CommitTransaction(sc)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrTransactionAborted, err)
	}
	return nil
}
