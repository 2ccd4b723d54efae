package bridge

import (
	"context"
	"errors"
	"fmt"

	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/shared"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdentityBridge owns the mapping between a relational book id (book_link.id)
// and the ObjectID of the book document. Nothing else derives one from the other.
type IdentityBridge interface {
	CreateLink(ctx context.Context, documentID primitive.ObjectID) (int64, error)
	ResolveDocumentID(ctx context.Context, linkID int64) (primitive.ObjectID, error)
	ResolveLinkID(ctx context.Context, documentID primitive.ObjectID) (int64, error)
	ResolveLinkIDs(ctx context.Context, documentIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error)
	DeleteLink(ctx context.Context, linkID int64) error
}

type identityBridge struct {
	links repository.BookLinkRepository
}

func NewIdentityBridge(links repository.BookLinkRepository) IdentityBridge {
	return &identityBridge{links: links}
}

func (b *identityBridge) CreateLink(ctx context.Context, documentID primitive.ObjectID) (int64, error) {
	if documentID.IsZero() {
		return 0, fmt.Errorf("create link: %w: empty document id", shared.ErrIdentityInconsistency)
	}
	link, err := b.links.Create(ctx, documentID.Hex())
	if err != nil {
		return 0, err
	}
	return link.ID, nil
}

// ResolveDocumentID fails with shared.ErrNotFound when no link row exists
func (b *identityBridge) ResolveDocumentID(ctx context.Context, linkID int64) (primitive.ObjectID, error) {
	link, err := b.links.FindByID(ctx, linkID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	oid, err := primitive.ObjectIDFromHex(link.MongoID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("book link %d holds %q: %w", linkID, link.MongoID, shared.ErrIdentityInconsistency)
	}
	return oid, nil
}

// ResolveLinkID is the reverse lookup. A document without a link row is an
// inconsistency, not an absent book.
func (b *identityBridge) ResolveLinkID(ctx context.Context, documentID primitive.ObjectID) (int64, error) {
	link, err := b.links.FindByMongoID(ctx, documentID.Hex())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, fmt.Errorf("document %s has no book link: %w", documentID.Hex(), shared.ErrIdentityInconsistency)
		}
		return 0, err
	}
	return link.ID, nil
}

// ResolveLinkIDs returns the link ids of the documents that have one; unlinked
// documents are absent from the map
func (b *identityBridge) ResolveLinkIDs(ctx context.Context, documentIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	hexes := make([]string, 0, len(documentIDs))
	for _, id := range documentIDs {
		hexes = append(hexes, id.Hex())
	}
	links, err := b.links.FindByMongoIDs(ctx, hexes)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]int64, len(links))
	for _, link := range links {
		oid, err := primitive.ObjectIDFromHex(link.MongoID)
		if err != nil {
			continue
		}
		out[oid] = link.ID
	}
	return out, nil
}

func (b *identityBridge) DeleteLink(ctx context.Context, linkID int64) error {
	return b.links.Delete(ctx, linkID)
}
