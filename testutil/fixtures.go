package testutil

import (
	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/ormkit/changeset-go/changeset"
)

// Entity type names of the fixture domain.
const (
	AuthorType    = "Author"
	BookType      = "Book"
	PublisherType = "Publisher"
	TagType       = "Tag"
	EditionType   = "Edition"
)

// ObjectID is a document-store style opaque identifier, standing in for a
// driver-issued id type. It satisfies changeset.Identifier.
type ObjectID string

// IdentityString returns the id's string form.
func (id ObjectID) IdentityString() string {
	return string(id)
}

// CentsCodec is a custom scalar codec storing a decimal price as integer
// cents, the way a money column would be persisted.
type CentsCodec struct{}

// ToStorage converts a price to its integer-cents storage representation.
func (CentsCodec) ToStorage(value any) any {
	return int64(cast.ToFloat64(value)*100 + 0.5)
}

// NewLibraryRegistry builds a registry with the full fixture domain:
//
//   - Author: single uuid key; one-to-many books collection; virtual age
//   - Book: single uuid key; many-to-one author (owner); one-to-one
//     publisher (owner); many-to-many tags collection; price with CentsCodec
//   - Publisher: single uuid key; one-to-one book (inverse side)
//   - Tag: single string key with serialized-form fallback "id"
//   - Edition: composite key [book, revision], book being an entity reference
func NewLibraryRegistry() *changeset.Registry {
	registry := changeset.NewRegistry()

	registry.MustRegister(must(changeset.BuildEntityMetadata(AuthorType,
		changeset.PropertyDescriptor{Name: "id", Primary: true},
		changeset.PropertyDescriptor{Name: "name"},
		changeset.PropertyDescriptor{Name: "email"},
		changeset.PropertyDescriptor{Name: "identities"},
		changeset.PropertyDescriptor{Name: "books", Kind: changeset.KindOneToMany, Inverse: "author"},
		changeset.PropertyDescriptor{Name: "age", Virtual: true},
	)))

	registry.MustRegister(must(changeset.BuildEntityMetadata(BookType,
		changeset.PropertyDescriptor{Name: "id", Primary: true},
		changeset.PropertyDescriptor{Name: "title"},
		changeset.PropertyDescriptor{Name: "metadata"},
		changeset.PropertyDescriptor{Name: "price", Codec: CentsCodec{}},
		changeset.PropertyDescriptor{Name: "author", Kind: changeset.KindManyToOne, Owner: true, Inverse: "books"},
		changeset.PropertyDescriptor{Name: "publisher", Kind: changeset.KindOneToOne, Owner: true, Inverse: "book"},
		changeset.PropertyDescriptor{Name: "tags", Kind: changeset.KindManyToMany, Owner: true, Inverse: "books"},
	)))

	registry.MustRegister(must(changeset.BuildEntityMetadata(PublisherType,
		changeset.PropertyDescriptor{Name: "id", Primary: true},
		changeset.PropertyDescriptor{Name: "name"},
		changeset.PropertyDescriptor{Name: "book", Kind: changeset.KindOneToOne, Inverse: "publisher"},
	)))

	registry.MustRegister(must(changeset.BuildEntityMetadataWithSerializedKey(TagType, "id",
		changeset.PropertyDescriptor{Name: "_id", Primary: true},
		changeset.PropertyDescriptor{Name: "name"},
	)))

	registry.MustRegister(must(changeset.BuildEntityMetadata(EditionType,
		changeset.PropertyDescriptor{Name: "book", Kind: changeset.KindManyToOne, Owner: true, Primary: true},
		changeset.PropertyDescriptor{Name: "revision", Primary: true},
		changeset.PropertyDescriptor{Name: "notes"},
	)))

	return registry
}

// NewAuthor builds an unsaved author (no id assigned yet).
func NewAuthor(name, email string) *changeset.Entity {
	return changeset.BuildEntity(AuthorType).
		Set("name", name).
		Set("email", email)
}

// NewSavedAuthor builds an author with a freshly assigned uuid key.
func NewSavedAuthor(name, email string) *changeset.Entity {
	return NewAuthor(name, email).Set("id", uuid.New())
}

// NewBook builds an unsaved book by the given author, with relation fields
// in their uninitialized state.
func NewBook(title string, author *changeset.Entity) *changeset.Entity {
	return changeset.BuildEntity(BookType).
		Set("title", title).
		Set("author", author).
		Set("publisher", changeset.Unset).
		Set("tags", changeset.NewCollection())
}

// NewSavedBook builds a book with a freshly assigned uuid key.
func NewSavedBook(title string, author *changeset.Entity) *changeset.Entity {
	return NewBook(title, author).Set("id", uuid.New())
}

// NewPublisher builds a publisher with a freshly assigned uuid key.
func NewPublisher(name string) *changeset.Entity {
	return changeset.BuildEntity(PublisherType).
		Set("id", uuid.New()).
		Set("name", name)
}

// NewTag builds a tag with a document-store style ObjectID key.
func NewTag(id ObjectID, name string) *changeset.Entity {
	return changeset.BuildEntity(TagType).
		Set("_id", id).
		Set("name", name)
}

// NewEdition builds an edition identified by the composite key
// [book, revision].
func NewEdition(book *changeset.Entity, revision int, notes string) *changeset.Entity {
	return changeset.BuildEntity(EditionType).
		Set("book", book).
		Set("revision", revision).
		Set("notes", notes)
}

func must(meta changeset.EntityMetadata, err error) changeset.EntityMetadata {
	if err != nil {
		panic(err)
	}
	return meta
}
