// Package bookshelf is a small example domain showing how a host application
// declares entity metadata and feeds live entities into the change detector.
package bookshelf

import (
	"github.com/google/uuid"

	"github.com/ormkit/changeset-go/changeset"
)

// Entity type names of the bookshelf domain.
const (
	AuthorType = "Author"
	BookType   = "Book"
	ShelfType  = "Shelf"
)

// PriceCodec stores a decimal price as integer cents.
type PriceCodec struct{}

// ToStorage converts a float price to integer cents.
func (PriceCodec) ToStorage(value any) any {
	price, ok := value.(float64)
	if !ok {
		return value
	}
	return int64(price*100 + 0.5)
}

// NewRegistry builds the metadata registry for the bookshelf domain.
func NewRegistry() *changeset.Registry {
	registry := changeset.NewRegistry()

	registry.MustRegister(mustMetadata(changeset.BuildEntityMetadata(AuthorType,
		changeset.PropertyDescriptor{Name: "id", Primary: true},
		changeset.PropertyDescriptor{Name: "name"},
		changeset.PropertyDescriptor{Name: "books", Kind: changeset.KindOneToMany, Inverse: "author"},
	)))

	registry.MustRegister(mustMetadata(changeset.BuildEntityMetadata(BookType,
		changeset.PropertyDescriptor{Name: "id", Primary: true},
		changeset.PropertyDescriptor{Name: "title"},
		changeset.PropertyDescriptor{Name: "price", Codec: PriceCodec{}},
		changeset.PropertyDescriptor{Name: "metadata"},
		changeset.PropertyDescriptor{Name: "author", Kind: changeset.KindManyToOne, Owner: true, Inverse: "books"},
		changeset.PropertyDescriptor{Name: "shelf", Kind: changeset.KindManyToOne, Owner: true, Inverse: "books"},
	)))

	registry.MustRegister(mustMetadata(changeset.BuildEntityMetadata(ShelfType,
		changeset.PropertyDescriptor{Name: "id", Primary: true},
		changeset.PropertyDescriptor{Name: "label"},
		changeset.PropertyDescriptor{Name: "books", Kind: changeset.KindOneToMany, Inverse: "shelf"},
	)))

	return registry
}

// NewAuthor builds a saved author.
func NewAuthor(name string) *changeset.Entity {
	return changeset.BuildEntity(AuthorType).
		Set("id", uuid.New()).
		Set("name", name)
}

// NewBook builds a saved book by the given author.
func NewBook(title string, price float64, author *changeset.Entity) *changeset.Entity {
	return changeset.BuildEntity(BookType).
		Set("id", uuid.New()).
		Set("title", title).
		Set("price", price).
		Set("author", author).
		Set("shelf", changeset.Unset)
}

// NewShelf builds a saved shelf.
func NewShelf(label string) *changeset.Entity {
	return changeset.BuildEntity(ShelfType).
		Set("id", uuid.New()).
		Set("label", label)
}

func mustMetadata(meta changeset.EntityMetadata, err error) changeset.EntityMetadata {
	if err != nil {
		panic(err)
	}
	return meta
}
