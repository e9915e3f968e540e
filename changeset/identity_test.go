package changeset_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormkit/changeset-go/changeset"
	"github.com/ormkit/changeset-go/testutil"
)

func Test_IsIdentity(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{name: "string", value: "abc", expected: true},
		{name: "int", value: 42, expected: true},
		{name: "int64", value: int64(42), expected: true},
		{name: "uint", value: uint(7), expected: true},
		{name: "float64", value: 1.5, expected: true},
		{name: "uuid", value: uuid.New(), expected: true},
		{name: "opaque_identifier", value: testutil.ObjectID("507f1f77"), expected: true},
		{name: "nil", value: nil, expected: false},
		{name: "bool", value: true, expected: false},
		{name: "map", value: map[string]any{"id": 1}, expected: false},
		{name: "slice", value: []any{1}, expected: false},
		{name: "entity", value: changeset.BuildEntity("X"), expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, changeset.IsIdentity(tc.value))
		})
	}
}

func Test_ExtractIdentity_KeyShapedInputPassesThrough(t *testing.T) {
	registry := testutil.NewLibraryRegistry()

	id := uuid.New()
	assert.Equal(t, id, changeset.ExtractIdentity(id, registry))
	assert.Equal(t, "abc", changeset.ExtractIdentity("abc", registry))
	assert.Equal(t, 42, changeset.ExtractIdentity(42, registry))
}

func Test_ExtractIdentity_FromSavedEntity(t *testing.T) {
	registry := testutil.NewLibraryRegistry()

	author := testutil.NewSavedAuthor("Jane", "jane@example.com")
	id, _ := author.Get("id")

	assert.Equal(t, id, changeset.ExtractIdentity(author, registry))
}

func Test_ExtractIdentity_FromUnsavedEntityIsNil(t *testing.T) {
	registry := testutil.NewLibraryRegistry()

	author := testutil.NewAuthor("Jane", "jane@example.com")

	assert.Nil(t, changeset.ExtractIdentity(author, registry))
}

func Test_ExtractIdentity_SerializedFormFallback(t *testing.T) {
	registry := testutil.NewLibraryRegistry()

	// Raw data that carries the serialized key "id" instead of "_id".
	tag := changeset.BuildEntity(testutil.TagType).Set("id", "serialized-key")

	assert.Equal(t, "serialized-key", changeset.ExtractIdentity(tag, registry))
}

func Test_ExtractIdentity_References(t *testing.T) {
	registry := testutil.NewLibraryRegistry()

	author := testutil.NewSavedAuthor("Jane", "jane@example.com")
	id, _ := author.Get("id")

	resolved := changeset.Ref(author)
	assert.Equal(t, id, changeset.ExtractIdentity(resolved, registry))

	unresolved := changeset.RefID(int64(99))
	assert.Equal(t, int64(99), changeset.ExtractIdentity(unresolved, registry))
}

func Test_ExtractIdentity_NoMetadataAndNotKeyShaped(t *testing.T) {
	registry := testutil.NewLibraryRegistry()

	unknown := changeset.BuildEntity("Nowhere").Set("id", 1)

	assert.Nil(t, changeset.ExtractIdentity(unknown, registry))
	assert.Nil(t, changeset.ExtractIdentity(map[string]any{"id": 1}, registry))
	assert.Nil(t, changeset.ExtractIdentity(nil, registry))
}

func Test_IdentityFromData_SingleAndComposite(t *testing.T) {
	registry := testutil.NewLibraryRegistry()

	authorMeta, err := registry.Get(testutil.AuthorType)
	require.NoError(t, err)

	id := uuid.New()
	assert.Equal(t, id, changeset.IdentityFromData(map[string]any{"id": id}, authorMeta, registry))
	assert.Nil(t, changeset.IdentityFromData(map[string]any{"name": "no key"}, authorMeta, registry))
	assert.Nil(t, changeset.IdentityFromData(nil, authorMeta, registry))

	editionMeta, err := registry.Get(testutil.EditionType)
	require.NoError(t, err)

	book := testutil.NewSavedBook("Go", testutil.NewSavedAuthor("Jane", "jane@example.com"))
	bookID, _ := book.Get("id")

	composite := changeset.IdentityFromData(map[string]any{"book": book, "revision": 3}, editionMeta, registry)
	assert.Equal(t, fmt.Sprintf("%s~3", bookID), composite)
}

func Test_CompositeIdentity_FixedDeclaredOrder(t *testing.T) {
	meta, err := changeset.BuildEntityMetadata("Point",
		changeset.PropertyDescriptor{Name: "a", Primary: true},
		changeset.PropertyDescriptor{Name: "b", Primary: true},
	)
	require.NoError(t, err)

	// The join order comes from the declared key-field order, not from the
	// order fields were assigned on the instance.
	forward := changeset.BuildEntity("Point").Set("a", 1).Set("b", "x")
	backward := changeset.BuildEntity("Point").Set("b", "x").Set("a", 1)

	for range 10 {
		assert.Equal(t, "1~x", changeset.CompositeIdentity(forward, meta, nil))
		assert.Equal(t, "1~x", changeset.CompositeIdentity(backward, meta, nil))
	}
}

func Test_CompositeIdentity_NestedEntityReference(t *testing.T) {
	registry := testutil.NewLibraryRegistry()

	editionMeta, err := registry.Get(testutil.EditionType)
	require.NoError(t, err)

	book := testutil.NewSavedBook("Go", testutil.NewSavedAuthor("Jane", "jane@example.com"))
	bookID, _ := book.Get("id")

	edition := testutil.NewEdition(book, 2, "second print")

	assert.Equal(t,
		fmt.Sprintf("%s~2", bookID),
		changeset.CompositeIdentity(edition, editionMeta, registry))
}

func Test_CompositeIdentity_NilKeyFieldYieldsEmptySegment(t *testing.T) {
	registry := testutil.NewLibraryRegistry()

	editionMeta, err := registry.Get(testutil.EditionType)
	require.NoError(t, err)

	edition := changeset.BuildEntity(testutil.EditionType).Set("revision", 1)

	// The missing "book" segment stays empty rather than failing; callers
	// treat an identity with an empty segment as not fully assigned.
	assert.Equal(t, "~1", changeset.CompositeIdentity(edition, editionMeta, registry))
}

func Test_ExtractIdentity_CyclicKeyMetadataTerminates(t *testing.T) {
	registry := changeset.NewRegistry()

	chickenMeta, err := changeset.BuildEntityMetadata("Chicken",
		changeset.PropertyDescriptor{Name: "egg", Kind: changeset.KindManyToOne, Owner: true, Primary: true},
	)
	require.NoError(t, err)
	require.NoError(t, registry.Register(chickenMeta))

	eggMeta, err := changeset.BuildEntityMetadata("Egg",
		changeset.PropertyDescriptor{Name: "chicken", Kind: changeset.KindManyToOne, Owner: true, Primary: true},
	)
	require.NoError(t, err)
	require.NoError(t, registry.Register(eggMeta))

	chicken := changeset.BuildEntity("Chicken")
	egg := changeset.BuildEntity("Egg")
	chicken.Set("egg", egg)
	egg.Set("chicken", chicken)

	// The depth bound makes resolution terminate; no identity is
	// determinable in such a cycle.
	assert.Nil(t, changeset.ExtractIdentity(chicken, registry))
}
