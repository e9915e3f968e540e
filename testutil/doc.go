// Package testutil provides shared fixtures for changeset tests: a small
// library-catalog domain (authors, books, publishers, tags, editions) with
// registered metadata, entity builders, and spies for the observability
// interfaces.
package testutil
