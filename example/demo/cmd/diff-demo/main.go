// Command diff-demo walks through a typical change-detection cycle on the
// bookshelf example domain: snapshot an entity as loaded, mutate it the way
// an application would, and print the resulting field-level changes.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ormkit/changeset-go/changeset"
	"github.com/ormkit/changeset-go/changeset/oteladapters"
	"github.com/ormkit/changeset-go/example/bookshelf"
)

func main() {
	verbose := flag.Bool("verbose", false, "log normalization and diffing at debug level")
	flag.Parse()

	opts := make([]changeset.Option, 0, 1)
	if *verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, changeset.WithLogger(oteladapters.NewSlogLoggerWithHandler(handler)))
	}

	detector, err := changeset.New(bookshelf.NewRegistry(), opts...)
	if err != nil {
		log.Fatalf("Failed to create change detector: %v", err)
	}

	author := bookshelf.NewAuthor("Ursula K. Le Guin")
	book := bookshelf.NewBook("The Dispossessed", 18.50, author)

	// Snapshot the entity as it came out of storage.
	loaded, err := detector.PrepareEntity(book)
	if err != nil {
		log.Fatalf("Failed to prepare entity: %v", err)
	}

	// The application now works with the live entity.
	book.Set("title", "The Dispossessed: An Ambiguous Utopia")
	book.Set("price", 21.00)
	book.Set("shelf", bookshelf.NewShelf("science fiction"))

	changes, err := detector.DiffEntities(loaded, book)
	if err != nil {
		log.Fatalf("Failed to diff entities: %v", err)
	}

	if changes.IsEmpty() {
		fmt.Println("no changes detected")
		return
	}

	payload, err := changes.ToJSON()
	if err != nil {
		log.Fatalf("Failed to encode changes: %v", err)
	}

	fmt.Printf("changed fields: %v\n", changes.Names())
	fmt.Printf("update payload: %s\n", payload)
}
