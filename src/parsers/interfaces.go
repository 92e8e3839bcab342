package parsers

import (
	"github.com/username/portfolion/backend/src/extract"
	"github.com/username/portfolion/backend/src/models"
)

// Parser is the provider strategy: one statement format it can recognize
// and parse. Parse is a pure function of its content and performs no I/O.
// A block or row the parser cannot assemble a complete record from is
// dropped as non-transactional noise, never an error; content of a shape
// the parser does not accept yields a *textblock.WrongContentError.
type Parser interface {
	// Name is the fixed platform label attached to emitted records.
	Name() string
	// Accepts reports whether the parser consumes the given content shape.
	Accepts(kind extract.Kind) bool
	// Sniff reports whether the content carries this provider's signature.
	Sniff(content extract.Content) bool
	Parse(content extract.Content) ([]models.RawTransaction, error)
}
