package parsers

import (
	"github.com/username/portfolion/backend/src/extract"
	"github.com/username/portfolion/backend/src/parsers/anycoin"
	"github.com/username/portfolion/backend/src/parsers/degiro"
	"github.com/username/portfolion/backend/src/parsers/fio"
	"github.com/username/portfolion/backend/src/parsers/patria"
	"github.com/username/portfolion/backend/src/parsers/xtb"
)

// Registry resolves the provider parser for a piece of extracted content by
// content-signature sniffing. Parsers are tried in registration order.
type Registry struct {
	parsers []Parser
}

// NewRegistry returns the registry with every supported provider.
func NewRegistry() *Registry {
	return &Registry{parsers: []Parser{
		fio.NewParser(),
		degiro.NewParser(),
		patria.NewParser(),
		xtb.NewParser(),
		anycoin.NewParser(),
	}}
}

// Register appends a parser; later registrations lose sniffing ties.
func (r *Registry) Register(p Parser) {
	r.parsers = append(r.parsers, p)
}

// Detect returns the first parser that accepts the content shape and
// recognizes its signature.
func (r *Registry) Detect(content extract.Content) (Parser, bool) {
	for _, p := range r.parsers {
		if p.Accepts(content.Kind) && p.Sniff(content) {
			return p, true
		}
	}
	return nil, false
}
