package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/penny/internal/importer/generic"
	"github.com/MrJamesThe3rd/penny/internal/ledger"
)

type Source string

const (
	SourceGeneric Source = "generic"
)

type Parser interface {
	Parse(r io.Reader) ([]ledger.Transaction, error)
}

type Service struct {
	genericParser Parser
}

func NewService() *Service {
	return &Service{
		genericParser: generic.NewParser(),
	}
}

func (s *Service) Import(source Source, r io.Reader) ([]ledger.Transaction, error) {
	var parser Parser

	switch source {
	case SourceGeneric:
		parser = s.genericParser
	default:
		return nil, fmt.Errorf("unknown source: %s", source)
	}

	return parser.Parse(r)
}
