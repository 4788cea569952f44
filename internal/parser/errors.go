package parser

import (
	"errors"
	"fmt"

	"ember/internal/source"
)

// ErrContract matches every *ContractError via errors.Is.
var ErrContract = errors.New("parser: internal contract violation")

// ContractError is a broken grammar assumption, e.g. a definition keyword
// that the keyword table does not reserve. It is a defect of the grammar or
// its configuration, not of the input.
type ContractError struct {
	Rule     string
	Location source.Location
	Detail   string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Rule, e.Location, e.Detail)
}

func (e *ContractError) Unwrap() error { return ErrContract }
