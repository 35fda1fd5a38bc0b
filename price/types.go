package price

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ErrUnknownToken is the cause of every lookup for a symbol outside the token table
var ErrUnknownToken = errors.New("unknown token symbol")

var ErrMalformedResponse = errors.New("malformed response body")

type SymbolPrice struct {
	Symbol        string
	Address       string
	Price         float64
	Chain         string
	SpecificChain string
	UpdateAt      time.Time
}

// APIError is a well-formed response with "success" unset or false
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("price api error: %s", e.Message)
}

type query struct {
	chain         string
	specificChain string
}

type Option func(*query)

func WithChain(chain string) Option {
	return func(q *query) {
		if chain != "" {
			q.chain = chain
		}
	}
}

func WithSpecificChain(specificChain string) Option {
	return func(q *query) {
		if specificChain != "" {
			q.specificChain = specificChain
		}
	}
}
