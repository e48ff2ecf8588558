package middleware

import (
	"context"
	"sort"
)

// Chain executes middleware in ascending order
type Chain struct {
	middlewares []Middleware
}

// NewChain creates a new middleware chain. Disabled middlewares are
// dropped up front.
func NewChain(middlewares []Middleware) *Chain {
	enabled := make([]Middleware, 0, len(middlewares))
	for _, mw := range middlewares {
		if mw.Enabled() {
			enabled = append(enabled, mw)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Order() < enabled[j].Order()
	})

	return &Chain{middlewares: enabled}
}

// Execute runs the request through every middleware and finally the
// handler
func (c *Chain) Execute(ctx context.Context, req *MCPRequest, finalHandler Handler) (*MCPResponse, error) {
	index := 0
	var next Handler
	next = func(ctx context.Context) (*MCPResponse, error) {
		if index >= len(c.middlewares) {
			return finalHandler(ctx)
		}
		mw := c.middlewares[index]
		index++
		return mw.Execute(ctx, req, next)
	}

	return next(ctx)
}
