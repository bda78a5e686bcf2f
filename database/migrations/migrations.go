// Package migrations contains the schema migrations. Each file registers its
// migrations from init(); cmd/inventory imports this package for the side
// effect.
package migrations
