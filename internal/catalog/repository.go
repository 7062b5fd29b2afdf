// Package catalog reads the flavor and disk type price lists. The catalog is
// written by the crawler service; this package never modifies it.
package catalog

import "context"

// Repository provides read access to the catalog tables.
type Repository interface {
	ListFlavors(ctx context.Context) ([]Flavor, error)
	FindBestMatch(ctx context.Context, minVCPUs int, minRAMGB float64) ([]Flavor, error)
	ListDiskTypes(ctx context.Context) ([]DiskType, error)
	Pricing(ctx context.Context) (*Pricing, error)
}
