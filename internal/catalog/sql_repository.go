package catalog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/daap14/quotator/internal/store"
)

// SQLRepository implements Repository on top of the shared store.
type SQLRepository struct {
	store *store.Store
}

// NewSQLRepository creates a new Repository backed by the given store.
func NewSQLRepository(s *store.Store) Repository {
	return &SQLRepository{store: s}
}

const flavorColumns = `id, name, vcpus, ram_gb, price_hourly, price_monthly,
	price_yearly_1, price_yearly_3, region, created_at`

const diskTypeColumns = `id, name, price_per_gb, region, created_at`

// ListFlavors returns every flavor ordered by vCPU count, then RAM.
func (r *SQLRepository) ListFlavors(ctx context.Context) ([]Flavor, error) {
	var flavors []Flavor
	err := r.store.Run(ctx, func(q store.Querier) error {
		var err error
		flavors, err = listFlavors(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return flavors, nil
}

// FindBestMatch returns the cheapest flavors that satisfy both minimums,
// at most BestMatchLimit of them. Equal hourly prices are ordered by id.
func (r *SQLRepository) FindBestMatch(ctx context.Context, minVCPUs int, minRAMGB float64) ([]Flavor, error) {
	query := `SELECT ` + flavorColumns + `
		FROM flavors
		WHERE vcpus >= ? AND ram_gb >= ?
		ORDER BY price_hourly ASC, id ASC
		LIMIT ?`

	flavors := []Flavor{}
	err := r.store.Run(ctx, func(q store.Querier) error {
		return sqlx.SelectContext(ctx, q, &flavors, q.Rebind(query), minVCPUs, minRAMGB, BestMatchLimit)
	})
	if err != nil {
		return nil, fmt.Errorf("finding best match flavors: %w", err)
	}
	return nonNil(flavors), nil
}

// ListDiskTypes returns every disk type ordered by price per GB.
func (r *SQLRepository) ListDiskTypes(ctx context.Context) ([]DiskType, error) {
	var disks []DiskType
	err := r.store.Run(ctx, func(q store.Querier) error {
		var err error
		disks, err = listDiskTypes(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return disks, nil
}

// Pricing returns flavors and disk types read under a single lock.
func (r *SQLRepository) Pricing(ctx context.Context) (*Pricing, error) {
	var p Pricing
	err := r.store.Run(ctx, func(q store.Querier) error {
		var err error
		if p.Flavors, err = listFlavors(ctx, q); err != nil {
			return err
		}
		p.DiskTypes, err = listDiskTypes(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func listFlavors(ctx context.Context, q store.Querier) ([]Flavor, error) {
	query := `SELECT ` + flavorColumns + ` FROM flavors ORDER BY vcpus ASC, ram_gb ASC, id ASC`

	var flavors []Flavor
	if err := sqlx.SelectContext(ctx, q, &flavors, q.Rebind(query)); err != nil {
		return nil, fmt.Errorf("listing flavors: %w", err)
	}
	return nonNil(flavors), nil
}

func listDiskTypes(ctx context.Context, q store.Querier) ([]DiskType, error) {
	query := `SELECT ` + diskTypeColumns + ` FROM disk_types ORDER BY price_per_gb ASC, id ASC`

	var disks []DiskType
	if err := sqlx.SelectContext(ctx, q, &disks, q.Rebind(query)); err != nil {
		return nil, fmt.Errorf("listing disk types: %w", err)
	}
	return nonNil(disks), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
