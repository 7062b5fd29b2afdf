package catalog

import "github.com/daap14/quotator/internal/store"

// BestMatchLimit caps the number of flavors returned by FindBestMatch.
const BestMatchLimit = 5

// Flavor represents a row in the flavors table.
type Flavor struct {
	ID           string          `db:"id"`
	Name         string          `db:"name"`
	VCPUs        int             `db:"vcpus"`
	RAMGB        float64         `db:"ram_gb"`
	PriceHourly  float64         `db:"price_hourly"`
	PriceMonthly float64         `db:"price_monthly"`
	PriceYearly1 float64         `db:"price_yearly_1"`
	PriceYearly3 float64         `db:"price_yearly_3"`
	Region       string          `db:"region"`
	CreatedAt    store.Timestamp `db:"created_at"`
}

// DiskType represents a row in the disk_types table.
type DiskType struct {
	ID         string          `db:"id"`
	Name       string          `db:"name"`
	PricePerGB float64         `db:"price_per_gb"`
	Region     string          `db:"region"`
	CreatedAt  store.Timestamp `db:"created_at"`
}

// Pricing is the full catalog read in one pass.
type Pricing struct {
	Flavors   []Flavor
	DiskTypes []DiskType
}
