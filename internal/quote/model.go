package quote

import (
	"math"

	"github.com/google/uuid"

	"github.com/daap14/quotator/internal/store"
)

// Sortable fields and directions accepted by ListPage.
const (
	SortByName      = "name"
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Page size bounds for ListPage.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// MaxPage is the largest page number whose row offset still fits in an int
// for the given page size.
func MaxPage(limit int) int {
	if limit < 1 {
		limit = DefaultPageLimit
	}
	return math.MaxInt / limit
}

// SortFields lists the fields a quote listing may be sorted by.
var SortFields = []string{SortByName, SortByCreatedAt, SortByUpdatedAt}

// Quote represents a row in the quotes table.
type Quote struct {
	ID        uuid.UUID       `db:"id"`
	Name      string          `db:"name"`
	CreatedAt store.Timestamp `db:"created_at"`
	UpdatedAt store.Timestamp `db:"updated_at"`
}

// ItemFields holds the optional, client-supplied columns of a quote item.
// A nil field is absent: it is stored as NULL on create and left untouched
// on update. There is no way to clear a field once it has been set.
type ItemFields struct {
	FlavorID     *string  `db:"flavor_id"`
	FlavorName   *string  `db:"flavor_name"`
	VCPUs        *int     `db:"vcpus"`
	RAMGB        *float64 `db:"ram_gb"`
	FlavorPrice  *float64 `db:"flavor_price"`
	DiskTypeID   *string  `db:"disk_type_id"`
	DiskTypeName *string  `db:"disk_type_name"`
	DiskSizeGB   *int     `db:"disk_size_gb"`
	DiskPrice    *float64 `db:"disk_price"`
	Hostname     *string  `db:"hostname"`
	CodeNumber   *string  `db:"code_number"`
	Description  *string  `db:"description"`
}

// IsEmpty reports whether no field is set.
func (f ItemFields) IsEmpty() bool {
	return len(f.assignments()) == 0
}

type assignment struct {
	column string
	value  any
}

// assignments returns the set fields in column order.
func (f ItemFields) assignments() []assignment {
	var out []assignment
	add := func(column string, set bool, value any) {
		if set {
			out = append(out, assignment{column: column, value: value})
		}
	}
	add("flavor_id", f.FlavorID != nil, f.FlavorID)
	add("flavor_name", f.FlavorName != nil, f.FlavorName)
	add("vcpus", f.VCPUs != nil, f.VCPUs)
	add("ram_gb", f.RAMGB != nil, f.RAMGB)
	add("flavor_price", f.FlavorPrice != nil, f.FlavorPrice)
	add("disk_type_id", f.DiskTypeID != nil, f.DiskTypeID)
	add("disk_type_name", f.DiskTypeName != nil, f.DiskTypeName)
	add("disk_size_gb", f.DiskSizeGB != nil, f.DiskSizeGB)
	add("disk_price", f.DiskPrice != nil, f.DiskPrice)
	add("hostname", f.Hostname != nil, f.Hostname)
	add("code_number", f.CodeNumber != nil, f.CodeNumber)
	add("description", f.Description != nil, f.Description)
	return out
}

// Item represents a row in the quote_items table.
type Item struct {
	ID      uuid.UUID `db:"id"`
	QuoteID uuid.UUID `db:"quote_id"`
	ItemFields
	CreatedAt store.Timestamp `db:"created_at"`
	UpdatedAt store.Timestamp `db:"updated_at"`
}

// ListFilter holds search, sort and pagination options for listing quotes.
type ListFilter struct {
	Search    string // case-insensitive substring of the name
	SortBy    string // one of SortFields, default updated_at
	SortOrder string // asc or desc, default desc
	Page      int    // default 1
	Limit     int    // default DefaultPageLimit
}

// ListResult holds one page of quotes.
type ListResult struct {
	Quotes     []Quote
	Total      int
	Page       int
	Limit      int
	TotalPages int
}
