package quote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
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

const quoteColumns = `id, name, created_at, updated_at`

const itemColumns = `id, quote_id, flavor_id, flavor_name, vcpus, ram_gb, flavor_price,
	disk_type_id, disk_type_name, disk_size_gb, disk_price,
	hostname, code_number, description, created_at, updated_at`

// touchUpdatedAt never moves updated_at backwards, even if the clock does.
// It takes the new timestamp twice.
const touchUpdatedAt = `updated_at = CASE WHEN ? > updated_at THEN ? ELSE updated_at END`

var sortColumns = map[string]string{
	SortByName:      "name",
	SortByCreatedAt: "created_at",
	SortByUpdatedAt: "updated_at",
}

// List retrieves all quotes, most recently updated first.
func (r *SQLRepository) List(ctx context.Context) ([]Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes ORDER BY updated_at DESC, id DESC`

	quotes := []Quote{}
	err := r.store.Run(ctx, func(q store.Querier) error {
		return sqlx.SelectContext(ctx, q, &quotes, q.Rebind(query))
	})
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}
	if quotes == nil {
		quotes = []Quote{}
	}
	return quotes, nil
}

// ListPage retrieves one page of quotes matching the filter. Out-of-range
// pagination values and unknown sort options fall back to the defaults.
func (r *SQLRepository) ListPage(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageLimit
	}
	if filter.Limit > MaxPageLimit {
		filter.Limit = MaxPageLimit
	}
	if maxPage := MaxPage(filter.Limit); filter.Page > maxPage {
		filter.Page = maxPage
	}
	sortColumn, ok := sortColumns[filter.SortBy]
	if !ok {
		sortColumn = sortColumns[SortByUpdatedAt]
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, SortAsc) {
		direction = "ASC"
	}

	var whereClause string
	var args []any
	if search := strings.TrimSpace(filter.Search); search != "" {
		whereClause = `WHERE LOWER(name) LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(strings.ToLower(search))+"%")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM quotes %s`, whereClause)
	dataQuery := fmt.Sprintf(`SELECT %s FROM quotes %s ORDER BY %s %s, id %s LIMIT ? OFFSET ?`,
		quoteColumns, whereClause, sortColumn, direction, direction)
	offset := (filter.Page - 1) * filter.Limit

	var total int
	quotes := []Quote{}
	err := r.store.Run(ctx, func(q store.Querier) error {
		if err := sqlx.GetContext(ctx, q, &total, q.Rebind(countQuery), args...); err != nil {
			return fmt.Errorf("counting quotes: %w", err)
		}
		pageArgs := append(append([]any{}, args...), filter.Limit, offset)
		if err := sqlx.SelectContext(ctx, q, &quotes, q.Rebind(dataQuery), pageArgs...); err != nil {
			return fmt.Errorf("listing quotes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if quotes == nil {
		quotes = []Quote{}
	}

	return &ListResult{
		Quotes:     quotes,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

// Get retrieves a single quote by id.
func (r *SQLRepository) Get(ctx context.Context, id uuid.UUID) (*Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = ?`

	var quote Quote
	err := r.store.Run(ctx, func(q store.Querier) error {
		return sqlx.GetContext(ctx, q, &quote, q.Rebind(query), id)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("getting quote: %w", err)
	}
	return &quote, nil
}

// Create inserts a new quote with identical created and updated timestamps.
func (r *SQLRepository) Create(ctx context.Context, name string) (*Quote, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating quote id: %w", err)
	}
	now := r.store.Now()
	quote := &Quote{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}

	err = r.store.Run(ctx, func(q store.Querier) error {
		_, err := q.ExecContext(ctx,
			q.Rebind(`INSERT INTO quotes (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`),
			quote.ID, quote.Name, quote.CreatedAt, quote.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("inserting quote: %w", err)
	}
	return quote, nil
}

// Rename sets the name of a quote and refreshes its updated_at.
func (r *SQLRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	now := r.store.Now()
	query := `UPDATE quotes SET name = ?, ` + touchUpdatedAt + ` WHERE id = ?`

	err := r.store.Run(ctx, func(q store.Querier) error {
		_, err := q.ExecContext(ctx, q.Rebind(query), name, now, now, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("renaming quote: %w", err)
	}
	return nil
}

// Delete removes a quote and all of its items in one transaction.
func (r *SQLRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.store.RunTx(ctx, func(q store.Querier) error {
		if _, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM quote_items WHERE quote_id = ?`), id); err != nil {
			return fmt.Errorf("deleting quote items: %w", err)
		}
		if _, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM quotes WHERE id = ?`), id); err != nil {
			return fmt.Errorf("deleting quote: %w", err)
		}
		return nil
	})
	return err
}

// ListItems retrieves the items of a quote in creation order.
func (r *SQLRepository) ListItems(ctx context.Context, quoteID uuid.UUID) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM quote_items WHERE quote_id = ? ORDER BY created_at ASC, id ASC`

	items := []Item{}
	err := r.store.Run(ctx, func(q store.Querier) error {
		return sqlx.SelectContext(ctx, q, &items, q.Rebind(query), quoteID)
	})
	if err != nil {
		return nil, fmt.Errorf("listing quote items: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// CreateItem inserts a new item into a quote. Unset fields are stored as
// NULL. Returns ErrQuoteNotFound if the quote does not exist.
func (r *SQLRepository) CreateItem(ctx context.Context, quoteID uuid.UUID, fields ItemFields) (*Item, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating item id: %w", err)
	}
	now := r.store.Now()
	item := &Item{ID: id, QuoteID: quoteID, ItemFields: fields, CreatedAt: now, UpdatedAt: now}

	query := `INSERT INTO quote_items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	err = r.store.Run(ctx, func(q store.Querier) error {
		_, err := q.ExecContext(ctx, q.Rebind(query),
			item.ID, item.QuoteID,
			fields.FlavorID, fields.FlavorName, fields.VCPUs, fields.RAMGB, fields.FlavorPrice,
			fields.DiskTypeID, fields.DiskTypeName, fields.DiskSizeGB, fields.DiskPrice,
			fields.Hostname, fields.CodeNumber, fields.Description,
			item.CreatedAt, item.UpdatedAt,
		)
		return err
	})
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("inserting quote item: %w", err)
	}
	return item, nil
}

// UpdateItem overwrites the set fields of an item and refreshes its
// updated_at. Unset fields keep their stored values.
func (r *SQLRepository) UpdateItem(ctx context.Context, itemID uuid.UUID, fields ItemFields) error {
	now := r.store.Now()

	var setClauses []string
	var args []any
	for _, a := range fields.assignments() {
		setClauses = append(setClauses, a.column+" = ?")
		args = append(args, a.value)
	}
	setClauses = append(setClauses, touchUpdatedAt)
	args = append(args, now, now, itemID)

	query := fmt.Sprintf(`UPDATE quote_items SET %s WHERE id = ?`, strings.Join(setClauses, ", "))

	err := r.store.Run(ctx, func(q store.Querier) error {
		_, err := q.ExecContext(ctx, q.Rebind(query), args...)
		return err
	})
	if err != nil {
		return fmt.Errorf("updating quote item: %w", err)
	}
	return nil
}

// DeleteItem removes an item by id.
func (r *SQLRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	err := r.store.Run(ctx, func(q store.Querier) error {
		_, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM quote_items WHERE id = ?`), itemID)
		return err
	})
	if err != nil {
		return fmt.Errorf("deleting quote item: %w", err)
	}
	return nil
}

// escapeLike escapes the LIKE wildcards so they match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
