package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sabsesasta/price-service/internal/comparison"
)

var (
	// ErrListNotFound is returned when a list does not exist or belongs to another user.
	ErrListNotFound = errors.New("shopping list not found")

	// ErrInvalidListID is returned when a list id is not a UUID.
	ErrInvalidListID = errors.New("invalid list ID")
)

// vendorNamespace derives stable vendor ids from names during import.
var vendorNamespace = uuid.MustParse("6f1c2d8e-3b7a-4c55-9a0e-1d2f3e4a5b6c")

// Repository reads listings and shopping lists from Postgres.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a repository over a pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const listingsQuery = `
	SELECT vl.id AS listing_id,
	       vl.product_id,
	       vl.display_name,
	       vl.base_product_name,
	       vl.price::float8 AS price,
	       vl.stock_quantity,
	       vl.is_available,
	       v.id AS vendor_id,
	       v.name AS vendor_name,
	       p.display_name AS catalog_display_name,
	       p.base_product_name AS catalog_base_product_name,
	       p.aliases
	FROM vendor_listings vl
	LEFT JOIN vendors v ON v.id = vl.vendor_id
	LEFT JOIN products p ON p.id = vl.product_id
	ORDER BY vl.seq
`

// Listings loads every vendor-joined listing in insertion order.
func (r *Repository) Listings(ctx context.Context) ([]comparison.VendorListing, error) {
	rows, err := r.db.Query(ctx, listingsQuery)
	if err != nil {
		return nil, fmt.Errorf("error querying listings: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("error reading listings: %w", err)
	}

	out := make([]comparison.VendorListing, 0, len(records))
	for _, rec := range records {
		out = append(out, comparison.ListingFromRecord(comparison.Record(rec)))
	}
	return out, nil
}

const listItemsQuery = `
	SELECT sli.product_id,
	       COALESCE(p.display_name, sli.custom_name) AS display_name,
	       p.base_product_name,
	       sli.quantity
	FROM shopping_list_items sli
	LEFT JOIN products p ON p.id = sli.product_id
	WHERE sli.list_id = $1
	ORDER BY sli.position, sli.id
`

// ListItems loads the items of a list owned by userID.
func (r *Repository) ListItems(ctx context.Context, listID, userID string) ([]comparison.RequestedItem, error) {
	id, err := uuid.Parse(strings.TrimSpace(listID))
	if err != nil {
		return nil, ErrInvalidListID
	}

	var owner string
	err = r.db.QueryRow(ctx, `SELECT user_id FROM shopping_lists WHERE id = $1`, id).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrListNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying shopping list: %w", err)
	}
	if owner != userID {
		return nil, ErrListNotFound
	}

	rows, err := r.db.Query(ctx, listItemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("error querying list items: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("error reading list items: %w", err)
	}

	out := make([]comparison.RequestedItem, 0, len(records))
	for _, rec := range records {
		out = append(out, comparison.ItemFromRecord(comparison.Record(rec)))
	}
	return out, nil
}

// CreateShoppingList stores a list with its items and returns the new list.
func (r *Repository) CreateShoppingList(ctx context.Context, userID, name string, items []ShoppingListItem) (*ShoppingList, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	list := ShoppingList{ID: uuid.NewString(), UserID: userID, Name: name}
	err = tx.QueryRow(ctx, `
		INSERT INTO shopping_lists (id, user_id, name) VALUES ($1, $2, $3)
		RETURNING created_at
	`, list.ID, userID, name).Scan(&list.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert shopping list: %w", err)
	}

	if len(items) > 0 {
		batch := &pgx.Batch{}
		for i, item := range items {
			batch.Queue(`
				INSERT INTO shopping_list_items (id, list_id, product_id, custom_name, quantity, position)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, uuid.NewString(), list.ID, nullable(item.ProductID), nullable(item.CustomName), item.Quantity, i)
		}
		if err := execBatch(ctx, tx, batch, len(items)); err != nil {
			return nil, fmt.Errorf("failed to insert list items: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &list, nil
}

// ImportListings upserts vendors, catalog products and listings from a
// snapshot. Vendors without an id get one derived from their name.
func (r *Repository) ImportListings(ctx context.Context, listings []comparison.VendorListing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	queued := 0
	for _, l := range listings {
		vendorID := l.VendorID
		if vendorID == "" {
			vendorID = uuid.NewSHA1(vendorNamespace, []byte(comparison.Normalize(l.VendorName))).String()
		}
		batch.Queue(`
			INSERT INTO vendors (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = COALESCE(EXCLUDED.name, vendors.name)
		`, vendorID, nullable(l.VendorName))
		queued++

		if l.ProductID != "" {
			aliases := l.Aliases
			if aliases == nil {
				aliases = []string{}
			}
			batch.Queue(`
				INSERT INTO products (id, display_name, base_product_name, aliases) VALUES ($1, $2, $3, $4)
				ON CONFLICT (id) DO NOTHING
			`, l.ProductID, nullable(l.DisplayName), nullable(l.BaseProductName), aliases)
			queued++
		}

		listingID := l.ListingID
		if listingID == "" {
			listingID = uuid.NewString()
		}
		batch.Queue(`
			INSERT INTO vendor_listings (id, vendor_id, product_id, display_name, base_product_name, price, stock_quantity, is_available)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				vendor_id = EXCLUDED.vendor_id,
				product_id = EXCLUDED.product_id,
				display_name = EXCLUDED.display_name,
				base_product_name = EXCLUDED.base_product_name,
				price = EXCLUDED.price,
				stock_quantity = EXCLUDED.stock_quantity,
				is_available = EXCLUDED.is_available
		`, listingID, vendorID, nullable(l.ProductID), nullable(l.DisplayName), nullable(l.BaseProductName),
			l.Price, l.StockQuantity, l.IsAvailable)
		queued++
	}

	if err := execBatch(ctx, tx, batch, queued); err != nil {
		return 0, fmt.Errorf("failed to import listings: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(listings), nil
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, n int) error {
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("statement %d: %w", i, err)
		}
	}
	return br.Close()
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
