package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/booksandchill/storefront/internal/catalog"
)

// CatalogRepo is the Postgres-backed catalog.Provider, used when a DSN
// is configured instead of the bundled JSON data files.
type CatalogRepo struct{ DB *pgxpool.Pool }

func (r *CatalogRepo) Products(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, title, author, price, COALESCE(original_price, 0), COALESCE(discount_percent, 0),
		       categories, rating, review_count,
		       COALESCE(format, ''), COALESCE(pages, 0), COALESCE(publisher, ''),
		       COALESCE(language, ''), COALESCE(description, ''), bestseller
		FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Author, &p.Price, &p.OriginalPrice, &p.DiscountPercent,
			&p.Category, &p.Rating, &p.ReviewCount,
			&p.Format, &p.Pages, &p.Publisher, &p.Language, &p.Description, &p.Bestseller); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) Reviews(ctx context.Context) ([]catalog.Review, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, reviewer, rating, review_date, body
		FROM reviews ORDER BY product_id, review_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Review
	for rows.Next() {
		var rv catalog.Review
		if err := rows.Scan(&rv.ProductID, &rv.User, &rv.Rating, &rv.Date, &rv.Text); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
