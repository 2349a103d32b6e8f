package repository

import (
	"context"
	"time"

	"jp_storefront/internal/apperr"
	"jp_storefront/internal/models"

	"github.com/gocql/gocql"
)

const productColumns = `product_id, name, name_ta, category_id, price, offer_price, unit, image_url,
	description, description_ta, in_stock, is_offer, is_best_seller, is_fresh, weights, created_at, updated_at`

func productDest(p *models.Product) []interface{} {
	return []interface{}{
		&p.ID, &p.Name, &p.NameTA, &p.CategoryID, &p.Price, &p.OfferPrice, &p.Unit, &p.ImageURL,
		&p.Description, &p.DescriptionTA, &p.InStock, &p.IsOffer, &p.IsBestSeller, &p.IsFresh,
		&p.Weights, &p.CreatedAt, &p.UpdatedAt,
	}
}

func (s *Scylla) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	iter := s.query(ctx, `SELECT `+productColumns+` FROM products`).Iter()

	var all []models.Product
	var p models.Product
	for iter.Scan(productDest(&p)...) {
		all = append(all, p)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Persistence("list products", err)
	}
	return selectProducts(all, filter), nil
}

func (s *Scylla) GetProduct(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	var p models.Product
	err := s.query(ctx, `SELECT `+productColumns+` FROM products WHERE product_id = ?`, id).
		Scan(productDest(&p)...)
	if err != nil {
		return nil, scanErr("get product", err)
	}
	return &p, nil
}

func (s *Scylla) writeProduct(ctx context.Context, p *models.Product) error {
	return s.query(ctx, `INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.NameTA, p.CategoryID, p.Price, p.OfferPrice, p.Unit, p.ImageURL,
		p.Description, p.DescriptionTA, p.InStock, p.IsOffer, p.IsBestSeller, p.IsFresh,
		p.Weights, p.CreatedAt, p.UpdatedAt).Exec()
}

func (s *Scylla) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == (gocql.UUID{}) {
		p.ID = gocql.TimeUUID()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return apperr.Persistence("insert product", s.writeProduct(ctx, p))
}

func (s *Scylla) UpdateProduct(ctx context.Context, id gocql.UUID, patch models.ProductPatch) (*models.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(p)
	p.UpdatedAt = time.Now()
	if err := s.writeProduct(ctx, p); err != nil {
		return nil, apperr.Persistence("update product", err)
	}
	return p, nil
}

func (s *Scylla) DeleteProduct(ctx context.Context, id gocql.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return apperr.Persistence("delete product",
		s.query(ctx, `DELETE FROM products WHERE product_id = ?`, id).Exec())
}

func (s *Scylla) ListCategories(ctx context.Context) ([]models.Category, error) {
	iter := s.query(ctx, `SELECT category_id, name, name_ta, icon, created_at FROM categories`).Iter()

	var cats []models.Category
	var c models.Category
	for iter.Scan(&c.ID, &c.Name, &c.NameTA, &c.Icon, &c.CreatedAt) {
		cats = append(cats, c)
		c = models.Category{}
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Persistence("list categories", err)
	}
	sortCategories(cats)
	return cats, nil
}

func (s *Scylla) GetCategory(ctx context.Context, id gocql.UUID) (*models.Category, error) {
	var c models.Category
	err := s.query(ctx, `SELECT category_id, name, name_ta, icon, created_at FROM categories WHERE category_id = ?`, id).
		Scan(&c.ID, &c.Name, &c.NameTA, &c.Icon, &c.CreatedAt)
	if err != nil {
		return nil, scanErr("get category", err)
	}
	return &c, nil
}

func (s *Scylla) writeCategory(ctx context.Context, c *models.Category) error {
	return s.query(ctx, `INSERT INTO categories (category_id, name, name_ta, icon, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.NameTA, c.Icon, c.CreatedAt).Exec()
}

func (s *Scylla) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.ID == (gocql.UUID{}) {
		c.ID = gocql.TimeUUID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	return apperr.Persistence("insert category", s.writeCategory(ctx, c))
}

func (s *Scylla) UpdateCategory(ctx context.Context, id gocql.UUID, patch models.CategoryPatch) (*models.Category, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(c)
	if err := s.writeCategory(ctx, c); err != nil {
		return nil, apperr.Persistence("update category", err)
	}
	return c, nil
}

func (s *Scylla) DeleteCategory(ctx context.Context, id gocql.UUID) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	return apperr.Persistence("delete category",
		s.query(ctx, `DELETE FROM categories WHERE category_id = ?`, id).Exec())
}
