package supabase

import (
	"database/sql"
	"fmt"
	"strings"

	"gallery-backend/internal/models"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// NewDatabaseClientWithDB wraps an existing handle. Used by tests.
func NewDatabaseClientWithDB(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

func (d *DatabaseClient) CreateProduct(name, description string, price float64, category string) (*models.Product, error) {
	var product models.Product
	err := d.db.QueryRow(`
		INSERT INTO products (name, description, price, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, price, category, created_at, updated_at
	`, name, description, price, category).Scan(
		&product.ID, &product.Name, &product.Description,
		&product.Price, &product.Category, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &product, nil
}

func (d *DatabaseClient) ProductNameExists(name string) (bool, error) {
	var count int
	err := d.db.QueryRow(`
		SELECT COUNT(*) FROM products WHERE name = $1
	`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check product name: %w", err)
	}
	return count > 0, nil
}

func (d *DatabaseClient) GetProduct(productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := d.db.QueryRow(`
		SELECT id, name, description, price, category, created_at, updated_at
		FROM products
		WHERE id = $1
	`, productID).Scan(
		&product.ID, &product.Name, &product.Description,
		&product.Price, &product.Category, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	images, err := d.GetProductImages(productID)
	if err != nil {
		return nil, err
	}
	product.Images = images

	return &product, nil
}

func (d *DatabaseClient) ListProducts() ([]models.Product, error) {
	rows, err := d.db.Query(`
		SELECT id, name, description, price, category, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var product models.Product
		err := rows.Scan(
			&product.ID, &product.Name, &product.Description,
			&product.Price, &product.Category, &product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		index[product.ID] = len(products)
		products = append(products, product)
	}
	if len(products) == 0 {
		return products, nil
	}

	imageRows, err := d.db.Query(`
		SELECT id, product_id, storage_path, sort_order, created_at
		FROM product_images
		ORDER BY product_id, sort_order ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list product images: %w", err)
	}
	defer imageRows.Close()

	for imageRows.Next() {
		var image models.ProductImage
		err := imageRows.Scan(
			&image.ID, &image.ProductID, &image.StoragePath, &image.SortOrder, &image.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product image: %w", err)
		}
		if i, ok := index[image.ProductID]; ok {
			products[i].Images = append(products[i].Images, image)
		}
	}

	return products, nil
}

func (d *DatabaseClient) UpdateProduct(productID uuid.UUID, req models.UpdateProductRequest) (*models.Product, error) {
	var product models.Product
	err := d.db.QueryRow(`
		UPDATE products
		SET name        = COALESCE($1, name),
		    description = COALESCE($2, description),
		    price       = COALESCE($3, price),
		    category    = COALESCE($4, category),
		    updated_at  = NOW()
		WHERE id = $5
		RETURNING id, name, description, price, category, created_at, updated_at
	`, req.Name, req.Description, req.Price, req.Category, productID).Scan(
		&product.ID, &product.Name, &product.Description,
		&product.Price, &product.Category, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &product, nil
}

func (d *DatabaseClient) DeleteProduct(productID uuid.UUID) error {
	_, err := d.db.Exec(`
		DELETE FROM products
		WHERE id = $1
	`, productID)
	return err
}

// InsertProductImages registers a batch of committed images in one statement,
// so the registration is all-or-nothing at the store level.
func (d *DatabaseClient) InsertProductImages(productID uuid.UUID, images []models.CommittedImage) error {
	if len(images) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(images))
	args := make([]interface{}, 0, len(images)*3)
	for i, image := range images {
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3))
		args = append(args, productID, image.StoragePath, image.SortOrder)
	}

	query := fmt.Sprintf(`
		INSERT INTO product_images (product_id, storage_path, sort_order)
		VALUES %s
	`, strings.Join(placeholders, ", "))

	if _, err := d.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert product images: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetProductImages(productID uuid.UUID) ([]models.ProductImage, error) {
	rows, err := d.db.Query(`
		SELECT id, product_id, storage_path, sort_order, created_at
		FROM product_images
		WHERE product_id = $1
		ORDER BY sort_order ASC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product images: %w", err)
	}
	defer rows.Close()

	var images []models.ProductImage
	for rows.Next() {
		var image models.ProductImage
		err := rows.Scan(
			&image.ID, &image.ProductID, &image.StoragePath, &image.SortOrder, &image.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product image: %w", err)
		}
		images = append(images, image)
	}

	return images, nil
}

func (d *DatabaseClient) GetProductImage(imageID uuid.UUID) (*models.ProductImage, error) {
	var image models.ProductImage
	err := d.db.QueryRow(`
		SELECT id, product_id, storage_path, sort_order, created_at
		FROM product_images
		WHERE id = $1
	`, imageID).Scan(
		&image.ID, &image.ProductID, &image.StoragePath, &image.SortOrder, &image.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get product image: %w", err)
	}
	return &image, nil
}

func (d *DatabaseClient) CountProductImages(productID uuid.UUID) (int, error) {
	var count int
	err := d.db.QueryRow(`
		SELECT COUNT(*) FROM product_images WHERE product_id = $1
	`, productID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count product images: %w", err)
	}
	return count, nil
}

func (d *DatabaseClient) DeleteProductImage(imageID uuid.UUID) error {
	_, err := d.db.Exec(`
		DELETE FROM product_images
		WHERE id = $1
	`, imageID)
	return err
}

func (d *DatabaseClient) CreateInquiry(productID *uuid.UUID, name, email, phone, message string) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	var inquiryProductID uuid.NullUUID
	var inquiryPhone sql.NullString
	err := d.db.QueryRow(`
		INSERT INTO product_inquiries (product_id, name, email, phone, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, product_id, name, email, phone, message, status, created_at
	`, productID, name, email, phone, message).Scan(
		&inquiry.ID, &inquiryProductID, &inquiry.Name, &inquiry.Email,
		&inquiryPhone, &inquiry.Message, &inquiry.Status, &inquiry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}
	if inquiryProductID.Valid {
		id := inquiryProductID.UUID
		inquiry.ProductID = &id
	}
	inquiry.Phone = inquiryPhone.String
	return &inquiry, nil
}

func (d *DatabaseClient) ListInquiries() ([]models.Inquiry, error) {
	rows, err := d.db.Query(`
		SELECT id, product_id, name, email, phone, message, status, created_at
		FROM product_inquiries
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []models.Inquiry
	for rows.Next() {
		var inquiry models.Inquiry
		var inquiryProductID uuid.NullUUID
		var inquiryPhone sql.NullString
		err := rows.Scan(
			&inquiry.ID, &inquiryProductID, &inquiry.Name, &inquiry.Email,
			&inquiryPhone, &inquiry.Message, &inquiry.Status, &inquiry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inquiry: %w", err)
		}
		if inquiryProductID.Valid {
			id := inquiryProductID.UUID
			inquiry.ProductID = &id
		}
		inquiry.Phone = inquiryPhone.String
		inquiries = append(inquiries, inquiry)
	}

	return inquiries, nil
}

func (d *DatabaseClient) UpdateInquiryStatus(inquiryID uuid.UUID, status string) error {
	_, err := d.db.Exec(`
		UPDATE product_inquiries
		SET status = $1
		WHERE id = $2
	`, status, inquiryID)
	return err
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
