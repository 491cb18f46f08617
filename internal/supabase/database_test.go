package supabase_test

import (
	"errors"
	"testing"
	"time"

	"gallery-backend/internal/models"
	"gallery-backend/internal/supabase"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClient(t *testing.T) (*supabase.DatabaseClient, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return supabase.NewDatabaseClientWithDB(db), mock
}

var productColumns = []string{"id", "name", "description", "price", "category", "created_at", "updated_at"}

func TestCreateProduct(t *testing.T) {
	client, mock := newMockClient(t)

	productID := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO products`).
		WithArgs("Silver Pendant", "Hand-forged pendant", 120.0, "Pendant Designs").
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(productID.String(), "Silver Pendant", "Hand-forged pendant", 120.0, "Pendant Designs", now, now))

	product, err := client.CreateProduct("Silver Pendant", "Hand-forged pendant", 120.0, "Pendant Designs")
	require.NoError(t, err)
	assert.Equal(t, productID, product.ID)
	assert.Equal(t, "Silver Pendant", product.Name)
	assert.Equal(t, "Pendant Designs", product.Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductNameExists(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products`).
		WithArgs("Silver Pendant").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := client.ProductNameExists("Silver Pendant")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products`).
		WithArgs("Unknown").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err = client.ProductNameExists("Unknown")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProduct_IncludesImages(t *testing.T) {
	client, mock := newMockClient(t)

	productID := uuid.New()
	imageID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT id, name, description, price, category, created_at, updated_at\s+FROM products`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(productID.String(), "Bronze Figure", "Cast bronze", 480.0, "Artistic Figures", now, now))
	mock.ExpectQuery(`FROM product_images`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "storage_path", "sort_order", "created_at"}).
			AddRow(imageID.String(), productID.String(), "products/"+productID.String()+"/a.jpg", 0, now))

	product, err := client.GetProduct(productID)
	require.NoError(t, err)
	require.Len(t, product.Images, 1)
	assert.Equal(t, imageID, product.Images[0].ID)
	assert.Equal(t, 0, product.Images[0].SortOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProducts_GroupsImagesByProduct(t *testing.T) {
	client, mock := newMockClient(t)

	firstID := uuid.New()
	secondID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM products\s+ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(firstID.String(), "Ring", "Gold ring", 240.0, "Ring Designs", now, now).
			AddRow(secondID.String(), "Brooch", "Enamel brooch", 95.0, "Divine Art", now, now))
	mock.ExpectQuery(`FROM product_images\s+ORDER BY product_id, sort_order ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "storage_path", "sort_order", "created_at"}).
			AddRow(uuid.NewString(), firstID.String(), "products/"+firstID.String()+"/a.jpg", 0, now).
			AddRow(uuid.NewString(), firstID.String(), "products/"+firstID.String()+"/b.jpg", 1, now).
			AddRow(uuid.NewString(), secondID.String(), "products/"+secondID.String()+"/c.jpg", 0, now))

	products, err := client.ListProducts()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Len(t, products[0].Images, 2)
	assert.Len(t, products[1].Images, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProducts_EmptySkipsImageQuery(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(`FROM products\s+ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(productColumns))

	products, err := client.ListProducts()
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertProductImages_BatchesOneStatement(t *testing.T) {
	client, mock := newMockClient(t)

	productID := uuid.New()
	images := []models.CommittedImage{
		{StoragePath: "products/" + productID.String() + "/a.jpg", SortOrder: 0},
		{StoragePath: "products/" + productID.String() + "/b.jpg", SortOrder: 1},
	}

	mock.ExpectExec(`INSERT INTO product_images \(product_id, storage_path, sort_order\)\s+VALUES \(\$1, \$2, \$3\), \(\$4, \$5, \$6\)`).
		WithArgs(productID, images[0].StoragePath, 0, productID, images[1].StoragePath, 1).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, client.InsertProductImages(productID, images))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertProductImages_EmptyBatchIsNoOp(t *testing.T) {
	client, mock := newMockClient(t)

	require.NoError(t, client.InsertProductImages(uuid.New(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertProductImages_PropagatesFailure(t *testing.T) {
	client, mock := newMockClient(t)

	productID := uuid.New()
	mock.ExpectExec(`INSERT INTO product_images`).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))

	err := client.InsertProductImages(productID, []models.CommittedImage{
		{StoragePath: "products/" + productID.String() + "/a.jpg", SortOrder: 0},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert product images")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountProductImages(t *testing.T) {
	client, mock := newMockClient(t)

	productID := uuid.New()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM product_images`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := client.CountProductImages(productID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInquiry_NullableFields(t *testing.T) {
	client, mock := newMockClient(t)

	inquiryID := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO product_inquiries`).
		WithArgs(nil, "Ada", "ada@example.com", "", "Is the pendant available?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "name", "email", "phone", "message", "status", "created_at"}).
			AddRow(inquiryID.String(), nil, "Ada", "ada@example.com", nil, "Is the pendant available?", "in_process", now))

	inquiry, err := client.CreateInquiry(nil, "Ada", "ada@example.com", "", "Is the pendant available?")
	require.NoError(t, err)
	assert.Equal(t, inquiryID, inquiry.ID)
	assert.Nil(t, inquiry.ProductID)
	assert.Empty(t, inquiry.Phone)
	assert.Equal(t, "in_process", inquiry.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInquiryStatus(t *testing.T) {
	client, mock := newMockClient(t)

	inquiryID := uuid.New()
	mock.ExpectExec(`UPDATE product_inquiries`).
		WithArgs("resolved", inquiryID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, client.UpdateInquiryStatus(inquiryID, "resolved"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
