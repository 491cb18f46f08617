package handlers

import (
	"net/http"
	"strings"

	"gallery-backend/internal/models"
	"gallery-backend/internal/services"
	"gallery-backend/internal/supabase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductsHandler struct {
	dbClient      *supabase.DatabaseClient
	storageClient *supabase.StorageClient
	manager       *services.DraftManager
}

func NewProductsHandler(dbClient *supabase.DatabaseClient, storageClient *supabase.StorageClient, manager *services.DraftManager) *ProductsHandler {
	return &ProductsHandler{
		dbClient:      dbClient,
		storageClient: storageClient,
		manager:       manager,
	}
}

// CreateProduct inserts the product row and, when a draft id is supplied,
// commits the draft's staged images under the new product. A failed commit
// deletes the just-created row so no imageless ghost product reaches the
// gallery. Creating without images stays allowed.
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" || description == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "name and description are required"})
		return
	}
	if req.Price < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "price must not be negative"})
		return
	}
	if !models.IsValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown category"})
		return
	}
	if req.DraftID != "" && !h.manager.Has(req.DraftID) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "draft not found"})
		return
	}

	exists, err := h.dbClient.ProductNameExists(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to check product name",
			Message: err.Error(),
		})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "a product with this name already exists"})
		return
	}

	product, err := h.dbClient.CreateProduct(name, description, req.Price, req.Category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create product",
			Message: err.Error(),
		})
		return
	}

	if req.DraftID != "" {
		if _, err := h.manager.Commit(c.Request.Context(), req.DraftID, product.ID, 0); err != nil {
			// The product row without its images is not the committed state.
			if deleteErr := h.dbClient.DeleteProduct(product.ID); deleteErr != nil {
				c.JSON(http.StatusInternalServerError, models.ErrorResponse{
					Error:   "failed to commit images and to remove the product",
					Message: deleteErr.Error(),
				})
				return
			}
			respondDraftError(c, "failed to commit images", err)
			return
		}

		images, err := h.dbClient.GetProductImages(product.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "failed to load product images",
				Message: err.Error(),
			})
			return
		}
		product.Images = images
	}

	h.attachPublicURLs(product)
	c.JSON(http.StatusCreated, models.ProductResponse{Product: *product})
}

func (h *ProductsHandler) ListProducts(c *gin.Context) {
	products, err := h.dbClient.ListProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list products",
			Message: err.Error(),
		})
		return
	}
	for i := range products {
		h.attachPublicURLs(&products[i])
	}
	c.JSON(http.StatusOK, models.ProductListResponse{Products: products})
}

func (h *ProductsHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid product id"})
		return
	}

	product, err := h.dbClient.GetProduct(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "product not found",
			Message: err.Error(),
		})
		return
	}
	h.attachPublicURLs(product)
	c.JSON(http.StatusOK, models.ProductResponse{Product: *product})
}

func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid product id"})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}
	if req.Category != nil && !models.IsValidCategory(*req.Category) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown category"})
		return
	}
	if req.Price != nil && *req.Price < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "price must not be negative"})
		return
	}

	product, err := h.dbClient.UpdateProduct(productID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update product",
			Message: err.Error(),
		})
		return
	}

	images, err := h.dbClient.GetProductImages(productID)
	if err == nil {
		product.Images = images
	}
	h.attachPublicURLs(product)
	c.JSON(http.StatusOK, models.ProductResponse{Product: *product})
}

// DeleteProduct removes the committed objects first, then the row (image
// rows cascade). A failed storage removal aborts the whole delete so the
// admin can retry.
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid product id"})
		return
	}

	product, err := h.dbClient.GetProduct(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "product not found",
			Message: err.Error(),
		})
		return
	}

	paths := make([]string, 0, len(product.Images))
	for _, image := range product.Images {
		paths = append(paths, image.StoragePath)
	}
	if err := h.storageClient.RemoveObjects(paths); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete product images from storage",
			Message: err.Error(),
		})
		return
	}

	if err := h.dbClient.DeleteProduct(productID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete product",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product_id": productID.String(), "status": "deleted"})
}

// AddImages uploads a batch straight onto an existing product: the files are
// staged like any draft, then committed immediately with sort orders
// continuing after the images the product already has.
func (h *ProductsHandler) AddImages(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid product id"})
		return
	}

	if _, err := h.dbClient.GetProduct(productID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "product not found",
			Message: err.Error(),
		})
		return
	}

	existingCount, err := h.dbClient.CountProductImages(productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to count product images",
			Message: err.Error(),
		})
		return
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}
	files := multipartFiles(c.Request.MultipartForm)
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no files uploaded"})
		return
	}

	session, err := h.manager.Stage(c.Request.Context(), existingCount, fileInputs(files))
	if err != nil {
		respondDraftError(c, "failed to upload images", err)
		return
	}

	if _, err := h.manager.Commit(c.Request.Context(), session.DraftID, productID, existingCount); err != nil {
		respondDraftError(c, "failed to commit images", err)
		return
	}

	images, err := h.dbClient.GetProductImages(productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load product images",
			Message: err.Error(),
		})
		return
	}
	for i := range images {
		images[i].PublicURL = h.storageClient.PublicURL(images[i].StoragePath)
	}
	c.JSON(http.StatusOK, models.ProductImagesResponse{
		ProductID: productID.String(),
		Images:    images,
	})
}

// RemoveImage deletes one committed image: the object first, the row second.
func (h *ProductsHandler) RemoveImage(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid product id"})
		return
	}
	imageID, err := uuid.Parse(c.Param("image_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid image id"})
		return
	}

	image, err := h.dbClient.GetProductImage(imageID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "image not found",
			Message: err.Error(),
		})
		return
	}
	if image.ProductID != productID {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "image does not belong to this product"})
		return
	}

	if err := h.storageClient.RemoveObjects([]string{image.StoragePath}); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete image from storage",
			Message: err.Error(),
		})
		return
	}
	if err := h.dbClient.DeleteProductImage(imageID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete image",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_id": imageID.String(), "status": "deleted"})
}

func (h *ProductsHandler) attachPublicURLs(product *models.Product) {
	for i := range product.Images {
		product.Images[i].PublicURL = h.storageClient.PublicURL(product.Images[i].StoragePath)
	}
}
