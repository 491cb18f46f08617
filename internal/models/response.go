package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type DraftResponse struct {
	DraftID   string        `json:"draft_id"`
	Files     []StagedImage `json:"files"`
	ExpiresAt time.Time     `json:"expires_at"`
}

type DiscardResponse struct {
	DraftID string `json:"draft_id"`
	Status  string `json:"status"`
}

type ProductResponse struct {
	Product Product `json:"product"`
}

type ProductListResponse struct {
	Products []Product `json:"products"`
}

type ProductImagesResponse struct {
	ProductID string         `json:"product_id"`
	Images    []ProductImage `json:"images"`
}

type InquiryResponse struct {
	Inquiry Inquiry `json:"inquiry"`
}

type InquiryListResponse struct {
	Inquiries []Inquiry `json:"inquiries"`
}
