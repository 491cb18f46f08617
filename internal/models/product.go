package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductCategories mirrors the fixed set offered in the admin form.
var ProductCategories = []string{
	"Assorted Designs",
	"Artistic Figures",
	"Divine Art",
	"Ring Designs",
	"Pendant Designs",
	"Earring Designs",
	"Nakashi Rings",
}

func IsValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

// InquiryStatuses are the states the admin dashboard moves an inquiry
// through.
var InquiryStatuses = []string{"in_process", "resolved", "closed"}

func IsValidInquiryStatus(status string) bool {
	for _, s := range InquiryStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Product struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Category    string         `json:"category"`
	Images      []ProductImage `json:"images,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type ProductImage struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	StoragePath string    `json:"storage_path"`
	SortOrder   int       `json:"sort_order"`
	PublicURL   string    `json:"public_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Inquiry struct {
	ID        uuid.UUID  `json:"id"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Message   string     `json:"message"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}
