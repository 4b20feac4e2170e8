package http

import "ecommerce-backend/internal/domain"

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VendorRegisterRequest struct {
	Username            string `json:"username" binding:"required"`
	Email               string `json:"email" binding:"required,email"`
	Password            string `json:"password" binding:"required"`
	BusinessName        string `json:"business_name" binding:"required"`
	BusinessDescription string `json:"business_description"`
	ContactPhone        string `json:"contact_phone"`
}

type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"min=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	ImageURL    string  `json:"image_url"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	Stock       *int     `json:"stock" binding:"omitempty,min=0"`
	ImageURL    *string  `json:"image_url"`
}

type ProductResponse struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url"`
	VendorID    uint64  `json:"vendor_id"`
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		VendorID:    p.VendorID,
	}
}

type OrderItemRequest struct {
	ProductID uint64  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Price     float64 `json:"price" binding:"min=0"`
}

type CreateOrderRequest struct {
	Total float64            `json:"total" binding:"min=0"`
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type OrderResponse struct {
	ID     uint64             `json:"id"`
	Status domain.OrderStatus `json:"status"`
	Total  float64            `json:"total"`
}

type CreatePaymentRequest struct {
	OrderID       uint64  `json:"order_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"min=0"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	PhoneNumber   string  `json:"phone_number"`
}

type AddWishlistRequest struct {
	ProductID uint64 `json:"product_id" binding:"required"`
}

type WishlistItemResponse struct {
	ID        uint64 `json:"id"`
	ProductID uint64 `json:"product_id"`
}

// MpesaDetails is the method-specific metadata block on payment reads.
type MpesaDetails struct {
	PhoneNumber       string `json:"phone_number"`
	CheckoutRequestID string `json:"checkout_request_id"`
	Receipt           string `json:"receipt"`
	ResultCode        string `json:"result_code"`
	ResultDescription string `json:"result_description"`
}
