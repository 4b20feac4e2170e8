package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"ecommerce-backend/internal/domain"
	"ecommerce-backend/internal/infra/mpesa"
	"ecommerce-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	auth     *services.AuthService
	catalog  *services.CatalogService
	orders   *services.OrderService
	payments *services.PaymentService
	wishlist *services.WishlistService
}

func NewHandler(
	auth *services.AuthService,
	catalog *services.CatalogService,
	orders *services.OrderService,
	payments *services.PaymentService,
	wishlist *services.WishlistService,
) *Handler {
	return &Handler{
		auth:     auth,
		catalog:  catalog,
		orders:   orders,
		payments: payments,
		wishlist: wishlist,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/vendor/register", h.VendorRegister)
	r.POST("/vendor/login", h.VendorLogin)

	r.GET("/products", h.ListProducts)
	r.GET("/products/:product_id", h.GetProduct)

	vendor := r.Group("/vendor", AuthRequired(h.auth))
	vendor.POST("/products", h.CreateProduct)
	vendor.GET("/products", h.VendorProducts)
	vendor.GET("/products/:product_id", h.VendorProduct)
	vendor.PUT("/products/:product_id", h.UpdateProduct)
	vendor.DELETE("/products/:product_id", h.DeleteProduct)

	user := r.Group("/", AuthRequired(h.auth), UserOnly())
	user.POST("/orders", h.CreateOrder)
	user.GET("/orders", h.ListOrders)
	user.GET("/wishlist", h.GetWishlist)
	user.POST("/wishlist", h.AddToWishlist)
	user.DELETE("/wishlist/:wishlist_id", h.RemoveFromWishlist)
	user.POST("/payments", h.CreatePayment)
	user.GET("/payments/:order_id", h.GetPayment)
	user.GET("/mpesa/query/:checkout_request_id", h.QueryMpesaStatus)

	// Provider-originated, unauthenticated by design: the provider carries no
	// bearer token, the checkout request id is the correlation handle.
	r.POST("/mpesa/callback", h.MpesaCallback)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if _, err := h.auth.RegisterUser(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	token, err := h.auth.LoginUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

func (h *Handler) VendorRegister(c *gin.Context) {
	var req VendorRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	_, err := h.auth.RegisterVendor(c.Request.Context(), services.VendorRegistration{
		Username:            req.Username,
		Email:               req.Email,
		Password:            req.Password,
		BusinessName:        req.BusinessName,
		BusinessDescription: req.BusinessDescription,
		ContactPhone:        req.ContactPhone,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Vendor registered successfully"})
}

func (h *Handler) VendorLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	token, err := h.auth.LoginVendor(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "product_id")
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	product, err := h.catalog.CreateProduct(c.Request.Context(), identityFrom(c), services.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Product added successfully",
		"product_id": product.ID,
		"image_url":  product.ImageURL,
	})
}

func (h *Handler) VendorProducts(c *gin.Context) {
	products, err := h.catalog.VendorProducts(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h *Handler) VendorProduct(c *gin.Context) {
	id, ok := paramID(c, "product_id")
	if !ok {
		return
	}
	product, err := h.catalog.VendorProduct(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "product_id")
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	product, err := h.catalog.UpdateProduct(c.Request.Context(), identityFrom(c), id, services.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Product updated successfully",
		"product_id": product.ID,
		"image_url":  product.ImageURL,
	})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "product_id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), identityFrom(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	lines := make([]services.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, services.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), identityFrom(c).ID, req.Total, lines)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order placed successfully",
		"order_id": order.ID,
	})
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), identityFrom(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderResponse{ID: o.ID, Status: o.Status, Total: o.Total})
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (h *Handler) GetWishlist(c *gin.Context) {
	items, err := h.wishlist.List(c.Request.Context(), identityFrom(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]WishlistItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, WishlistItemResponse{ID: item.ID, ProductID: item.ProductID})
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": out})
}

func (h *Handler) AddToWishlist(c *gin.Context) {
	var req AddWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if _, err := h.wishlist.Add(c.Request.Context(), identityFrom(c).ID, req.ProductID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item added to wishlist"})
}

func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	id, ok := paramID(c, "wishlist_id")
	if !ok {
		return
	}
	if err := h.wishlist.Remove(c.Request.Context(), identityFrom(c).ID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from wishlist"})
}

func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	payment, err := h.payments.InitiatePayment(c.Request.Context(), identityFrom(c), services.InitiatePaymentInput{
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PhoneNumber:   req.PhoneNumber,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	switch payment.Status {
	case domain.PaymentPending:
		c.JSON(http.StatusOK, gin.H{
			"message":             "M-Pesa payment initiated. Please check your phone to complete the payment.",
			"payment_id":          payment.ID,
			"checkout_request_id": payment.MpesaCheckoutRequestID,
			"status":              payment.Status,
		})
	case domain.PaymentFailed:
		// Request accepted, business-level failure; record kept for audit.
		c.JSON(http.StatusBadRequest, gin.H{
			"message":    "Failed to initiate M-Pesa payment",
			"error":      payment.MpesaResultDesc,
			"payment_id": payment.ID,
			"status":     payment.Status,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message":        "Payment processed successfully",
			"payment_id":     payment.ID,
			"payment_method": payment.PaymentMethod,
			"status":         payment.Status,
		})
	}
}

func (h *Handler) GetPayment(c *gin.Context) {
	orderID, ok := paramID(c, "order_id")
	if !ok {
		return
	}
	payment, err := h.payments.GetByOrder(c.Request.Context(), identityFrom(c), orderID)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No payment found for this order"})
			return
		}
		h.fail(c, err)
		return
	}

	resp := gin.H{
		"payment_id":     payment.ID,
		"amount":         payment.Amount,
		"status":         payment.Status,
		"payment_date":   payment.PaymentDate,
		"payment_method": payment.PaymentMethod,
	}
	if payment.PaymentMethod == domain.PaymentMethodMpesa {
		resp["mpesa_details"] = MpesaDetails{
			PhoneNumber:       payment.MpesaPhone,
			CheckoutRequestID: payment.MpesaCheckoutRequestID,
			Receipt:           payment.MpesaReceipt,
			ResultCode:        payment.MpesaResultCode,
			ResultDescription: payment.MpesaResultDesc,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) MpesaCallback(c *gin.Context) {
	var env mpesa.CallbackEnvelope
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	payment, err := h.payments.HandleCallback(c.Request.Context(), env)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment not found"})
			return
		}
		log.Printf("mpesa callback processing error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error processing callback"})
		return
	}

	if payment.Status == domain.PaymentCompleted {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment completed successfully"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment failure recorded"})
}

func (h *Handler) QueryMpesaStatus(c *gin.Context) {
	checkoutRequestID := c.Param("checkout_request_id")
	payment, result, err := h.payments.QueryStatus(c.Request.Context(), identityFrom(c), checkoutRequestID)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := gin.H{
		"success":        true,
		"payment_status": payment.Status,
	}
	if result != nil {
		resp["mpesa_result"] = result
	} else {
		resp["payment_details"] = gin.H{
			"receipt":     payment.MpesaReceipt,
			"result_code": payment.MpesaResultCode,
			"result_desc": payment.MpesaResultDesc,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// fail maps service errors onto the HTTP status taxonomy.
func (h *Handler) fail(c *gin.Context, err error) {
	var stockErr *services.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Not enough stock for " + stockErr.ProductName})
	case errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrInvalidQuantity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrPhoneRequired):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Phone number is required for M-Pesa payments"})
	case errors.Is(err, services.ErrDuplicateWishlistItem):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Item already in wishlist"})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrPaymentNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrWishlistItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + name})
		return 0, false
	}
	return id, true
}
