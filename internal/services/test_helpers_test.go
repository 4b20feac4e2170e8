package services

import (
	"context"
	"sync"

	"ecommerce-backend/internal/domain"
	"ecommerce-backend/internal/repository"
)

// fakeStore is an in-memory repository.Store with real transaction
// semantics: a failed transaction restores the pre-transaction snapshot, and
// transactions serialize on one mutex, which is what the stock race tests
// rely on.
type fakeStore struct {
	mu     *sync.Mutex
	inTx   bool
	data   *fakeData
}

type fakeData struct {
	products   map[uint64]domain.Product
	orders     map[uint64]domain.Order
	orderItems map[uint64]domain.OrderItem
	payments   map[uint64]domain.Payment
	users      map[uint64]domain.User
	vendors    map[uint64]domain.Vendor
	wishlists  map[uint64]domain.Wishlist
	nextID     uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		mu: &sync.Mutex{},
		data: &fakeData{
			products:   map[uint64]domain.Product{},
			orders:     map[uint64]domain.Order{},
			orderItems: map[uint64]domain.OrderItem{},
			payments:   map[uint64]domain.Payment{},
			users:      map[uint64]domain.User{},
			vendors:    map[uint64]domain.Vendor{},
			wishlists:  map[uint64]domain.Wishlist{},
		},
	}
}

func (d *fakeData) clone() *fakeData {
	out := &fakeData{
		products:   make(map[uint64]domain.Product, len(d.products)),
		orders:     make(map[uint64]domain.Order, len(d.orders)),
		orderItems: make(map[uint64]domain.OrderItem, len(d.orderItems)),
		payments:   make(map[uint64]domain.Payment, len(d.payments)),
		users:      make(map[uint64]domain.User, len(d.users)),
		vendors:    make(map[uint64]domain.Vendor, len(d.vendors)),
		wishlists:  make(map[uint64]domain.Wishlist, len(d.wishlists)),
		nextID:     d.nextID,
	}
	for k, v := range d.products {
		out.products[k] = v
	}
	for k, v := range d.orders {
		out.orders[k] = v
	}
	for k, v := range d.orderItems {
		out.orderItems[k] = v
	}
	for k, v := range d.payments {
		out.payments[k] = v
	}
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.vendors {
		out.vendors[k] = v
	}
	for k, v := range d.wishlists {
		out.wishlists[k] = v
	}
	return out
}

// lock is a no-op inside a transaction, where the transaction already holds
// the store mutex.
func (f *fakeStore) lock() func() {
	if f.inTx {
		return func() {}
	}
	f.mu.Lock()
	return f.mu.Unlock
}

func (f *fakeStore) nextID() uint64 {
	f.data.nextID++
	return f.data.nextID
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(repository.Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := f.data.clone()
	tx := &fakeStore{mu: f.mu, inTx: true, data: f.data}
	if err := fn(tx); err != nil {
		*f.data = *snapshot
		return err
	}
	return nil
}

func (f *fakeStore) Products() repository.ProductRepository    { return &fakeProducts{f} }
func (f *fakeStore) Orders() repository.OrderRepository        { return &fakeOrders{f} }
func (f *fakeStore) OrderItems() repository.OrderItemRepository { return &fakeOrderItems{f} }
func (f *fakeStore) Payments() repository.PaymentRepository    { return &fakePayments{f} }
func (f *fakeStore) Users() repository.UserRepository          { return &fakeUsers{f} }
func (f *fakeStore) Vendors() repository.VendorRepository      { return &fakeVendors{f} }
func (f *fakeStore) Wishlists() repository.WishlistRepository  { return &fakeWishlists{f} }

type fakeProducts struct{ s *fakeStore }

func (r *fakeProducts) Create(ctx context.Context, p *domain.Product) error {
	defer r.s.lock()()
	p.ID = r.s.nextID()
	r.s.data.products[p.ID] = *p
	return nil
}

func (r *fakeProducts) Update(ctx context.Context, p *domain.Product) error {
	defer r.s.lock()()
	r.s.data.products[p.ID] = *p
	return nil
}

func (r *fakeProducts) Delete(ctx context.Context, id uint64) error {
	defer r.s.lock()()
	delete(r.s.data.products, id)
	return nil
}

func (r *fakeProducts) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	defer r.s.lock()()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeProducts) FindAll(ctx context.Context) ([]domain.Product, error) {
	defer r.s.lock()()
	out := make([]domain.Product, 0, len(r.s.data.products))
	for _, p := range r.s.data.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProducts) FindByVendor(ctx context.Context, vendorID uint64) ([]domain.Product, error) {
	defer r.s.lock()()
	var out []domain.Product
	for _, p := range r.s.data.products {
		if p.VendorID == vendorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProducts) DecrementStock(ctx context.Context, id uint64, qty int) (bool, error) {
	defer r.s.lock()()
	p, ok := r.s.data.products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	r.s.data.products[id] = p
	return true, nil
}

type fakeOrders struct{ s *fakeStore }

func (r *fakeOrders) Create(ctx context.Context, o *domain.Order) error {
	defer r.s.lock()()
	o.ID = r.s.nextID()
	r.s.data.orders[o.ID] = *o
	return nil
}

func (r *fakeOrders) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	defer r.s.lock()()
	o, ok := r.s.data.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *fakeOrders) FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	defer r.s.lock()()
	var out []domain.Order
	for _, o := range r.s.data.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrders) MarkPaid(ctx context.Context, orderID, paymentID uint64) error {
	defer r.s.lock()()
	o, ok := r.s.data.orders[orderID]
	if !ok {
		return nil
	}
	o.Status = domain.OrderPaid
	o.PaymentID = &paymentID
	r.s.data.orders[orderID] = o
	return nil
}

type fakeOrderItems struct{ s *fakeStore }

func (r *fakeOrderItems) Create(ctx context.Context, item *domain.OrderItem) error {
	defer r.s.lock()()
	item.ID = r.s.nextID()
	r.s.data.orderItems[item.ID] = *item
	return nil
}

func (r *fakeOrderItems) FindByOrder(ctx context.Context, orderID uint64) ([]domain.OrderItem, error) {
	defer r.s.lock()()
	var out []domain.OrderItem
	for _, item := range r.s.data.orderItems {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakePayments struct{ s *fakeStore }

func (r *fakePayments) Create(ctx context.Context, p *domain.Payment) error {
	defer r.s.lock()()
	p.ID = r.s.nextID()
	r.s.data.payments[p.ID] = *p
	return nil
}

func (r *fakePayments) Update(ctx context.Context, p *domain.Payment) error {
	defer r.s.lock()()
	r.s.data.payments[p.ID] = *p
	return nil
}

func (r *fakePayments) FindByOrder(ctx context.Context, orderID uint64) (*domain.Payment, error) {
	defer r.s.lock()()
	var found *domain.Payment
	for _, p := range r.s.data.payments {
		if p.OrderID == orderID && (found == nil || p.ID < found.ID) {
			p := p
			found = &p
		}
	}
	return found, nil
}

func (r *fakePayments) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.Payment, error) {
	defer r.s.lock()()
	for _, p := range r.s.data.payments {
		if p.MpesaCheckoutRequestID == checkoutRequestID {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakePayments) Settle(ctx context.Context, paymentID uint64, s domain.PaymentSettlement) (bool, error) {
	defer r.s.lock()()
	p, ok := r.s.data.payments[paymentID]
	if !ok || p.Status != domain.PaymentPending {
		return false, nil
	}
	p.Status = s.Status
	p.MpesaReceipt = s.Receipt
	p.MpesaResultCode = s.ResultCode
	p.MpesaResultDesc = s.ResultDesc
	p.PaymentDetails = s.Details
	r.s.data.payments[paymentID] = p
	return true, nil
}

type fakeUsers struct{ s *fakeStore }

func (r *fakeUsers) Create(ctx context.Context, u *domain.User) error {
	defer r.s.lock()()
	u.ID = r.s.nextID()
	r.s.data.users[u.ID] = *u
	return nil
}

func (r *fakeUsers) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.data.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

type fakeVendors struct{ s *fakeStore }

func (r *fakeVendors) Create(ctx context.Context, v *domain.Vendor) error {
	defer r.s.lock()()
	v.ID = r.s.nextID()
	r.s.data.vendors[v.ID] = *v
	return nil
}

func (r *fakeVendors) FindByUsername(ctx context.Context, username string) (*domain.Vendor, error) {
	defer r.s.lock()()
	for _, v := range r.s.data.vendors {
		if v.Username == username {
			v := v
			return &v, nil
		}
	}
	return nil, nil
}

type fakeWishlists struct{ s *fakeStore }

func (r *fakeWishlists) Create(ctx context.Context, w *domain.Wishlist) error {
	defer r.s.lock()()
	w.ID = r.s.nextID()
	r.s.data.wishlists[w.ID] = *w
	return nil
}

func (r *fakeWishlists) FindByUser(ctx context.Context, userID uint64) ([]domain.Wishlist, error) {
	defer r.s.lock()()
	var out []domain.Wishlist
	for _, w := range r.s.data.wishlists {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeWishlists) Find(ctx context.Context, userID, productID uint64) (*domain.Wishlist, error) {
	defer r.s.lock()()
	for _, w := range r.s.data.wishlists {
		if w.UserID == userID && w.ProductID == productID {
			w := w
			return &w, nil
		}
	}
	return nil, nil
}

func (r *fakeWishlists) DeleteForUser(ctx context.Context, id, userID uint64) (bool, error) {
	defer r.s.lock()()
	w, ok := r.s.data.wishlists[id]
	if !ok || w.UserID != userID {
		return false, nil
	}
	delete(r.s.data.wishlists, id)
	return true, nil
}

func seedProduct(s *fakeStore, name string, price float64, stock int) *domain.Product {
	p := &domain.Product{Name: name, Price: price, Stock: stock, VendorID: 1}
	_ = s.Products().Create(context.Background(), p)
	return p
}

func seedOrder(s *fakeStore, userID uint64, total float64) *domain.Order {
	o := &domain.Order{UserID: userID, Status: domain.OrderPending, Total: total}
	_ = s.Orders().Create(context.Background(), o)
	return o
}

func userIdentity(id uint64) domain.Identity {
	return domain.Identity{Kind: domain.IdentityUser, ID: id}
}
