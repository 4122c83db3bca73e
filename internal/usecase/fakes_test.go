package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"kainpos/internal/domain/membership"
	"kainpos/internal/domain/model"
	repo "kainpos/internal/repository"

	"gorm.io/gorm"
)

// =====================
// In-memory fakes
// =====================

// memState はテスト用のインメモリ状態。
// fakeTxManagerがエラー時にスナップショットへ戻すことでrollbackを再現する。
type memState struct {
	products  map[int64]model.Product
	colors    map[string]model.Color
	batches   map[int64]model.Batch
	histories []model.StockHistory
	txs       map[int64]model.Transaction
	details   []model.TransactionDetail
	refunds   []model.Refund
	customers map[int64]model.Customer
	loyalty   []model.LoyaltyHistory
	nextID    int64
}

func newMemState() *memState {
	return &memState{
		products:  map[int64]model.Product{},
		colors:    map[string]model.Color{},
		batches:   map[int64]model.Batch{},
		txs:       map[int64]model.Transaction{},
		customers: map[int64]model.Customer{},
		nextID:    0,
	}
}

func (s *memState) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.colors {
		c.colors[k] = v
	}
	for k, v := range s.batches {
		c.batches[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.txs {
		c.txs[k] = v
	}
	c.histories = append([]model.StockHistory(nil), s.histories...)
	c.details = append([]model.TransactionDetail(nil), s.details...)
	c.refunds = append([]model.Refund(nil), s.refunds...)
	c.loyalty = append([]model.LoyaltyHistory(nil), s.loyalty...)
	c.nextID = s.nextID
	return c
}

type fakeTxManager struct {
	state *memState
}

func newFakeTxManager(state *memState) *fakeTxManager {
	return &fakeTxManager{state: state}
}

func (tm *fakeTxManager) WithinTx(_ context.Context, fn func(r repo.TxRepos) error) error {
	snapshot := tm.state.clone()
	err := fn(&memRepos{s: tm.state})
	if err != nil {
		*tm.state = *snapshot
	}
	return err
}

type memRepos struct {
	s *memState
}

func (r *memRepos) Products() repo.ProductRepository                     { return &memProducts{r.s} }
func (r *memRepos) Colors() repo.ColorRepository                         { return &memColors{r.s} }
func (r *memRepos) Batches() repo.BatchRepository                        { return &memBatches{r.s} }
func (r *memRepos) StockHistories() repo.StockHistoryRepository          { return &memHistories{r.s} }
func (r *memRepos) Transactions() repo.TransactionRepository             { return &memTxs{r.s} }
func (r *memRepos) TransactionDetails() repo.TransactionDetailRepository { return &memDetails{r.s} }
func (r *memRepos) Refunds() repo.RefundRepository                       { return &memRefunds{r.s} }
func (r *memRepos) Customers() repo.CustomerRepository                   { return &memCustomers{r.s} }
func (r *memRepos) LoyaltyHistories() repo.LoyaltyHistoryRepository      { return &memLoyalty{r.s} }

// ---- products ----

type memProducts struct{ s *memState }

func (m *memProducts) List(_ context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var items []model.Product
	for _, p := range m.s.products {
		if p.DeletedAt.Valid {
			continue
		}
		if q.Category != "" && string(p.Category) != q.Category {
			continue
		}
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, int64(len(items)), nil
}

func (m *memProducts) FindByID(_ context.Context, id int64) (model.Product, error) {
	p, ok := m.s.products[id]
	if !ok || p.DeletedAt.Valid {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (m *memProducts) Create(_ context.Context, p model.Product) (model.Product, error) {
	p.ID = m.s.id()
	m.s.products[p.ID] = p
	return p, nil
}

func (m *memProducts) UpdateSellPrice(_ context.Context, id int64, price int64) error {
	p, ok := m.s.products[id]
	if !ok || p.DeletedAt.Valid {
		return repo.ErrNotFound
	}
	p.SellPrice = price
	m.s.products[id] = p
	return nil
}

func (m *memProducts) SoftDelete(_ context.Context, id int64) error {
	p, ok := m.s.products[id]
	if !ok || p.DeletedAt.Valid {
		return repo.ErrNotFound
	}
	p.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	m.s.products[id] = p
	return nil
}

// ---- colors ----

type memColors struct{ s *memState }

func (m *memColors) List(_ context.Context) ([]model.Color, error) {
	var items []model.Color
	for _, c := range m.s.colors {
		items = append(items, c)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Code < items[j].Code })
	return items, nil
}

func (m *memColors) FindByCode(_ context.Context, code string) (model.Color, error) {
	c, ok := m.s.colors[code]
	if !ok {
		return model.Color{}, repo.ErrNotFound
	}
	return c, nil
}

func (m *memColors) Create(_ context.Context, c model.Color) (model.Color, error) {
	c.ID = m.s.id()
	m.s.colors[c.Code] = c
	return c, nil
}

// ---- batches ----

type memBatches struct{ s *memState }

func (m *memBatches) FindByID(_ context.Context, id int64) (model.Batch, error) {
	b, ok := m.s.batches[id]
	if !ok {
		return model.Batch{}, repo.ErrNotFound
	}
	return b, nil
}

func (m *memBatches) ListByProduct(_ context.Context, productID int64) ([]model.Batch, error) {
	return m.sorted(productID, false), nil
}

func (m *memBatches) ListAvailableForUpdate(_ context.Context, productID int64) ([]model.Batch, error) {
	return m.sorted(productID, true), nil
}

// created_at昇順、同時刻はid昇順
func (m *memBatches) sorted(productID int64, onlyAvailable bool) []model.Batch {
	var items []model.Batch
	for _, b := range m.s.batches {
		if b.ProductID != productID {
			continue
		}
		if onlyAvailable && b.Quantity <= 0 {
			continue
		}
		items = append(items, b)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items
}

func (m *memBatches) Create(_ context.Context, b model.Batch) (model.Batch, error) {
	b.ID = m.s.id()
	m.s.batches[b.ID] = b
	return b, nil
}

func (m *memBatches) DecrementQuantity(_ context.Context, id int64, qty int64) (bool, error) {
	b, ok := m.s.batches[id]
	if !ok || b.Quantity < qty {
		return false, nil
	}
	b.Quantity -= qty
	m.s.batches[id] = b
	return true, nil
}

func (m *memBatches) IncrementQuantity(_ context.Context, id int64, qty int64) error {
	b, ok := m.s.batches[id]
	if !ok {
		return repo.ErrNotFound
	}
	b.Quantity += qty
	m.s.batches[id] = b
	return nil
}

// ---- stock histories ----

type memHistories struct{ s *memState }

func (m *memHistories) Create(_ context.Context, h model.StockHistory) error {
	h.ID = m.s.id()
	m.s.histories = append(m.s.histories, h)
	return nil
}

func (m *memHistories) ListByProduct(_ context.Context, productID int64) ([]model.StockHistory, error) {
	var items []model.StockHistory
	for _, h := range m.s.histories {
		if h.ProductID == productID {
			items = append(items, h)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (m *memHistories) ListByBatch(_ context.Context, batchID int64) ([]model.StockHistory, error) {
	var items []model.StockHistory
	for _, h := range m.s.histories {
		if h.BatchID == batchID {
			items = append(items, h)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *memHistories) ListByTransactionLine(_ context.Context, transactionID int64, productID int64) ([]model.StockHistory, error) {
	var items []model.StockHistory
	for _, h := range m.s.histories {
		if h.TransactionID != nil && *h.TransactionID == transactionID && h.ProductID == productID {
			items = append(items, h)
		}
	}
	//新しい順
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

// ---- transactions ----

type memTxs struct{ s *memState }

func (m *memTxs) FindByID(_ context.Context, id int64) (model.Transaction, error) {
	t, ok := m.s.txs[id]
	if !ok {
		return model.Transaction{}, repo.ErrNotFound
	}
	return t, nil
}

func (m *memTxs) Create(_ context.Context, t model.Transaction) (int64, error) {
	t.ID = m.s.id()
	m.s.txs[t.ID] = t
	return t.ID, nil
}

func (m *memTxs) UpdateTotals(_ context.Context, id int64, total int64, discountBP int64, points int64) error {
	t, ok := m.s.txs[id]
	if !ok {
		return repo.ErrNotFound
	}
	t.TotalPrice = total
	t.DiscountBP = discountBP
	t.PointsEarned = points
	m.s.txs[id] = t
	return nil
}

func (m *memTxs) SumTotalByCustomer(_ context.Context, customerID int64) (int64, error) {
	var sum int64
	for _, t := range m.s.txs {
		if t.CustomerID != nil && *t.CustomerID == customerID {
			sum += t.TotalPrice
		}
	}
	return sum, nil
}

// ---- transaction details ----

type memDetails struct{ s *memState }

func (m *memDetails) CreateBulk(_ context.Context, transactionID int64, items []model.TransactionDetail) error {
	for _, d := range items {
		d.ID = m.s.id()
		d.TransactionID = transactionID
		m.s.details = append(m.s.details, d)
	}
	return nil
}

func (m *memDetails) ListByTransactionID(_ context.Context, transactionID int64) ([]model.TransactionDetail, error) {
	var items []model.TransactionDetail
	for _, d := range m.s.details {
		if d.TransactionID == transactionID {
			items = append(items, d)
		}
	}
	return items, nil
}

func (m *memDetails) FindByTransactionAndProduct(_ context.Context, transactionID int64, productID int64) (model.TransactionDetail, error) {
	for _, d := range m.s.details {
		if d.TransactionID == transactionID && d.ProductID == productID {
			return d, nil
		}
	}
	return model.TransactionDetail{}, repo.ErrNotFound
}

// ---- refunds ----

type memRefunds struct{ s *memState }

func (m *memRefunds) Create(_ context.Context, rf model.Refund) (model.Refund, error) {
	rf.ID = m.s.id()
	m.s.refunds = append(m.s.refunds, rf)
	return rf, nil
}

func (m *memRefunds) ListByTransaction(_ context.Context, transactionID int64) ([]model.Refund, error) {
	var items []model.Refund
	for _, rf := range m.s.refunds {
		if rf.TransactionID == transactionID {
			items = append(items, rf)
		}
	}
	return items, nil
}

func (m *memRefunds) SumQuantityByLine(_ context.Context, transactionID int64, productID int64) (int64, error) {
	var sum int64
	for _, rf := range m.s.refunds {
		if rf.TransactionID == transactionID && rf.ProductID == productID {
			sum += rf.Quantity
		}
	}
	return sum, nil
}

// ---- customers ----

type memCustomers struct{ s *memState }

func (m *memCustomers) FindByID(_ context.Context, id int64) (model.Customer, error) {
	c, ok := m.s.customers[id]
	if !ok {
		return model.Customer{}, repo.ErrNotFound
	}
	return c, nil
}

func (m *memCustomers) List(_ context.Context, page int, limit int) ([]model.Customer, int64, error) {
	var items []model.Customer
	for _, c := range m.s.customers {
		items = append(items, c)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, int64(len(items)), nil
}

func (m *memCustomers) Create(_ context.Context, c model.Customer) (model.Customer, error) {
	c.ID = m.s.id()
	m.s.customers[c.ID] = c
	return c, nil
}

func (m *memCustomers) ExistsName(_ context.Context, name string) (bool, error) {
	for _, c := range m.s.customers {
		if strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCustomers) ExistsPhone(_ context.Context, phone string) (bool, error) {
	for _, c := range m.s.customers {
		if c.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCustomers) ExistsEmail(_ context.Context, email string) (bool, error) {
	for _, c := range m.s.customers {
		if strings.EqualFold(c.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCustomers) UpdateLoyalty(_ context.Context, id int64, totalSpent int64, points int64, tier membership.Tier, lastTxAt time.Time) error {
	c, ok := m.s.customers[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.TotalSpent = totalSpent
	c.Points = points
	c.Tier = tier
	t := lastTxAt
	c.LastTransactionAt = &t
	m.s.customers[id] = c
	return nil
}

func (m *memCustomers) UpdateTier(_ context.Context, id int64, tier membership.Tier) error {
	c, ok := m.s.customers[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.Tier = tier
	m.s.customers[id] = c
	return nil
}

func (m *memCustomers) ListInactiveSince(_ context.Context, cutoff time.Time) ([]model.Customer, error) {
	var items []model.Customer
	for _, c := range m.s.customers {
		if c.LastTransactionAt == nil || c.LastTransactionAt.Before(cutoff) {
			items = append(items, c)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// ---- loyalty histories ----

type memLoyalty struct{ s *memState }

func (m *memLoyalty) Create(_ context.Context, h model.LoyaltyHistory) error {
	h.ID = m.s.id()
	m.s.loyalty = append(m.s.loyalty, h)
	return nil
}

func (m *memLoyalty) ListByCustomer(_ context.Context, customerID int64) ([]model.LoyaltyHistory, error) {
	var items []model.LoyaltyHistory
	for _, h := range m.s.loyalty {
		if h.CustomerID == customerID {
			items = append(items, h)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

// =====================
// seed helpers
// =====================

var testActor = model.Actor{ID: 1, Username: "kasir1", Role: model.RoleCashier}

func seedProduct(s *memState, name string, price int64) model.Product {
	p := model.Product{
		ID:        s.id(),
		Name:      name,
		Category:  model.CategoryFabric,
		ColorCode: "NVY-01",
		SellPrice: price,
		CreatedBy: testActor.ID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.products[p.ID] = p
	return p
}

func seedBatch(s *memState, productID int64, price int64, qty int64, createdAt time.Time) model.Batch {
	b := model.Batch{
		ID:            s.id(),
		Code:          newBatchCode("SEED", createdAt),
		ProductID:     productID,
		PurchasePrice: price,
		Quantity:      qty,
		CreatedBy:     testActor.ID,
		CreatedAt:     createdAt,
	}
	s.batches[b.ID] = b
	return b
}

func seedCustomer(s *memState, name string, spent int64, tier membership.Tier, lastTxAt *time.Time) model.Customer {
	c := model.Customer{
		ID:                s.id(),
		Name:              name,
		Phone:             "08" + name,
		Email:             name + "@example.com",
		TotalSpent:        spent,
		Tier:              tier,
		LastTransactionAt: lastTxAt,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	s.customers[c.ID] = c
	return c
}
