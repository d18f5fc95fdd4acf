// Package testutil repositorios en memoria para tests de casos de uso y handlers.
// Store imita lo que garantiza PostgreSQL: unicidad de código, CHECK de estoque >= 0
// y transacciones con rollback (TxRunner).
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ampliart/ampliart-api/internal/domain"
	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/domain/money"
	"github.com/ampliart/ampliart-api/internal/domain/repository"
	"github.com/ampliart/ampliart-api/internal/domain/sales"
)

var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.CategoryRepository      = (*CategoryRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.BudgetRepository        = (*BudgetRepo)(nil)
	_ repository.UserRepository          = (*UserRepo)(nil)
	_ repository.SalesRepository         = (*AnalyticsRepo)(nil)
	_ repository.DashboardRepository     = (*AnalyticsRepo)(nil)
)

// ErrStockCheck imita la violación del CHECK stock_quantity >= 0.
var ErrStockCheck = errors.New("check constraint products_stock_quantity_check")

type state struct {
	products   map[string]entity.Product
	categories map[string]entity.Category
	movements  []entity.StockMovement
	budgets    map[string]entity.Budget // sin ítems
	items      map[string][]entity.BudgetItem
	users      map[string]entity.User
}

func (s state) clone() state {
	c := state{
		products:   make(map[string]entity.Product, len(s.products)),
		categories: make(map[string]entity.Category, len(s.categories)),
		movements:  append([]entity.StockMovement(nil), s.movements...),
		budgets:    make(map[string]entity.Budget, len(s.budgets)),
		items:      make(map[string][]entity.BudgetItem, len(s.items)),
		users:      make(map[string]entity.User, len(s.users)),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.budgets {
		c.budgets[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]entity.BudgetItem(nil), v...)
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// Store base de datos en memoria.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex // serializa transacciones (equivale a los bloqueos de fila)
	st   state

	StockUpdates int // cantidad de UpdateStock confirmados o no
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: state{}.clone()}
}

// ── Siembra y lectura directa para asserts ────────────────────────────────────

// SeedCategory agrega una categoría.
func (s *Store) SeedCategory(id, name string) *entity.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := entity.Category{ID: id, Name: name, CreatedAt: time.Now()}
	s.st.categories[id] = c
	return &c
}

// SeedProduct agrega un producto.
func (s *Store) SeedProduct(p entity.Product) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
		p.UpdatedAt = p.CreatedAt
	}
	s.st.products[p.ID] = p
	return &p
}

// SeedCompletedSale agrega un orçamento concluido con sus ítems (sin tocar estoque).
func (s *Store) SeedCompletedSale(b entity.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := b.Items
	b.Items = nil
	b.Status = entity.BudgetSaleCompleted
	s.st.budgets[b.ID] = b
	s.st.items[b.ID] = append([]entity.BudgetItem(nil), items...)
}

// Product devuelve una copia del producto guardado.
func (s *Store) Product(id string) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.products[id]
}

// Movements copia del log de movimientos.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockMovement(nil), s.st.movements...)
}

// ── TxRunner ────────────────────────────────────────────────────────────────

// TxRunner ejecuta fn sobre el store; si fn falla restaura el estado anterior.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

func (r *TxRunner) inTx(fn func() error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.Lock()
	snapshot := r.s.st.clone()
	r.s.mu.Unlock()

	if err := fn(); err != nil {
		r.s.mu.Lock()
		r.s.st = snapshot
		r.s.mu.Unlock()
		return err
	}
	return nil
}

// Run ver postgres.TxRunner.Run.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.inTx(func() error {
		return fn(&MovementRepo{s: r.s}, &ProductRepo{s: r.s})
	})
}

// RunBudget ver postgres.TxRunner.RunBudget.
func (r *TxRunner) RunBudget(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	budgetRepo repository.BudgetRepository,
) error) error {
	return r.inTx(func() error {
		return fn(&MovementRepo{s: r.s}, &ProductRepo{s: r.s}, &BudgetRepo{s: r.s})
	})
}

// ── Productos ────────────────────────────────────────────────────────────────

// ProductRepo repositorio de productos en memoria.
type ProductRepo struct{ s *Store }

// NewProductRepo construye el repo.
func NewProductRepo(s *Store) *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.products {
		if existing.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.st.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.st.products {
		if p.Code == code {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.st.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.s.st.products {
		if id != p.ID && existing.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	updated := *p
	updated.StockQuantity = current.StockQuantity
	r.s.st.products[p.ID] = updated
	return nil
}

func (r *ProductRepo) UpdateStock(_ context.Context, productID string, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if quantity < 0 {
		return ErrStockCheck
	}
	p, ok := r.s.st.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = quantity
	r.s.st.products[productID] = p
	r.s.StockUpdates++
	return nil
}

func (r *ProductRepo) List(_ context.Context, f entity.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.st.products {
		if f.Code != "" && p.Code != f.Code {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Active != nil && p.Active != *f.Active {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Categorías ───────────────────────────────────────────────────────────────

// CategoryRepo repositorio de categorías en memoria.
type CategoryRepo struct{ s *Store }

// NewCategoryRepo construye el repo.
func NewCategoryRepo(s *Store) *CategoryRepo { return &CategoryRepo{s: s} }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.st.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.st.categories {
		if strings.EqualFold(c.Name, name) {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.s.st.categories))
	for _, c := range r.s.st.categories {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Movimientos ──────────────────────────────────────────────────────────────

// MovementRepo log de movimientos en memoria.
type MovementRepo struct{ s *Store }

// NewMovementRepo construye el repo.
func NewMovementRepo(s *Store) *MovementRepo { return &MovementRepo{s: s} }

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.movements = append(r.s.st.movements, *m)
	return nil
}

func (r *MovementRepo) List(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for i := len(r.s.st.movements) - 1; i >= 0; i-- {
		m := r.s.st.movements[i]
		if productID != "" && m.ProductID != productID {
			continue
		}
		m.ProductName = r.s.st.products[m.ProductID].Name
		out = append(out, &m)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── Orçamentos ───────────────────────────────────────────────────────────────

// BudgetRepo repositorio de orçamentos en memoria.
type BudgetRepo struct{ s *Store }

// NewBudgetRepo construye el repo.
func NewBudgetRepo(s *Store) *BudgetRepo { return &BudgetRepo{s: s} }

func (r *BudgetRepo) Create(_ context.Context, b *entity.Budget) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	header := *b
	header.Items = nil
	r.s.st.budgets[b.ID] = header
	return nil
}

func (r *BudgetRepo) GetByID(_ context.Context, id string) (*entity.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.st.budgets[id]
	if !ok {
		return nil, nil
	}
	for _, it := range r.s.st.items[id] {
		p := r.s.st.products[it.ProductID]
		it.ProductCode, it.ProductName = p.Code, p.Name
		b.Items = append(b.Items, it)
	}
	return &b, nil
}

func (r *BudgetRepo) GetForUpdate(ctx context.Context, id string) (*entity.Budget, error) {
	return r.GetByID(ctx, id)
}

func (r *BudgetRepo) Update(_ context.Context, b *entity.Budget) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.budgets[b.ID]; !ok {
		return domain.ErrNotFound
	}
	header := *b
	header.Items = nil
	r.s.st.budgets[b.ID] = header
	return nil
}

func (r *BudgetRepo) CreateItem(_ context.Context, it *entity.BudgetItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.products[it.ProductID]; !ok {
		return fmt.Errorf("%w: Produto não encontrado", domain.ErrNotFound)
	}
	r.s.st.items[it.BudgetID] = append(r.s.st.items[it.BudgetID], *it)
	return nil
}

func (r *BudgetRepo) UpdateItem(_ context.Context, it *entity.BudgetItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.s.st.items[it.BudgetID]
	for i := range items {
		if items[i].ID == it.ID {
			items[i].Quantity, items[i].UnitPrice, items[i].Subtotal = it.Quantity, it.UnitPrice, it.Subtotal
		}
	}
	return nil
}

func (r *BudgetRepo) DeleteItem(_ context.Context, budgetID, itemID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.s.st.items[budgetID]
	for i := range items {
		if items[i].ID == itemID {
			r.s.st.items[budgetID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *BudgetRepo) List(_ context.Context, f entity.BudgetFilter) ([]*entity.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Budget
	for _, b := range r.s.st.budgets {
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		if f.From != nil && b.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !b.CreatedAt.Before(*f.To) {
			continue
		}
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

// UserRepo repositorio de usuarios en memoria.
type UserRepo struct{ s *Store }

// NewUserRepo construye el repo.
func NewUserRepo(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// ── Analítica ────────────────────────────────────────────────────────────────

// AnalyticsRepo consultas de ventas y dashboard sobre el store.
type AnalyticsRepo struct {
	s *Store

	SalesCalls int // llamadas a CompletedSales (tests de caché)
}

// NewAnalyticsRepo construye el repo.
func NewAnalyticsRepo(s *Store) *AnalyticsRepo { return &AnalyticsRepo{s: s} }

func inWindow(t *time.Time, from, to time.Time) bool {
	return t != nil && !t.Before(from) && t.Before(to)
}

func (r *AnalyticsRepo) CompletedSales(_ context.Context, from, to time.Time) ([]sales.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.SalesCalls++
	var out []sales.Sale
	for _, b := range r.s.st.budgets {
		if b.Status == entity.BudgetSaleCompleted && inWindow(b.CompletedAt, from, to) {
			out = append(out, sales.Sale{BudgetID: b.ID, FinalTotal: b.FinalTotal, CompletedAt: b.CompletedAt})
		}
	}
	return out, nil
}

func (r *AnalyticsRepo) CompletedLines(_ context.Context, from, to time.Time) ([]sales.Line, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []sales.Line
	for _, b := range r.s.st.budgets {
		if b.Status != entity.BudgetSaleCompleted || !inWindow(b.CompletedAt, from, to) {
			continue
		}
		for _, it := range r.s.st.items[b.ID] {
			line := sales.Line{
				BudgetID:    b.ID,
				ProductID:   it.ProductID,
				Quantity:    it.Quantity,
				Subtotal:    it.Subtotal,
				CompletedAt: b.CompletedAt,
			}
			if p, ok := r.s.st.products[it.ProductID]; ok {
				price := p.PurchasePrice
				line.ProductName = p.Name
				line.PurchasePrice = &price
			}
			out = append(out, line)
		}
	}
	return out, nil
}

func (r *AnalyticsRepo) CompletedHistory(_ context.Context) ([]sales.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []sales.Sale
	for _, b := range r.s.st.budgets {
		if b.Status == entity.BudgetSaleCompleted && b.CompletedAt != nil {
			out = append(out, sales.Sale{BudgetID: b.ID, FinalTotal: b.FinalTotal, CompletedAt: b.CompletedAt})
		}
	}
	return out, nil
}

func (r *AnalyticsRepo) CatalogStats(_ context.Context) (repository.CatalogStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := repository.CatalogStats{StockValue: decimal.Zero}
	for _, p := range r.s.st.products {
		st.TotalProducts++
		if !p.Active {
			continue
		}
		st.ActiveProducts++
		st.StockValue = st.StockValue.Add(p.SalePrice.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
	}
	st.StockValue = money.Round(st.StockValue)
	for _, b := range r.s.st.budgets {
		if !b.Status.IsTerminal() {
			st.OpenBudgets++
		}
	}
	return st, nil
}

func (r *AnalyticsRepo) LowStock(_ context.Context, limit int) ([]repository.LowStockRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []repository.LowStockRow
	for _, p := range r.s.st.products {
		if p.Active && p.StockQuantity <= limit {
			out = append(out, repository.LowStockRow{ProductID: p.ID, Code: p.Code, Name: p.Name, StockQuantity: p.StockQuantity})
		}
	}
	return out, nil
}
