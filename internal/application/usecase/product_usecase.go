package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ampliart/ampliart-api/internal/application/dto"
	"github.com/ampliart/ampliart-api/internal/domain"
	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/domain/money"
	"github.com/ampliart/ampliart-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El estoque se maneja vía movimientos.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories}
}

// Create crea un nuevo producto. Código duplicado: "Código já cadastrado".
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: Código e nome são obrigatórios", domain.ErrInvalidInput)
	}
	if err := validatePrices(in.PurchasePrice, in.SalePrice); err != nil {
		return nil, err
	}
	if in.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: Estoque não pode ser negativo", domain.ErrInvalidInput)
	}
	categoryID, err := uc.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errDuplicateCode
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		CategoryID:    categoryID,
		PurchasePrice: money.Round(in.PurchasePrice),
		SalePrice:     money.Round(in.SalePrice),
		StockQuantity: in.StockQuantity,
		Active:        active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errDuplicateCode
		}
		return nil, err
	}
	return ToProductResponse(product), nil
}

var errDuplicateCode = fmt.Errorf("%w: Código já cadastrado", domain.ErrDuplicate)

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: Produto não encontrado", domain.ErrNotFound)
	}
	return product, nil
}

// Update actualiza un producto. El estoque no se modifica aquí.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: Código e nome são obrigatórios", domain.ErrInvalidInput)
		}
		product.Code = code
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: Código e nome são obrigatórios", domain.ErrInvalidInput)
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.CategoryID != nil {
		categoryID, err := uc.resolveCategory(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = categoryID
	}
	if in.PurchasePrice != nil {
		product.PurchasePrice = money.Round(*in.PurchasePrice)
	}
	if in.SalePrice != nil {
		product.SalePrice = money.Round(*in.SalePrice)
	}
	if err := validatePrices(product.PurchasePrice, product.SalePrice); err != nil {
		return nil, err
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errDuplicateCode
		}
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List aplica el primer filtro que corresponda: código (exacto), nombre + activo, nombre,
// activo o todos. category_id se suma como filtro adicional.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	filter := entity.ProductFilter{CategoryID: strings.TrimSpace(in.CategoryID)}
	name := strings.TrimSpace(in.Name)
	active, hasActive := parseActive(in.Active)

	switch code := strings.TrimSpace(in.Code); {
	case code != "":
		filter.Code = code
	case name != "" && hasActive:
		filter.Name, filter.Active = name, &active
	case name != "":
		filter.Name = name
	case hasActive:
		filter.Active = &active
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

// Search busca por texto: primero código exacto; si no hay, nombre + categoría, nombre,
// categoría o todos.
func (uc *ProductUseCase) Search(ctx context.Context, q, categoryID string) (*dto.ProductListResponse, error) {
	q = strings.TrimSpace(q)
	categoryID = strings.TrimSpace(categoryID)
	if q != "" {
		p, err := uc.repo.GetByCode(ctx, q)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return toProductList([]*entity.Product{p}), nil
		}
	}
	list, err := uc.repo.List(ctx, entity.ProductFilter{Name: q, CategoryID: categoryID})
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

// resolveCategory la categoría es obligatoria, debe existir y no puede ser la por defecto.
func (uc *ProductUseCase) resolveCategory(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: Selecione uma categoria", domain.ErrInvalidInput)
	}
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", fmt.Errorf("%w: Categoria inválida", domain.ErrInvalidInput)
	}
	if c.IsDefault() {
		return "", fmt.Errorf("%w: Selecione uma categoria válida", domain.ErrInvalidInput)
	}
	return c.ID, nil
}

func validatePrices(purchase, sale decimal.Decimal) error {
	if purchase.IsNegative() || sale.IsNegative() {
		return fmt.Errorf("%w: Preços não podem ser negativos", domain.ErrInvalidInput)
	}
	return nil
}

func parseActive(s string) (bool, bool) {
	if strings.TrimSpace(s) == "" {
		return false, false
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false
	}
	return v, true
}

var oneHundred = decimal.NewFromInt(100)

// Margin margen sobre el costo: (venta − costo) × 100 / costo, redondeado a entero, "N%".
// "-" si el costo es cero o negativo.
func Margin(purchase, sale decimal.Decimal) string {
	if !purchase.IsPositive() {
		return "-"
	}
	pct := sale.Sub(purchase).Mul(oneHundred).DivRound(purchase, 0)
	return pct.String() + "%"
}

func toProductList(list []*entity.Product) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}
}

// ToProductResponse mapea la entidad a la respuesta HTTP.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		StockQuantity: p.StockQuantity,
		Active:        p.Active,
		Margin:        Margin(p.PurchasePrice, p.SalePrice),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
