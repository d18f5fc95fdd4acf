package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ampliart/ampliart-api/internal/domain"
	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/domain/repository"
)

var _ repository.BudgetRepository = (*BudgetRepo)(nil)

const budgetColumns = `id, client_name, client_phone, client_email, status, gross_total, adjustment_kind,
	adjustment_percentage, adjustment_amount, final_total, created_at, updated_at, completed_at`

// BudgetRepo persistencia del agregado orçamento (cabecera + ítems).
type BudgetRepo struct {
	q Querier
}

// NewBudgetRepository construye el adaptador de orçamentos. Pasar pool o tx (Querier).
func NewBudgetRepository(q Querier) *BudgetRepo {
	return &BudgetRepo{q: q}
}

func scanBudget(row pgx.Row) (*entity.Budget, error) {
	var (
		b      entity.Budget
		status string
		kind   *string
	)
	err := row.Scan(&b.ID, &b.ClientName, &b.ClientPhone, &b.ClientEmail, &status, &b.GrossTotal, &kind,
		&b.AdjustmentPercentage, &b.AdjustmentAmount, &b.FinalTotal, &b.CreatedAt, &b.UpdatedAt, &b.CompletedAt)
	if err != nil {
		return nil, err
	}
	b.Status = entity.BudgetStatus(status)
	if kind != nil {
		b.AdjustmentKind = entity.AdjustmentKind(*kind)
	}
	return &b, nil
}

func nullableKind(k entity.AdjustmentKind) *string {
	if k == entity.AdjustmentNone {
		return nil
	}
	s := string(k)
	return &s
}

// Create persiste la cabecera del orçamento (sin ítems).
func (r *BudgetRepo) Create(ctx context.Context, b *entity.Budget) error {
	query := `INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ClientName, b.ClientPhone, b.ClientEmail, string(b.Status), b.GrossTotal,
		nullableKind(b.AdjustmentKind), b.AdjustmentPercentage, b.AdjustmentAmount, b.FinalTotal,
		b.CreatedAt, b.UpdatedAt, b.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

// GetByID obtiene el orçamento con sus ítems.
func (r *BudgetRepo) GetByID(ctx context.Context, id string) (*entity.Budget, error) {
	return r.getWithItems(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id)
}

// GetForUpdate obtiene el orçamento con sus ítems y bloquea la fila de cabecera.
func (r *BudgetRepo) GetForUpdate(ctx context.Context, id string) (*entity.Budget, error) {
	return r.getWithItems(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1 FOR UPDATE`, id)
}

func (r *BudgetRepo) getWithItems(ctx context.Context, query, id string) (*entity.Budget, error) {
	b, err := scanBudget(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get budget: %w", err)
	}
	items, err := r.items(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.Items = items
	return b, nil
}

func (r *BudgetRepo) items(ctx context.Context, budgetID string) ([]entity.BudgetItem, error) {
	query := `
		SELECT i.id, i.budget_id, i.product_id, p.code, p.name, i.quantity, i.unit_price, i.subtotal
		FROM budget_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.budget_id = $1
		ORDER BY i.created_at, i.id`
	rows, err := r.q.Query(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("list budget items: %w", err)
	}
	defer rows.Close()
	var items []entity.BudgetItem
	for rows.Next() {
		var it entity.BudgetItem
		if err := rows.Scan(&it.ID, &it.BudgetID, &it.ProductID, &it.ProductCode, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan budget item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update guarda cabecera, ajuste, totales y fechas.
func (r *BudgetRepo) Update(ctx context.Context, b *entity.Budget) error {
	query := `
		UPDATE budgets SET client_name = $2, client_phone = $3, client_email = $4, status = $5,
			gross_total = $6, adjustment_kind = $7, adjustment_percentage = $8, adjustment_amount = $9,
			final_total = $10, updated_at = $11, completed_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		b.ID, b.ClientName, b.ClientPhone, b.ClientEmail, string(b.Status), b.GrossTotal,
		nullableKind(b.AdjustmentKind), b.AdjustmentPercentage, b.AdjustmentAmount, b.FinalTotal,
		b.UpdatedAt, b.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateItem agrega un ítem al orçamento.
func (r *BudgetRepo) CreateItem(ctx context.Context, it *entity.BudgetItem) error {
	query := `
		INSERT INTO budget_items (id, budget_id, product_id, quantity, unit_price, subtotal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`
	_, err := r.q.Exec(ctx, query, it.ID, it.BudgetID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: Produto não encontrado", domain.ErrNotFound)
		}
		return fmt.Errorf("insert budget item: %w", err)
	}
	return nil
}

// UpdateItem actualiza cantidad, precio y subtotal del ítem.
func (r *BudgetRepo) UpdateItem(ctx context.Context, it *entity.BudgetItem) error {
	_, err := r.q.Exec(ctx,
		`UPDATE budget_items SET quantity = $3, unit_price = $4, subtotal = $5 WHERE id = $1 AND budget_id = $2`,
		it.ID, it.BudgetID, it.Quantity, it.UnitPrice, it.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("update budget item: %w", err)
	}
	return nil
}

// DeleteItem elimina el ítem del orçamento.
func (r *BudgetRepo) DeleteItem(ctx context.Context, budgetID, itemID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM budget_items WHERE id = $1 AND budget_id = $2`, itemID, budgetID)
	if err != nil {
		return fmt.Errorf("delete budget item: %w", err)
	}
	return nil
}

// List lista cabeceras (sin ítems) del más reciente al más antiguo.
// From/To filtran created_at en la ventana [From, To).
func (r *BudgetRepo) List(ctx context.Context, filter entity.BudgetFilter) ([]*entity.Budget, error) {
	query, args, err := budgetListQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build budgets query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()
	var list []*entity.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func budgetListQuery(filter entity.BudgetFilter) sq.SelectBuilder {
	q := builder.Select(budgetColumns).From("budgets").OrderBy("created_at DESC")
	if filter.Status != nil {
		q = q.Where(sq.Eq{"status": string(*filter.Status)})
	}
	if filter.From != nil {
		q = q.Where(sq.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(sq.Lt{"created_at": *filter.To})
	}
	return q
}
