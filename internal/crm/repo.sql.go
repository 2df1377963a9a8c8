package crm

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minicrm/minicrm/internal/platform/db"
	"github.com/minicrm/minicrm/internal/shared"
)

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const customerColumns = "id, name, email, phone, company, owner_id, created_at"
const leadColumns = "id, customer_id, title, description, status, value, created_at"

func (r *PGRepository) ListCustomers(ctx context.Context, scope Scope, req ListCustomersRequest) ([]Customer, error) {
	var conditions []string
	var args []any
	argPos := 1

	if !scope.All {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argPos))
		args = append(args, scope.OwnerID)
		argPos++
	}
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, pattern)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	query := fmt.Sprintf(`
		SELECT %s FROM customers
		%s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d
	`, customerColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Skip)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("crm: list customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *PGRepository) GetCustomer(ctx context.Context, scope Scope, id string) (*Customer, error) {
	query := fmt.Sprintf("SELECT %s FROM customers WHERE id = $1", customerColumns)
	args := []any{id}
	if !scope.All {
		query += " AND owner_id = $2"
		args = append(args, scope.OwnerID)
	}

	var c Customer
	err := r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.OwnerID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer", shared.ErrNotFound)
		}
		return nil, fmt.Errorf("crm: get customer: %w", err)
	}
	return &c, nil
}

func (r *PGRepository) CreateCustomer(ctx context.Context, customer Customer) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO customers (id, name, email, phone, company, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, customer.ID, customer.Name, customer.Email, customer.Phone, customer.Company, customer.OwnerID, customer.CreatedAt)
	if err != nil {
		return fmt.Errorf("crm: create customer: %w", err)
	}
	return nil
}

func (r *PGRepository) UpdateCustomer(ctx context.Context, id string, updates map[string]any) error {
	query := "UPDATE customers SET id = id"
	var args []any
	argPos := 1

	for _, col := range []string{"name", "email", "phone", "company"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("crm: update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: customer", shared.ErrNotFound)
	}
	return nil
}

// DeleteCustomerCascade removes a customer and all of its leads in one
// transaction.
func (r *PGRepository) DeleteCustomerCascade(ctx context.Context, scope Scope, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := "DELETE FROM customers WHERE id = $1"
		args := []any{id}
		if !scope.All {
			query += " AND owner_id = $2"
			args = append(args, scope.OwnerID)
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("crm: delete customer: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: customer", shared.ErrNotFound)
		}
		if _, err := tx.Exec(ctx, "DELETE FROM leads WHERE customer_id = $1", id); err != nil {
			return fmt.Errorf("crm: delete customer leads: %w", err)
		}
		return nil
	})
}

func (r *PGRepository) CountCustomers(ctx context.Context, scope Scope) (int, error) {
	query := "SELECT count(*) FROM customers"
	var args []any
	if !scope.All {
		query += " WHERE owner_id = $1"
		args = append(args, scope.OwnerID)
	}
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("crm: count customers: %w", err)
	}
	return count, nil
}

func (r *PGRepository) ListCustomerLeads(ctx context.Context, customerID string, status *LeadStatus) ([]Lead, error) {
	query := fmt.Sprintf("SELECT %s FROM leads WHERE customer_id = $1", leadColumns)
	args := []any{customerID}
	if status != nil {
		query += " AND status = $2"
		args = append(args, string(*status))
	}
	query += " ORDER BY created_at DESC, id"

	return r.queryLeads(ctx, query, args...)
}

func (r *PGRepository) ListLeads(ctx context.Context, scope Scope, status *LeadStatus) ([]Lead, error) {
	var conditions []string
	var args []any
	argPos := 1

	if !scope.All {
		conditions = append(conditions, fmt.Sprintf("c.owner_id = $%d", argPos))
		args = append(args, scope.OwnerID)
		argPos++
	}
	if status != nil {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argPos))
		args = append(args, string(*status))
		argPos++
	}

	query := `
		SELECT l.id, l.customer_id, l.title, l.description, l.status, l.value, l.created_at
		FROM leads l
		JOIN customers c ON c.id = l.customer_id
	`
	if len(conditions) > 0 {
		query += " WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			query += " AND " + conditions[i]
		}
	}
	query += " ORDER BY l.created_at DESC, l.id"

	return r.queryLeads(ctx, query, args...)
}

func (r *PGRepository) GetLead(ctx context.Context, id string) (*Lead, error) {
	query := fmt.Sprintf("SELECT %s FROM leads WHERE id = $1", leadColumns)
	var l Lead
	var status string
	err := r.pool.QueryRow(ctx, query, id).Scan(&l.ID, &l.CustomerID, &l.Title, &l.Description, &status, &l.Value, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: lead", shared.ErrNotFound)
		}
		return nil, fmt.Errorf("crm: get lead: %w", err)
	}
	l.Status = LeadStatus(status)
	return &l, nil
}

func (r *PGRepository) CreateLead(ctx context.Context, lead Lead) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO leads (id, customer_id, title, description, status, value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, lead.ID, lead.CustomerID, lead.Title, lead.Description, string(lead.Status), lead.Value, lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("crm: create lead: %w", err)
	}
	return nil
}

func (r *PGRepository) UpdateLead(ctx context.Context, id string, updates map[string]any) error {
	query := "UPDATE leads SET id = id"
	var args []any
	argPos := 1

	for _, col := range []string{"title", "description", "status", "value"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("crm: update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: lead", shared.ErrNotFound)
	}
	return nil
}

func (r *PGRepository) DeleteLead(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM leads WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("crm: delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: lead", shared.ErrNotFound)
	}
	return nil
}

func (r *PGRepository) queryLeads(ctx context.Context, query string, args ...any) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("crm: list leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var l Lead
		var status string
		if err := rows.Scan(&l.ID, &l.CustomerID, &l.Title, &l.Description, &status, &l.Value, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Status = LeadStatus(status)
		leads = append(leads, l)
	}
	return leads, rows.Err()
}
