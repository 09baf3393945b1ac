package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("order not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Insert(ctx context.Context, o *Order) error
	List(ctx context.Context, limit int) ([]Order, error)
	LatestByEmail(ctx context.Context, email string) (*Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status Status) error
	UpdateLines(ctx context.Context, orderID int64, lines []Line, total float64, status Status) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const orderColumns = `id, created_at, usuario_email, telefono_cliente, detalle_pedido, total, estado, fecha_entrega, hora_entrega`

// Insert persists a new pedido and fills in the generated id and creation
// timestamp on the passed order.
func (r *PostgresRepository) Insert(ctx context.Context, o *Order) error {
	detalle, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("marshal detalle_pedido: %w", err)
	}

	var fecha any
	if !o.DeliveryDate.IsZero() {
		fecha = o.DeliveryDate
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO pedidos (usuario_email, telefono_cliente, detalle_pedido, total, estado, fecha_entrega, hora_entrega)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		o.CustomerEmail, o.Phone, detalle, o.Total, string(o.Status), fecha, o.DeliverySlot,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert pedido: %w", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o       Order
		detalle []byte
		estado  string
		fecha   *time.Time
	)
	if err := row.Scan(&o.ID, &o.CreatedAt, &o.CustomerEmail, &o.Phone, &detalle, &o.Total, &estado, &fecha, &o.DeliverySlot); err != nil {
		return Order{}, err
	}
	if len(detalle) > 0 {
		if err := json.Unmarshal(detalle, &o.Lines); err != nil {
			return Order{}, fmt.Errorf("unmarshal detalle_pedido: %w", err)
		}
	}
	o.Status = ParseStatus(estado)
	if fecha != nil {
		o.DeliveryDate = *fecha
	}
	return o, nil
}

// List returns the most recent orders, newest first. The board applies its
// own status-priority sort on top of this.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM pedidos ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select pedidos: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pedido: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return orders, nil
}

// LatestByEmail returns the customer's most recent order, or nil when the
// customer has never ordered.
func (r *PostgresRepository) LatestByEmail(ctx context.Context, email string) (*Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM pedidos WHERE usuario_email = $1 ORDER BY created_at DESC LIMIT 1`, email)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select latest pedido: %w", err)
	}
	return &o, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, orderID int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE pedidos SET estado = $2 WHERE id = $1`, orderID, string(status))
	if err != nil {
		return fmt.Errorf("update estado: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLines persists admin-adjusted line items together with the
// recomputed total and the resulting status in one statement, so a partial
// write can never leave the total out of step with the lines.
func (r *PostgresRepository) UpdateLines(ctx context.Context, orderID int64, lines []Line, total float64, status Status) error {
	detalle, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal detalle_pedido: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE pedidos SET detalle_pedido = $2, total = $3, estado = $4 WHERE id = $1`,
		orderID, detalle, total, string(status))
	if err != nil {
		return fmt.Errorf("update pedido: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
