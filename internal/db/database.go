package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wellywell/orderhub/internal/types"
)

type Database struct {
	pool *pgxpool.Pool
}

func NewDatabase(connString string) (*Database, error) {

	err := Migrate(connString)

	if err != nil {
		return nil, fmt.Errorf("failed to migrate %w", err)
	}

	ctx := context.Background()

	conf, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, err
	}
	conf.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	p, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, err
	}

	return &Database{
		pool: p,
	}, nil
}

func (d *Database) Close() {
	d.pool.Close()
}

const upsertOrderQuery = `
	INSERT INTO orders
		(order_id, customer_email, customer_name, product_name,
		 quantity, unit_price, total_amount, status, order_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (order_id)
	DO UPDATE SET
		customer_email = EXCLUDED.customer_email,
		customer_name = EXCLUDED.customer_name,
		product_name = EXCLUDED.product_name,
		quantity = EXCLUDED.quantity,
		unit_price = EXCLUDED.unit_price,
		total_amount = EXCLUDED.total_amount,
		status = EXCLUDED.status,
		order_date = EXCLUDED.order_date,
		updated_at = now()`

// UpsertOrders writes a deduplicated batch in a single transaction.
// created_at is set by the insert default and never touched on update.
func (d *Database) UpsertOrders(ctx context.Context, orders []types.Order) error {

	if len(orders) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, o := range orders {
		batch.Queue(upsertOrderQuery,
			o.OrderID, o.CustomerEmail, o.CustomerName, o.ProductName,
			o.Quantity, o.UnitPrice, o.TotalAmount, o.Status, o.OrderDate)
	}

	results := tx.SendBatch(ctx, batch)
	for range orders {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			var pgErr *pgconn.PgError
			constraint := errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code)
			return fmt.Errorf("%w", &BatchWriteError{Rows: len(orders), Constraint: constraint, Err: err})
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("%w", &BatchWriteError{Rows: len(orders), Err: err})
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("%w", &BatchWriteError{Rows: len(orders), Err: err})
	}
	return nil
}

const orderColumns = `
	id, order_id, customer_email, customer_name, product_name,
	quantity, unit_price, total_amount, status, order_date,
	created_at, updated_at`

// SearchOrders runs the filter as an indexed range scan and returns one
// page plus the total matching count. Ordering is order_date descending,
// ties broken by the surrogate id, so paging is deterministic.
func (d *Database) SearchOrders(ctx context.Context, filter types.OrderFilter) ([]types.OrderInfo, int, error) {

	where, args := buildOrderFilter(filter)

	var total int
	row := d.pool.QueryRow(ctx, `SELECT count(*) FROM orders`+where, args...)
	if err := row.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed counting rows %w", err)
	}

	if total == 0 {
		return []types.OrderInfo{}, 0, nil
	}

	query := fmt.Sprintf(
		`SELECT %s FROM orders%s ORDER BY order_date DESC, id DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed collecting rows %w", err)
	}

	orders, err := pgx.CollectRows(rows, pgx.RowToStructByName[types.OrderInfo])
	if err != nil {
		return nil, 0, fmt.Errorf("failed unpacking rows %w", err)
	}
	return orders, total, nil
}

func buildOrderFilter(filter types.OrderFilter) (string, []any) {

	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.CustomerEmail != "" {
		add("customer_email = $%d", filter.CustomerEmail)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.StartDate != nil {
		add("order_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("order_date <= $%d", *filter.EndDate)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	where := " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

func (d *Database) GetOrder(ctx context.Context, orderID string) (*types.OrderInfo, error) {

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE order_id = $1`, orderColumns)

	rows, err := d.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed collecting rows %w", err)
	}

	order, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[types.OrderInfo])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w", &OrderNotFoundError{OrderID: orderID})
		}
		return nil, fmt.Errorf("failed unpacking rows %w", err)
	}
	return &order, nil
}

// GetOrderStats aggregates in the database, the full data set is never
// loaded into memory.
func (d *Database) GetOrderStats(ctx context.Context) (*types.OrderStats, error) {

	stats := types.OrderStats{
		TotalRevenue: decimal.Zero,
		ByStatus:     map[types.Status]int64{},
	}

	row := d.pool.QueryRow(ctx,
		`SELECT count(*), COALESCE(sum(total_amount), 0) FROM orders`)
	if err := row.Scan(&stats.TotalOrders, &stats.TotalRevenue); err != nil {
		return nil, fmt.Errorf("failed counting orders %w", err)
	}

	rows, err := d.pool.Query(ctx,
		`SELECT status, count(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed collecting rows %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status types.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed unpacking rows %w", err)
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading rows %w", err)
	}
	return &stats, nil
}
