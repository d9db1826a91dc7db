package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// queryer is satisfied by both *sql.DB and *sql.Tx, so the same store code
// serves direct reads and transactional units of work.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type pgStore struct {
	q queryer
}

// PostgresRepository implements Repository on postgres.
type PostgresRepository struct {
	pgStore
	db *sql.DB
}

func NewPostgresRepository(cred *Credentials) (*PostgresRepository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &PostgresRepository{pgStore: pgStore{q: db}, db: db}, nil
}

func (r *PostgresRepository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *PostgresRepository) Within(ctx context.Context, fn func(tx Store) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&pgStore{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// --- ItemStore ---

func (s *pgStore) FindItem(ctx context.Context, id int64) (*domain.Item, error) {
	query := `SELECT id, name, price, stock, status FROM items WHERE id = $1`

	var item domain.Item
	err := s.q.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Price, &item.Stock, &item.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query item by id: %w", err)
	}
	return &item, nil
}

func (s *pgStore) FindItemByName(ctx context.Context, name string) (*domain.Item, error) {
	query := `SELECT id, name, price, stock, status FROM items WHERE name = $1`

	var item domain.Item
	err := s.q.QueryRowContext(ctx, query, name).Scan(
		&item.ID, &item.Name, &item.Price, &item.Stock, &item.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query item by name: %w", err)
	}
	return &item, nil
}

func (s *pgStore) SaveItem(ctx context.Context, item *domain.Item) error {
	if item.ID == 0 {
		query := `INSERT INTO items (name, price, stock, status) VALUES ($1, $2, $3, $4) RETURNING id`
		err := s.q.QueryRowContext(ctx, query, item.Name, item.Price, item.Stock, item.Status).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		return nil
	}

	query := `UPDATE items SET name = $2, price = $3, stock = $4, status = $5 WHERE id = $1`
	if _, err := s.q.ExecContext(ctx, query, item.ID, item.Name, item.Price, item.Stock, item.Status); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func (s *pgStore) ReserveStock(ctx context.Context, itemID int64, quantity int) error {
	// Conditional decrement: the stock check and the write are one
	// statement, so two concurrent reservations cannot both pass the
	// check when combined quantity exceeds stock.
	query := `UPDATE items SET stock = stock - $2 WHERE id = $1 AND stock >= $2`

	res, err := s.q.ExecContext(ctx, query, itemID, quantity)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve stock rows affected: %w", err)
	}
	if affected == 0 {
		if _, findErr := s.FindItem(ctx, itemID); findErr != nil {
			return findErr
		}
		return domain.ErrOutOfStock
	}
	return nil
}

func (s *pgStore) ReleaseStock(ctx context.Context, itemID int64, quantity int) error {
	query := `UPDATE items SET stock = stock + $2 WHERE id = $1`

	res, err := s.q.ExecContext(ctx, query, itemID, quantity)
	if err != nil {
		return fmt.Errorf("release stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release stock rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (s *pgStore) ItemsAtOrBelowStock(ctx context.Context, threshold int, status domain.ItemStatus) ([]*domain.Item, error) {
	query := `SELECT id, name, price, stock, status FROM items WHERE stock <= $1 AND status = $2 ORDER BY id`

	rows, err := s.q.QueryContext(ctx, query, threshold, status)
	if err != nil {
		return nil, fmt.Errorf("query low stock items: %w", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Stock, &item.Status); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

// --- OrderStore ---

func (s *pgStore) SaveOrder(ctx context.Context, order *domain.Order) error {
	if order.ID == 0 {
		query := `INSERT INTO orders (member_id, status, total, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
		err := s.q.QueryRowContext(ctx, query, order.MemberID, order.Status, order.Total, order.CreatedAt).Scan(&order.ID)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		return nil
	}

	query := `UPDATE orders SET status = $2, total = $3 WHERE id = $1`
	if _, err := s.q.ExecContext(ctx, query, order.ID, order.Status, order.Total); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

func (s *pgStore) FindOrder(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT id, member_id, status, total, created_at FROM orders WHERE id = $1`

	var order domain.Order
	err := s.q.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.MemberID, &order.Status, &order.Total, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	lines, err := s.linesByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	order.RecalculateTotal()
	return &order, nil
}

func (s *pgStore) linesByOrder(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	query := `SELECT id, order_id, item_id, quantity, price FROM order_lines WHERE order_id = $1 ORDER BY id`

	rows, err := s.q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ItemID, &line.Quantity, &line.Price); err != nil {
			return nil, fmt.Errorf("scan order line row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return lines, nil
}

func (s *pgStore) ListOrdersByMember(ctx context.Context, memberID int64, limit, offset int) ([]*domain.Order, error) {
	query := `SELECT id, member_id, status, total, created_at FROM orders
	          WHERE member_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`

	rows, err := s.q.QueryContext(ctx, query, memberID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query orders by member: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.MemberID, &order.Status, &order.Total, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, order := range orders {
		lines, err := s.linesByOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Lines = lines
		order.RecalculateTotal()
	}
	return orders, nil
}

// DeleteOrder removes the order's lines and history before the order row:
// the cascade is explicit, not delegated to schema-level ON DELETE rules.
func (s *pgStore) DeleteOrder(ctx context.Context, id int64) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("delete order lines: %w", err)
	}
	if _, err := s.q.ExecContext(ctx, `DELETE FROM order_status_history WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("delete order history: %w", err)
	}

	res, err := s.q.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (s *pgStore) FindOrderLine(ctx context.Context, id int64) (*domain.OrderLine, error) {
	query := `SELECT id, order_id, item_id, quantity, price FROM order_lines WHERE id = $1`

	var line domain.OrderLine
	err := s.q.QueryRowContext(ctx, query, id).Scan(
		&line.ID, &line.OrderID, &line.ItemID, &line.Quantity, &line.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order line by id: %w", err)
	}
	return &line, nil
}

func (s *pgStore) SaveOrderLine(ctx context.Context, line *domain.OrderLine) error {
	if line.ID == 0 {
		query := `INSERT INTO order_lines (order_id, item_id, quantity, price) VALUES ($1, $2, $3, $4) RETURNING id`
		err := s.q.QueryRowContext(ctx, query, line.OrderID, line.ItemID, line.Quantity, line.Price).Scan(&line.ID)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
		return nil
	}

	query := `UPDATE order_lines SET quantity = $2, price = $3 WHERE id = $1`
	if _, err := s.q.ExecContext(ctx, query, line.ID, line.Quantity, line.Price); err != nil {
		return fmt.Errorf("update order line: %w", err)
	}
	return nil
}

func (s *pgStore) HistoryExists(ctx context.Context, orderID int64, status domain.OrderStatus) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM order_status_history WHERE order_id = $1 AND status = $2)`

	var exists bool
	if err := s.q.QueryRowContext(ctx, query, orderID, status).Scan(&exists); err != nil {
		return false, fmt.Errorf("query history exists: %w", err)
	}
	return exists, nil
}

func (s *pgStore) AppendHistory(ctx context.Context, orderID int64, status domain.OrderStatus, at time.Time) error {
	query := `INSERT INTO order_status_history (order_id, status, occurred_at) VALUES ($1, $2, $3)`

	if _, err := s.q.ExecContext(ctx, query, orderID, status, at); err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

func (s *pgStore) HistoryByOrder(ctx context.Context, orderID int64) ([]domain.StatusHistoryEntry, error) {
	query := `SELECT id, order_id, status, occurred_at FROM order_status_history
	          WHERE order_id = $1 ORDER BY occurred_at, id`

	rows, err := s.q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query status history: %w", err)
	}
	defer rows.Close()

	var entries []domain.StatusHistoryEntry
	for rows.Next() {
		var entry domain.StatusHistoryEntry
		if err := rows.Scan(&entry.ID, &entry.OrderID, &entry.Status, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// --- PaymentStore ---

func (s *pgStore) SavePayment(ctx context.Context, payment *domain.Payment) error {
	if payment.ID == 0 {
		query := `INSERT INTO payments (member_id, order_id, amount, status, paid_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
		err := s.q.QueryRowContext(ctx, query,
			payment.MemberID, payment.OrderID, payment.Amount, payment.Status, payment.PaidAt).Scan(&payment.ID)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		return nil
	}

	query := `UPDATE payments SET amount = $2, status = $3 WHERE id = $1`
	if _, err := s.q.ExecContext(ctx, query, payment.ID, payment.Amount, payment.Status); err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

func (s *pgStore) FindPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	query := `SELECT id, member_id, order_id, amount, status, paid_at FROM payments WHERE id = $1`

	var payment domain.Payment
	err := s.q.QueryRowContext(ctx, query, id).Scan(
		&payment.ID, &payment.MemberID, &payment.OrderID, &payment.Amount, &payment.Status, &payment.PaidAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query payment by id: %w", err)
	}
	return &payment, nil
}

func (s *pgStore) PaymentsByMember(ctx context.Context, memberID int64) ([]*domain.Payment, error) {
	query := `SELECT id, member_id, order_id, amount, status, paid_at FROM payments
	          WHERE member_id = $1 ORDER BY id`

	rows, err := s.q.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("query payments by member: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(&payment.ID, &payment.MemberID, &payment.OrderID,
			&payment.Amount, &payment.Status, &payment.PaidAt); err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, &payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return payments, nil
}

// --- PromotionStore ---

func (s *pgStore) SavePromotion(ctx context.Context, promotion *domain.Promotion) error {
	if promotion.ID == 0 {
		query := `INSERT INTO promotions (item_id, discount_rate, start_date, end_date, coupon_code)
		          VALUES ($1, $2, $3, $4, $5) RETURNING id`
		err := s.q.QueryRowContext(ctx, query, promotion.ItemID, promotion.DiscountRate,
			promotion.StartDate, promotion.EndDate, promotion.CouponCode).Scan(&promotion.ID)
		if err != nil {
			return fmt.Errorf("insert promotion: %w", err)
		}
		return nil
	}

	query := `UPDATE promotions SET discount_rate = $2, start_date = $3, end_date = $4, coupon_code = $5 WHERE id = $1`
	if _, err := s.q.ExecContext(ctx, query, promotion.ID, promotion.DiscountRate,
		promotion.StartDate, promotion.EndDate, promotion.CouponCode); err != nil {
		return fmt.Errorf("update promotion: %w", err)
	}
	return nil
}

func (s *pgStore) ActivePromotionForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Promotion, error) {
	query := `SELECT id, item_id, discount_rate, start_date, end_date, coupon_code FROM promotions
	          WHERE item_id = $1 AND start_date <= $2 AND end_date >= $2 LIMIT 1`

	var promotion domain.Promotion
	err := s.q.QueryRowContext(ctx, query, itemID, now).Scan(
		&promotion.ID, &promotion.ItemID, &promotion.DiscountRate,
		&promotion.StartDate, &promotion.EndDate, &promotion.CouponCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPromotionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query active promotion: %w", err)
	}
	return &promotion, nil
}

func (s *pgStore) OverlapExists(ctx context.Context, itemID int64, start, end time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM promotions
	          WHERE item_id = $1 AND start_date <= $3 AND end_date >= $2)`

	var exists bool
	if err := s.q.QueryRowContext(ctx, query, itemID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("query promotion overlap: %w", err)
	}
	return exists, nil
}

func (s *pgStore) ItemsWithActivePromotions(ctx context.Context, now time.Time) ([]*domain.Item, error) {
	query := `SELECT DISTINCT i.id, i.name, i.price, i.stock, i.status
	          FROM items i JOIN promotions p ON p.item_id = i.id
	          WHERE p.start_date <= $1 AND p.end_date >= $1 ORDER BY i.id`

	rows, err := s.q.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("query items with promotions: %w", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Stock, &item.Status); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

// --- BucketStore ---

func (s *pgStore) SaveBucketLine(ctx context.Context, line *domain.BucketLine) error {
	if line.ID == 0 {
		query := `INSERT INTO bucket_lines (member_id, item_id, quantity, item_total, selected)
		          VALUES ($1, $2, $3, $4, $5) RETURNING id`
		err := s.q.QueryRowContext(ctx, query, line.MemberID, line.ItemID,
			line.Quantity, line.ItemTotal, line.Selected).Scan(&line.ID)
		if err != nil {
			return fmt.Errorf("insert bucket line: %w", err)
		}
		return nil
	}

	query := `UPDATE bucket_lines SET quantity = $2, item_total = $3, selected = $4 WHERE id = $1`
	if _, err := s.q.ExecContext(ctx, query, line.ID, line.Quantity, line.ItemTotal, line.Selected); err != nil {
		return fmt.Errorf("update bucket line: %w", err)
	}
	return nil
}

func (s *pgStore) FindBucketLine(ctx context.Context, id int64) (*domain.BucketLine, error) {
	query := `SELECT id, member_id, item_id, quantity, item_total, selected FROM bucket_lines WHERE id = $1`

	var line domain.BucketLine
	err := s.q.QueryRowContext(ctx, query, id).Scan(
		&line.ID, &line.MemberID, &line.ItemID, &line.Quantity, &line.ItemTotal, &line.Selected)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBucketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query bucket line by id: %w", err)
	}
	return &line, nil
}

func (s *pgStore) BucketLineByMemberAndItem(ctx context.Context, memberID, itemID int64) (*domain.BucketLine, error) {
	query := `SELECT id, member_id, item_id, quantity, item_total, selected FROM bucket_lines
	          WHERE member_id = $1 AND item_id = $2`

	var line domain.BucketLine
	err := s.q.QueryRowContext(ctx, query, memberID, itemID).Scan(
		&line.ID, &line.MemberID, &line.ItemID, &line.Quantity, &line.ItemTotal, &line.Selected)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBucketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query bucket line by member and item: %w", err)
	}
	return &line, nil
}

func (s *pgStore) BucketLinesByMember(ctx context.Context, memberID int64) ([]*domain.BucketLine, error) {
	query := `SELECT id, member_id, item_id, quantity, item_total, selected FROM bucket_lines
	          WHERE member_id = $1 ORDER BY id`

	rows, err := s.q.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("query bucket lines by member: %w", err)
	}
	defer rows.Close()

	var lines []*domain.BucketLine
	for rows.Next() {
		var line domain.BucketLine
		if err := rows.Scan(&line.ID, &line.MemberID, &line.ItemID,
			&line.Quantity, &line.ItemTotal, &line.Selected); err != nil {
			return nil, fmt.Errorf("scan bucket line row: %w", err)
		}
		lines = append(lines, &line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return lines, nil
}

func (s *pgStore) DeleteBucketLine(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM bucket_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bucket line: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bucket line rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrBucketNotFound
	}
	return nil
}

// --- MemberStore ---

func (s *pgStore) FindMember(ctx context.Context, id int64) (*domain.Member, error) {
	query := `SELECT id, user_id, name, created_at FROM members WHERE id = $1`

	var member domain.Member
	err := s.q.QueryRowContext(ctx, query, id).Scan(
		&member.ID, &member.UserID, &member.Name, &member.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query member by id: %w", err)
	}
	return &member, nil
}

func (s *pgStore) SaveMember(ctx context.Context, member *domain.Member) error {
	if member.ID == 0 {
		query := `INSERT INTO members (user_id, name, created_at) VALUES ($1, $2, $3) RETURNING id`
		err := s.q.QueryRowContext(ctx, query, member.UserID, member.Name, member.CreatedAt).Scan(&member.ID)
		if err != nil {
			return fmt.Errorf("insert member: %w", err)
		}
		return nil
	}

	query := `UPDATE members SET user_id = $2, name = $3 WHERE id = $1`
	if _, err := s.q.ExecContext(ctx, query, member.ID, member.UserID, member.Name); err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}
