package repos

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID              string          `db:"id"`
	Username        string          `db:"username"`
	DisplayName     string          `db:"ucp_name"`
	SenderCharacter string          `db:"sender_character"`
	FullName        string          `db:"full_name"`
	Phone           string          `db:"phone"`
	Address         string          `db:"address"`
	Items           string          `db:"items"`
	Total           decimal.Decimal `db:"total"`
	PaymentMethod   string          `db:"payment_method"`
	Status          string          `db:"status"`
	CreatedAt       time.Time       `db:"created_at"`
}

const orderCols = `id, username, ucp_name, sender_character, full_name, phone, address,
	items, total, payment_method, status, created_at`

func (row orderRow) toDomain() (domain.Order, error) {
	items := []domain.LineItem{}
	if row.Items != "" {
		if err := json.Unmarshal([]byte(row.Items), &items); err != nil {
			return domain.Order{}, fmt.Errorf("order %s items: %w", row.ID, err)
		}
	}
	return domain.Order{
		ID:              row.ID,
		Username:        row.Username,
		DisplayName:     row.DisplayName,
		SenderCharacter: row.SenderCharacter,
		FullName:        row.FullName,
		Phone:           row.Phone,
		Address:         row.Address,
		Items:           items,
		Total:           row.Total,
		PaymentMethod:   row.PaymentMethod,
		Status:          domain.OrderStatus(row.Status),
		CreatedAt:       row.CreatedAt,
	}, nil
}

// Create persists the order with a fresh id and the default status.
func (r *OrderRepo) Create(in domain.NewOrder) (domain.Order, error) {
	items, err := json.Marshal(in.Items)
	if err != nil {
		return domain.Order{}, err
	}
	row := orderRow{
		ID:              uuid.NewString(),
		Username:        in.Username,
		DisplayName:     in.DisplayName,
		SenderCharacter: in.SenderCharacter,
		FullName:        in.FullName,
		Phone:           in.Phone,
		Address:         in.Address,
		Items:           string(items),
		Total:           in.Total,
		PaymentMethod:   in.PaymentMethod,
		Status:          string(domain.StatusPreparing),
		CreatedAt:       time.Now().UTC(),
	}
	_, err = r.db.NamedExec(`
	  INSERT INTO orders
	    (id, username, ucp_name, sender_character, full_name, phone, address, items, total, payment_method, status, created_at)
	  VALUES
	    (:id, :username, :ucp_name, :sender_character, :full_name, :phone, :address, :items, :total, :payment_method, :status, :created_at)
	`, row)
	if err != nil {
		return domain.Order{}, err
	}
	return row.toDomain()
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var row orderRow
	if err := r.db.Get(&row, r.db.Rebind(`SELECT `+orderCols+` FROM orders WHERE id = ?`), id); err != nil {
		return domain.Order{}, err
	}
	return row.toDomain()
}

// List returns orders newest first; a non-empty username filters to that user.
func (r *OrderRepo) List(username string) ([]domain.Order, error) {
	var rows []orderRow
	var err error
	if username == "" {
		err = r.db.Select(&rows, `SELECT `+orderCols+` FROM orders ORDER BY created_at DESC`)
	} else {
		err = r.db.Select(&rows, r.db.Rebind(`
			SELECT `+orderCols+` FROM orders WHERE username = ? ORDER BY created_at DESC
		`), username)
	}
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// UpdateStatus overwrites the status and returns the updated order.
func (r *OrderRepo) UpdateStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	res, err := r.db.Exec(r.db.Rebind(`UPDATE orders SET status = ? WHERE id = ?`), string(status), id)
	if err != nil {
		return domain.Order{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Order{}, sql.ErrNoRows
	}
	return r.Get(id)
}

func (r *OrderRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM orders`)
	return n, err
}
