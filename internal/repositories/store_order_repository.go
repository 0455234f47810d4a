package repositories

import (
	"context"
	"database/sql"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
)

// StoreOrderRepository reads store order lines for demand reporting.
type StoreOrderRepository struct {
	DB *sql.DB
}

func (r StoreOrderRepository) db() (*sql.DB, error) {
	return connOrDefault(r.DB)
}

// ListStoreOrderDemand maps every order line onto a demand record. Lines of
// cancelled or rejected orders come back flagged as cancelled.
func (r StoreOrderRepository) ListStoreOrderDemand(ctx context.Context) ([]models.DemandRecord, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT i.item_id, o.status, i.quantity
		FROM store_order_items i
		JOIN store_orders o ON o.id = i.order_id
		ORDER BY i.item_id ASC, i.id ASC
	`)
	if err != nil {
		return nil, wrap("list store orders", "store order", err)
	}
	defer rows.Close()

	out := []models.DemandRecord{}
	for rows.Next() {
		var (
			itemID   int64
			status   string
			quantity int64
		)
		if err := rows.Scan(&itemID, &status, &quantity); err != nil {
			return nil, wrap("scan store order", "store order", err)
		}
		out = append(out, domain.StoreOrderDemand(itemID, status, quantity))
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate store orders", "store order", err)
	}
	return out, nil
}
