package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
)

// OfferRepository owns special_offers rows.
type OfferRepository struct {
	DB *sql.DB
}

func (r OfferRepository) db() (*sql.DB, error) {
	return connOrDefault(r.DB)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ListOffers returns the committed offer set of a thing ordered by start.
func (r OfferRepository) ListOffers(ctx context.Context, thingID int64) ([]models.SpecialOffer, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	return listOffers(ctx, db, thingID)
}

func listOffers(ctx context.Context, q queryer, thingID int64) ([]models.SpecialOffer, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, thing_id, price_normal, price_tier_b, price_tier_c, start_at, end_at
		FROM special_offers
		WHERE thing_id = ?
		ORDER BY start_at ASC, id ASC
	`, thingID)
	if err != nil {
		return nil, wrap("load offers", "offers", err)
	}
	defer rows.Close()

	out := []models.SpecialOffer{}
	for rows.Next() {
		var o models.SpecialOffer
		var normal, tierB, tierC sql.NullInt64
		if err := rows.Scan(&o.ID, &o.ThingID, &normal, &tierB, &tierC, &o.StartAt, &o.EndAt); err != nil {
			return nil, wrap("scan offer", "offers", err)
		}
		o.Prices = models.TierPrices{}
		if normal.Valid {
			o.Prices[models.TierNormal] = normal.Int64
		}
		if tierB.Valid {
			o.Prices[models.TierB] = tierB.Int64
		}
		if tierC.Valid {
			o.Prices[models.TierC] = tierC.Int64
		}
		o.StartAt = o.StartAt.UTC()
		o.EndAt = o.EndAt.UTC()
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate offers", "offers", err)
	}
	return out, nil
}

// ReplaceOffers atomically swaps the whole offer set of a thing. The thing row is
// locked for the duration so concurrent replacements serialize; any failure rolls
// back the delete. The offers must already be validated.
func (r OfferRepository) ReplaceOffers(ctx context.Context, thingID int64, offers []models.SpecialOffer) ([]models.SpecialOffer, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrap("begin replace offers", "offers", err)
	}
	defer func() { _ = tx.Rollback() }()

	var locked int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM sellable_things WHERE id = ? FOR UPDATE`, thingID).Scan(&locked); err != nil {
		return nil, wrap("lock thing", "sellable thing", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM special_offers WHERE thing_id = ?`, thingID); err != nil {
		return nil, wrap("delete offers", "offers", err)
	}

	saved := make([]models.SpecialOffer, 0, len(offers))
	for i, o := range offers {
		normal, hasNormal := o.Prices.Get(models.TierNormal)
		tierB, hasB := o.Prices.Get(models.TierB)
		tierC, hasC := o.Prices.Get(models.TierC)

		res, err := tx.ExecContext(ctx, `
			INSERT INTO special_offers (thing_id, price_normal, price_tier_b, price_tier_c, start_at, end_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, thingID,
			nullableInt64(normal, hasNormal),
			nullableInt64(tierB, hasB),
			nullableInt64(tierC, hasC),
			o.StartAt.UTC(), o.EndAt.UTC())
		if err != nil {
			return nil, wrap(fmt.Sprintf("insert offer %d", i), "offers", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, wrap("offer id", "offers", err)
		}
		o.ID = id
		o.ThingID = thingID
		o.Prices = o.Prices.Clone()
		saved = append(saved, o)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrap("commit replace offers", "offers", err)
	}
	return saved, nil
}
