package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
)

// PersonRepository reads roster members. The engine never writes them.
type PersonRepository struct {
	DB *sql.DB
}

func (r PersonRepository) db() (*sql.DB, error) {
	return connOrDefault(r.DB)
}

func (r PersonRepository) GetPerson(ctx context.Context, id int64) (models.Person, error) {
	db, err := r.db()
	if err != nil {
		return models.Person{}, err
	}

	var (
		p    models.Person
		tier string
	)
	err = db.QueryRowContext(ctx, `SELECT id, full_name, pricing_tier FROM people WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &tier)
	if err != nil {
		return models.Person{}, wrap("load person", "person", err)
	}

	p.Tier, err = models.ParsePricingTier(tier)
	if err != nil {
		return models.Person{}, domain.ValidationError{
			Code:  domain.ReasonInvalidTier,
			Index: -1,
			Other: -1,
			Field: "pricing_tier",
			Msg:   fmt.Sprintf("person %d has unknown pricing tier %q", id, tier),
			Err:   err,
		}
	}
	return p, nil
}
