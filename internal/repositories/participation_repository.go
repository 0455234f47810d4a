package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
)

const participationColumns = `id, person_id, trip_id, approval_status, payment_status, amount_paid, registered_at, approved_at, approved_by`

// ParticipationRepository persists trip_participations. A UNIQUE(person_id, trip_id)
// key backs the guarded subscribe insert.
type ParticipationRepository struct {
	DB *sql.DB
}

func (r ParticipationRepository) db() (*sql.DB, error) {
	return connOrDefault(r.DB)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipation(row rowScanner) (models.ParticipationRecord, error) {
	var (
		rec        models.ParticipationRecord
		approval   string
		payment    string
		approvedAt sql.NullTime
		approvedBy sql.NullInt64
	)
	if err := row.Scan(&rec.ID, &rec.PersonID, &rec.TripID, &approval, &payment,
		&rec.AmountPaid, &rec.RegisteredAt, &approvedAt, &approvedBy); err != nil {
		return models.ParticipationRecord{}, err
	}
	rec.ApprovalStatus = models.ApprovalStatus(approval)
	rec.PaymentStatus = models.PaymentStatus(payment)
	rec.RegisteredAt = rec.RegisteredAt.UTC()
	if approvedAt.Valid {
		t := approvedAt.Time.UTC()
		rec.ApprovedAt = &t
	}
	rec.ApprovedBy = int64Ptr(approvedBy)
	return rec, nil
}

func (r ParticipationRepository) GetParticipation(ctx context.Context, id int64) (models.ParticipationRecord, error) {
	db, err := r.db()
	if err != nil {
		return models.ParticipationRecord{}, err
	}
	rec, err := scanParticipation(db.QueryRowContext(ctx,
		`SELECT `+participationColumns+` FROM trip_participations WHERE id = ?`, id))
	if err != nil {
		return models.ParticipationRecord{}, wrap("load participation", "participation", err)
	}
	return rec, nil
}

// FindParticipation loads the record of a (person, trip) pair.
func (r ParticipationRepository) FindParticipation(ctx context.Context, personID, tripID int64) (models.ParticipationRecord, error) {
	db, err := r.db()
	if err != nil {
		return models.ParticipationRecord{}, err
	}
	rec, err := scanParticipation(db.QueryRowContext(ctx,
		`SELECT `+participationColumns+` FROM trip_participations WHERE person_id = ? AND trip_id = ?`, personID, tripID))
	if err != nil {
		return models.ParticipationRecord{}, wrap("load participation", "participation", err)
	}
	return rec, nil
}

// InsertParticipation creates a record. A duplicate (person, trip) pair surfaces as
// StateError already-subscribed; the unique key makes check and insert one step.
func (r ParticipationRepository) InsertParticipation(ctx context.Context, rec models.ParticipationRecord) (models.ParticipationRecord, error) {
	db, err := r.db()
	if err != nil {
		return models.ParticipationRecord{}, err
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO trip_participations (person_id, trip_id, approval_status, payment_status, amount_paid, registered_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.PersonID, rec.TripID, string(rec.ApprovalStatus), string(rec.PaymentStatus), rec.AmountPaid, rec.RegisteredAt.UTC())
	if err != nil {
		if isDuplicateKey(err) {
			return models.ParticipationRecord{}, domain.StateError{
				Code: domain.StateAlreadySubscribed,
				Msg:  fmt.Sprintf("person %d is already subscribed to trip %d", rec.PersonID, rec.TripID),
			}
		}
		return models.ParticipationRecord{}, wrap("insert participation", "participation", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.ParticipationRecord{}, wrap("participation id", "participation", err)
	}
	rec.ID = id
	return rec, nil
}

// UpdateParticipation runs fn against the row while holding its lock and writes
// the result back. Errors from fn are returned unchanged and nothing is written.
func (r ParticipationRepository) UpdateParticipation(ctx context.Context, id int64, fn func(models.ParticipationRecord) (models.ParticipationRecord, error)) (models.ParticipationRecord, error) {
	db, err := r.db()
	if err != nil {
		return models.ParticipationRecord{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return models.ParticipationRecord{}, wrap("begin update participation", "participation", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := scanParticipation(tx.QueryRowContext(ctx,
		`SELECT `+participationColumns+` FROM trip_participations WHERE id = ? FOR UPDATE`, id))
	if err != nil {
		return models.ParticipationRecord{}, wrap("lock participation", "participation", err)
	}

	next, err := fn(current)
	if err != nil {
		return models.ParticipationRecord{}, err
	}

	var approvedAt sql.NullTime
	if next.ApprovedAt != nil {
		approvedAt = sql.NullTime{Time: next.ApprovedAt.UTC(), Valid: true}
	}
	var approvedBy sql.NullInt64
	if next.ApprovedBy != nil {
		approvedBy = sql.NullInt64{Int64: *next.ApprovedBy, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE trip_participations
		SET approval_status = ?, payment_status = ?, amount_paid = ?, approved_at = ?, approved_by = ?
		WHERE id = ?
	`, string(next.ApprovalStatus), string(next.PaymentStatus), next.AmountPaid, approvedAt, approvedBy, id)
	if err != nil {
		return models.ParticipationRecord{}, wrap("update participation", "participation", err)
	}

	if err := tx.Commit(); err != nil {
		return models.ParticipationRecord{}, wrap("commit participation", "participation", err)
	}
	return next, nil
}

// ListParticipations returns the records of one trip, or of every trip when tripID is 0.
func (r ParticipationRepository) ListParticipations(ctx context.Context, tripID int64) ([]models.ParticipationRecord, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + participationColumns + ` FROM trip_participations`
	args := []any{}
	if tripID > 0 {
		query += ` WHERE trip_id = ?`
		args = append(args, tripID)
	}
	query += ` ORDER BY id ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap("list participations", "participation", err)
	}
	defer rows.Close()

	out := []models.ParticipationRecord{}
	for rows.Next() {
		rec, err := scanParticipation(rows)
		if err != nil {
			return nil, wrap("scan participation", "participation", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate participations", "participation", err)
	}
	return out, nil
}
