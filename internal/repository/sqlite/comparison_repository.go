package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vytor/cardrank/internal/logger"
	"github.com/vytor/cardrank/internal/models"
	"github.com/vytor/cardrank/internal/repository"
)

type comparisonRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewComparisonRepository creates a new ComparisonRepository implementation
func NewComparisonRepository(db *sql.DB) repository.ComparisonRepository {
	return &comparisonRepository{db: db, now: time.Now}
}

func (r *comparisonRepository) Record(ctx context.Context, winnerID, loserID models.CardID, fn repository.RatingFunc) (*models.Comparison, error) {
	log := logger.FromContext(ctx).WithPrefix("comparison_repo")
	log.Debug("recording comparison: winner_id=%s, loser_id=%s", winnerID, loserID)

	var cmp models.Comparison
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		winnerOld, err := ratingFor(ctx, tx, winnerID)
		if err != nil {
			return missing(err, winnerID)
		}
		loserOld, err := ratingFor(ctx, tx, loserID)
		if err != nil {
			return missing(err, loserID)
		}

		winnerNew, loserNew := fn(winnerOld, loserOld)

		if err := setRating(ctx, tx, winnerID, winnerNew); err != nil {
			return err
		}
		if err := setRating(ctx, tx, loserID, loserNew); err != nil {
			return err
		}

		cmp = models.Comparison{
			ID:              models.NewComparisonID(),
			WinnerID:        winnerID,
			LoserID:         loserID,
			WinnerOldRating: winnerOld,
			LoserOldRating:  loserOld,
			WinnerNewRating: winnerNew,
			LoserNewRating:  loserNew,
			CreatedAt:       r.now().UTC(),
			SchemaVersion:   models.SchemaVersion,
		}
		query, args, err := sqlBuilder.Insert("comparisons").
			Columns(comparisonColumns...).
			Values(cmp.ID.String(), cmp.WinnerID.String(), cmp.LoserID.String(),
				cmp.WinnerOldRating, cmp.LoserOldRating, cmp.WinnerNewRating, cmp.LoserNewRating,
				cmp.CreatedAt, cmp.SchemaVersion).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return classify(err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug("comparison rejected: %v", err)
		} else {
			log.Error("failed to record comparison: %v", err)
		}
		return nil, err
	}

	log.Debug("comparison recorded: id=%s, winner %.2f -> %.2f, loser %.2f -> %.2f",
		cmp.ID, cmp.WinnerOldRating, cmp.WinnerNewRating, cmp.LoserOldRating, cmp.LoserNewRating)
	return &cmp, nil
}

func (r *comparisonRepository) Recent(ctx context.Context, limit int) ([]models.Comparison, error) {
	log := logger.FromContext(ctx).WithPrefix("comparison_repo")
	log.Debug("listing recent comparisons: limit=%d", limit)

	query := sqlBuilder.Select(comparisonColumns...).
		From("comparisons").
		OrderBy("created_at DESC", "rowid DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	return r.queryComparisons(ctx, log, query.ToSql)
}

func (r *comparisonRepository) ForCard(ctx context.Context, cardID models.CardID, limit int) ([]models.Comparison, error) {
	log := logger.FromContext(ctx).WithPrefix("comparison_repo")
	log.Debug("listing comparisons for card: card_id=%s, limit=%d", cardID, limit)

	query := sqlBuilder.Select(comparisonColumns...).
		From("comparisons").
		Where("winner_id = ? OR loser_id = ?", cardID.String(), cardID.String()).
		OrderBy("created_at DESC", "rowid DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	return r.queryComparisons(ctx, log, query.ToSql)
}

func (r *comparisonRepository) queryComparisons(ctx context.Context, log *logger.Logger, build func() (string, []any, error)) ([]models.Comparison, error) {
	query, args, err := build()
	if err != nil {
		log.Error("failed to build comparison query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err = classify(err)
		log.Error("failed to query comparisons: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Comparison
	for rows.Next() {
		var c models.Comparison
		var id, winnerID, loserID string
		if err := rows.Scan(&id, &winnerID, &loserID, &c.WinnerOldRating, &c.LoserOldRating,
			&c.WinnerNewRating, &c.LoserNewRating, &c.CreatedAt, &c.SchemaVersion); err != nil {
			log.Error("failed to scan comparison row: %v", err)
			return nil, err
		}
		c.ID = models.ComparisonID(id)
		c.WinnerID = models.CardID(winnerID)
		c.LoserID = models.CardID(loserID)
		c.CreatedAt = c.CreatedAt.UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	log.Debug("found %d comparisons", len(out))
	return out, nil
}

func ratingFor(ctx context.Context, tx *sql.Tx, id models.CardID) (float64, error) {
	var r float64
	if err := tx.QueryRowContext(ctx, `SELECT rating FROM cards WHERE id = ?`, id.String()).Scan(&r); err != nil {
		return 0, classify(err)
	}
	return r, nil
}

func setRating(ctx context.Context, tx *sql.Tx, id models.CardID, rating float64) error {
	res, err := tx.ExecContext(ctx, `UPDATE cards SET rating = ? WHERE id = ?`, rating, id.String())
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func missing(err error, id models.CardID) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &repository.MissingCardError{ID: id}
	}
	return err
}
