package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/cardrank/internal/logger"
	"github.com/vytor/cardrank/internal/models"
	"github.com/vytor/cardrank/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: name=%s", c.Name)

	if c.ID.IsZero() {
		c.ID = models.NewCardID()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO cards (id, name, image_url, description, rating, created_at, schema_version)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, c.ID.String(), c.Name, c.ImageURL, c.Description, c.Rating, c.CreatedAt, c.SchemaVersion)
	if err != nil {
		err = classify(err)
		log.Warn("failed to insert card %q: %v", c.Name, err)
		return nil, err
	}
	log.Debug("card inserted: id=%s", c.ID)
	return &c, nil
}

func (r *cardRepository) Get(ctx context.Context, id models.CardID) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%s", id)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").Where("id = ?", id.String()).ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		err = classify(err)
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug("card not found: id=%s", id)
		} else {
			log.Error("failed to get card: %v", err)
		}
		return nil, err
	}
	return c, nil
}

func (r *cardRepository) List(ctx context.Context) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards")

	// rowid follows insertion order.
	query := sqlBuilder.Select(cardColumns...).From("cards").OrderBy("rowid ASC")
	return r.queryCards(ctx, log, query.ToSql)
}

func (r *cardRepository) TopRated(ctx context.Context, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching top rated cards: limit=%d", limit)

	query := sqlBuilder.Select(cardColumns...).
		From("cards").
		OrderBy("rating DESC", "created_at ASC", "rowid ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	return r.queryCards(ctx, log, query.ToSql)
}

func (r *cardRepository) Count(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		err = classify(err)
		log.Error("failed to count cards: %v", err)
		return 0, err
	}
	log.Debug("card count: %d", n)
	return n, nil
}

func (r *cardRepository) Sample(ctx context.Context, n int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("sampling %d cards", n)

	query := sqlBuilder.Select(cardColumns...).
		From("cards").
		OrderBy("RANDOM()").
		Limit(uint64(n))
	return r.queryCards(ctx, log, query.ToSql)
}

func (r *cardRepository) Ping(ctx context.Context) error {
	return classify(r.db.PingContext(ctx))
}

func (r *cardRepository) queryCards(ctx context.Context, log *logger.Logger, build func() (string, []any, error)) ([]models.Card, error) {
	query, args, err := build()
	if err != nil {
		log.Error("failed to build card query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err = classify(err)
		log.Error("failed to query cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	log.Debug("found %d cards", len(cards))
	return cards, nil
}

func scanCard(row rowScanner) (*models.Card, error) {
	var c models.Card
	var id string
	if err := row.Scan(&id, &c.Name, &c.ImageURL, &c.Description, &c.Rating, &c.CreatedAt, &c.SchemaVersion); err != nil {
		return nil, err
	}
	c.ID = models.CardID(id)
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}
