package database

import (
	"bizassist/internal/store"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Schema - таблица для хранения документа бота
const Schema = `CREATE TABLE IF NOT EXISTS documents (
    name       TEXT PRIMARY KEY,
    body       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// DocumentRepository хранит документ бота одной строкой в Postgres
type DocumentRepository struct {
	db     *sqlx.DB
	name   string
	logger *zap.Logger
}

// NewDocumentRepository создает репозиторий для документа с именем name
func NewDocumentRepository(db *sqlx.DB, name string, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		name:   name,
		logger: logger,
	}
}

func (r *DocumentRepository) Load(ctx context.Context) ([]byte, error) {
	var body []byte
	err := r.db.GetContext(ctx, &body, `SELECT body FROM documents WHERE name = $1`, r.name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNoDocument
	}
	if err != nil {
		r.logger.Error("Ошибка при чтении документа",
			zap.Error(err),
			zap.String("name", r.name),
		)
		return nil, fmt.Errorf("чтение документа %s: %w", r.name, err)
	}
	return body, nil
}

func (r *DocumentRepository) Save(ctx context.Context, data []byte) error {
	query := `
        INSERT INTO documents (name, body, updated_at)
        VALUES ($1, $2::jsonb, now())
        ON CONFLICT (name) DO UPDATE SET
            body = EXCLUDED.body,
            updated_at = EXCLUDED.updated_at
    `

	if _, err := r.db.ExecContext(ctx, query, r.name, string(data)); err != nil {
		r.logger.Error("Ошибка при сохранении документа",
			zap.Error(err),
			zap.String("name", r.name),
		)
		return fmt.Errorf("сохранение документа %s: %w", r.name, err)
	}
	return nil
}

// Ping используется проверкой готовности
func (r *DocumentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
