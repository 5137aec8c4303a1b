package repository

import (
	"context"
	"fmt"
	"time"

	"schoolhub/backend/internal/models"

	"github.com/rs/zerolog/log"
)

// ClientRepository handles registered device operations
type ClientRepository struct {
	db *Database
}

// Create inserts a new client
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	start := time.Now()
	query := `
		INSERT INTO clients (push_token)
		VALUES ($1)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query, client.PushToken).Scan(&client.ID, &client.CreatedAt)
	observe("insert", "clients", start, err)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// ListPushTokens returns every non-empty push token
func (r *ClientRepository) ListPushTokens(ctx context.Context) ([]string, error) {
	start := time.Now()
	query := `
		SELECT push_token
		FROM clients
		WHERE push_token IS NOT NULL AND push_token <> ''
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		observe("select", "clients", start, err)
		return nil, fmt.Errorf("failed to list push tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			observe("select", "clients", start, err)
			return nil, fmt.Errorf("failed to scan push token: %w", err)
		}
		tokens = append(tokens, token)
	}

	err = rows.Err()
	observe("select", "clients", start, err)
	if err != nil {
		return nil, fmt.Errorf("error iterating push tokens: %w", err)
	}

	return tokens, nil
}

// DeleteByPushToken removes the client owning token and returns the number of rows deleted
func (r *ClientRepository) DeleteByPushToken(ctx context.Context, token string) (int64, error) {
	start := time.Now()

	result, err := r.db.Pool.Exec(ctx, `DELETE FROM clients WHERE push_token = $1`, token)
	observe("delete", "clients", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to delete client by push token: %w", err)
	}

	log.Debug().Int64("deleted", result.RowsAffected()).Msg("Client deleted by push token")
	return result.RowsAffected(), nil
}

// Count returns the total number of clients
func (r *ClientRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}

	return count, nil
}
