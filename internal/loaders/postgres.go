package loaders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
	"go.uber.org/zap"

	"github.com/Conversly/support-orchestrator/internal/types"
	"github.com/Conversly/support-orchestrator/internal/utils"
)

// ErrNotFound reports that a referenced business or session does not exist.
var ErrNotFound = errors.New("not found")

type PostgresClient struct {
	dsn  string
	pool *pgxpool.Pool
}

func NewPostgresClient(dsn string, maxConns int) (*PostgresClient, error) {
	client := &PostgresClient{dsn: dsn}

	pool, err := client.createConnectionPool(maxConns)
	if err != nil {
		return nil, err
	}

	client.pool = pool
	utils.Zlog.Info("Connected to PostgreSQL with connection pool")
	return client, nil
}

func (c *PostgresClient) createConnectionPool(maxConns int) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(c.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Postgres DSN: %w", err)
	}

	cfg.MaxConns = int32(maxConns)
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.MaxConnLifetime = 60 * time.Minute
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	// Register pgvector types for knowledge retrieval.
	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	if err := pgxvec.RegisterTypes(ctx, conn.Conn()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to register pgvector types: %w", err)
	}

	return pool, nil
}

func (c *PostgresClient) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}

func (c *PostgresClient) GetPool() *pgxpool.Pool {
	return c.pool
}

// GetSession fetches a session row. The status column is normalized to
// the canonical vocabulary on read.
func (c *PostgresClient) GetSession(ctx context.Context, sessionID string) (*types.ChatSession, error) {
	query := `
        SELECT id, business_id, customer_name, customer_email, status, escalation_reason, created_at
        FROM chat_sessions
        WHERE id = $1
    `

	var (
		s      types.ChatSession
		status string
	)
	err := c.pool.QueryRow(ctx, query, sessionID).Scan(
		&s.ID, &s.BusinessID, &s.CustomerName, &s.CustomerEmail, &status, &s.EscalationReason, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	s.Status = types.ParseSessionStatus(status)
	return &s, nil
}

// GetBusinessWithProducts fetches a business and its products in one query.
// Product ordering follows creation order so catalog rendering is stable.
func (c *PostgresClient) GetBusinessWithProducts(ctx context.Context, businessID string) (*types.Business, error) {
	query := `
        SELECT
            b.id AS business_id,
            b.name,
            b.description,
            b.policies,
            b.ai_instructions,
            p.id AS product_id,
            p.name AS product_name,
            p.category,
            p.price,
            p.description AS product_description
        FROM businesses b
        LEFT JOIN products p
            ON b.id = p.business_id
        WHERE b.id = $1
        ORDER BY p.created_at
    `

	rows, err := c.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to query business: %w", err)
	}
	defer rows.Close()

	var biz *types.Business
	products := []types.Product{}

	for rows.Next() {
		var (
			bID          string
			name         string
			description  *string
			policies     *string
			instructions *string
			productID    *string
			productName  *string
			category     *string
			price        *float64
			productDesc  *string
		)

		if err := rows.Scan(
			&bID,
			&name,
			&description,
			&policies,
			&instructions,
			&productID,
			&productName,
			&category,
			&price,
			&productDesc,
		); err != nil {
			return nil, fmt.Errorf("failed to scan business row: %w", err)
		}

		if biz == nil {
			biz = &types.Business{
				ID:             bID,
				Name:           name,
				Description:    description,
				Policies:       policies,
				AIInstructions: instructions,
			}
		}

		// LEFT JOIN yields NULL product columns for businesses with no catalog.
		if productID != nil {
			products = append(products, types.Product{
				ID:          *productID,
				Name:        *productName,
				Category:    category,
				Price:       price,
				Description: productDesc,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating business rows: %w", err)
	}

	if biz == nil {
		return nil, fmt.Errorf("business %s: %w", businessID, ErrNotFound)
	}

	biz.Products = products
	return biz, nil
}

// GetRecentMessages returns the most recent messages for a session in
// chronological order.
func (c *PostgresClient) GetRecentMessages(ctx context.Context, sessionID string, limit int) ([]types.ChatMessage, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
        SELECT id, session_id, sender_role, content, image_url, created_at
        FROM chat_messages
        WHERE session_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `

	rows, err := c.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation history: %w", err)
	}
	defer rows.Close()

	var messages []types.ChatMessage
	for rows.Next() {
		var (
			m      types.ChatMessage
			sender string
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &sender, &m.Content, &m.ImageURL, &m.CreatedAt); err != nil {
			utils.Zlog.Warn("Failed to scan chat message row", zap.Error(err))
			continue
		}
		m.Sender = types.SenderRole(sender)
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}

	// Reverse to get chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// GetMessagesAfter returns messages created after the given instant, oldest
// first. Used by the polling delivery endpoint.
func (c *PostgresClient) GetMessagesAfter(ctx context.Context, sessionID string, after time.Time) ([]types.ChatMessage, error) {
	query := `
        SELECT id, session_id, sender_role, content, image_url, created_at
        FROM chat_messages
        WHERE session_id = $1 AND created_at > $2
        ORDER BY created_at
    `

	rows, err := c.pool.Query(ctx, query, sessionID, after.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []types.ChatMessage
	for rows.Next() {
		var (
			m      types.ChatMessage
			sender string
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &sender, &m.Content, &m.ImageURL, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message row: %w", err)
		}
		m.Sender = types.SenderRole(sender)
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}

	return messages, nil
}

// InsertMessage appends one message to the conversation log.
func (c *PostgresClient) InsertMessage(ctx context.Context, m *types.ChatMessage) error {
	query := `
        INSERT INTO chat_messages (id, session_id, sender_role, content, image_url, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err := c.pool.Exec(ctx, query,
		m.ID,
		m.SessionID,
		string(m.Sender),
		m.Content,
		m.ImageURL,
		m.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert message for session=%s: %w", m.SessionID, err)
	}
	return nil
}

// UpdateSessionStatus writes a status transition. The WHERE clause keeps
// the write monotone: a human-served or resolved row is never reverted by
// a concurrent orchestration cycle, and a resolved row accepts no further
// transitions at all.
func (c *PostgresClient) UpdateSessionStatus(ctx context.Context, sessionID string, status types.SessionStatus, reason *string) error {
	query := `
        UPDATE chat_sessions
        SET status = $1, escalation_reason = COALESCE($2, escalation_reason)
        WHERE id = $3
          AND NOT (status IN ('escalated', 'manual', 'resolved') AND $1 = 'active')
          AND NOT (status = 'resolved' AND $1 <> 'resolved')
    `

	tag, err := c.pool.Exec(ctx, query, string(status), reason, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return nil
}

// SearchKnowledge retrieves the closest knowledge chunks for a business by
// cosine distance. Embeddings are written by the ingestion service; this
// service only reads them.
func (c *PostgresClient) SearchKnowledge(ctx context.Context, businessID string, queryVector []float64, topK int) ([]types.KnowledgeSnippet, error) {
	vec32 := make([]float32, len(queryVector))
	for i, v := range queryVector {
		vec32[i] = float32(v)
	}
	vec := pgvector.NewVector(vec32)

	// <=> is cosine distance
	query := `
        SELECT text, citation
        FROM embeddings
        WHERE business_id = $1
        ORDER BY vector <=> $2
        LIMIT $3
    `

	rows, err := c.pool.Query(ctx, query, businessID, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer rows.Close()

	var results []types.KnowledgeSnippet
	for rows.Next() {
		var r types.KnowledgeSnippet
		if err := rows.Scan(&r.Text, &r.Citation); err != nil {
			return nil, fmt.Errorf("failed to scan embedding row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating embeddings: %w", err)
	}

	return results, nil
}
