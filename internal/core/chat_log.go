package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/chatrelay/internal/model"
	"github.com/edvin/chatrelay/internal/platform"
)

type ChatLogService struct {
	db DB
}

func NewChatLogService(db DB) *ChatLogService {
	return &ChatLogService{db: db}
}

// Insert stores an incoming message with no reply yet and returns the log id.
// The id is the correlation handle for the later reply attach.
func (s *ChatLogService) Insert(ctx context.Context, log *model.ChatLog) (string, error) {
	id := platform.NewID()
	_, err := s.db.Exec(ctx,
		`INSERT INTO chat_logs (id, tenant_id, message, ip_address, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, now())`,
		id, log.TenantID, log.Message, log.IPAddress, log.UserAgent,
	)
	if err != nil {
		return "", fmt.Errorf("insert chat log: %w", err)
	}
	return id, nil
}

// AttachReply fills in the reply for a previously inserted log row.
func (s *ChatLogService) AttachReply(ctx context.Context, id, reply string) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE chat_logs SET reply = $1 WHERE id = $2",
		reply, id,
	)
	if err != nil {
		return fmt.Errorf("attach reply to chat log %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByTenant returns one page of a tenant's chat history, newest first,
// along with the total row count for that tenant.
func (s *ChatLogService) ListByTenant(ctx context.Context, tenantID string, page, limit int) ([]model.ChatLog, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int
	err := s.db.QueryRow(ctx,
		"SELECT count(*) FROM chat_logs WHERE tenant_id = $1", tenantID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count chat logs: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, message, reply, ip_address, user_agent, created_at
		 FROM chat_logs WHERE tenant_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		tenantID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query chat logs: %w", err)
	}
	defer rows.Close()

	logs := make([]model.ChatLog, 0, limit)
	for rows.Next() {
		var l model.ChatLog
		if err := rows.Scan(&l.ID, &l.TenantID, &l.Message, &l.Reply, &l.IPAddress, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan chat log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate chat logs: %w", err)
	}

	return logs, total, nil
}

// Get returns a single log row.
func (s *ChatLogService) Get(ctx context.Context, id string) (*model.ChatLog, error) {
	var l model.ChatLog
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, message, reply, ip_address, user_agent, created_at
		 FROM chat_logs WHERE id = $1`, id,
	).Scan(&l.ID, &l.TenantID, &l.Message, &l.Reply, &l.IPAddress, &l.UserAgent, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get chat log: %w", err)
	}
	return &l, nil
}
