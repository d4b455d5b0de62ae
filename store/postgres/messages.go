package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"bookdesk/store"
)

func (s *PGStore) LogMessage(ctx context.Context, sessionID, role, content string) error {
	row := &messageRow{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("log message: %w", err)
	}
	return nil
}

func (s *PGStore) GetSessionHistory(ctx context.Context, sessionID string) ([]store.Message, error) {
	var rows []messageRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("session_id = ?", sessionID).
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("session history: %w", err)
	}

	messages := make([]store.Message, 0, len(rows))
	for _, r := range rows {
		messages = append(messages, store.Message{
			SessionID: r.SessionID,
			Role:      r.Role,
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
		})
	}
	return messages, nil
}

func (s *PGStore) GetAllSessions(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.NewSelect().
		Model((*messageRow)(nil)).
		ColumnExpr("DISTINCT session_id").
		OrderExpr("session_id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return ids, nil
}

func (s *PGStore) CountMessages(ctx context.Context, sessionID string) (int, error) {
	count, err := s.db.NewSelect().
		Model((*messageRow)(nil)).
		Where("session_id = ?", sessionID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}

// LogToolCall is best effort: marshal or insert failures are logged at
// debug level and never surfaced.
func (s *PGStore) LogToolCall(ctx context.Context, sessionID, tool string, args map[string]any, result any) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		log.Debug().Err(err).Str("tool", tool).Msg("skip tool call audit: marshal args")
		return
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		resultJSON = []byte(fmt.Sprintf("%q", fmt.Sprint(result)))
	}

	row := &toolCallRow{
		SessionID:  sessionID,
		ToolName:   tool,
		ArgsJSON:   string(argsJSON),
		ResultJSON: string(resultJSON),
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		log.Debug().Err(err).Str("tool", tool).Msg("skip tool call audit: insert")
	}
}
