package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"smiledesk/internal/migrations"
	"smiledesk/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// Database is the persistence gateway over a local SQLite store.
type Database struct {
	db        *sql.DB
	encryptor *encryptor
}

func New(dbPath string) (*Database, error) {
	if len(dbPath) == 0 || dbPath[0] == '\x00' {
		return nil, fmt.Errorf("invalid database path")
	}
	if strings.Contains(dbPath, "..") {
		return nil, fmt.Errorf("invalid database path: %s", dbPath)
	}

	file, err := os.OpenFile(dbPath, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create database file: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close database file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(migrations.InitialSchema()); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	enc, err := newEncryptor()
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to initialize encryptor: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to initialize encryptor: %w", err)
	}

	return &Database{db: db, encryptor: enc}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// UpsertMessage inserts or replaces a message keyed on (platform, message
// id). Last writer wins; there is no version check, so an overlapping
// manual sync and scheduled tick simply race to the same row.
func (d *Database) UpsertMessage(ctx context.Context, msg *models.NormalizedMessage) error {
	attachments := msg.Attachments
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	attachmentsJSON, err := json.Marshal(attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}

	encryptedText, err := d.encryptor.Encrypt(msg.Text)
	if err != nil {
		return fmt.Errorf("failed to encrypt message text: %w", err)
	}
	encryptedSenderName, err := d.encryptor.Encrypt(msg.SenderName)
	if err != nil {
		return fmt.Errorf("failed to encrypt sender name: %w", err)
	}

	_, err = d.db.ExecContext(ctx, upsertMessageQuery,
		msg.Platform,
		msg.MessageID,
		msg.ConversationID,
		msg.SenderID,
		encryptedSenderName,
		encryptedText,
		string(attachmentsJSON),
		msg.Timestamp,
		msg.PageID,
		msg.PageName,
		msg.IsReplied,
		msg.RepliedBy,
		msg.ReplyMessageID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert message: %w", err)
	}

	return nil
}

// QueryRecent returns up to limit messages for a platform, newest first.
func (d *Database) QueryRecent(ctx context.Context, platform models.Platform, limit int, filter models.MessageFilter) ([]models.NormalizedMessage, error) {
	query := selectMessageColumns + ` WHERE platform = ?`
	args := []any{platform}

	if filter.ConversationID != "" {
		query += ` AND conversation_id = ?`
		args = append(args, filter.ConversationID)
	}
	if filter.UnrepliedOnly {
		query += ` AND is_replied = 0`
	}
	if filter.Since > 0 {
		query += ` AND timestamp_ms >= ?`
		args = append(args, filter.Since)
	}

	query += ` ORDER BY timestamp_ms DESC LIMIT ?`
	args = append(args, limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.NormalizedMessage
	for rows.Next() {
		msg, err := d.scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

// GetMessage looks up one message by its platform-scoped ID. Returns
// (nil, nil) when no row matches.
func (d *Database) GetMessage(ctx context.Context, platform models.Platform, messageID string) (*models.NormalizedMessage, error) {
	rows, err := d.db.QueryContext(ctx, selectMessageColumns+` WHERE platform = ? AND message_id = ?`, platform, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to query message: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to query message: %w", err)
		}
		return nil, nil
	}

	return d.scanMessage(rows)
}

// MarkReplied transitions a message's reply bookkeeping from unset to set.
func (d *Database) MarkReplied(ctx context.Context, platform models.Platform, messageID string, repliedBy models.RepliedBy, replyMessageID string) error {
	var replyID *string
	if replyMessageID != "" {
		replyID = &replyMessageID
	}

	result, err := d.db.ExecContext(ctx, markRepliedQuery, repliedBy, replyID, platform, messageID)
	if err != nil {
		return fmt.Errorf("failed to mark message replied: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no message found with ID: %s", messageID)
	}

	return nil
}

// MarkConversationReplied marks every unreplied message in a conversation
// as replied. Returns how many rows were updated; zero is not an error
// since a reply may land in a thread the store has not seen yet.
func (d *Database) MarkConversationReplied(ctx context.Context, platform models.Platform, conversationID string, repliedBy models.RepliedBy, replyMessageID string) (int64, error) {
	var replyID *string
	if replyMessageID != "" {
		replyID = &replyMessageID
	}

	result, err := d.db.ExecContext(ctx, markConversationRepliedQuery, repliedBy, replyID, platform, conversationID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark conversation replied: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rowsAffected, nil
}

// CountUnreplied returns the number of inbound messages awaiting a reply.
func (d *Database) CountUnreplied(ctx context.Context) (int, error) {
	var count int
	if err := d.db.QueryRowContext(ctx, countUnrepliedQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unreplied messages: %w", err)
	}
	return count, nil
}

// CleanupOldMessages deletes messages older than retentionDays.
func (d *Database) CleanupOldMessages(ctx context.Context, retentionDays int) error {
	if _, err := d.db.ExecContext(ctx, deleteOldMessagesQuery, retentionDays); err != nil {
		return fmt.Errorf("failed to cleanup old messages: %w", err)
	}
	return nil
}

func (d *Database) scanMessage(rows *sql.Rows) (*models.NormalizedMessage, error) {
	msg := &models.NormalizedMessage{}
	var encryptedText, encryptedSenderName, attachmentsJSON string

	err := rows.Scan(
		&msg.ID,
		&msg.Platform,
		&msg.MessageID,
		&msg.ConversationID,
		&msg.SenderID,
		&encryptedSenderName,
		&encryptedText,
		&attachmentsJSON,
		&msg.Timestamp,
		&msg.PageID,
		&msg.PageName,
		&msg.IsReplied,
		&msg.RepliedBy,
		&msg.ReplyMessageID,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}

	msg.Text, err = d.encryptor.Decrypt(encryptedText)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt message text: %w", err)
	}
	msg.SenderName, err = d.encryptor.Decrypt(encryptedSenderName)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt sender name: %w", err)
	}

	if err := json.Unmarshal([]byte(attachmentsJSON), &msg.Attachments); err != nil {
		return nil, fmt.Errorf("failed to decode attachments: %w", err)
	}

	return msg, nil
}
