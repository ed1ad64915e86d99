package database

import (
	"context"
	"path/filepath"
	"testing"

	"smiledesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptorDisabledPassesThrough(t *testing.T) {
	enc, err := newEncryptor()
	require.NoError(t, err)

	out, err := enc.Encrypt("plain text")
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)

	back, err := enc.Decrypt(out)
	require.NoError(t, err)
	assert.Equal(t, "plain text", back)
}

func TestEncryptorRoundTrip(t *testing.T) {
	t.Setenv("SMILEDESK_ENABLE_ENCRYPTION", "true")
	t.Setenv("SMILEDESK_ENCRYPTION_SECRET", "a-very-long-test-secret-0123456789abcdef")

	enc, err := newEncryptor()
	require.NoError(t, err)

	ciphertext, err := enc.Encrypt("Alice asked about Saturday availability")
	require.NoError(t, err)
	assert.NotEqual(t, "Alice asked about Saturday availability", ciphertext)

	plaintext, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "Alice asked about Saturday availability", plaintext)
}

func TestEncryptorRejectsShortSecret(t *testing.T) {
	t.Setenv("SMILEDESK_ENABLE_ENCRYPTION", "true")
	t.Setenv("SMILEDESK_ENCRYPTION_SECRET", "too short")

	_, err := newEncryptor()
	assert.Error(t, err)
}

func TestDatabaseEncryptsAtRest(t *testing.T) {
	t.Setenv("SMILEDESK_ENABLE_ENCRYPTION", "true")
	t.Setenv("SMILEDESK_ENCRYPTION_SECRET", "a-very-long-test-secret-0123456789abcdef")

	dbPath := filepath.Join(t.TempDir(), "enc.db")
	db, err := New(dbPath)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.UpsertMessage(ctx, testMessage("m1", 100)))

	// Reads decrypt transparently.
	got, err := db.GetMessage(ctx, models.PlatformFacebook, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Do you take Saturday appointments?", got.Text)
	assert.Equal(t, "Alice", got.SenderName)

	// The raw column holds ciphertext.
	var rawText string
	err = db.db.QueryRowContext(ctx, `SELECT text FROM messages WHERE message_id = 'm1'`).Scan(&rawText)
	require.NoError(t, err)
	assert.NotEqual(t, "Do you take Saturday appointments?", rawText)
}
