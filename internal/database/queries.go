package database

// Message queries
const (
	upsertMessageQuery = `
		INSERT INTO messages (
			platform, message_id, conversation_id, sender_id, sender_name,
			text, attachments, timestamp_ms, page_id, page_name,
			is_replied, replied_by, reply_message_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (platform, message_id) DO UPDATE SET
			conversation_id = excluded.conversation_id,
			sender_id = excluded.sender_id,
			sender_name = excluded.sender_name,
			text = excluded.text,
			attachments = excluded.attachments,
			timestamp_ms = excluded.timestamp_ms,
			page_id = excluded.page_id,
			page_name = excluded.page_name,
			is_replied = excluded.is_replied,
			replied_by = excluded.replied_by,
			reply_message_id = excluded.reply_message_id,
			updated_at = CURRENT_TIMESTAMP
	`

	selectMessageColumns = `
		SELECT id, platform, message_id, conversation_id, sender_id, sender_name,
		       text, attachments, timestamp_ms, page_id, page_name,
		       is_replied, replied_by, reply_message_id, created_at, updated_at
		FROM messages
	`

	markRepliedQuery = `
		UPDATE messages
		SET is_replied = 1, replied_by = ?, reply_message_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE platform = ? AND message_id = ?
	`

	markConversationRepliedQuery = `
		UPDATE messages
		SET is_replied = 1, replied_by = ?, reply_message_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE platform = ? AND conversation_id = ? AND is_replied = 0
	`

	countUnrepliedQuery = `
		SELECT COUNT(*) FROM messages WHERE is_replied = 0
	`

	deleteOldMessagesQuery = `
		DELETE FROM messages
		WHERE created_at < datetime('now', '-' || ? || ' days')
	`
)

// Content queries
const (
	insertContentPostQuery = `
		INSERT INTO content_posts (platform, topic, body, status, schedule_at)
		VALUES (?, ?, ?, ?, ?)
	`

	selectContentPostsQuery = `
		SELECT id, platform, topic, body, status, schedule_at, published_at, created_at
		FROM content_posts
		ORDER BY created_at DESC
		LIMIT ?
	`

	selectDueContentPostsQuery = `
		SELECT id, platform, topic, body, status, schedule_at, published_at, created_at
		FROM content_posts
		WHERE status = 'scheduled' AND schedule_at IS NOT NULL AND schedule_at <= ?
	`

	markContentPublishedQuery = `
		UPDATE content_posts
		SET status = 'published', published_at = ?
		WHERE id = ?
	`
)

// Analytics queries
const (
	insertAppointmentQuery = `
		INSERT INTO appointments (patient_name, service, starts_at, status)
		VALUES (?, ?, ?, ?)
	`

	selectAppointmentsQuery = `
		SELECT id, patient_name, service, starts_at, status, created_at
		FROM appointments
		ORDER BY starts_at ASC
		LIMIT ?
	`

	countUpcomingAppointmentsQuery = `
		SELECT COUNT(*) FROM appointments
		WHERE status = 'scheduled' AND starts_at >= ?
	`

	insertTaskQuery = `
		INSERT INTO tasks (title, done, due_at) VALUES (?, ?, ?)
	`

	selectTasksQuery = `
		SELECT id, title, done, due_at, created_at
		FROM tasks
		ORDER BY created_at DESC
		LIMIT ?
	`

	countOpenTasksQuery = `
		SELECT COUNT(*) FROM tasks WHERE done = 0
	`

	setTaskDoneQuery = `
		UPDATE tasks SET done = ? WHERE id = ?
	`

	upsertCallLogQuery = `
		INSERT INTO call_logs (call_id, caller_id, duration_sec, started_at, outcome)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (call_id) DO UPDATE SET
			duration_sec = excluded.duration_sec,
			outcome = excluded.outcome
	`

	countCallsSinceQuery = `
		SELECT COUNT(*) FROM call_logs WHERE started_at >= ?
	`
)
