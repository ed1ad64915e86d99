package database

import (
	"context"
	"fmt"
	"time"

	"smiledesk/internal/models"
)

// SaveContentPost stores a generated marketing draft and returns its ID.
func (d *Database) SaveContentPost(ctx context.Context, post *models.ContentPost) (int64, error) {
	result, err := d.db.ExecContext(ctx, insertContentPostQuery,
		post.Platform, post.Topic, post.Body, post.Status, post.ScheduleAt)
	if err != nil {
		return 0, fmt.Errorf("failed to save content post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get content post ID: %w", err)
	}
	return id, nil
}

// ListContentPosts returns the most recent drafts, newest first.
func (d *Database) ListContentPosts(ctx context.Context, limit int) ([]models.ContentPost, error) {
	rows, err := d.db.QueryContext(ctx, selectContentPostsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query content posts: %w", err)
	}
	defer rows.Close()

	var posts []models.ContentPost
	for rows.Next() {
		var post models.ContentPost
		if err := rows.Scan(&post.ID, &post.Platform, &post.Topic, &post.Body,
			&post.Status, &post.ScheduleAt, &post.PublishedAt, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan content post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content posts: %w", err)
	}

	return posts, nil
}

// DueContentPosts returns scheduled posts whose publish time has passed.
func (d *Database) DueContentPosts(ctx context.Context, now time.Time) ([]models.ContentPost, error) {
	rows, err := d.db.QueryContext(ctx, selectDueContentPostsQuery, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due content posts: %w", err)
	}
	defer rows.Close()

	var posts []models.ContentPost
	for rows.Next() {
		var post models.ContentPost
		if err := rows.Scan(&post.ID, &post.Platform, &post.Topic, &post.Body,
			&post.Status, &post.ScheduleAt, &post.PublishedAt, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan content post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due content posts: %w", err)
	}

	return posts, nil
}

// MarkContentPublished records that a scheduled post went out.
func (d *Database) MarkContentPublished(ctx context.Context, id int64, publishedAt time.Time) error {
	if _, err := d.db.ExecContext(ctx, markContentPublishedQuery, publishedAt, id); err != nil {
		return fmt.Errorf("failed to mark content published: %w", err)
	}
	return nil
}
