package database

import (
	"context"
	"fmt"
	"time"

	"smiledesk/internal/models"
)

// SaveAppointment stores a booked visit and returns its ID.
func (d *Database) SaveAppointment(ctx context.Context, appt *models.Appointment) (int64, error) {
	status := appt.Status
	if status == "" {
		status = models.AppointmentScheduled
	}

	result, err := d.db.ExecContext(ctx, insertAppointmentQuery,
		appt.PatientName, appt.Service, appt.StartsAt, status)
	if err != nil {
		return 0, fmt.Errorf("failed to save appointment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get appointment ID: %w", err)
	}
	return id, nil
}

// ListAppointments returns upcoming appointments, earliest first.
func (d *Database) ListAppointments(ctx context.Context, limit int) ([]models.Appointment, error) {
	rows, err := d.db.QueryContext(ctx, selectAppointmentsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var appts []models.Appointment
	for rows.Next() {
		var appt models.Appointment
		if err := rows.Scan(&appt.ID, &appt.PatientName, &appt.Service,
			&appt.StartsAt, &appt.Status, &appt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appts = append(appts, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointments: %w", err)
	}

	return appts, nil
}

// CountUpcomingAppointments counts scheduled visits from now onward.
func (d *Database) CountUpcomingAppointments(ctx context.Context, from time.Time) (int, error) {
	var count int
	if err := d.db.QueryRowContext(ctx, countUpcomingAppointmentsQuery, from).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

// SaveTask stores a staff to-do item and returns its ID.
func (d *Database) SaveTask(ctx context.Context, task *models.Task) (int64, error) {
	result, err := d.db.ExecContext(ctx, insertTaskQuery, task.Title, task.Done, task.DueAt)
	if err != nil {
		return 0, fmt.Errorf("failed to save task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get task ID: %w", err)
	}
	return id, nil
}

// ListTasks returns recent tasks, newest first.
func (d *Database) ListTasks(ctx context.Context, limit int) ([]models.Task, error) {
	rows, err := d.db.QueryContext(ctx, selectTasksQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Done, &task.DueAt, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// SetTaskDone flips a task's completion flag.
func (d *Database) SetTaskDone(ctx context.Context, id int64, done bool) error {
	result, err := d.db.ExecContext(ctx, setTaskDoneQuery, done, id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no task found with ID: %d", id)
	}

	return nil
}

// CountOpenTasks returns how many tasks are still pending.
func (d *Database) CountOpenTasks(ctx context.Context) (int, error) {
	var count int
	if err := d.db.QueryRowContext(ctx, countOpenTasksQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count open tasks: %w", err)
	}
	return count, nil
}

// UpsertCallLog records a voice-provider call, idempotent on call ID.
func (d *Database) UpsertCallLog(ctx context.Context, call *models.CallLog) error {
	_, err := d.db.ExecContext(ctx, upsertCallLogQuery,
		call.CallID, call.CallerID, call.DurationSec, call.StartedAt, call.Outcome)
	if err != nil {
		return fmt.Errorf("failed to upsert call log: %w", err)
	}
	return nil
}

// CountCallsSince counts calls received at or after the given time.
func (d *Database) CountCallsSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	if err := d.db.QueryRowContext(ctx, countCallsSinceQuery, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count calls: %w", err)
	}
	return count, nil
}
