package repositories

import (
	"context"
	"time"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
)

type MeetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	Update(ctx context.Context, meeting *models.Meeting) error
	GetByID(ctx context.Context, societyID, id uuid.UUID) (*models.Meeting, error)
	List(ctx context.Context, societyID uuid.UUID) ([]*models.Meeting, error)
	CountUpcoming(ctx context.Context, societyID uuid.UUID, after time.Time) (int, error)

	AddAttendance(ctx context.Context, attendance *models.Attendance) error
	ListAttendance(ctx context.Context, meetingID uuid.UUID) ([]*models.Attendance, error)

	AddDocument(ctx context.Context, doc *models.MeetingDocument) error
	ListDocuments(ctx context.Context, meetingID uuid.UUID) ([]*models.MeetingDocument, error)

	UpsertMinutes(ctx context.Context, minutes *models.Minutes) error
	GetMinutes(ctx context.Context, meetingID uuid.UUID) (*models.Minutes, error)

	AddTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, societyID, taskID uuid.UUID) (*models.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status string) error
	ListTasks(ctx context.Context, meetingID uuid.UUID) ([]*models.Task, error)

	AddDecision(ctx context.Context, decision *models.Decision) error
	ListDecisions(ctx context.Context, meetingID uuid.UUID) ([]*models.Decision, error)
}

type meetingRepo struct {
	db Database
}

func NewMeetingRepo(db Database) MeetingRepository {
	return &meetingRepo{db: db}
}

func (r *meetingRepo) Create(ctx context.Context, meeting *models.Meeting) error {
	query := `
		INSERT INTO meetings (id, society_id, title, type, scheduled_at, location, online_url, agenda, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, meeting.ID, meeting.SocietyID, meeting.Title, meeting.Type,
		meeting.ScheduledAt, meeting.Location, meeting.OnlineURL, meeting.Agenda, meeting.Status)
	return err
}

func (r *meetingRepo) Update(ctx context.Context, meeting *models.Meeting) error {
	query := `
		UPDATE meetings
		SET title = $1, type = $2, scheduled_at = $3, location = $4, online_url = $5, agenda = $6, status = $7, updated_at = NOW()
		WHERE society_id = $8 AND id = $9
	`
	_, err := r.db.Exec(ctx, query, meeting.Title, meeting.Type, meeting.ScheduledAt,
		meeting.Location, meeting.OnlineURL, meeting.Agenda, meeting.Status,
		meeting.SocietyID, meeting.ID)
	return err
}

func (r *meetingRepo) GetByID(ctx context.Context, societyID, id uuid.UUID) (*models.Meeting, error) {
	m := &models.Meeting{}
	query := `
		SELECT id, society_id, title, type, scheduled_at, location, online_url, agenda, status, created_at, updated_at
		FROM meetings
		WHERE society_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, societyID, id).Scan(&m.ID, &m.SocietyID, &m.Title, &m.Type,
		&m.ScheduledAt, &m.Location, &m.OnlineURL, &m.Agenda, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *meetingRepo) List(ctx context.Context, societyID uuid.UUID) ([]*models.Meeting, error) {
	query := `
		SELECT id, society_id, title, type, scheduled_at, location, online_url, agenda, status, created_at, updated_at
		FROM meetings
		WHERE society_id = $1
		ORDER BY scheduled_at DESC
	`
	rows, err := r.db.Query(ctx, query, societyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []*models.Meeting
	for rows.Next() {
		m := &models.Meeting{}
		if err := rows.Scan(&m.ID, &m.SocietyID, &m.Title, &m.Type, &m.ScheduledAt, &m.Location,
			&m.OnlineURL, &m.Agenda, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

func (r *meetingRepo) CountUpcoming(ctx context.Context, societyID uuid.UUID, after time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM meetings WHERE society_id = $1 AND scheduled_at >= $2`,
		societyID, after).Scan(&count)
	return count, err
}

func (r *meetingRepo) AddAttendance(ctx context.Context, attendance *models.Attendance) error {
	query := `
		INSERT INTO attendances (id, meeting_id, member_id, external_name, status, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, attendance.ID, attendance.MeetingID, attendance.MemberID,
		attendance.ExternalName, attendance.Status, attendance.Note)
	return err
}

func (r *meetingRepo) ListAttendance(ctx context.Context, meetingID uuid.UUID) ([]*models.Attendance, error) {
	query := `
		SELECT id, meeting_id, member_id, external_name, status, note, created_at
		FROM attendances
		WHERE meeting_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendances []*models.Attendance
	for rows.Next() {
		a := &models.Attendance{}
		if err := rows.Scan(&a.ID, &a.MeetingID, &a.MemberID, &a.ExternalName, &a.Status,
			&a.Note, &a.CreatedAt); err != nil {
			return nil, err
		}
		attendances = append(attendances, a)
	}
	return attendances, rows.Err()
}

func (r *meetingRepo) AddDocument(ctx context.Context, doc *models.MeetingDocument) error {
	query := `
		INSERT INTO meeting_documents (id, meeting_id, title, version, file_url, uploaded_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, doc.ID, doc.MeetingID, doc.Title, doc.Version, doc.FileURL, doc.UploadedByID)
	return err
}

func (r *meetingRepo) ListDocuments(ctx context.Context, meetingID uuid.UUID) ([]*models.MeetingDocument, error) {
	query := `
		SELECT id, meeting_id, title, version, file_url, uploaded_by_id, created_at
		FROM meeting_documents
		WHERE meeting_id = $1
		ORDER BY title ASC, version DESC
	`
	rows, err := r.db.Query(ctx, query, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.MeetingDocument
	for rows.Next() {
		d := &models.MeetingDocument{}
		if err := rows.Scan(&d.ID, &d.MeetingID, &d.Title, &d.Version, &d.FileURL,
			&d.UploadedByID, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *meetingRepo) UpsertMinutes(ctx context.Context, minutes *models.Minutes) error {
	query := `
		INSERT INTO minutes (id, meeting_id, minutes_text, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (meeting_id) DO UPDATE SET minutes_text = EXCLUDED.minutes_text, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, minutes.ID, minutes.MeetingID, minutes.MinutesText)
	return err
}

func (r *meetingRepo) GetMinutes(ctx context.Context, meetingID uuid.UUID) (*models.Minutes, error) {
	m := &models.Minutes{}
	query := `SELECT id, meeting_id, minutes_text, created_at, updated_at FROM minutes WHERE meeting_id = $1`
	err := r.db.QueryRow(ctx, query, meetingID).Scan(&m.ID, &m.MeetingID, &m.MinutesText, &m.CreatedAt, &m.UpdatedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *meetingRepo) AddTask(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, meeting_id, title, assignee, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, task.ID, task.MeetingID, task.Title, task.Assignee, task.DueDate, task.Status)
	return err
}

func (r *meetingRepo) GetTask(ctx context.Context, societyID, taskID uuid.UUID) (*models.Task, error) {
	t := &models.Task{}
	query := `
		SELECT t.id, t.meeting_id, t.title, t.assignee, t.due_date, t.status, t.created_at, t.updated_at
		FROM tasks t
		JOIN meetings m ON m.id = t.meeting_id
		WHERE m.society_id = $1 AND t.id = $2
	`
	err := r.db.QueryRow(ctx, query, societyID, taskID).Scan(&t.ID, &t.MeetingID, &t.Title,
		&t.Assignee, &t.DueDate, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *meetingRepo) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE tasks SET status = $1, updated_at = NOW() WHERE id = $2`, status, taskID)
	return err
}

func (r *meetingRepo) ListTasks(ctx context.Context, meetingID uuid.UUID) ([]*models.Task, error) {
	query := `
		SELECT id, meeting_id, title, assignee, due_date, status, created_at, updated_at
		FROM tasks
		WHERE meeting_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t := &models.Task{}
		if err := rows.Scan(&t.ID, &t.MeetingID, &t.Title, &t.Assignee, &t.DueDate, &t.Status,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *meetingRepo) AddDecision(ctx context.Context, decision *models.Decision) error {
	query := `
		INSERT INTO decisions (id, meeting_id, title, detail, decided_by, decided_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, decision.ID, decision.MeetingID, decision.Title,
		decision.Detail, decision.DecidedBy, decision.DecidedAt)
	return err
}

func (r *meetingRepo) ListDecisions(ctx context.Context, meetingID uuid.UUID) ([]*models.Decision, error) {
	query := `
		SELECT id, meeting_id, title, detail, decided_by, decided_at, created_at
		FROM decisions
		WHERE meeting_id = $1
		ORDER BY decided_at DESC
	`
	rows, err := r.db.Query(ctx, query, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decisions []*models.Decision
	for rows.Next() {
		d := &models.Decision{}
		if err := rows.Scan(&d.ID, &d.MeetingID, &d.Title, &d.Detail, &d.DecidedBy,
			&d.DecidedAt, &d.CreatedAt); err != nil {
			return nil, err
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}
