package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
	"gakkaihub/internal/repositories"
)

// MeetingService manages board and committee meetings with their
// attendance replies, documents, minutes, tasks and decisions.
type MeetingService interface {
	Create(ctx context.Context, societyID uuid.UUID, req *MeetingRequest) (*models.Meeting, error)
	Update(ctx context.Context, societyID, meetingID uuid.UUID, req *MeetingRequest) (*models.Meeting, error)
	Get(ctx context.Context, societyID, meetingID uuid.UUID) (*models.Meeting, error)
	List(ctx context.Context, societyID uuid.UUID) ([]*models.Meeting, error)

	AddAttendance(ctx context.Context, societyID, meetingID uuid.UUID, req *AttendanceRequest) (*models.Attendance, error)
	ListAttendance(ctx context.Context, societyID, meetingID uuid.UUID) ([]*models.Attendance, error)

	AddDocument(ctx context.Context, societyID, meetingID uuid.UUID, req *MeetingDocumentRequest) (*models.MeetingDocument, error)
	ListDocuments(ctx context.Context, societyID, meetingID uuid.UUID) ([]*models.MeetingDocument, error)

	UpsertMinutes(ctx context.Context, societyID, meetingID uuid.UUID, minutesText string) (*models.Minutes, error)
	GetMinutes(ctx context.Context, societyID, meetingID uuid.UUID) (*models.Minutes, error)

	AddTask(ctx context.Context, societyID, meetingID uuid.UUID, req *TaskRequest) (*models.Task, error)
	UpdateTaskStatus(ctx context.Context, societyID, taskID uuid.UUID, status string) (*models.Task, error)
	ListTasks(ctx context.Context, societyID, meetingID uuid.UUID) ([]*models.Task, error)

	AddDecision(ctx context.Context, societyID, meetingID uuid.UUID, req *DecisionRequest) (*models.Decision, error)
	ListDecisions(ctx context.Context, societyID, meetingID uuid.UUID) ([]*models.Decision, error)
}

type meetingService struct {
	meetingRepo repositories.MeetingRepository
	memberRepo  repositories.MemberRepository
	access      AccessService
	audit       AuditService
}

func NewMeetingService(meetingRepo repositories.MeetingRepository, memberRepo repositories.MemberRepository, access AccessService, audit AuditService) MeetingService {
	return &meetingService{meetingRepo: meetingRepo, memberRepo: memberRepo, access: access, audit: audit}
}

type MeetingRequest struct {
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	ScheduledAt string  `json:"scheduled_at"` // RFC3339
	Location    *string `json:"location"`
	OnlineURL   *string `json:"online_url"`
	Agenda      *string `json:"agenda"`
	Status      string  `json:"status"`
}

type AttendanceRequest struct {
	MemberID     *uuid.UUID `json:"member_id"`
	ExternalName *string    `json:"external_name"`
	Status       string     `json:"status"`
	Note         *string    `json:"note"`
}

type MeetingDocumentRequest struct {
	Title   string `json:"title"`
	Version int    `json:"version"`
	FileURL string `json:"file_url"`
}

type TaskRequest struct {
	Title    string  `json:"title"`
	Assignee *string `json:"assignee"`
	DueDate  *string `json:"due_date"` // YYYY-MM-DD
}

type DecisionRequest struct {
	Title     string  `json:"title"`
	Detail    *string `json:"detail"`
	DecidedBy *string `json:"decided_by"`
	DecidedAt string  `json:"decided_at"` // YYYY-MM-DD, empty for today
}

func (r *MeetingRequest) validate() (time.Time, error) {
	if err := common.ValidateRequiredString(r.Title, "title"); err != nil {
		return time.Time{}, err
	}
	switch r.Type {
	case models.MeetingTypeBoard, models.MeetingTypeCommittee, models.MeetingTypeOther:
	default:
		return time.Time{}, common.Validationf("unknown meeting type %q", r.Type)
	}
	if r.Status != "" {
		switch r.Status {
		case models.MeetingStatusDraft, models.MeetingStatusScheduled, models.MeetingStatusDone:
		default:
			return time.Time{}, common.Validationf("unknown meeting status %q", r.Status)
		}
	}
	scheduledAt, err := time.Parse(time.RFC3339, r.ScheduledAt)
	if err != nil {
		return time.Time{}, common.Validation("scheduled_at must be an RFC3339 timestamp")
	}
	return scheduledAt, nil
}

func (s *meetingService) Create(ctx context.Context, societyID uuid.UUID, req *MeetingRequest) (*models.Meeting, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	scheduledAt, err := req.validate()
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.MeetingStatusDraft
	}
	now := time.Now()
	meeting := &models.Meeting{
		ID:          uuid.New(),
		SocietyID:   societyID,
		Title:       req.Title,
		Type:        req.Type,
		ScheduledAt: scheduledAt,
		Location:    req.Location,
		OnlineURL:   req.OnlineURL,
		Agenda:      req.Agenda,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceMeeting,
		ResourceID:   meeting.ID.String(),
		Action:       "CREATE",
		After:        models.JSONB{"title": meeting.Title, "type": meeting.Type, "status": meeting.Status},
	})
	return meeting, nil
}

func (s *meetingService) Update(ctx context.Context, societyID, meetingID uuid.UUID, req *MeetingRequest) (*models.Meeting, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	scheduledAt, err := req.validate()
	if err != nil {
		return nil, err
	}

	meeting, err := s.meetingRepo.GetByID(ctx, societyID, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, common.NotFound("meeting")
	}

	before := models.JSONB{"title": meeting.Title, "status": meeting.Status}
	meeting.Title = req.Title
	meeting.Type = req.Type
	meeting.ScheduledAt = scheduledAt
	meeting.Location = req.Location
	meeting.OnlineURL = req.OnlineURL
	meeting.Agenda = req.Agenda
	if req.Status != "" {
		meeting.Status = req.Status
	}
	meeting.UpdatedAt = time.Now()

	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceMeeting,
		ResourceID:   meetingID.String(),
		Action:       "UPDATE",
		Before:       before,
		After:        models.JSONB{"title": meeting.Title, "status": meeting.Status},
	})
	return meeting, nil
}

func (s *meetingService) Get(ctx context.Context, societyID, meetingID uuid.UUID) (*models.Meeting, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	meeting, err := s.meetingRepo.GetByID(ctx, societyID, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, common.NotFound("meeting")
	}
	return meeting, nil
}

func (s *meetingService) List(ctx context.Context, societyID uuid.UUID) ([]*models.Meeting, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.meetingRepo.List(ctx, societyID)
}

// requireMeeting loads a meeting scoped to the society, so child rows can
// never be attached across societies.
func (s *meetingService) requireMeeting(ctx context.Context, societyID, meetingID uuid.UUID) (*models.Meeting, error) {
	meeting, err := s.meetingRepo.GetByID(ctx, societyID, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, common.NotFound("meeting")
	}
	return meeting, nil
}

func (s *meetingService) AddAttendance(ctx context.Context, societyID, meetingID uuid.UUID, req *AttendanceRequest) (*models.Attendance, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	switch req.Status {
	case models.AttendanceYes, models.AttendanceNo, models.AttendanceMaybe:
	default:
		return nil, common.Validationf("unknown attendance status %q", req.Status)
	}
	if req.MemberID == nil && common.SafeString(req.ExternalName) == "" {
		return nil, common.Validation("either member_id or external_name is required")
	}
	if _, err := s.requireMeeting(ctx, societyID, meetingID); err != nil {
		return nil, err
	}
	if req.MemberID != nil {
		member, err := s.memberRepo.GetByID(ctx, societyID, *req.MemberID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, common.NotFound("member")
		}
	}

	attendance := &models.Attendance{
		ID:           uuid.New(),
		MeetingID:    meetingID,
		MemberID:     req.MemberID,
		ExternalName: req.ExternalName,
		Status:       req.Status,
		Note:         req.Note,
		CreatedAt:    time.Now(),
	}
	if err := s.meetingRepo.AddAttendance(ctx, attendance); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceAttendance,
		ResourceID:   attendance.ID.String(),
		Action:       "CREATE",
		After:        models.JSONB{"meeting_id": meetingID.String(), "status": req.Status},
	})
	return attendance, nil
}

func (s *meetingService) ListAttendance(ctx context.Context, societyID, meetingID uuid.UUID) ([]*models.Attendance, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	if _, err := s.requireMeeting(ctx, societyID, meetingID); err != nil {
		return nil, err
	}
	return s.meetingRepo.ListAttendance(ctx, meetingID)
}

func (s *meetingService) AddDocument(ctx context.Context, societyID, meetingID uuid.UUID, req *MeetingDocumentRequest) (*models.MeetingDocument, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.Title, "title"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.FileURL, "file_url"); err != nil {
		return nil, err
	}
	if _, err := s.requireMeeting(ctx, societyID, meetingID); err != nil {
		return nil, err
	}

	version := req.Version
	if version <= 0 {
		version = 1
	}
	doc := &models.MeetingDocument{
		ID:           uuid.New(),
		MeetingID:    meetingID,
		Title:        req.Title,
		Version:      version,
		FileURL:      req.FileURL,
		UploadedByID: membership.UserID,
		CreatedAt:    time.Now(),
	}
	if err := s.meetingRepo.AddDocument(ctx, doc); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceMeetingDocument,
		ResourceID:   doc.ID.String(),
		Action:       "CREATE",
		After:        models.JSONB{"meeting_id": meetingID.String(), "title": doc.Title, "version": doc.Version},
	})
	return doc, nil
}

func (s *meetingService) ListDocuments(ctx context.Context, societyID, meetingID uuid.UUID) ([]*models.MeetingDocument, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	if _, err := s.requireMeeting(ctx, societyID, meetingID); err != nil {
		return nil, err
	}
	return s.meetingRepo.ListDocuments(ctx, meetingID)
}

func (s *meetingService) UpsertMinutes(ctx context.Context, societyID, meetingID uuid.UUID, minutesText string) (*models.Minutes, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(minutesText, "minutes_text"); err != nil {
		return nil, err
	}
	if _, err := s.requireMeeting(ctx, societyID, meetingID); err != nil {
		return nil, err
	}

	now := time.Now()
	minutes := &models.Minutes{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		MinutesText: minutesText,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.meetingRepo.UpsertMinutes(ctx, minutes); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceMinutes,
		ResourceID:   meetingID.String(),
		Action:       "UPSERT",
	})
	return minutes, nil
}

func (s *meetingService) GetMinutes(ctx context.Context, societyID, meetingID uuid.UUID) (*models.Minutes, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	if _, err := s.requireMeeting(ctx, societyID, meetingID); err != nil {
		return nil, err
	}
	minutes, err := s.meetingRepo.GetMinutes(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if minutes == nil {
		return nil, common.NotFound("minutes")
	}
	return minutes, nil
}

func (s *meetingService) AddTask(ctx context.Context, societyID, meetingID uuid.UUID, req *TaskRequest) (*models.Task, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.Title, "title"); err != nil {
		return nil, err
	}
	if _, err := s.requireMeeting(ctx, societyID, meetingID); err != nil {
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Title:     req.Title,
		Assignee:  req.Assignee,
		Status:    models.TaskStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		dueDate, err := common.ValidateDate(*req.DueDate, "due_date")
		if err != nil {
			return nil, err
		}
		task.DueDate = &dueDate
	}

	if err := s.meetingRepo.AddTask(ctx, task); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceTask,
		ResourceID:   task.ID.String(),
		Action:       "CREATE",
		After:        models.JSONB{"meeting_id": meetingID.String(), "title": task.Title},
	})
	return task, nil
}

func (s *meetingService) UpdateTaskStatus(ctx context.Context, societyID, taskID uuid.UUID, status string) (*models.Task, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	if status != models.TaskStatusOpen && status != models.TaskStatusDone {
		return nil, common.Validationf("unknown task status %q", status)
	}

	task, err := s.meetingRepo.GetTask(ctx, societyID, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, common.NotFound("task")
	}

	before := task.Status
	if err := s.meetingRepo.UpdateTaskStatus(ctx, taskID, status); err != nil {
		return nil, err
	}
	task.Status = status
	task.UpdatedAt = time.Now()

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceTask,
		ResourceID:   taskID.String(),
		Action:       "UPDATE_STATUS",
		Before:       models.JSONB{"status": before},
		After:        models.JSONB{"status": status},
	})
	return task, nil
}

func (s *meetingService) ListTasks(ctx context.Context, societyID, meetingID uuid.UUID) ([]*models.Task, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	if _, err := s.requireMeeting(ctx, societyID, meetingID); err != nil {
		return nil, err
	}
	return s.meetingRepo.ListTasks(ctx, meetingID)
}

func (s *meetingService) AddDecision(ctx context.Context, societyID, meetingID uuid.UUID, req *DecisionRequest) (*models.Decision, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.Title, "title"); err != nil {
		return nil, err
	}
	if _, err := s.requireMeeting(ctx, societyID, meetingID); err != nil {
		return nil, err
	}

	decidedAt := time.Now()
	if req.DecidedAt != "" {
		decidedAt, err = common.ValidateDate(req.DecidedAt, "decided_at")
		if err != nil {
			return nil, err
		}
	}

	decision := &models.Decision{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Title:     req.Title,
		Detail:    req.Detail,
		DecidedBy: req.DecidedBy,
		DecidedAt: decidedAt,
		CreatedAt: time.Now(),
	}
	if err := s.meetingRepo.AddDecision(ctx, decision); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceDecision,
		ResourceID:   decision.ID.String(),
		Action:       "CREATE",
		After:        models.JSONB{"meeting_id": meetingID.String(), "title": decision.Title},
	})
	return decision, nil
}

func (s *meetingService) ListDecisions(ctx context.Context, societyID, meetingID uuid.UUID) ([]*models.Decision, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	if _, err := s.requireMeeting(ctx, societyID, meetingID); err != nil {
		return nil, err
	}
	return s.meetingRepo.ListDecisions(ctx, meetingID)
}
