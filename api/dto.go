/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - policy/resolver.go: policy.Document is the policy API payload as-is
*/
package api

import (
	"time"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/notify"
	"github.com/warp/attendance-engine/schedule"
)

// =============================================================================
// CHECK-INS
// =============================================================================

// SubmitCheckInRequest is one capture from a kiosk or mobile client.
// Timestamp defaults to the server clock when omitted.
type SubmitCheckInRequest struct {
	UserID      string                  `json:"user_id"`
	KioskID     string                  `json:"kiosk_id,omitempty"`
	Type        string                  `json:"type"`
	Timestamp   string                  `json:"timestamp,omitempty"` // RFC3339
	Location    *attendance.Geolocation `json:"location,omitempty"`
	Comment     string                  `json:"comment,omitempty"`

	// LocationValid is pre-computed by the capture surface. Absent means
	// valid; kiosk captures have no coordinates to dispute.
	LocationValid *bool `json:"location_valid,omitempty"`
}

// CheckInDTO represents a classified check-in in API responses.
type CheckInDTO struct {
	ID              string                  `json:"id"`
	UserID          string                  `json:"user_id"`
	KioskID         string                  `json:"kiosk_id,omitempty"`
	ProductLine     string                  `json:"product_line,omitempty"`
	Type            string                  `json:"type"`
	Timestamp       string                  `json:"timestamp"`
	Date            string                  `json:"date"`
	Location        *attendance.Geolocation `json:"location,omitempty"`
	Status          string                  `json:"status"`
	MinutesLate     int                     `json:"minutes_late"`
	MinutesEarly    int                     `json:"minutes_early"`
	Comment         string                  `json:"comment,omitempty"`
	RequiresComment bool                    `json:"requires_comment"`
}

// SubmitCheckInResponse wraps the classified event with the actions the
// cascade executed for it.
type SubmitCheckInResponse struct {
	CheckIn CheckInDTO  `json:"checkin"`
	Actions []ActionDTO `json:"actions"`
}

// CommentRequest attaches an explanation to a flagged check-in.
type CommentRequest struct {
	Comment string `json:"comment"`
}

// =============================================================================
// ISSUES
// =============================================================================

// IssueDTO represents an attendance issue in API responses.
type IssueDTO struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Kind           string `json:"kind"`
	Date           string `json:"date"`
	ExpectedAt     string `json:"expected_at"`
	DetectedAt     string `json:"detected_at"`
	MinutesOverdue int    `json:"minutes_overdue"`
	Resolved       bool   `json:"resolved"`
	ResolvedBy     string `json:"resolved_by,omitempty"`
	ResolvedAt     string `json:"resolved_at,omitempty"`
	Resolution     string `json:"resolution,omitempty"`
}

// ResolveIssueRequest closes an open issue with an explanation.
type ResolveIssueRequest struct {
	ResolvedBy string `json:"resolved_by"`
	Resolution string `json:"resolution"`
}

// SweepResponse reports the outcome of a manually triggered sweep.
type SweepResponse struct {
	AsOf     string     `json:"as_of"`
	Inserted []IssueDTO `json:"inserted"`
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	Role             string `json:"role"`
	ProductLine      string `json:"product_line,omitempty"`
	KioskID          string `json:"kiosk_id,omitempty"`
	SupervisorID     string `json:"supervisor_id,omitempty"`
	Active           bool   `json:"active"`
	TotalLateMinutes int    `json:"total_late_minutes"`
}

// PutEmployeeRequest creates or replaces an employee record.
type PutEmployeeRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role,omitempty"`
	ProductLine  string `json:"product_line,omitempty"`
	KioskID      string `json:"kiosk_id,omitempty"`
	SupervisorID string `json:"supervisor_id,omitempty"`
	Active       *bool  `json:"active,omitempty"`
}

// AttendanceReportDTO is the per-employee rate over a date range. The rate
// is a decimal string with four places, e.g. "0.9583".
type AttendanceReportDTO struct {
	UserID       string `json:"user_id"`
	From         string `json:"from"`
	To           string `json:"to"`
	BusinessDays int    `json:"business_days"`
	PresentDays  int    `json:"present_days"`
	Rate         string `json:"rate"`
}

// =============================================================================
// SCHEDULES AND HOLIDAYS
// =============================================================================

// ScheduleDTO represents a product-line schedule. Clock fields are "15:04"
// strings; work days are time.Weekday numbers (0 = Sunday).
type ScheduleDTO struct {
	ProductLine          string `json:"product_line"`
	WorkDays             []int  `json:"work_days"`
	EntryTime            string `json:"entry_time"`
	ExitTime             string `json:"exit_time"`
	LunchStartTime       string `json:"lunch_start_time"`
	LunchDurationMinutes int    `json:"lunch_duration_minutes"`
	ToleranceMinutes     int    `json:"tolerance_minutes"`
	WorksOnHolidays      bool   `json:"works_on_holidays"`
}

// HolidayDTO represents a holiday in API responses.
type HolidayDTO struct {
	ID           string   `json:"id"`
	Date         string   `json:"date"`
	Name         string   `json:"name"`
	ProductLines []string `json:"product_lines,omitempty"`
}

// CreateHolidayRequest adds a holiday. Empty product_lines means company-wide.
type CreateHolidayRequest struct {
	Date         string   `json:"date"`
	Name         string   `json:"name"`
	ProductLines []string `json:"product_lines,omitempty"`
}

// =============================================================================
// ACTIONS AND NOTIFICATIONS
// =============================================================================

// ActionDTO represents one executed side-effect in API responses.
type ActionDTO struct {
	ID         string            `json:"id"`
	SourceID   string            `json:"source_id"`
	Kind       string            `json:"kind"`
	ExecutedAt string            `json:"executed_at"`
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}

// NotificationDTO represents a persisted in-app notification.
type NotificationDTO struct {
	ID          string `json:"id"`
	RecipientID string `json:"recipient_id"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	SourceID    string `json:"source_id,omitempty"`
	CreatedAt   string `json:"created_at"`
	Read        bool   `json:"read"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toCheckInDTO(ev attendance.CheckInEvent) CheckInDTO {
	return CheckInDTO{
		ID:              string(ev.ID),
		UserID:          string(ev.UserID),
		KioskID:         ev.KioskID,
		ProductLine:     ev.ProductLine,
		Type:            string(ev.Type),
		Timestamp:       ev.Timestamp.Format(time.RFC3339),
		Date:            string(ev.Date()),
		Location:        ev.Location,
		Status:          string(ev.Status),
		MinutesLate:     ev.MinutesLate,
		MinutesEarly:    ev.MinutesEarly,
		Comment:         ev.Comment,
		RequiresComment: ev.RequiresComment,
	}
}

func toIssueDTO(issue attendance.AttendanceIssue) IssueDTO {
	dto := IssueDTO{
		ID:             string(issue.ID),
		UserID:         string(issue.UserID),
		Kind:           string(issue.Kind),
		Date:           string(issue.Date),
		ExpectedAt:     issue.ExpectedAt.Format(time.RFC3339),
		DetectedAt:     issue.DetectedAt.Format(time.RFC3339),
		MinutesOverdue: issue.MinutesOverdue,
		Resolved:       issue.Resolved,
		ResolvedBy:     issue.ResolvedBy,
		Resolution:     issue.Resolution,
	}
	if issue.ResolvedAt != nil {
		dto.ResolvedAt = issue.ResolvedAt.Format(time.RFC3339)
	}
	return dto
}

func toEmployeeDTO(e attendance.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:               string(e.ID),
		Name:             e.Name,
		Email:            e.Email,
		Role:             string(e.Role),
		ProductLine:      e.ProductLine,
		KioskID:          e.KioskID,
		SupervisorID:     string(e.SupervisorID),
		Active:           e.Active,
		TotalLateMinutes: e.TotalLateMinutes,
	}
}

func toScheduleDTO(s schedule.ProductSchedule) ScheduleDTO {
	dto := ScheduleDTO{
		ProductLine:          s.ProductLine,
		EntryTime:            s.EntryTime.String(),
		ExitTime:             s.ExitTime.String(),
		LunchStartTime:       s.LunchStartTime.String(),
		LunchDurationMinutes: s.LunchDurationMinutes,
		ToleranceMinutes:     s.ToleranceMinutes,
		WorksOnHolidays:      s.WorksOnHolidays,
	}
	for _, wd := range s.WorkDays {
		dto.WorkDays = append(dto.WorkDays, int(wd))
	}
	return dto
}

func toActionDTO(a attendance.PunctualityAction) ActionDTO {
	return ActionDTO{
		ID:         a.ID,
		SourceID:   a.SourceID,
		Kind:       string(a.Kind),
		ExecutedAt: a.ExecutedAt.Format(time.RFC3339),
		Success:    a.Success,
		Error:      a.Error,
		Details:    a.Details,
	}
}

func toNotificationDTO(n notify.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Title:       n.Title,
		Message:     n.Message,
		SourceID:    n.SourceID,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
		Read:        n.Read,
	}
}
