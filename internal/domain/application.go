package domain

import (
	"context"
	"time"
)

type ApplicationStatus string

// Application status constants
const (
	StatusPending       ApplicationStatus = "pending"
	StatusViewed        ApplicationStatus = "viewed"
	StatusInterview     ApplicationStatus = "interview"
	StatusTechnicalTest ApplicationStatus = "technical_test"
	StatusOffer         ApplicationStatus = "offer"
	StatusHired         ApplicationStatus = "hired"
	StatusRejected      ApplicationStatus = "rejected"
	StatusWithdrawn     ApplicationStatus = "withdrawn"
)

// pipelineRank orders the forward-moving statuses.
var pipelineRank = map[ApplicationStatus]int{
	StatusPending:       1,
	StatusViewed:        2,
	StatusInterview:     3,
	StatusTechnicalTest: 4,
	StatusOffer:         5,
	StatusHired:         6,
}

func (s ApplicationStatus) Valid() bool {
	if _, ok := pipelineRank[s]; ok {
		return true
	}
	return s == StatusRejected || s == StatusWithdrawn
}

// Terminal statuses accept no further transitions.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusHired || s == StatusRejected || s == StatusWithdrawn
}

// Active applications still count on the candidate's dashboard.
func (s ApplicationStatus) Active() bool {
	return s != StatusRejected
}

// CanTransition implements the status graph: forward moves along
// pending → viewed → interview → technical_test → offer → hired may skip
// stages, rejected and withdrawn are reachable from any non-terminal status,
// and rewriting the current status is allowed so feedback can be updated.
func CanTransition(from, to ApplicationStatus) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	if to == StatusRejected || to == StatusWithdrawn {
		return true
	}
	return pipelineRank[to] > pipelineRank[from]
}

// Application represents a candidate's application to a posting
type Application struct {
	ID          int64             `json:"id"`
	JobID       int64             `json:"job_id"`
	CandidateID int64             `json:"candidate_id"`
	Status      ApplicationStatus `json:"status"`
	Feedback    *string           `json:"feedback,omitempty"`
	AppliedAt   time.Time         `json:"applied_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Joined data for list responses
	JobTitle       *string       `json:"job_title,omitempty"`
	JobState       *PostingState `json:"job_state,omitempty"`
	CompanyName    *string       `json:"company_name,omitempty"`
	CandidateName  *string       `json:"candidate_name,omitempty"`
	CandidateTitle *string       `json:"candidate_title,omitempty"`
	CandidateCity  *string       `json:"candidate_city,omitempty"`
}

type SavedPosting struct {
	ID          int64        `json:"id"`
	CandidateID int64        `json:"candidate_id"`
	JobID       int64        `json:"job_id"`
	CreatedAt   time.Time    `json:"created_at"`
	JobTitle    string       `json:"job_title"`
	JobState    PostingState `json:"job_state"`
	CompanyName string       `json:"company_name"`
}

type StatusInput struct {
	Status   string  `json:"status" validate:"required"`
	Feedback *string `json:"feedback" validate:"omitempty,max=4000"`
}

// ApplicationRepository defines data access methods for applications
type ApplicationRepository interface {
	// CreateIfAbsent inserts a pending application unless one exists for
	// the pair, in which case the existing row is returned with false.
	CreateIfAbsent(ctx context.Context, jobID, candidateID int64) (*Application, bool, error)
	GetByID(ctx context.Context, id int64) (*Application, error)
	// GetByPair returns ErrNotFound when the candidate never applied.
	GetByPair(ctx context.Context, jobID, candidateID int64) (*Application, error)
	Exists(ctx context.Context, jobID, candidateID int64) (bool, error)
	// ListByCandidate returns newest first; limit <= 0 means all.
	ListByCandidate(ctx context.Context, candidateID int64, limit int) ([]Application, error)
	ListByJob(ctx context.Context, jobID int64) ([]Application, error)
	// UpdateStatus keeps the feedback when it is nil and clears it when empty.
	UpdateStatus(ctx context.Context, id int64, status ApplicationStatus, feedback *string) error

	SaveIfAbsent(ctx context.Context, candidateID, jobID int64) (bool, error)
	Unsave(ctx context.Context, candidateID, jobID int64) error
	ListSaved(ctx context.Context, candidateID int64, limit int) ([]SavedPosting, error)

	Stats(ctx context.Context, candidateID int64) (*DashboardStats, error)
}

// ApplicationUsecase defines business logic for applications
type ApplicationUsecase interface {
	// Candidate operations
	Apply(ctx context.Context, caller Caller, jobID int64) (*Application, bool, error)
	Withdraw(ctx context.Context, caller Caller, applicationID int64) (*Application, error)
	HasApplied(ctx context.Context, caller Caller, jobID int64) (bool, error)
	ListMine(ctx context.Context, caller Caller) ([]Application, error)
	Save(ctx context.Context, caller Caller, jobID int64) (bool, error)
	Unsave(ctx context.Context, caller Caller, jobID int64) error
	ListSaved(ctx context.Context, caller Caller) ([]SavedPosting, error)

	// Company operations
	ListApplicants(ctx context.Context, caller Caller, jobID int64) ([]Application, error)
	SetStatus(ctx context.Context, caller Caller, applicationID int64, input StatusInput) (*Application, error)
	ExportApplicants(ctx context.Context, caller Caller, jobID int64) ([]byte, string, error)
}
