package performance

import (
	"time"

	"hrportal/internal/domain/auth"
)

// Actor is the caller an operation runs on behalf of.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return auth.IsAdmin(a.Role)
}

type KPI struct {
	ID                 string    `json:"id"`
	AssignedTo         string    `json:"assignedTo"`
	AssignedBy         *string   `json:"assignedBy,omitempty"`
	Metric             string    `json:"metric"`
	Description        string    `json:"description"`
	Unit               string    `json:"unit"`
	Period             string    `json:"period"`
	Target             float64   `json:"target"`
	AchievedValue      float64   `json:"achievedValue"`
	Weightage          float64   `json:"weightage"`
	Status             string    `json:"status"`
	Score              float64   `json:"score"`
	Progress           float64   `json:"progress"`
	QualitativeScore   *float64  `json:"qualitativeScore,omitempty"`
	ProgressNotes      string    `json:"progressNotes"`
	SupervisorComments string    `json:"supervisorComments"`
	Remarks            string    `json:"remarks"`
	LastUpdated        time.Time `json:"lastUpdated"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// KPIPatch is a partial update. Nil fields are absent from the request.
type KPIPatch struct {
	AchievedValue      *float64 `json:"achievedValue" validate:"omitempty,gte=0,lte=999999999999"`
	Status             *string  `json:"status"`
	ProgressNotes      *string  `json:"progressNotes" validate:"omitempty,max=4000"`
	QualitativeScore   *float64 `json:"qualitativeScore" validate:"omitempty,gte=0,lte=100"`
	Remarks            *string  `json:"remarks" validate:"omitempty,max=4000"`
	SupervisorComments *string  `json:"supervisorComments" validate:"omitempty,max=4000"`
}

// KPIInput carries every writable KPI field for create and admin replace.
type KPIInput struct {
	AssignedTo         string   `json:"assignedTo"`
	Metric             string   `json:"metric" validate:"required,max=200"`
	Description        string   `json:"description" validate:"max=4000"`
	Unit               string   `json:"unit" validate:"max=50"`
	Period             string   `json:"period" validate:"max=50"`
	Target             float64  `json:"target" validate:"gte=0,lte=999999999999"`
	AchievedValue      float64  `json:"achievedValue" validate:"gte=0,lte=999999999999"`
	Weightage          float64  `json:"weightage" validate:"gte=0,lte=100"`
	Status             string   `json:"status"`
	QualitativeScore   *float64 `json:"qualitativeScore" validate:"omitempty,gte=0,lte=100"`
	ProgressNotes      string   `json:"progressNotes" validate:"max=4000"`
	SupervisorComments string   `json:"supervisorComments" validate:"max=4000"`
	Remarks            string   `json:"remarks" validate:"max=4000"`
}

type KPIFilter struct {
	OwnerID string
	Status  string
	Limit   int
	Offset  int
}

type KPISummary struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"byStatus"`
	AverageScore    float64        `json:"averageScore"`
	AverageProgress float64        `json:"averageProgress"`
	AtRisk          int            `json:"atRisk"`
}

type Appraisal struct {
	ID               string    `json:"id"`
	EmployeeID       string    `json:"employeeId"`
	Year             int       `json:"year"`
	Period           string    `json:"period"`
	Achievements     string    `json:"achievements"`
	Challenges       string    `json:"challenges"`
	Goals            string    `json:"goals"`
	SelfAppraisal    string    `json:"selfAppraisal"`
	Draft            string    `json:"draft"`
	ReviewerID       *string   `json:"reviewerId,omitempty"`
	ReviewerComments string    `json:"reviewerComments"`
	ReviewerScore    float64   `json:"reviewerScore"`
	FinalScore       *float64  `json:"finalScore,omitempty"`
	Status           string    `json:"status"`
	LastUpdated      time.Time `json:"lastUpdated"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type AparPatch struct {
	Achievements     *string  `json:"achievements" validate:"omitempty,max=8000"`
	Challenges       *string  `json:"challenges" validate:"omitempty,max=8000"`
	Goals            *string  `json:"goals" validate:"omitempty,max=8000"`
	SelfAppraisal    *string  `json:"selfAppraisal" validate:"omitempty,max=8000"`
	Draft            *string  `json:"draft" validate:"omitempty,max=16000"`
	ReviewerID       *string  `json:"reviewer" validate:"omitempty,uuid"`
	ReviewerComments *string  `json:"reviewerComments" validate:"omitempty,max=8000"`
	ReviewerScore    *float64 `json:"reviewerScore" validate:"omitempty,gte=0,lte=100"`
	Status           *string  `json:"status"`
}

type AparInput struct {
	EmployeeID    string `json:"employeeId"`
	Year          int    `json:"year" validate:"required,gte=2000,lte=2100"`
	Period        string `json:"period" validate:"required,max=50"`
	Achievements  string `json:"achievements" validate:"max=8000"`
	Challenges    string `json:"challenges" validate:"max=8000"`
	Goals         string `json:"goals" validate:"max=8000"`
	SelfAppraisal string `json:"selfAppraisal" validate:"max=8000"`
	Draft         string `json:"draft" validate:"max=16000"`
	Status        string `json:"status"`
}

type AparFilter struct {
	OwnerID string
	Status  string
	Year    int
	Limit   int
	Offset  int
}

type DraftRequest struct {
	Achievements string `json:"achievements" validate:"max=8000"`
	Challenges   string `json:"challenges" validate:"max=8000"`
	Goals        string `json:"goals" validate:"max=8000"`
	Year         int    `json:"year"`
	Period       string `json:"period"`
}
