package reports

// Dashboard holds the headline counts for the portal home page. Admins see
// organisation-wide totals; everyone else sees their own records.
type Dashboard struct {
	Scope               string `json:"scope"`
	Employees           int    `json:"employees,omitempty"`
	Projects            int    `json:"projects"`
	ActiveProjects      int    `json:"activeProjects"`
	KPIs                int    `json:"kpis"`
	CompletedKPIs       int    `json:"completedKpis"`
	AtRiskKPIs          int    `json:"atRiskKpis"`
	Appraisals          int    `json:"appraisals"`
	PendingReviews      int    `json:"pendingReviews"`
	UnreadNotifications int    `json:"unreadNotifications"`
}

const (
	ScopeOrganisation = "organisation"
	ScopeSelf         = "self"
)
