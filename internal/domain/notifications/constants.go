package notifications

const (
	TypeKPIAssigned     = "kpi_assigned"
	TypeAparSubmitted   = "apar_submitted"
	TypeAparReviewed    = "apar_reviewed"
	TypeProjectAssigned = "project_assigned"
)

const (
	maxTitleLength = 200
	maxBodyLength  = 2000
)
