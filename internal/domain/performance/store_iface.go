package performance

import "context"

type StoreAPI interface {
	GetKPI(ctx context.Context, id string) (KPI, error)
	ListKPIs(ctx context.Context, filter KPIFilter) ([]KPI, error)
	CreateKPI(ctx context.Context, kpi KPI) (KPI, error)
	UpdateKPI(ctx context.Context, kpi KPI) (KPI, error)
	DeleteKPI(ctx context.Context, id string) error
	CompletedKPIScores(ctx context.Context, ownerID string) ([]float64, error)

	GetAppraisal(ctx context.Context, id string) (Appraisal, error)
	ListAppraisals(ctx context.Context, filter AparFilter) ([]Appraisal, error)
	CreateAppraisal(ctx context.Context, appraisal Appraisal) (Appraisal, error)
	UpdateAppraisal(ctx context.Context, appraisal Appraisal) (Appraisal, error)

	UserExists(ctx context.Context, userID string) (bool, error)
}
