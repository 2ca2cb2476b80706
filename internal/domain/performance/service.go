package performance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Locker serializes read-modify-write cycles on a single record.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, ntype, title, body string) error
}

const (
	NotificationKPIAssigned   = "kpi_assigned"
	NotificationAparReviewed  = "apar_reviewed"
	NotificationAparSubmitted = "apar_submitted"
)

type Service struct {
	store  StoreAPI
	locker Locker
	drafts DraftGenerator
	notify Notifier
	now    func() time.Time
}

type Option func(*Service)

func WithLocker(locker Locker) Option {
	return func(s *Service) {
		if locker != nil {
			s.locker = locker
		}
	}
}

func WithDraftGenerator(gen DraftGenerator) Option {
	return func(s *Service) {
		if gen != nil {
			s.drafts = gen
		}
	}
}

func WithNotifier(notify Notifier) Option {
	return func(s *Service) {
		s.notify = notify
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(store StoreAPI, opts ...Option) *Service {
	s := &Service{
		store:  store,
		drafts: TemplateDraftGenerator{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) GetKPI(ctx context.Context, actor Actor, id string) (KPI, error) {
	kpi, err := s.store.GetKPI(ctx, id)
	if err != nil {
		return KPI{}, wrapStore("get kpi", err)
	}
	if ResolveActor(actor, kpi.AssignedTo) == ActorNone {
		return KPI{}, ErrForbidden
	}
	return kpi, nil
}

// ListKPIs returns KPIs newest first. Non-admins only ever see their own.
func (s *Service) ListKPIs(ctx context.Context, actor Actor, filter KPIFilter) ([]KPI, error) {
	if !actor.IsAdmin() {
		filter.OwnerID = actor.UserID
	}
	if filter.Status != "" {
		status, ok := NormalizeKPIStatus(filter.Status)
		if !ok {
			return nil, invalid(FieldStatus, "unknown kpi status")
		}
		filter.Status = status
	}
	kpis, err := s.store.ListKPIs(ctx, filter)
	if err != nil {
		return nil, wrapStore("list kpis", err)
	}
	return kpis, nil
}

func (s *Service) KPISummary(ctx context.Context, actor Actor, ownerID string) (KPISummary, error) {
	kpis, err := s.ListKPIs(ctx, actor, KPIFilter{OwnerID: ownerID})
	if err != nil {
		return KPISummary{}, err
	}
	return buildKPISummary(kpis), nil
}

func buildKPISummary(kpis []KPI) KPISummary {
	summary := KPISummary{ByStatus: map[string]int{}}
	for _, status := range KPIStatuses {
		summary.ByStatus[status] = 0
	}
	if len(kpis) == 0 {
		return summary
	}
	var scoreSum, progressSum float64
	for _, k := range kpis {
		summary.Total++
		summary.ByStatus[k.Status]++
		scoreSum += k.Score
		progressSum += k.Progress
	}
	summary.AtRisk = summary.ByStatus[KPIStatusAtRisk]
	summary.AverageScore = roundTo2(scoreSum / float64(summary.Total))
	summary.AverageProgress = roundTo2(progressSum / float64(summary.Total))
	return summary
}

// CreateKPI assigns a KPI. Admins may assign to anyone; everybody else may
// only create KPIs for themselves.
func (s *Service) CreateKPI(ctx context.Context, actor Actor, input KPIInput) (KPI, error) {
	if err := validate(input); err != nil {
		return KPI{}, err
	}
	owner := strings.TrimSpace(input.AssignedTo)
	if owner == "" {
		owner = actor.UserID
	}
	if owner != actor.UserID {
		if !actor.IsAdmin() {
			return KPI{}, ErrForbidden
		}
		exists, err := s.store.UserExists(ctx, owner)
		if err != nil {
			return KPI{}, wrapStore("check kpi owner", err)
		}
		if !exists {
			return KPI{}, invalid("assignedTo", "unknown user")
		}
	}
	status := KPIStatusNotStarted
	if input.Status != "" {
		normalized, ok := NormalizeKPIStatus(input.Status)
		if !ok {
			return KPI{}, invalid(FieldStatus, "unknown kpi status")
		}
		status = normalized
	}

	kpi := KPI{
		AssignedTo:       owner,
		Metric:           strings.TrimSpace(input.Metric),
		Description:      input.Description,
		Unit:             input.Unit,
		Period:           input.Period,
		Target:           input.Target,
		AchievedValue:    input.AchievedValue,
		Weightage:        input.Weightage,
		Status:           status,
		QualitativeScore: input.QualitativeScore,
		ProgressNotes:    input.ProgressNotes,
		Remarks:          input.Remarks,
		LastUpdated:      s.now(),
	}
	if actor.IsAdmin() {
		assignedBy := actor.UserID
		kpi.AssignedBy = &assignedBy
		kpi.SupervisorComments = input.SupervisorComments
	}
	recalculateKPI(&kpi)

	created, err := s.store.CreateKPI(ctx, kpi)
	if err != nil {
		return KPI{}, wrapStore("create kpi", err)
	}
	if owner != actor.UserID {
		s.send(ctx, owner, NotificationKPIAssigned, "KPI assigned", fmt.Sprintf("A new KPI %q has been assigned to you.", created.Metric))
	}
	return created, nil
}

// UpdateKPI merges patch into the stored KPI under the caller's field
// permissions and persists the result.
func (s *Service) UpdateKPI(ctx context.Context, actor Actor, id string, patch KPIPatch) (KPI, error) {
	unlock := s.lock(ctx, "kpi:"+id)
	defer unlock()

	existing, err := s.store.GetKPI(ctx, id)
	if err != nil {
		return KPI{}, wrapStore("get kpi", err)
	}
	merged, applied, err := MergeKPI(existing, patch, ResolveActor(actor, existing.AssignedTo), s.now())
	if err != nil {
		return KPI{}, err
	}
	updated, err := s.store.UpdateKPI(ctx, merged)
	if err != nil {
		return KPI{}, wrapStore("update kpi", err)
	}
	slog.DebugContext(ctx, "kpi updated", "kpiId", id, "actorId", actor.UserID, "fields", applied)
	return updated, nil
}

func (s *Service) ReplaceKPI(ctx context.Context, actor Actor, id string, input KPIInput) (KPI, error) {
	if !actor.IsAdmin() {
		return KPI{}, ErrForbidden
	}
	unlock := s.lock(ctx, "kpi:"+id)
	defer unlock()

	existing, err := s.store.GetKPI(ctx, id)
	if err != nil {
		return KPI{}, wrapStore("get kpi", err)
	}
	merged, err := ReplaceKPI(existing, input, ActorAdmin, s.now())
	if err != nil {
		return KPI{}, err
	}
	updated, err := s.store.UpdateKPI(ctx, merged)
	if err != nil {
		return KPI{}, wrapStore("update kpi", err)
	}
	return updated, nil
}

func (s *Service) DeleteKPI(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return wrapStore("delete kpi", s.store.DeleteKPI(ctx, id))
}

func (s *Service) GetAppraisal(ctx context.Context, actor Actor, id string) (Appraisal, error) {
	apar, err := s.store.GetAppraisal(ctx, id)
	if err != nil {
		return Appraisal{}, wrapStore("get appraisal", err)
	}
	if ResolveActor(actor, apar.EmployeeID) == ActorNone {
		return Appraisal{}, ErrForbidden
	}
	return apar, nil
}

func (s *Service) ListAppraisals(ctx context.Context, actor Actor, filter AparFilter) ([]Appraisal, error) {
	if !actor.IsAdmin() {
		filter.OwnerID = actor.UserID
	}
	if filter.Status != "" {
		status, ok := NormalizeAparStatus(filter.Status)
		if !ok {
			return nil, invalid(FieldStatus, "unknown appraisal status")
		}
		filter.Status = status
	}
	apars, err := s.store.ListAppraisals(ctx, filter)
	if err != nil {
		return nil, wrapStore("list appraisals", err)
	}
	return apars, nil
}

func (s *Service) CreateAppraisal(ctx context.Context, actor Actor, input AparInput) (Appraisal, error) {
	if err := validate(input); err != nil {
		return Appraisal{}, err
	}
	owner := strings.TrimSpace(input.EmployeeID)
	if owner == "" {
		owner = actor.UserID
	}
	class := ResolveActor(actor, owner)
	if class == ActorNone {
		return Appraisal{}, ErrForbidden
	}
	if owner != actor.UserID {
		exists, err := s.store.UserExists(ctx, owner)
		if err != nil {
			return Appraisal{}, wrapStore("check appraisal owner", err)
		}
		if !exists {
			return Appraisal{}, invalid("employeeId", "unknown user")
		}
	}
	status := AparStatusDraft
	if input.Status != "" {
		normalized, ok := NormalizeAparStatus(input.Status)
		if !ok {
			return Appraisal{}, invalid(FieldStatus, "unknown appraisal status")
		}
		if class == ActorOwner && !aparOwnerStatuses.Has(normalized) {
			return Appraisal{}, ErrForbidden
		}
		status = normalized
	}

	apar := Appraisal{
		EmployeeID:    owner,
		Year:          input.Year,
		Period:        strings.TrimSpace(input.Period),
		Achievements:  input.Achievements,
		Challenges:    input.Challenges,
		Goals:         input.Goals,
		SelfAppraisal: input.SelfAppraisal,
		Draft:         input.Draft,
		Status:        status,
		LastUpdated:   s.now(),
	}
	if isTerminalAparStatus(apar.Status) {
		if err := s.applyFinalScore(ctx, &apar); err != nil {
			return Appraisal{}, err
		}
	}
	created, err := s.store.CreateAppraisal(ctx, apar)
	if err != nil {
		return Appraisal{}, wrapStore("create appraisal", err)
	}
	return created, nil
}

// UpdateAppraisal merges patch under the caller's field permissions. When
// the record is, or becomes, reviewed or finalized the final score is
// recomputed from the owner's completed KPIs.
func (s *Service) UpdateAppraisal(ctx context.Context, actor Actor, id string, patch AparPatch) (Appraisal, error) {
	unlock := s.lock(ctx, "apar:"+id)
	defer unlock()

	existing, err := s.store.GetAppraisal(ctx, id)
	if err != nil {
		return Appraisal{}, wrapStore("get appraisal", err)
	}
	class := ResolveActor(actor, existing.EmployeeID)
	merged, applied, recompute, err := MergeAppraisal(existing, patch, class, s.now())
	if err != nil {
		return Appraisal{}, err
	}
	if recompute {
		if err := s.applyFinalScore(ctx, &merged); err != nil {
			return Appraisal{}, err
		}
	}
	updated, err := s.store.UpdateAppraisal(ctx, merged)
	if err != nil {
		return Appraisal{}, wrapStore("update appraisal", err)
	}
	slog.DebugContext(ctx, "appraisal updated", "aparId", id, "actorId", actor.UserID, "fields", applied)

	if existing.Status != updated.Status {
		switch {
		case isTerminalAparStatus(updated.Status) && updated.EmployeeID != actor.UserID:
			s.send(ctx, updated.EmployeeID, NotificationAparReviewed, "Appraisal "+updated.Status,
				fmt.Sprintf("Your %d %s appraisal is now %s.", updated.Year, updated.Period, updated.Status))
		case updated.Status == AparStatusSubmitted && updated.ReviewerID != nil:
			s.send(ctx, *updated.ReviewerID, NotificationAparSubmitted, "Appraisal submitted",
				fmt.Sprintf("An appraisal for %d %s is ready for review.", updated.Year, updated.Period))
		}
	}
	return updated, nil
}

func (s *Service) applyFinalScore(ctx context.Context, apar *Appraisal) error {
	scores, err := s.store.CompletedKPIScores(ctx, apar.EmployeeID)
	if err != nil {
		return wrapStore("load completed kpi scores", err)
	}
	final := FinalScore(scores, apar.ReviewerScore)
	apar.FinalScore = &final
	return nil
}

// GenerateDraft composes appraisal text for the caller from the submitted
// notes and their KPI summary.
func (s *Service) GenerateDraft(ctx context.Context, actor Actor, req DraftRequest) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.Achievements+req.Challenges+req.Goals) == "" {
		return "", invalid("achievements", "at least one of achievements, challenges or goals is required")
	}
	kpis, err := s.store.ListKPIs(ctx, KPIFilter{OwnerID: actor.UserID})
	if err != nil {
		return "", wrapStore("list kpis", err)
	}
	draft, err := s.drafts.Generate(ctx, DraftContext{Request: req, KPIs: kpis})
	if err != nil {
		return "", fmt.Errorf("generate draft: %w", err)
	}
	return draft, nil
}

func (s *Service) lock(ctx context.Context, key string) func() {
	if s.locker == nil {
		return func() {}
	}
	unlock, err := s.locker.Lock(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "record lock unavailable, continuing without it", "key", key, "err", err)
		return func() {}
	}
	return unlock
}

func (s *Service) send(ctx context.Context, userID, ntype, title, body string) {
	if s.notify == nil || userID == "" {
		return
	}
	if err := s.notify.Notify(ctx, userID, ntype, title, body); err != nil {
		slog.WarnContext(ctx, "performance notification failed", "type", ntype, "userId", userID, "err", err)
	}
}
