package performance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = Actor{UserID: "admin-1", Role: "admin"}
	owner    = Actor{UserID: "emp-1", Role: "employee"}
	stranger = Actor{UserID: "emp-2", Role: "employee"}
)

func newTestService(store *fakeStore, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return mergeNow })}, opts...)
	return NewService(store, opts...)
}

func TestCreateKPIComputesProgress(t *testing.T) {
	store := newFakeStore("emp-1")
	svc := newTestService(store)

	created, err := svc.CreateKPI(context.Background(), owner, KPIInput{Metric: "Tickets", Target: 100, AchievedValue: 50})
	require.NoError(t, err)

	read, err := svc.GetKPI(context.Background(), owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, read.Progress)
	assert.Equal(t, "emp-1", read.AssignedTo)
	assert.Equal(t, KPIStatusNotStarted, read.Status)
	assert.Nil(t, read.AssignedBy)
}

func TestCreateKPIAssignment(t *testing.T) {
	store := newFakeStore("emp-1", "emp-2")
	notify := &recordingNotifier{}
	svc := newTestService(store, WithNotifier(notify))

	created, err := svc.CreateKPI(context.Background(), admin, KPIInput{AssignedTo: "emp-1", Metric: "Revenue", Target: 10})
	require.NoError(t, err)
	require.NotNil(t, created.AssignedBy)
	assert.Equal(t, "admin-1", *created.AssignedBy)
	assert.Equal(t, []string{"emp-1:" + NotificationKPIAssigned}, notify.sent)

	_, err = svc.CreateKPI(context.Background(), owner, KPIInput{AssignedTo: "emp-2", Metric: "Revenue", Target: 10})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateKPI(context.Background(), admin, KPIInput{AssignedTo: "ghost", Metric: "Revenue", Target: 10})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.CreateKPI(context.Background(), owner, KPIInput{Target: 10})
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateKPIByStrangerLeavesRecordUnchanged(t *testing.T) {
	store := newFakeStore("emp-1")
	svc := newTestService(store)
	created, err := svc.CreateKPI(context.Background(), owner, KPIInput{Metric: "Tickets", Target: 100, AchievedValue: 10})
	require.NoError(t, err)

	_, err = svc.UpdateKPI(context.Background(), stranger, created.ID, KPIPatch{AchievedValue: numPtr(90)})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 0, store.updates)
	assert.Equal(t, created, store.kpis[created.ID])
}

func TestUpdateKPIOwnerAndAdmin(t *testing.T) {
	store := newFakeStore("emp-1")
	locker := &stubLocker{}
	svc := newTestService(store, WithLocker(locker))
	created, err := svc.CreateKPI(context.Background(), owner, KPIInput{Metric: "Tickets", Target: 100})
	require.NoError(t, err)

	updated, err := svc.UpdateKPI(context.Background(), owner, created.ID, KPIPatch{
		AchievedValue:      numPtr(80),
		Status:             strPtr("Completed"),
		SupervisorComments: strPtr("self praise"),
	})
	require.NoError(t, err)
	assert.Equal(t, KPIStatusCompleted, updated.Status)
	assert.Equal(t, 80.0, updated.Score)
	assert.Empty(t, updated.SupervisorComments)

	updated, err = svc.UpdateKPI(context.Background(), admin, created.ID, KPIPatch{SupervisorComments: strPtr("well done")})
	require.NoError(t, err)
	assert.Equal(t, "well done", updated.SupervisorComments)
	assert.Equal(t, []string{"kpi:" + created.ID, "kpi:" + created.ID}, locker.keys)
	assert.Equal(t, 2, locker.released)
}

func TestUpdateKPIProceedsWhenLockUnavailable(t *testing.T) {
	store := newFakeStore("emp-1")
	svc := newTestService(store, WithLocker(&stubLocker{err: errors.New("redis down")}))
	created, err := svc.CreateKPI(context.Background(), owner, KPIInput{Metric: "Tickets", Target: 100})
	require.NoError(t, err)

	updated, err := svc.UpdateKPI(context.Background(), owner, created.ID, KPIPatch{AchievedValue: numPtr(30)})
	require.NoError(t, err)
	assert.Equal(t, 30.0, updated.Progress)
}

func TestUpdateKPIMissing(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.UpdateKPI(context.Background(), admin, "nope", KPIPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateKPIPersistenceFailure(t *testing.T) {
	store := newFakeStore("emp-1")
	svc := newTestService(store)
	created, err := svc.CreateKPI(context.Background(), owner, KPIInput{Metric: "Tickets", Target: 100})
	require.NoError(t, err)

	store.UpdateKPIFunc = func(context.Context, KPI) (KPI, error) {
		return KPI{}, errors.New("connection reset")
	}
	_, err = svc.UpdateKPI(context.Background(), owner, created.ID, KPIPatch{AchievedValue: numPtr(1)})
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "update kpi", perr.Op)
}

func TestDeleteKPI(t *testing.T) {
	store := newFakeStore("emp-1")
	svc := newTestService(store)
	created, err := svc.CreateKPI(context.Background(), owner, KPIInput{Metric: "Tickets", Target: 100})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteKPI(context.Background(), owner, created.ID), ErrForbidden)
	require.NoError(t, svc.DeleteKPI(context.Background(), admin, created.ID))
	assert.ErrorIs(t, svc.DeleteKPI(context.Background(), admin, created.ID), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteKPI(context.Background(), admin, "missing"), ErrNotFound)
}

func TestListKPIsScopesNonAdmins(t *testing.T) {
	store := newFakeStore("emp-1", "emp-2")
	svc := newTestService(store)
	first, err := svc.CreateKPI(context.Background(), owner, KPIInput{Metric: "A", Target: 1})
	require.NoError(t, err)
	second, err := svc.CreateKPI(context.Background(), owner, KPIInput{Metric: "B", Target: 1})
	require.NoError(t, err)
	_, err = svc.CreateKPI(context.Background(), stranger, KPIInput{Metric: "C", Target: 1})
	require.NoError(t, err)

	mine, err := svc.ListKPIs(context.Background(), owner, KPIFilter{OwnerID: "emp-2"})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	all, err := svc.ListKPIs(context.Background(), admin, KPIFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byOwner, err := svc.ListKPIs(context.Background(), admin, KPIFilter{OwnerID: "emp-2"})
	require.NoError(t, err)
	assert.Len(t, byOwner, 1)

	_, err = svc.ListKPIs(context.Background(), admin, KPIFilter{Status: "bogus"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGetKPIForbiddenForStranger(t *testing.T) {
	store := newFakeStore("emp-1")
	svc := newTestService(store)
	created, err := svc.CreateKPI(context.Background(), owner, KPIInput{Metric: "A", Target: 1})
	require.NoError(t, err)

	_, err = svc.GetKPI(context.Background(), stranger, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.GetKPI(context.Background(), admin, created.ID)
	assert.NoError(t, err)
}

func TestKPISummary(t *testing.T) {
	summary := buildKPISummary([]KPI{
		{Status: KPIStatusCompleted, Score: 80, Progress: 100},
		{Status: KPIStatusAtRisk, Score: 0, Progress: 20},
		{Status: KPIStatusInProgress, Score: 0, Progress: 45},
	})
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.AtRisk)
	assert.Equal(t, 1, summary.ByStatus[KPIStatusCompleted])
	assert.Equal(t, 0, summary.ByStatus[KPIStatusNotStarted])
	assert.Equal(t, 26.67, summary.AverageScore)
	assert.Equal(t, 55.0, summary.AverageProgress)

	empty := buildKPISummary(nil)
	assert.Zero(t, empty.Total)
	assert.Len(t, empty.ByStatus, len(KPIStatuses))
}

func seedCompletedKPIs(t *testing.T, svc *Service, scores ...float64) {
	t.Helper()
	for _, score := range scores {
		_, err := svc.CreateKPI(context.Background(), admin, KPIInput{
			AssignedTo: "emp-1", Metric: "m", Target: 100, AchievedValue: score, Status: KPIStatusCompleted,
		})
		require.NoError(t, err)
	}
}

func TestFinalizeWithoutCompletedKPIs(t *testing.T) {
	store := newFakeStore("emp-1")
	svc := newTestService(store)
	apar, err := svc.CreateAppraisal(context.Background(), owner, AparInput{Year: 2024, Period: "annual"})
	require.NoError(t, err)
	assert.Nil(t, apar.FinalScore)

	_, err = svc.CreateKPI(context.Background(), owner, KPIInput{Metric: "open", Target: 100, AchievedValue: 70})
	require.NoError(t, err)

	finalized, err := svc.UpdateAppraisal(context.Background(), admin, apar.ID, AparPatch{ReviewerScore: numPtr(7), Status: strPtr("finalized")})
	require.NoError(t, err)
	require.NotNil(t, finalized.FinalScore)
	assert.Equal(t, 7.0, *finalized.FinalScore)
}

func TestFinalizeAveragesCompletedKPIs(t *testing.T) {
	store := newFakeStore("emp-1")
	notify := &recordingNotifier{}
	svc := newTestService(store, WithNotifier(notify))
	seedCompletedKPIs(t, svc, 80, 90)
	notify.sent = nil

	apar, err := svc.CreateAppraisal(context.Background(), owner, AparInput{Year: 2024, Period: "annual"})
	require.NoError(t, err)

	reviewed, err := svc.UpdateAppraisal(context.Background(), admin, apar.ID, AparPatch{ReviewerScore: numPtr(5), Status: strPtr("Reviewed")})
	require.NoError(t, err)
	require.NotNil(t, reviewed.FinalScore)
	assert.Equal(t, 90.0, *reviewed.FinalScore)
	assert.Equal(t, []string{"emp-1:" + NotificationAparReviewed}, notify.sent)

	rescored, err := svc.UpdateAppraisal(context.Background(), admin, apar.ID, AparPatch{ReviewerScore: numPtr(8)})
	require.NoError(t, err)
	assert.Equal(t, 93.0, *rescored.FinalScore)
}

func TestUpdateAppraisalByStranger(t *testing.T) {
	store := newFakeStore("emp-1")
	svc := newTestService(store)
	apar, err := svc.CreateAppraisal(context.Background(), owner, AparInput{Year: 2024, Period: "annual"})
	require.NoError(t, err)

	_, err = svc.UpdateAppraisal(context.Background(), stranger, apar.ID, AparPatch{SelfAppraisal: strPtr("hijack")})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, apar, store.apars[apar.ID])
	assert.Equal(t, 0, store.updates)
}

func TestCreateAppraisalRules(t *testing.T) {
	store := newFakeStore("emp-1")
	svc := newTestService(store)

	_, err := svc.CreateAppraisal(context.Background(), owner, AparInput{EmployeeID: "emp-2", Year: 2024, Period: "annual"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateAppraisal(context.Background(), owner, AparInput{Year: 2024, Period: "annual", Status: "finalized"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateAppraisal(context.Background(), owner, AparInput{Period: "annual"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	created, err := svc.CreateAppraisal(context.Background(), admin, AparInput{EmployeeID: "emp-1", Year: 2024, Period: "H1"})
	require.NoError(t, err)
	assert.Equal(t, "emp-1", created.EmployeeID)
	assert.Equal(t, AparStatusDraft, created.Status)
}

func TestListAppraisalsScopesNonAdmins(t *testing.T) {
	store := newFakeStore("emp-1", "emp-2")
	svc := newTestService(store)
	_, err := svc.CreateAppraisal(context.Background(), owner, AparInput{Year: 2023, Period: "annual"})
	require.NoError(t, err)
	_, err = svc.CreateAppraisal(context.Background(), owner, AparInput{Year: 2024, Period: "annual"})
	require.NoError(t, err)
	_, err = svc.CreateAppraisal(context.Background(), stranger, AparInput{Year: 2024, Period: "annual"})
	require.NoError(t, err)

	mine, err := svc.ListAppraisals(context.Background(), owner, AparFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.Equal(t, 2024, mine[0].Year)

	year, err := svc.ListAppraisals(context.Background(), admin, AparFilter{Year: 2024})
	require.NoError(t, err)
	assert.Len(t, year, 2)
}

func TestGenerateDraftUsesKPIs(t *testing.T) {
	store := newFakeStore("emp-1")
	svc := newTestService(store)
	seedCompletedKPIs(t, svc, 80)

	draft, err := svc.GenerateDraft(context.Background(), owner, DraftRequest{
		Achievements: "Launched the portal\nMentored two juniors",
		Goals:        "Improve test coverage",
		Year:         2024,
		Period:       "Annual",
	})
	require.NoError(t, err)
	assert.Contains(t, draft, "Annual Performance Appraisal Report (Annual 2024)")
	assert.Contains(t, draft, "- Launched the portal")
	assert.Contains(t, draft, "- Mentored two juniors")
	assert.Contains(t, draft, "1 KPIs tracked, 1 completed")
	assert.NotContains(t, draft, "Challenges Faced")

	_, err = svc.GenerateDraft(context.Background(), owner, DraftRequest{})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

type recordingDrafter struct {
	got DraftContext
	err error
}

func (r *recordingDrafter) Generate(_ context.Context, in DraftContext) (string, error) {
	r.got = in
	return "external draft", r.err
}

func TestGenerateDraftUsesConfiguredGenerator(t *testing.T) {
	store := newFakeStore("emp-1")
	drafter := &recordingDrafter{}
	svc := newTestService(store, WithDraftGenerator(drafter))
	seedCompletedKPIs(t, svc, 70)

	draft, err := svc.GenerateDraft(context.Background(), owner, DraftRequest{Goals: "Ship v2"})
	require.NoError(t, err)
	assert.Equal(t, "external draft", draft)
	assert.Equal(t, "Ship v2", drafter.got.Request.Goals)
	assert.Len(t, drafter.got.KPIs, 1)

	drafter.err = errors.New("provider down")
	_, err = svc.GenerateDraft(context.Background(), owner, DraftRequest{Goals: "Ship v2"})
	assert.ErrorContains(t, err, "provider down")
}
