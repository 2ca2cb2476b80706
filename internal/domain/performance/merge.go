package performance

import "time"

// MergeKPI applies the patch fields class may write to a copy of existing
// and recalculates derived fields. Fields outside the class's set are
// ignored. The names of applied fields are returned.
func MergeKPI(existing KPI, patch KPIPatch, class ActorClass, now time.Time) (KPI, []string, error) {
	allowed, ok := kpiCapabilities[class]
	if !ok {
		return existing, nil, ErrForbidden
	}
	if err := validate(patch); err != nil {
		return existing, nil, err
	}

	merged := existing
	var applied []string
	if patch.AchievedValue != nil && allowed.Has(FieldAchievedValue) {
		merged.AchievedValue = *patch.AchievedValue
		applied = append(applied, FieldAchievedValue)
	}
	if patch.Status != nil && allowed.Has(FieldStatus) {
		status, ok := NormalizeKPIStatus(*patch.Status)
		if !ok {
			return existing, nil, invalid(FieldStatus, "unknown kpi status")
		}
		merged.Status = status
		applied = append(applied, FieldStatus)
	}
	if patch.ProgressNotes != nil && allowed.Has(FieldProgressNotes) {
		merged.ProgressNotes = *patch.ProgressNotes
		applied = append(applied, FieldProgressNotes)
	}
	if patch.QualitativeScore != nil && allowed.Has(FieldQualitativeScore) {
		value := *patch.QualitativeScore
		merged.QualitativeScore = &value
		applied = append(applied, FieldQualitativeScore)
	}
	if patch.Remarks != nil && allowed.Has(FieldRemarks) {
		merged.Remarks = *patch.Remarks
		applied = append(applied, FieldRemarks)
	}
	if patch.SupervisorComments != nil && allowed.Has(FieldSupervisorComments) {
		merged.SupervisorComments = *patch.SupervisorComments
		applied = append(applied, FieldSupervisorComments)
	}

	merged.LastUpdated = now
	recalculateKPI(&merged)
	return merged, applied, nil
}

// ReplaceKPI overwrites every field of existing from input except the owner.
// Only admins may do this.
func ReplaceKPI(existing KPI, input KPIInput, class ActorClass, now time.Time) (KPI, error) {
	if class != ActorAdmin {
		return existing, ErrForbidden
	}
	if err := validate(input); err != nil {
		return existing, err
	}
	status := existing.Status
	if input.Status != "" {
		normalized, ok := NormalizeKPIStatus(input.Status)
		if !ok {
			return existing, invalid(FieldStatus, "unknown kpi status")
		}
		status = normalized
	}

	merged := existing
	merged.Metric = input.Metric
	merged.Description = input.Description
	merged.Unit = input.Unit
	merged.Period = input.Period
	merged.Target = input.Target
	merged.AchievedValue = input.AchievedValue
	merged.Weightage = input.Weightage
	merged.Status = status
	merged.QualitativeScore = input.QualitativeScore
	merged.ProgressNotes = input.ProgressNotes
	merged.SupervisorComments = input.SupervisorComments
	merged.Remarks = input.Remarks
	merged.LastUpdated = now
	recalculateKPI(&merged)
	return merged, nil
}

// MergeAppraisal applies the patch fields class may write to a copy of
// existing. Owners may only move their appraisal between draft and
// submitted and may not touch it once reviewed or finalized. It reports
// whether the final score needs recomputing.
func MergeAppraisal(existing Appraisal, patch AparPatch, class ActorClass, now time.Time) (Appraisal, []string, bool, error) {
	allowed, ok := aparCapabilities[class]
	if !ok {
		return existing, nil, false, ErrForbidden
	}
	if class == ActorOwner && isTerminalAparStatus(existing.Status) {
		return existing, nil, false, ErrForbidden
	}
	if err := validate(patch); err != nil {
		return existing, nil, false, err
	}

	merged := existing
	var applied []string
	setText := func(field string, value *string, dst *string) {
		if value != nil && allowed.Has(field) {
			*dst = *value
			applied = append(applied, field)
		}
	}
	setText(FieldAchievements, patch.Achievements, &merged.Achievements)
	setText(FieldChallenges, patch.Challenges, &merged.Challenges)
	setText(FieldGoals, patch.Goals, &merged.Goals)
	setText(FieldSelfAppraisal, patch.SelfAppraisal, &merged.SelfAppraisal)
	setText(FieldDraft, patch.Draft, &merged.Draft)
	setText(FieldReviewerComments, patch.ReviewerComments, &merged.ReviewerComments)

	if patch.ReviewerID != nil && allowed.Has(FieldReviewer) {
		reviewer := *patch.ReviewerID
		merged.ReviewerID = &reviewer
		applied = append(applied, FieldReviewer)
	}

	reviewerScoreChanged := false
	if patch.ReviewerScore != nil && allowed.Has(FieldReviewerScore) {
		reviewerScoreChanged = merged.ReviewerScore != *patch.ReviewerScore
		merged.ReviewerScore = *patch.ReviewerScore
		applied = append(applied, FieldReviewerScore)
	}

	statusApplied := false
	if patch.Status != nil && allowed.Has(FieldStatus) {
		status, ok := NormalizeAparStatus(*patch.Status)
		if !ok {
			return existing, nil, false, invalid(FieldStatus, "unknown appraisal status")
		}
		if class == ActorOwner && !aparOwnerStatuses.Has(status) {
			return existing, nil, false, ErrForbidden
		}
		statusApplied = true
		merged.Status = status
		applied = append(applied, FieldStatus)
	}

	if !isTerminalAparStatus(merged.Status) {
		merged.FinalScore = nil
	}
	merged.LastUpdated = now
	recompute := isTerminalAparStatus(merged.Status) && (statusApplied || reviewerScoreChanged || merged.FinalScore == nil)
	return merged, applied, recompute, nil
}
