package performance

type ActorClass int

const (
	ActorNone ActorClass = iota
	ActorOwner
	ActorAdmin
)

func (c ActorClass) String() string {
	switch c {
	case ActorOwner:
		return "owner"
	case ActorAdmin:
		return "admin"
	default:
		return "none"
	}
}

// Field names as they appear on the wire.
const (
	FieldAchievedValue      = "achievedValue"
	FieldStatus             = "status"
	FieldProgressNotes      = "progressNotes"
	FieldQualitativeScore   = "qualitativeScore"
	FieldRemarks            = "remarks"
	FieldSupervisorComments = "supervisorComments"

	FieldAchievements     = "achievements"
	FieldChallenges       = "challenges"
	FieldGoals            = "goals"
	FieldSelfAppraisal    = "selfAppraisal"
	FieldDraft            = "draft"
	FieldReviewer         = "reviewer"
	FieldReviewerComments = "reviewerComments"
	FieldReviewerScore    = "reviewerScore"
)

type FieldSet map[string]struct{}

func newFieldSet(names ...string) FieldSet {
	set := make(FieldSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (f FieldSet) Has(name string) bool {
	_, ok := f[name]
	return ok
}

var kpiOwnerFields = []string{FieldAchievedValue, FieldStatus, FieldProgressNotes, FieldQualitativeScore, FieldRemarks}

var aparOwnerFields = []string{FieldAchievements, FieldChallenges, FieldGoals, FieldSelfAppraisal, FieldDraft, FieldStatus}

var kpiCapabilities = map[ActorClass]FieldSet{
	ActorOwner: newFieldSet(kpiOwnerFields...),
	ActorAdmin: newFieldSet(append(kpiOwnerFields, FieldSupervisorComments)...),
}

var aparCapabilities = map[ActorClass]FieldSet{
	ActorOwner: newFieldSet(aparOwnerFields...),
	ActorAdmin: newFieldSet(append(aparOwnerFields, FieldReviewer, FieldReviewerComments, FieldReviewerScore)...),
}

// Statuses an appraisal owner may set on their own record.
var aparOwnerStatuses = newFieldSet(AparStatusDraft, AparStatusSubmitted)

// ResolveActor classifies actor against the owner of a record. Admin
// rights win over ownership.
func ResolveActor(actor Actor, ownerID string) ActorClass {
	if actor.IsAdmin() {
		return ActorAdmin
	}
	if actor.UserID != "" && actor.UserID == ownerID {
		return ActorOwner
	}
	return ActorNone
}
