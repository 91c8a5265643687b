// Package bill provides the core domain model for the bill lifecycle engine.
package bill

// Status represents a bill's stage in the legislative procedure.
// Statuses are identified by stable strings matching the dashboard's
// persisted values.
type Status string

// Canonical statuses, in lifecycle order.
const (
	StatusDraft             Status = "DRAFT"
	StatusLawMinistryReview Status = "LAW_MINISTRY_REVIEW"
	StatusCabinetApproved   Status = "CABINET_APPROVED"
	StatusRegistered        Status = "REGISTERED"
	StatusFirstReading      Status = "FIRST_READING"
	StatusGeneralDiscussion Status = "GENERAL_DISCUSSION"
	StatusAmendmentWindow   Status = "AMENDMENT_WINDOW_OPEN"
	StatusCommitteeReview   Status = "COMMITTEE_REVIEW"
	StatusClauseVoting      Status = "CLAUSE_VOTING"
	StatusFirstHousePassed  Status = "FIRST_HOUSE_PASSED"
	StatusSecondHouse       Status = "SECOND_HOUSE_PROCESSING"
	StatusJointSitting      Status = "JOINT_SITTING"
	StatusSpeakerCert       Status = "SPEAKER_CERTIFICATION"
	StatusPresidentialRev   Status = "PRESIDENTIAL_REVIEW"
	StatusAssented          Status = "ASSENTED"
	StatusGazettePublished  Status = "GAZETTE_PUBLISHED"
	StatusImplementation    Status = "IMPLEMENTATION_MONITORING"
	StatusLapsed            Status = "LAPSED"
	StatusWithdrawn         Status = "WITHDRAWN"
	StatusFastTrack         Status = "FAST_TRACK"
)

// Phase groups related statuses for timeline rendering.
type Phase string

// Legislative phases.
const (
	PhaseDrafting       Phase = "drafting"
	PhaseIntroduction   Phase = "introduction"
	PhaseDeepScrutiny   Phase = "deep_scrutiny"
	PhaseSecondHouse    Phase = "second_house"
	PhaseAuthentication Phase = "authentication"
	PhasePostEnactment  Phase = "post_enactment"
	PhaseExceptional    Phase = "exceptional"
)

var statusLabels = map[Status]string{
	StatusDraft:             "Draft",
	StatusLawMinistryReview: "Law Ministry Review",
	StatusCabinetApproved:   "Cabinet Approved",
	StatusRegistered:        "Registered",
	StatusFirstReading:      "First Reading",
	StatusGeneralDiscussion: "General Discussion",
	StatusAmendmentWindow:   "Amendment Window",
	StatusCommitteeReview:   "Committee Review",
	StatusClauseVoting:      "Clause Voting",
	StatusFirstHousePassed:  "First House Passed",
	StatusSecondHouse:       "Second House",
	StatusJointSitting:      "Joint Sitting",
	StatusSpeakerCert:       "Speaker Certification",
	StatusPresidentialRev:   "Presidential Review",
	StatusAssented:          "Assented",
	StatusGazettePublished:  "Gazette Published",
	StatusImplementation:    "Implementation",
	StatusLapsed:            "Lapsed",
	StatusWithdrawn:         "Withdrawn",
	StatusFastTrack:         "Fast Track",
}

var statusPhases = map[Status]Phase{
	StatusDraft:             PhaseDrafting,
	StatusLawMinistryReview: PhaseDrafting,
	StatusCabinetApproved:   PhaseDrafting,
	StatusRegistered:        PhaseIntroduction,
	StatusFirstReading:      PhaseIntroduction,
	StatusGeneralDiscussion: PhaseIntroduction,
	StatusAmendmentWindow:   PhaseDeepScrutiny,
	StatusCommitteeReview:   PhaseDeepScrutiny,
	StatusClauseVoting:      PhaseDeepScrutiny,
	StatusFirstHousePassed:  PhaseDeepScrutiny,
	StatusSecondHouse:       PhaseSecondHouse,
	StatusJointSitting:      PhaseSecondHouse,
	StatusSpeakerCert:       PhaseAuthentication,
	StatusPresidentialRev:   PhaseAuthentication,
	StatusAssented:          PhaseAuthentication,
	StatusGazettePublished:  PhasePostEnactment,
	StatusImplementation:    PhasePostEnactment,
	StatusLapsed:            PhaseExceptional,
	StatusWithdrawn:         PhaseExceptional,
	StatusFastTrack:         PhaseExceptional,
}

// Label returns the display label for the status.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Phase returns the legislative phase the status belongs to.
func (s Status) Phase() Phase {
	return statusPhases[s]
}

// IsTerminal returns true for the final monitoring status. Lapsed and
// withdrawn bills are dead ends but can be re-introduced, so they are
// not terminal.
func (s Status) IsTerminal() bool {
	return s == StatusImplementation
}

// IsValid returns true if the status is a recognized canonical status.
func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// AllStatuses returns every canonical status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusDraft,
		StatusLawMinistryReview,
		StatusCabinetApproved,
		StatusRegistered,
		StatusFirstReading,
		StatusGeneralDiscussion,
		StatusAmendmentWindow,
		StatusCommitteeReview,
		StatusClauseVoting,
		StatusFirstHousePassed,
		StatusSecondHouse,
		StatusJointSitting,
		StatusSpeakerCert,
		StatusPresidentialRev,
		StatusAssented,
		StatusGazettePublished,
		StatusImplementation,
		StatusLapsed,
		StatusWithdrawn,
		StatusFastTrack,
	}
}

// LifecycleOrder returns the statuses of the ordinary passage path, in
// order, for timeline rendering. Exceptional statuses (lapsed, withdrawn,
// fast track) are excluded.
func LifecycleOrder() []Status {
	return []Status{
		StatusDraft,
		StatusLawMinistryReview,
		StatusCabinetApproved,
		StatusRegistered,
		StatusFirstReading,
		StatusGeneralDiscussion,
		StatusAmendmentWindow,
		StatusCommitteeReview,
		StatusClauseVoting,
		StatusFirstHousePassed,
		StatusSecondHouse,
		StatusJointSitting,
		StatusSpeakerCert,
		StatusPresidentialRev,
		StatusAssented,
		StatusGazettePublished,
		StatusImplementation,
	}
}
