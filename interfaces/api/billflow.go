// Package api provides the public API for the billflow runtime.
//
// billflow models the journey of a bill through Nepal's federal
// parliament as an explicit state machine: registration, readings,
// committee scrutiny, inter-house transmission, authentication, and
// gazette publication, with the constitutional deadlines that bound
// each stage tracked and enforced alongside the transitions.
//
// # Quick Start
//
// Open a client from configuration and drive a bill through its
// lifecycle:
//
//	cfg := api.DefaultConfig()
//	client, _ := api.Open(ctx, cfg)
//	defer client.Close(ctx)
//
//	svc := client.Service()
//	b, _ := svc.Create(ctx, api.CreateInput{
//	    Title:       "Civil Service Bill, 2082",
//	    Category:    api.CategoryGovernment,
//	    OriginHouse: api.HouseOfRepresentatives,
//	})
//	_ = svc.Apply(ctx, b.ID, api.StatusLawMinistryReview, api.RoleMinistry, api.Facts{}, "forwarded for theoretical approval")
//
// The engine rejects transitions the catalog does not allow for the
// acting role and bill category, so callers never need to duplicate
// procedural rules.
package api

import (
	"github.com/sansadwatch/billflow/application"
	"github.com/sansadwatch/billflow/domain/bill"
	"github.com/sansadwatch/billflow/domain/deadline"
	"github.com/sansadwatch/billflow/domain/lifecycle"
	"github.com/sansadwatch/billflow/domain/notification"
)

// Bill re-exports the bill aggregate.
type Bill = bill.Bill

// HistoryEntry re-exports a single recorded transition.
type HistoryEntry = bill.HistoryEntry

// Status re-exports the bill status type.
type Status = bill.Status

// Role re-exports the actor role type.
type Role = bill.Role

// Category re-exports the bill category type.
type Category = bill.Category

// House re-exports the originating house type.
type House = bill.House

// ListFilter re-exports the bill listing filter.
type ListFilter = bill.ListFilter

// Summary re-exports the aggregate bill summary.
type Summary = bill.Summary

// StatusCount re-exports a per-status tally.
type StatusCount = bill.StatusCount

// Bill statuses.
const (
	StatusDraft             = bill.StatusDraft
	StatusLawMinistryReview = bill.StatusLawMinistryReview
	StatusCabinetApproved   = bill.StatusCabinetApproved
	StatusRegistered        = bill.StatusRegistered
	StatusFirstReading      = bill.StatusFirstReading
	StatusGeneralDiscussion = bill.StatusGeneralDiscussion
	StatusAmendmentWindow   = bill.StatusAmendmentWindow
	StatusCommitteeReview   = bill.StatusCommitteeReview
	StatusClauseVoting      = bill.StatusClauseVoting
	StatusFirstHousePassed  = bill.StatusFirstHousePassed
	StatusSecondHouse       = bill.StatusSecondHouse
	StatusJointSitting      = bill.StatusJointSitting
	StatusSpeakerCert       = bill.StatusSpeakerCert
	StatusPresidentialRev   = bill.StatusPresidentialRev
	StatusAssented          = bill.StatusAssented
	StatusGazettePublished  = bill.StatusGazettePublished
	StatusImplementation    = bill.StatusImplementation
	StatusLapsed            = bill.StatusLapsed
	StatusWithdrawn         = bill.StatusWithdrawn
	StatusFastTrack         = bill.StatusFastTrack
)

// Actor roles.
const (
	RoleMinistry        = bill.RoleMinistry
	RoleMP              = bill.RoleMP
	RoleCommitteeMember = bill.RoleCommitteeMember
	RoleSecretariat     = bill.RoleSecretariat
	RoleSpeaker         = bill.RoleSpeaker
	RolePresident       = bill.RolePresident
	RoleAdmin           = bill.RoleAdmin
	RolePublic          = bill.RolePublic
)

// Bill categories.
const (
	CategoryGovernment     = bill.CategoryGovernment
	CategoryPrivate        = bill.CategoryPrivate
	CategoryMoney          = bill.CategoryMoney
	CategoryConstitutional = bill.CategoryConstitutional
	CategoryOrdinance      = bill.CategoryOrdinance
)

// Houses.
const (
	HouseOfRepresentatives = bill.HouseOfRepresentatives
	NationalAssembly       = bill.NationalAssembly
)

// Engine re-exports the lifecycle engine.
type Engine = lifecycle.Engine

// Transition re-exports a catalog transition.
type Transition = lifecycle.Transition

// Guard re-exports a transition guard.
type Guard = lifecycle.Guard

// StateDefinition re-exports a catalog state definition.
type StateDefinition = lifecycle.Definition

// NewBill creates a new bill in draft status.
func NewBill(title string, category Category, origin House) (*Bill, error) {
	return bill.New(title, category, origin)
}

// Catalog re-exports the validated transition graph.
type Catalog = lifecycle.Catalog

// DeadlineSpec re-exports a deadline created on state entry.
type DeadlineSpec = lifecycle.DeadlineSpec

// NewDefaultEngine constructs the engine over the built-in transition
// catalog.
func NewDefaultEngine() *Engine {
	return lifecycle.NewDefaultEngine()
}

// DefaultCatalog returns the built-in transition catalog.
func DefaultCatalog() *Catalog {
	return lifecycle.DefaultCatalog()
}

// DeadlineKind re-exports the deadline kind type.
type DeadlineKind = deadline.Kind

// DeadlineInstance re-exports a computed deadline window.
type DeadlineInstance = deadline.Instance

// DeadlineRecord re-exports a persisted deadline.
type DeadlineRecord = deadline.Record

// Urgency re-exports the deadline urgency level.
type Urgency = deadline.Urgency

// DeadlineRule re-exports a row of the constitutional timer table.
type DeadlineRule = deadline.Rule

// DeadlineRules returns the ordered reference table of constitutional
// timers.
func DeadlineRules() []DeadlineRule {
	return deadline.Rules()
}

// Service re-exports the application bill service.
type Service = application.Service

// CreateInput re-exports the bill creation input.
type CreateInput = application.CreateInput

// Facts re-exports caller-asserted transition facts.
type Facts = application.Facts

// Stats re-exports the reporting service.
type Stats = application.Stats

// Dashboard re-exports the aggregated dashboard view.
type Dashboard = application.Dashboard

// UpcomingDeadline re-exports a dashboard deadline row.
type UpcomingDeadline = application.UpcomingDeadline

// Sweeper re-exports the deadline sweeper.
type Sweeper = application.Sweeper

// Event re-exports the notification event.
type Event = notification.Event

// EventType re-exports the notification event type.
type EventType = notification.EventType

// Notification event types.
const (
	EventTransitionApplied = notification.EventTransitionApplied
	EventSideEffectIntent  = notification.EventSideEffectIntent
	EventDeadlineCreated   = notification.EventDeadlineCreated
	EventDeadlineExpired   = notification.EventDeadlineExpired
)

// Application errors.
var (
	ErrBillNotFound         = bill.ErrBillNotFound
	ErrBillExists           = bill.ErrBillExists
	ErrEmptyTitle           = bill.ErrEmptyTitle
	ErrStatusConflict       = bill.ErrStatusConflict
	ErrTransitionNotAllowed = application.ErrTransitionNotAllowed
	ErrQuorumNotMet         = application.ErrQuorumNotMet
	ErrDeadlineNotExpired   = application.ErrDeadlineNotExpired
	ErrBillAlreadyReturned  = application.ErrBillAlreadyReturned
)
