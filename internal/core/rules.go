package core

import (
	"context"
	"fmt"
	"time"

	"sgas/internal/entitymodel"
	"sgas/pkg/domain"
)

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(ChronologyRule())
	engine.Register(MonitoringLimitRule())
	return engine
}

// datePair names two date fields (storage names) where earlier must not come
// after later.
type datePair struct {
	earlier, later string
	label          string
}

var chronologies = map[domain.EntityType][]datePair{
	entitymodel.ClaimComplainControl: {
		{earlier: "claimComplainReceptionDate", later: "responseDate", label: "response date"},
		{earlier: "claimComplainReceptionDate", later: "closureDate", label: "closure date"},
	},
	entitymodel.WorkerGrievance: {
		{earlier: "date", later: "dateOfAcknowledgement", label: "acknowledgement date"},
	},
	entitymodel.EmergencyPlan: {
		{earlier: "lastDrillDate", later: "nextDrillDate", label: "next drill date"},
	},
	entitymodel.MedicalCheck: {
		{earlier: "checkDate", later: "nextCheckDate", label: "next check date"},
	},
	entitymodel.IncidentFlashReport: {
		{earlier: "incidentDate", later: "dateIncidentReported", label: "report date"},
	},
}

// ChronologyRule blocks writes whose follow-up dates precede the event they
// follow, such as a complaint closed before it was received.
func ChronologyRule() domain.Rule {
	return chronologyRule{}
}

type chronologyRule struct{}

func (chronologyRule) Name() string { return "chronology" }

func (chronologyRule) Evaluate(_ context.Context, _ domain.TransactionView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		pairs, ok := chronologies[change.Entity]
		if !ok || change.After == nil {
			continue
		}
		for _, p := range pairs {
			earlier, okE := change.After.Fields[p.earlier].(time.Time)
			later, okL := change.After.Fields[p.later].(time.Time)
			if !okE || !okL || !later.Before(earlier) {
				continue
			}
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "chronology",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("%s %s precedes %s", p.label, later.Format(time.DateOnly), earlier.Format(time.DateOnly)),
				Entity:   change.Entity,
				EntityID: change.ID,
			})
		}
	}
	return res, nil
}

// MonitoringLimitRule warns when an environmental monitoring record is marked
// compliant although its measured value exceeds the limit.
func MonitoringLimitRule() domain.Rule {
	return monitoringLimitRule{}
}

type monitoringLimitRule struct{}

func (monitoringLimitRule) Name() string { return "monitoring_limit" }

func (monitoringLimitRule) Evaluate(_ context.Context, _ domain.TransactionView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != entitymodel.EnvironmentalMonitoring || change.After == nil {
			continue
		}
		fields := change.After.Fields
		measured, okM := fields["measuredValue"].(float64)
		limit, okL := fields["limitValue"].(float64)
		compliant, okC := fields["compliant"].(bool)
		if !okM || !okL || !okC || !compliant || measured <= limit {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "monitoring_limit",
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("%s marked compliant but measured %g exceeds limit %g", change.After.String("parameter"), measured, limit),
			Entity:   change.Entity,
			EntityID: change.ID,
		})
	}
	return res, nil
}
