// Package entitymodel declares the compliance entity catalog and translates
// records between the snake_case wire format and camelCase storage.
package entitymodel

import (
	"sync"

	"sgas/pkg/domain"
)

// Entity types registered in the catalog.
const (
	Department                  domain.EntityType = "department"
	Position                    domain.EntityType = "position"
	Subproject                  domain.EntityType = "subproject"
	ContactPerson               domain.EntityType = "contact_person"
	EnvironmentalFactor         domain.EntityType = "environmental_factor"
	RiskAndImpact               domain.EntityType = "risk_and_impact"
	Training                    domain.EntityType = "training"
	ToolBoxTalks                domain.EntityType = "toolbox_talks"
	TrainingEvaluationQuestions domain.EntityType = "training_evaluation_questions"
	Incident                    domain.EntityType = "incident"
	AcceptanceConfirmation      domain.EntityType = "acceptance_confirmation"

	ImpactAssessment             domain.EntityType = "impact_assessment"
	EnvironmentalSocialScreening domain.EntityType = "environmental_social_screening"
	LegalRequirement             domain.EntityType = "legal_requirement"
	LegalRequirementControl      domain.EntityType = "legal_requirement_control"
	ObjectiveAndGoal             domain.EntityType = "objective_and_goal"
	ManagementProgram            domain.EntityType = "management_program"
	WasteManagement              domain.EntityType = "waste_management"
	WasteTransferLog             domain.EntityType = "waste_transfer_log"
	ChemicalInventory            domain.EntityType = "chemical_inventory"
	EnvironmentalMonitoring      domain.EntityType = "environmental_monitoring"
	EmergencyPlan                domain.EntityType = "emergency_plan"
	InternalAudit                domain.EntityType = "internal_audit"

	IncidentFlashReport domain.EntityType = "incident_flash_report"
	IncidentReport      domain.EntityType = "incident_report"
	OHSActing           domain.EntityType = "ohs_acting"
	PPEDelivery         domain.EntityType = "ppe_delivery"
	Inspection          domain.EntityType = "inspection"
	PhotoDocumentProof  domain.EntityType = "photo_document_proof"
	MedicalCheck        domain.EntityType = "medical_check"

	TrainingNeeds        domain.EntityType = "training_needs"
	TrainingPlan         domain.EntityType = "training_plan"
	TrainingMatrix       domain.EntityType = "training_matrix"
	TrainingEvaluation   domain.EntityType = "training_evaluation"
	ToolBoxTalksRegister domain.EntityType = "toolbox_talks_register"
	CompetenceAssessment domain.EntityType = "competence_assessment"

	WorkerGrievance       domain.EntityType = "worker_grievance"
	ClaimComplainControl  domain.EntityType = "claim_complain_control"
	NonComplianceControl  domain.EntityType = "non_compliance_control"
	StakeholderEngagement domain.EntityType = "stakeholder_engagement"
)

// Shared enum value sets.
var (
	progressStatus   = []string{"PENDING", "IN_PROGRESS", "COMPLETED"}
	trainingType     = []string{"INTERNAL", "EXTERNAL"}
	trainingStatus   = []string{"PLANNED", "IN_PROGRESS", "COMPLETED", "CANCELLED"}
	complianceStatus = []string{"COMPLIANT", "NOT_COMPLIANT"}
)

var (
	catalogOnce sync.Once
	catalog     *domain.Catalog
)

// Catalog returns the process-wide entity catalog.
func Catalog() *domain.Catalog {
	catalogOnce.Do(func() {
		catalog = domain.MustCatalog(Entities()...)
	})
	return catalog
}

// Entities returns the raw declarations in registration order.
func Entities() []domain.Entity {
	var out []domain.Entity
	out = append(out, organisationEntities()...)
	out = append(out, environmentEntities()...)
	out = append(out, ohsEntities()...)
	out = append(out, trainingEntities()...)
	out = append(out, socialEntities()...)
	return out
}

func required(api string, kind domain.FieldKind) domain.Field {
	return domain.Field{API: api, Kind: kind, Required: true}
}

func optional(api string, kind domain.FieldKind) domain.Field {
	return domain.Field{API: api, Kind: kind}
}

func unique(api string) domain.Field {
	return domain.Field{API: api, Kind: domain.KindString, Required: true, Unique: true}
}

func enum(api string, req bool, values ...string) domain.Field {
	return domain.Field{API: api, Kind: domain.KindEnum, Required: req, Enum: values}
}

func file(api string) domain.Field {
	return domain.Field{API: api, Kind: domain.KindFile}
}

func ref(api string, target domain.EntityType, req bool) domain.Relation {
	return domain.Relation{API: api, Target: target, Required: req}
}

func many(api string, target domain.EntityType) domain.Relation {
	return domain.Relation{API: api, Target: target, Many: true}
}

func alphabetical(display string) domain.Order {
	return domain.Order{Field: display}
}

const (
	str     = domain.KindString
	text    = domain.KindText
	number  = domain.KindNumber
	integer = domain.KindInteger
	boolean = domain.KindBoolean
	date    = domain.KindDate
)
