package entitymodel

import "sgas/pkg/domain"

func environmentEntities() []domain.Entity {
	return []domain.Entity{
		{
			Type: ImpactAssessment, Route: "impact-assessments", Label: "Impact Assessment",
			DisplayField: "activity",
			Fields: []domain.Field{
				required("activity", str),
				enum("life_cycle", false, "PAST", "PRESENT", "FUTURE"),
				enum("statute", false, "NORMAL", "ABNORMAL", "EMERGENCY"),
				enum("extension", false, "LOCAL", "REGIONAL", "NATIONAL", "GLOBAL"),
				enum("duration", false, "SHORT_TERM", "MEDIUM_TERM", "LONG_TERM"),
				enum("intensity", false, "LOW", "MEDIUM", "HIGH"),
				enum("probability", false, "RARE", "POSSIBLE", "PROBABLE", "HIGHLY_PROBABLE", "DEFINITE"),
				enum("significance", false, "LOW", "MODERATE", "HIGH", "CRITICAL"),
				optional("description_of_measures", text),
				optional("deadline", date),
				optional("responsible", str),
				enum("effectiveness_assessment", false, "EFFECTIVE", "NOT_EFFECTIVE"),
				optional("legal_requirements", text),
				enum("compliance_requirements", false, complianceStatus...),
				optional("observations", text),
			},
			Relations: []domain.Relation{
				ref("departament", Department, true),
				ref("subproject", Subproject, false),
				ref("risk_and_impact", RiskAndImpact, true),
				ref("environmental_factor", EnvironmentalFactor, true),
			},
		},
		{
			Type: EnvironmentalSocialScreening, Route: "screening-forms", Label: "Environmental and Social Screening",
			Plural:       "Environmental and Social Screenings",
			DisplayField: "screeningDate",
			Fields: []domain.Field{
				required("screening_date", date),
				optional("consultation_and_engagement", text),
				optional("recommended_actions", text),
				enum("screening_results", false, "A", "B", "C"),
			},
			Relations: []domain.Relation{
				ref("responsible_for_filling_form", ContactPerson, true),
				ref("responsible_for_verification", ContactPerson, true),
				ref("subproject", Subproject, true),
			},
		},
		{
			Type: LegalRequirement, Route: "legal-requirements", Label: "Legal Requirement",
			DisplayField: "documentTitle",
			Fields: []domain.Field{
				unique("number"),
				required("document_title", str),
				required("effective_date", date),
				optional("description", text),
				enum("status", false, "ACTIVE", "AMENDED", "REVOKED"),
				optional("amendments", text),
				optional("observation", text),
				file("law_file"),
			},
		},
		{
			Type: LegalRequirementControl, Route: "legal-requirement-controls", Label: "Legal Requirement Control",
			DisplayField: "complianceStatus",
			Fields: []domain.Field{
				enum("compliance_status", true, "COMPLIANT", "PARTIALLY_COMPLIANT", "NOT_COMPLIANT"),
				optional("verification_date", date),
				optional("responsible", str),
				optional("observations", text),
			},
			Relations: []domain.Relation{
				ref("legal_requirement", LegalRequirement, true),
				ref("departament", Department, false),
			},
		},
		{
			Type: ObjectiveAndGoal, Route: "objectives-and-goals", Label: "Objective and Goal",
			Plural: "Objectives and Goals", DisplayField: "objective",
			Fields: []domain.Field{
				required("objective", str),
				required("goal", str),
				optional("indicator", str),
				optional("deadline", date),
				optional("responsible", str),
				enum("status", false, progressStatus...),
			},
			Relations: []domain.Relation{ref("departament", Department, true)},
		},
		{
			Type: ManagementProgram, Route: "management-programs", Label: "Management Program",
			DisplayField: "action",
			Fields: []domain.Field{
				required("action", str),
				optional("resources", text),
				optional("responsible", str),
				optional("deadline", date),
				enum("status", false, progressStatus...),
			},
			Relations: []domain.Relation{ref("objective_and_goal", ObjectiveAndGoal, true)},
		},
		{
			Type: WasteManagement, Route: "waste-managements", Label: "Waste Management",
			Plural: "Waste Managements", DisplayField: "wasteRoute",
			Fields: []domain.Field{
				required("waste_route", str),
				optional("labelling", str),
				optional("storage", str),
				optional("transportation_company_method", str),
				optional("disposal_company", str),
				optional("special_instructions", text),
			},
			Relations: []domain.Relation{ref("subproject", Subproject, false)},
		},
		{
			Type: WasteTransferLog, Route: "waste-transfer-logs", Label: "Waste Transfer Log",
			DisplayField: "wasteType",
			Fields: []domain.Field{
				required("waste_type", str),
				optional("how_is_waste_contained", str),
				required("quantity_of_waste", number),
				enum("unit", true, "KG", "TON", "LITRE", "CUBIC_METRE"),
				required("transfer_date", date),
				optional("accepted_by", str),
				optional("transfer_company", str),
				optional("observations", text),
			},
			Relations: []domain.Relation{ref("subproject", Subproject, false)},
		},
		{
			Type: ChemicalInventory, Route: "chemical-inventories", Label: "Chemical Inventory",
			Plural: "Chemical Inventories", DisplayField: "name",
			Fields: []domain.Field{
				required("name", str),
				optional("quantity", number),
				optional("unit", str),
				optional("storage_location", str),
				optional("hazard_class", str),
				optional("msds_available", boolean),
			},
		},
		{
			Type: EnvironmentalMonitoring, Route: "environmental-monitorings", Label: "Environmental Monitoring",
			DisplayField: "parameter",
			Fields: []domain.Field{
				required("parameter", str),
				optional("location", str),
				required("monitoring_date", date),
				optional("measured_value", number),
				optional("unit", str),
				optional("limit_value", number),
				optional("compliant", boolean),
			},
			Relations: []domain.Relation{ref("subproject", Subproject, false)},
		},
		{
			Type: EmergencyPlan, Route: "emergency-plans", Label: "Emergency Plan",
			DisplayField: "scenario",
			Fields: []domain.Field{
				required("scenario", str),
				required("response_actions", text),
				optional("responsible", str),
				optional("resources", text),
				optional("last_drill_date", date),
				optional("next_drill_date", date),
			},
			Relations: []domain.Relation{ref("subproject", Subproject, false)},
		},
		{
			Type: InternalAudit, Route: "internal-audits", Label: "Internal Audit",
			DisplayField: "auditor",
			Fields: []domain.Field{
				required("audit_date", date),
				required("auditor", str),
				optional("scope", text),
				optional("findings", text),
				enum("status", false, "PLANNED", "IN_PROGRESS", "COMPLETED"),
				file("report"),
			},
			Relations: []domain.Relation{ref("departament", Department, false)},
		},
	}
}
