package entitymodel

import "sgas/pkg/domain"

// organisationEntities declares reference data listed alphabetically.
func organisationEntities() []domain.Entity {
	return []domain.Entity{
		{
			Type: Department, Route: "departments", Label: "Department",
			DisplayField: "name", Order: alphabetical("name"),
			Fields: []domain.Field{required("name", str), optional("description", text)},
		},
		{
			Type: Position, Route: "positions", Label: "Position", Lookup: true,
			DisplayField: "name", Order: alphabetical("name"),
			Fields: []domain.Field{required("name", str), optional("description", text)},
		},
		{
			Type: Subproject, Route: "subprojects", Label: "Subproject",
			DisplayField: "name", Order: alphabetical("name"),
			Fields: []domain.Field{
				required("name", str),
				optional("contract_number", str),
				optional("contractor", str),
				optional("estimated_cost", number),
				optional("location", str),
				optional("geographic_coordinates", str),
				optional("type", str),
				optional("approximate_area", str),
				optional("dimension", str),
			},
		},
		{
			Type: ContactPerson, Route: "contact-persons", Label: "Contact Person",
			DisplayField: "name", Order: alphabetical("name"),
			Fields: []domain.Field{
				required("name", str),
				optional("role", str),
				optional("contact", str),
				optional("email", str),
				optional("date", date),
			},
		},
		{
			Type: EnvironmentalFactor, Route: "environmental-factors", Label: "Environmental Factor",
			DisplayField: "description", Order: alphabetical("description"),
			Fields: []domain.Field{required("description", str)},
		},
		{
			Type: RiskAndImpact, Route: "risks-and-impacts", Label: "Risk and Impact", Plural: "Risks and Impacts",
			DisplayField: "description", Order: alphabetical("description"),
			Fields: []domain.Field{required("description", str)},
		},
		{
			Type: Training, Route: "trainings", Label: "Training", Lookup: true,
			DisplayField: "name", Order: alphabetical("name"),
			Fields: []domain.Field{required("name", str)},
		},
		{
			Type: ToolBoxTalks, Route: "toolbox-talks", Label: "Toolbox Talk", Lookup: true,
			DisplayField: "name", Order: alphabetical("name"),
			Fields: []domain.Field{required("name", str)},
		},
		{
			Type: TrainingEvaluationQuestions, Route: "training-evaluation-questions", Label: "Training Evaluation Question",
			Lookup: true, DisplayField: "question", Order: alphabetical("question"),
			Fields: []domain.Field{required("question", str)},
		},
		{
			Type: Incident, Route: "incidents", Label: "Incident",
			DisplayField: "description", Order: alphabetical("description"),
			Fields: []domain.Field{required("description", str)},
		},
		{
			Type: AcceptanceConfirmation, Route: "acceptance-confirmations", Label: "Acceptance Confirmation",
			DisplayField: "description", Order: alphabetical("description"),
			Fields: []domain.Field{required("description", str)},
		},
	}
}
