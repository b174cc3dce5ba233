package entitymodel

import "sgas/pkg/domain"

func ohsEntities() []domain.Entity {
	return []domain.Entity{
		{
			Type: IncidentFlashReport, Route: "incident-flash-reports", Label: "Incident Flash Report",
			DisplayField: "description",
			Fields: []domain.Field{
				required("incident_date", date),
				required("incident_time", str),
				required("section", str),
				required("location_of_incident", str),
				required("date_incident_reported", date),
				required("reported_by", str),
				optional("supervisor", str),
				enum("type", true, "NEAR_MISS", "FIRST_AID", "MEDICAL_TREATMENT", "LOST_TIME", "FATALITY", "ENVIRONMENTAL", "PROPERTY_DAMAGE"),
				optional("employee_involved", str),
				optional("subcontractor_involved", str),
				required("description", text),
				optional("immediate_actions", text),
				file("photo"),
			},
			Relations: []domain.Relation{many("incidents", Incident)},
		},
		{
			Type: IncidentReport, Route: "incident-reports", Label: "Incident Report",
			DisplayField: "name",
			Fields: []domain.Field{
				required("name", str),
				required("report_date", date),
				optional("root_cause", text),
				optional("corrective_actions", text),
				enum("status", false, progressStatus...),
			},
			Relations: []domain.Relation{
				ref("incident", Incident, true),
				ref("departament", Department, false),
				ref("position", Position, false),
			},
		},
		{
			Type: OHSActing, Route: "ohs-actings", Label: "OHS Acting",
			DisplayField: "name",
			Fields: []domain.Field{
				required("name", str),
				required("date", date),
				optional("observations", text),
			},
			Relations: []domain.Relation{
				many("acceptance_confirmations", AcceptanceConfirmation),
				ref("position", Position, false),
				ref("departament", Department, false),
			},
		},
		{
			Type: PPEDelivery, Route: "ppe-deliveries", Label: "PPE Delivery",
			Plural: "PPE Deliveries", DisplayField: "employeeName",
			Fields: []domain.Field{
				required("employee_name", str),
				required("ppe_item", str),
				required("quantity", integer),
				required("delivery_date", date),
			},
			Relations: []domain.Relation{
				ref("position", Position, false),
				ref("departament", Department, false),
			},
		},
		{
			Type: Inspection, Route: "inspections", Label: "Inspection",
			DisplayField: "area",
			Fields: []domain.Field{
				required("inspection_date", date),
				required("inspector", str),
				required("area", str),
				optional("findings", text),
				optional("corrective_actions", text),
				enum("status", false, progressStatus...),
				file("photo"),
				file("document"),
			},
			Relations: []domain.Relation{ref("departament", Department, false)},
		},
		{
			Type: PhotoDocumentProof, Route: "photo-document-proofs", Label: "Photo and Document Proof",
			Plural: "Photo and Document Proofs", DisplayField: "description",
			Fields: []domain.Field{
				required("description", text),
				optional("date", date),
				file("photo"),
				file("document"),
			},
			Relations: []domain.Relation{ref("subproject", Subproject, false)},
		},
		{
			Type: MedicalCheck, Route: "medical-checks", Label: "Medical Check",
			DisplayField: "employeeName",
			Fields: []domain.Field{
				required("employee_name", str),
				required("check_date", date),
				enum("check_type", true, "ADMISSION", "PERIODIC", "RETURN_TO_WORK", "DISMISSAL"),
				enum("result", false, "FIT", "FIT_WITH_RESTRICTIONS", "UNFIT"),
				optional("next_check_date", date),
				optional("observations", text),
			},
			Relations: []domain.Relation{ref("position", Position, false)},
		},
	}
}
