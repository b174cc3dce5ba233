package entitymodel

import "sgas/pkg/domain"

func socialEntities() []domain.Entity {
	return []domain.Entity{
		{
			Type: WorkerGrievance, Route: "worker-grievances", Label: "Worker Grievance",
			DisplayField: "name",
			Fields: []domain.Field{
				required("name", str),
				required("company", str),
				required("date", date),
				enum("prefered_contact_method", true, "EMAIL", "PHONE", "FACE_TO_FACE"),
				optional("contact", str),
				enum("prefered_language", false, "PORTUGUESE", "ENGLISH", "OTHER"),
				required("grievance_details", text),
				optional("name_of_person_acknowledging_grievance", str),
				optional("date_of_acknowledgement", date),
				enum("status", false, progressStatus...),
			},
		},
		{
			Type: ClaimComplainControl, Route: "claim-complain-controls", Label: "Claim and Complaint Control",
			Plural: "Claim and Complaint Controls", DisplayField: "number",
			Fields: []domain.Field{
				unique("number"),
				required("claim_complain_submitted_by", str),
				required("claim_complain_reception_date", date),
				required("claim_complain_description", text),
				optional("treatment_action", text),
				optional("claim_complain_responsible_person", str),
				optional("response_date", date),
				optional("closure_date", date),
				optional("observation", text),
				enum("status", false, "OPEN", "IN_PROGRESS", "CLOSED"),
			},
		},
		{
			Type: NonComplianceControl, Route: "non-compliance-controls", Label: "Non-Compliance Control",
			DisplayField: "number",
			Fields: []domain.Field{
				unique("number"),
				required("non_compliance_description", text),
				optional("identified_causes", text),
				optional("corrective_actions", text),
				optional("responsible_person", str),
				optional("deadline", date),
				enum("status", false, progressStatus...),
				optional("effectiveness_evaluation", text),
				optional("observation", text),
			},
			Relations: []domain.Relation{
				ref("departament", Department, true),
				ref("subproject", Subproject, false),
			},
		},
		{
			Type: StakeholderEngagement, Route: "stakeholder-engagements", Label: "Stakeholder Engagement",
			DisplayField: "stakeholder",
			Fields: []domain.Field{
				required("stakeholder", str),
				required("date", date),
				optional("location", str),
				enum("engagement_type", true, "MEETING", "CONSULTATION", "WORKSHOP", "OTHER"),
				optional("topics_discussed", text),
				optional("issues_raised", text),
				optional("follow_up_actions", text),
			},
			Relations: []domain.Relation{
				ref("contact_person", ContactPerson, false),
				ref("subproject", Subproject, false),
			},
		},
	}
}
