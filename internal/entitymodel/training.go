package entitymodel

import "sgas/pkg/domain"

func trainingEntities() []domain.Entity {
	return []domain.Entity{
		{
			Type: TrainingNeeds, Route: "training-needs", Label: "Training Needs",
			Plural: "Training Needs", DisplayField: "filledBy",
			Fields: []domain.Field{
				required("filled_by", str),
				required("date", date),
				optional("training_objective", text),
				optional("proposal_of_training_entity", str),
				optional("potential_training_participants", text),
			},
			Relations: []domain.Relation{
				ref("departament", Department, true),
				ref("subproject", Subproject, false),
				ref("training", Training, true),
			},
		},
		{
			Type: TrainingPlan, Route: "training-plans", Label: "Training Plan",
			DisplayField: "updatedBy",
			Fields: []domain.Field{
				required("updated_by", str),
				required("date", date),
				required("year", integer),
				optional("training_area", str),
				optional("training_objective", text),
				enum("training_type", true, trainingType...),
				optional("training_entity", str),
				optional("duration", str),
				optional("number_of_trainees", integer),
				optional("training_recipients", text),
				optional("training_month", str),
				enum("training_status", true, trainingStatus...),
				optional("observations", text),
				optional("approved_by", str),
				optional("approved_date", date),
			},
			Relations: []domain.Relation{ref("training", Training, true)},
		},
		{
			Type: TrainingMatrix, Route: "training-matrices", Label: "Training Matrix",
			Plural: "Training Matrices", DisplayField: "date",
			Fields: []domain.Field{
				required("date", date),
				enum("training_type", false, trainingType...),
				enum("training_status", false, trainingStatus...),
				optional("approver", str),
			},
			Relations: []domain.Relation{
				ref("position", Position, true),
				ref("training", Training, true),
			},
		},
		{
			Type: TrainingEvaluation, Route: "training-evaluations", Label: "Training Evaluation",
			DisplayField: "trainee",
			Fields: []domain.Field{
				required("trainee", str),
				required("date", date),
				optional("score", number),
				optional("comments", text),
			},
			Relations: []domain.Relation{
				ref("training", Training, true),
				ref("departament", Department, false),
				many("questions", TrainingEvaluationQuestions),
			},
		},
		{
			Type: ToolBoxTalksRegister, Route: "toolbox-talks-registers", Label: "Toolbox Talks Register",
			DisplayField: "facilitator",
			Fields: []domain.Field{
				required("date", date),
				required("facilitator", str),
				optional("participants", integer),
				optional("topic_summary", text),
				file("attendance_list"),
			},
			Relations: []domain.Relation{
				ref("toolbox_talk", ToolBoxTalks, true),
				ref("departament", Department, false),
			},
		},
		{
			Type: CompetenceAssessment, Route: "competence-assessments", Label: "Competence Assessment",
			DisplayField: "employeeName",
			Fields: []domain.Field{
				required("employee_name", str),
				required("assessment_date", date),
				optional("competent", boolean),
				optional("gaps", text),
				optional("action_plan", text),
			},
			Relations: []domain.Relation{
				ref("position", Position, true),
				ref("departament", Department, false),
			},
		},
	}
}
