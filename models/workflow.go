package models

// WorkflowStep is one node in the fixed progression a session moves through.
type WorkflowStep string

const (
	StepLogin           WorkflowStep = "login"
	StepKitchenScan     WorkflowStep = "kitchen-scan"
	StepWardArrival     WorkflowStep = "ward-arrival"
	StepDietSheet       WorkflowStep = "diet-sheet"
	StepNurseAlert      WorkflowStep = "nurse-alert"
	StepNurseStation    WorkflowStep = "nurse-station"
	StepServiceProgress WorkflowStep = "service-progress"
	StepCompletion      WorkflowStep = "completion"
	StepFullReport      WorkflowStep = "full-report"
)

// stepGraph is the legal transition set. Effectively linear; the diet sheet
// may be skipped straight to the nurse alert.
var stepGraph = map[WorkflowStep][]WorkflowStep{
	StepLogin:           {StepKitchenScan},
	StepKitchenScan:     {StepWardArrival},
	StepWardArrival:     {StepDietSheet, StepNurseAlert},
	StepDietSheet:       {StepNurseAlert},
	StepNurseAlert:      {StepNurseStation},
	StepNurseStation:    {StepServiceProgress},
	StepServiceProgress: {StepCompletion},
	StepCompletion:      {StepFullReport},
	StepFullReport:      {},
}

// NextSteps returns the legal successors of step.
func NextSteps(step WorkflowStep) []WorkflowStep {
	return stepGraph[step]
}

// IsLegalTransition reports whether from -> to follows the step graph.
func IsLegalTransition(from, to WorkflowStep) bool {
	for _, s := range stepGraph[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ParseStep maps a raw step name onto the known step set. Unknown names
// fall back to the login step, the defined default.
func ParseStep(raw string) WorkflowStep {
	step := WorkflowStep(raw)
	if _, ok := stepGraph[step]; ok {
		return step
	}
	return StepLogin
}
