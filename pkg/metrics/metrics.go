package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	syllabusPlanner = "syllabus_planner"

	// Workflow metrics
	workflowDecisionsTotal = "workflow_decisions_total"

	// Revision metrics
	revisionTransitionsTotal = "revision_transitions_total"

	// Async task metrics
	taskReconcilesTotal = "task_reconciles_total"

	// Labels
	decisionLabel       = "decision"
	roleLabel           = "role"
	revisionStatusLabel = "status"
	taskOutcomeLabel    = "outcome"
)

var workflowDecisionLabels = []string{
	decisionLabel,
	roleLabel,
}

var revisionTransitionLabels = []string{
	revisionStatusLabel,
}

var taskReconcileLabels = []string{
	taskOutcomeLabel,
}

/**
* Metrics definition
**/
var workflowDecisionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: syllabusPlanner,
		Name:      workflowDecisionsTotal,
		Help:      "number of workflow step decisions partitioned by decision and acting role",
	},
	workflowDecisionLabels,
)

var revisionTransitionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: syllabusPlanner,
		Name:      revisionTransitionsTotal,
		Help:      "number of revision session transitions partitioned by target status",
	},
	revisionTransitionLabels,
)

var taskReconcilesTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: syllabusPlanner,
		Name:      taskReconcilesTotal,
		Help:      "number of async task result reconciliations partitioned by outcome",
	},
	taskReconcileLabels,
)

func IncreaseWorkflowDecisionsTotalMetric(decision, role string) {
	labels := prometheus.Labels{
		decisionLabel: decision,
		roleLabel:     role,
	}
	workflowDecisionsTotalMetric.With(labels).Inc()
}

func IncreaseRevisionTransitionsTotalMetric(status string) {
	labels := prometheus.Labels{
		revisionStatusLabel: status,
	}
	revisionTransitionsTotalMetric.With(labels).Inc()
}

func IncreaseTaskReconcilesTotalMetric(outcome string) {
	labels := prometheus.Labels{
		taskOutcomeLabel: outcome,
	}
	taskReconcilesTotalMetric.With(labels).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(workflowDecisionsTotalMetric)
	prometheus.MustRegister(revisionTransitionsTotalMetric)
	prometheus.MustRegister(taskReconcilesTotalMetric)
}
