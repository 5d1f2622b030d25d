package hermes

const (
	DefaultSubjectPrefix = "topsis"

	StreamName   = "TOPSIS_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

func StreamSubjects(prefix string) string { return prefix + ".evaluation.>" }

func SubjectEvaluationCompleted(prefix, evaluationID string) string {
	return prefix + ".evaluation." + evaluationID + ".completed"
}

func SubjectEvaluationRejected(prefix, evaluationID string) string {
	return prefix + ".evaluation." + evaluationID + ".rejected"
}
