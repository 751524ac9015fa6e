package pipeline

// NoticeKind classifies a diagnostic emitted by a pipeline stage.
type NoticeKind string

const (
	// NoticeJobFailed means a remote job ended without success or the
	// client gave up waiting; the stage degraded to zero records.
	NoticeJobFailed NoticeKind = "job_failed"

	// NoticeRecordSkipped means a single raw record was dropped, most
	// commonly because no username could be resolved from it.
	NoticeRecordSkipped NoticeKind = "record_skipped"

	// NoticeEmptyStage means a stage produced nothing and the topic
	// short-circuited to an empty result.
	NoticeEmptyStage NoticeKind = "empty_stage"

	// NoticeExportFailed means one export call was aborted; sibling
	// exports still ran.
	NoticeExportFailed NoticeKind = "export_failed"

	// NoticeStoreFailed means recording run history failed; the harvest
	// result itself is unaffected.
	NoticeStoreFailed NoticeKind = "store_failed"
)

// Notice is a structured diagnostic returned alongside stage results, so
// callers can inspect what was skipped or degraded without parsing logs.
type Notice struct {
	Kind   NoticeKind `json:"kind"`
	Topic  string     `json:"topic,omitempty"`
	Detail string     `json:"detail"`
}
