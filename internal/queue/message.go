package queue

// Message is the dispatch payload consumed by the external analysis workers.
// The field names are part of the worker contract and must not change.
type Message struct {
	JobID        int64  `json:"jobId"`
	VideoUrl     string `json:"videoUrl"`
	ExerciseName string `json:"exerciseName"`
}
