package queue

import (
	"context"

	"go.uber.org/zap"
)

// publisher used in dev when no broker is configured
type StdoutPublisher struct{}

var _ Publisher = (*StdoutPublisher)(nil)

func NewStdoutPublisher() *StdoutPublisher {
	return &StdoutPublisher{}
}

func (s *StdoutPublisher) Publish(_ context.Context, msg Message) error {
	zap.S().Named("stdout_publisher").Infow("job published", "job_id", msg.JobID, "video_url", msg.VideoUrl, "exercise", msg.ExerciseName)
	return nil
}

func (s *StdoutPublisher) Close() error {
	return nil
}
