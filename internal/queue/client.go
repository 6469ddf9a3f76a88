package queue

import "context"

// Client enqueues alert fan-out jobs for the worker. SQSClient is the
// production implementation; when no queue is configured the detection
// service skips the queue and alerts devices inline instead.
type Client interface {
	Send(ctx context.Context, msg Message) error
}
