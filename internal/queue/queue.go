// Package queue distributes batch match requests over NATS. Workers join a
// queue group and answer each request with a Response.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/logger"
	"github.com/jonathan/job-matcher/internal/pipeline"
	"github.com/jonathan/job-matcher/internal/resilience"
)

// BatchRunner executes a batch request. *pipeline.Service implements it.
type BatchRunner interface {
	Batch(ctx context.Context, req pipeline.BatchRequest) (*pipeline.BatchResult, error)
}

// Response is the reply payload for one batch request
type Response struct {
	Result *pipeline.BatchResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// Options tunes the NATS connection
type Options struct {
	ConnectTimeout time.Duration
	ReconnectWait  time.Duration
	MaxReconnects  int
	// HandlerTimeout bounds one batch on the worker side
	HandlerTimeout time.Duration
	Executor       *resilience.Executor
	Logger         *zap.Logger
}

// Queue is a NATS connection bound to one subject and queue group
type Queue struct {
	conn           *nats.Conn
	subject        string
	group          string
	handlerTimeout time.Duration
	executor       *resilience.Executor
	log            *zap.Logger
}

// Connect dials NATS. The connection retries in the background when the
// server is not reachable yet.
func Connect(url, subject, group string, opts Options) (*Queue, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 2 * time.Second
	}
	if opts.ReconnectWait <= 0 {
		opts.ReconnectWait = 2 * time.Second
	}
	if opts.MaxReconnects <= 0 {
		opts.MaxReconnects = 60
	}
	if opts.HandlerTimeout <= 0 {
		opts.HandlerTimeout = 5 * time.Minute
	}
	if url == "" {
		url = nats.DefaultURL
	}
	log := logger.OrNop(opts.Logger).Named("queue")

	conn, err := nats.Connect(
		url,
		nats.Name("jobmatch"),
		nats.Timeout(opts.ConnectTimeout),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:           conn,
		subject:        subject,
		group:          group,
		handlerTimeout: opts.HandlerTimeout,
		executor:       opts.Executor,
		log:            log,
	}, nil
}

// Close closes the connection
func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

// Submit sends a batch request and waits for a worker's reply. ctx must carry
// a deadline long enough for the batch to finish.
func (q *Queue) Submit(ctx context.Context, req pipeline.BatchRequest) (*pipeline.BatchResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode batch request: %w", err)
	}

	var reply *nats.Msg
	call := func(ctx context.Context) error {
		msg, err := q.conn.RequestWithContext(ctx, q.subject, payload)
		if err != nil {
			return fmt.Errorf("nats request: %w", err)
		}
		reply = msg
		return nil
	}
	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.request", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(reply.Data, &resp); err != nil {
		return nil, fmt.Errorf("decode batch reply: %w", err)
	}
	if resp.Error != "" {
		return nil, &RemoteError{Message: resp.Error}
	}
	return resp.Result, nil
}

// Serve answers batch requests until ctx is cancelled, then drains the
// subscription.
func (q *Queue) Serve(ctx context.Context, runner BatchRunner) error {
	sub, err := q.conn.QueueSubscribe(q.subject, q.group, func(msg *nats.Msg) {
		if ctx.Err() != nil {
			return
		}
		handlerCtx, cancel := context.WithTimeout(ctx, q.handlerTimeout)
		defer cancel()

		reply := handle(handlerCtx, runner, msg.Data, q.log)
		if msg.Reply == "" {
			return
		}
		if err := msg.Respond(reply); err != nil {
			q.log.Warn("failed to send batch reply", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}
	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}
	q.log.Info("worker listening", zap.String("subject", q.subject), zap.String("group", q.group))

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

// handle decodes one request, runs it and encodes the Response
func handle(ctx context.Context, runner BatchRunner, data []byte, log *zap.Logger) []byte {
	var resp Response
	var req pipeline.BatchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		resp.Error = "invalid batch request: " + err.Error()
	} else {
		start := time.Now()
		result, err := runner.Batch(ctx, req)
		if err != nil {
			log.Warn("batch failed", zap.Int("jobs", len(req.Jobs)), zap.Error(err))
			resp.Error = err.Error()
		} else {
			log.Info("batch served",
				zap.String("search_id", result.SearchID),
				zap.Int("jobs", len(req.Jobs)),
				zap.Duration("elapsed", time.Since(start)))
			resp.Result = result
		}
	}

	out, err := json.Marshal(resp)
	if err != nil {
		out, _ = json.Marshal(Response{Error: "encode batch result: " + err.Error()})
	}
	return out
}

// RemoteError is a batch failure reported by a worker
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "worker: " + e.Message
}

func classifyNATSError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	if errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrNoResponders) ||
		errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, nats.ErrDisconnected) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ErrorClassification{RecordFailure: true}
}
