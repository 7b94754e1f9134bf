package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/guidechat/backend/internal/util"
	"github.com/guidechat/backend/pkg/ai"
	"github.com/guidechat/backend/pkg/logger"
	"github.com/guidechat/backend/pkg/logger/memory"
)

type stubClient struct {
	calls   int
	prompts []string
	replies []stubReply
}

type stubReply struct {
	text string
	err  error
}

func (s *stubClient) GenerateCompletion(_ context.Context, prompt string, _ ...ai.GenerateOption) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	reply := s.replies[min(s.calls, len(s.replies))-1]
	return reply.text, reply.err
}

func overloaded() error {
	return fmt.Errorf("%w: 503 Service Unavailable", ai.ErrOverloaded)
}

func instantBackoff(delays *[]time.Duration) util.BackoffPolicy {
	policy := DefaultBackoff()
	policy.Sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return policy
}

func captureLogs(t *testing.T) *memory.MemoryLogger {
	t.Helper()
	mem := memory.NewMemoryLogger()
	logger.Init(mem)
	t.Cleanup(func() { logger.Init() })
	return mem
}

func TestGenerate_RecoversAfterOverload(t *testing.T) {
	mem := captureLogs(t)
	client := &stubClient{replies: []stubReply{
		{err: overloaded()},
		{err: overloaded()},
		{text: "answer"},
	}}
	var delays []time.Duration

	text, err := NewGenerator(client, instantBackoff(&delays)).Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "answer" {
		t.Fatalf("unexpected text: %q", text)
	}
	if client.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", client.calls)
	}
	if len(delays) != 2 || delays[0] != time.Second || delays[1] != 2*time.Second {
		t.Fatalf("unexpected delays: %v", delays)
	}
	if warns := mem.Level("warn"); len(warns) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(warns))
	}
	if errs := mem.Level("error"); len(errs) != 0 {
		t.Fatalf("expected no error log, got %+v", errs)
	}
}

func TestGenerate_GivesUpAfterThreeOverloads(t *testing.T) {
	mem := captureLogs(t)
	last := overloaded()
	client := &stubClient{replies: []stubReply{
		{err: overloaded()},
		{err: overloaded()},
		{err: last},
	}}
	var delays []time.Duration

	_, err := NewGenerator(client, instantBackoff(&delays)).Generate(context.Background(), "prompt")
	if err != last {
		t.Fatalf("expected the last provider error, got %v", err)
	}
	if client.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", client.calls)
	}
	if len(mem.Level("warn")) != 2 || len(mem.Level("error")) != 1 {
		t.Fatalf("unexpected logs: %+v", mem.Entries())
	}
}

func TestGenerate_OtherErrorsAreNotRetried(t *testing.T) {
	captureLogs(t)
	authErr := errors.New("401 invalid api key")
	client := &stubClient{replies: []stubReply{{err: authErr}}}
	var delays []time.Duration

	_, err := NewGenerator(client, instantBackoff(&delays)).Generate(context.Background(), "prompt")
	if !errors.Is(err, authErr) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if client.calls != 1 || len(delays) != 0 {
		t.Fatalf("expected a single call without waiting, got %d calls and %v", client.calls, delays)
	}
}

func TestGenerate_StopsWhenContextIsDone(t *testing.T) {
	captureLogs(t)
	client := &stubClient{replies: []stubReply{{err: overloaded()}}}
	ctx, cancel := context.WithCancel(context.Background())

	policy := DefaultBackoff()
	policy.Sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := NewGenerator(client, policy).Generate(ctx, "prompt")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected 1 call, got %d", client.calls)
	}
}
