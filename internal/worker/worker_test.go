package worker_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/queue"
	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/worker"
)

var _ = Describe("Worker", func() {
	var (
		ctx      context.Context
		consumer *mockConsumer
		runs     *mockRuns
		w        *worker.Worker
	)

	runMsg := func(msgID string, attempt int) queue.Message {
		runID, scenarioID := int64(11), int64(5)
		return queue.Message{
			ID:             msgID,
			TaskType:       queue.TaskTypeScenarioRun,
			OrganizationID: 1,
			RunID:          &runID,
			ScenarioID:     &scenarioID,
			Attempt:        attempt,
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		consumer = &mockConsumer{}
		runs = &mockRuns{}
		w = worker.New(consumer, map[queue.TaskType]worker.Handler{
			queue.TaskTypeScenarioRun: worker.ScenarioRunHandler(runs),
		}, worker.Config{MaxAttempts: 3})
	})

	It("acks a handled message", func() {
		var executed int64
		runs.executeFn = func(_ context.Context, runID int64) (scenario.Outcome, error) {
			executed = runID
			return scenario.Outcome{Success: false, ErrorCode: scenario.ErrCodeExecutionFailed}, nil
		}
		Expect(w.ProcessMessage(ctx, runMsg("1-0", 1))).To(Succeed())
		Expect(executed).To(Equal(int64(11)))
		Expect(consumer.acked).To(ConsistOf("1-0"))
		Expect(consumer.requeued).To(BeEmpty())
	})

	It("requeues on infrastructure errors", func() {
		runs.executeFn = func(context.Context, int64) (scenario.Outcome, error) {
			return scenario.Outcome{}, errors.New("db unavailable")
		}
		Expect(w.ProcessMessage(ctx, runMsg("1-0", 1))).NotTo(Succeed())
		Expect(consumer.requeued).To(ConsistOf("1-0"))
		Expect(consumer.acked).To(BeEmpty())
	})

	It("dead-letters once attempts are exhausted", func() {
		runs.executeFn = func(context.Context, int64) (scenario.Outcome, error) {
			return scenario.Outcome{}, errors.New("db unavailable")
		}
		Expect(w.ProcessMessage(ctx, runMsg("1-0", 3))).NotTo(Succeed())
		Expect(consumer.dlq).To(ConsistOf("1-0"))
		Expect(consumer.requeued).To(BeEmpty())
	})

	It("recovers from handler panics", func() {
		runs.executeFn = func(context.Context, int64) (scenario.Outcome, error) {
			panic("boom")
		}
		err := w.ProcessMessage(ctx, runMsg("1-0", 1))
		Expect(err).To(MatchError(ContainSubstring("panic: boom")))
		Expect(consumer.requeued).To(ConsistOf("1-0"))
	})

	It("fails messages with no handler", func() {
		msg := queue.Message{ID: "2-0", TaskType: queue.TaskTypeWebhookDispatch, OrganizationID: 1, EventType: "order.created", Attempt: 1}
		Expect(w.ProcessMessage(ctx, msg)).To(MatchError(ContainSubstring("no handler")))
	})

	It("drains batches until stopped", func() {
		consumer.batches = [][]queue.Message{{runMsg("1-0", 1), runMsg("2-0", 1)}}
		done := make(chan error, 1)
		go func() { done <- w.Run(ctx) }()

		Eventually(func() int {
			consumer.mu.Lock()
			defer consumer.mu.Unlock()
			return len(consumer.acked)
		}).WithTimeout(time.Second).Should(Equal(2))

		w.Stop()
		Expect(<-done).To(Succeed())
	})
})
