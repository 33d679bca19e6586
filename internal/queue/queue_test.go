package queue_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"launchthat.app/portal/internal/queue"
)

var _ = Describe("ParseMessage", func() {
	It("parses a scenario_run message", func() {
		msg, err := queue.ParseMessage(redis.XMessage{
			ID: "1-0",
			Values: map[string]any{
				"task_type":       "scenario_run",
				"organization_id": "7",
				"run_id":          "42",
				"scenario_id":     "9",
				"attempt":         "2",
				"trace_id":        "abc",
			},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.TaskType).To(Equal(queue.TaskTypeScenarioRun))
		Expect(msg.OrganizationID).To(Equal(int64(7)))
		Expect(*msg.RunID).To(Equal(int64(42)))
		Expect(*msg.ScenarioID).To(Equal(int64(9)))
		Expect(msg.Attempt).To(Equal(2))
		Expect(msg.TraceID).To(Equal("abc"))
	})

	It("defaults attempt to 1", func() {
		msg, err := queue.ParseMessage(redis.XMessage{Values: map[string]any{
			"task_type":       "webhook_dispatch",
			"organization_id": "7",
			"event_type":      "order.created",
			"payload":         `{"id":"1"}`,
		}})
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Attempt).To(Equal(1))
		Expect(msg.Payload).To(MatchJSON(`{"id":"1"}`))
	})

	DescribeTable("rejects malformed messages",
		func(values map[string]any, errSubstring string) {
			_, err := queue.ParseMessage(redis.XMessage{Values: values})
			Expect(err).To(MatchError(ContainSubstring(errSubstring)))
		},
		Entry("missing organization", map[string]any{"task_type": "scenario_run"}, "missing organization_id"),
		Entry("missing task type", map[string]any{"organization_id": "1"}, "missing task_type"),
		Entry("unknown task type", map[string]any{"organization_id": "1", "task_type": "issue_event"}, "unknown task_type"),
		Entry("scenario_run without run id", map[string]any{"organization_id": "1", "task_type": "scenario_run", "scenario_id": "2"}, "missing run_id"),
		Entry("dispatch without event", map[string]any{"organization_id": "1", "task_type": "webhook_dispatch"}, "missing event_type"),
		Entry("bad run id", map[string]any{"organization_id": "1", "task_type": "scenario_run", "run_id": "x", "scenario_id": "2"}, "parsing run_id"),
	)
})

var _ = Describe("Redis stream round trip", func() {
	var (
		ctx      context.Context
		mr       *miniredis.Miniredis
		client   *redis.Client
		producer queue.Producer
		consumer *queue.RedisConsumer
	)

	BeforeEach(func() {
		ctx = context.Background()
		mr = miniredis.RunT(GinkgoT())
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		producer = queue.NewRedisProducer(client, "portal_tasks", nil)

		var err error
		consumer, err = queue.NewRedisConsumer(ctx, client, queue.ConsumerConfig{
			Stream:    "portal_tasks",
			Group:     "portal_workers",
			Consumer:  "test",
			DLQStream: "portal_tasks_dlq",
			BatchSize: 10,
			Block:     10 * time.Millisecond,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = client.Close()
	})

	It("delivers an enqueued task to the consumer", func() {
		Expect(producer.Enqueue(ctx, queue.ScenarioRunTask(1, 2, 3))).To(Succeed())

		msgs, err := consumer.Read(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].TaskType).To(Equal(queue.TaskTypeScenarioRun))
		Expect(*msgs[0].RunID).To(Equal(int64(3)))
		Expect(consumer.Ack(ctx, msgs[0])).To(Succeed())
	})

	It("refuses to enqueue an invalid task", func() {
		err := producer.Enqueue(ctx, queue.Task{TaskType: queue.TaskTypeWebhookDispatch, OrganizationID: 1})
		Expect(err).To(MatchError(ContainSubstring("missing event_type")))
	})

	It("requeues with the next attempt and moves exhausted messages to the DLQ", func() {
		payload := json.RawMessage(`{"order_id":"5"}`)
		Expect(producer.Enqueue(ctx, queue.WebhookDispatchTask(1, "order.created", payload))).To(Succeed())

		msgs, err := consumer.Read(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(1))
		Expect(consumer.Requeue(ctx, msgs[0], "boom")).To(Succeed())

		retried, err := consumer.Read(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(retried).To(HaveLen(1))
		Expect(retried[0].Attempt).To(Equal(2))
		Expect(retried[0].LastError).To(Equal("boom"))
		Expect(retried[0].Payload).To(MatchJSON(payload))

		Expect(consumer.SendDLQ(ctx, retried[0], "gave up")).To(Succeed())
		dlq, err := client.XRange(ctx, "portal_tasks_dlq", "-", "+").Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(dlq).To(HaveLen(1))
		Expect(dlq[0].Values).To(HaveKeyWithValue("error", "gave up"))
	})

	It("acks and drops messages that fail to parse", func() {
		Expect(client.XAdd(ctx, &redis.XAddArgs{
			Stream: "portal_tasks",
			Values: map[string]any{"task_type": "mystery"},
		}).Err()).To(Succeed())

		msgs, err := consumer.Read(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(BeEmpty())

		pending, err := client.XPending(ctx, "portal_tasks", "portal_workers").Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending.Count).To(BeZero())
	})
})
