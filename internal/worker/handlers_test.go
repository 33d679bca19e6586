package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/queue"
	"launchthat.app/portal/internal/webhook"
	"launchthat.app/portal/internal/worker"
)

var _ = Describe("Dispatcher", func() {
	var (
		ctx        context.Context
		stores     *fakeStores
		server     *httptest.Server
		mu         sync.Mutex
		received   []*http.Request
		bodies     [][]byte
		status     int
		dispatcher *worker.Dispatcher
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newFakeStores()
		received, bodies = nil, nil
		status = http.StatusOK

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			received = append(received, r)
			bodies = append(bodies, body)
			mu.Unlock()
			w.WriteHeader(status)
		}))
		DeferCleanup(server.Close)

		sender := webhook.NewSender(webhook.Config{BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond})
		dispatcher = worker.NewDispatcher(stores, sender, func(sub model.WebhookSubscription) (string, error) {
			if sub.ID == 3 {
				return "", errors.New("bad key")
			}
			return "whsec_out", nil
		})
	})

	subscription := func(id int64, events ...string) model.WebhookSubscription {
		return model.WebhookSubscription{ID: id, OrganizationID: 1, URL: server.URL, EventTypes: events, IsActive: true}
	}

	It("signs and delivers to matching subscriptions", func() {
		stores.subscriptions.subs = []model.WebhookSubscription{
			subscription(1, model.EventOrderCreated),
			subscription(2, model.EventWildcard),
			subscription(4, model.EventOrderStatusChanged),
		}
		payload := json.RawMessage(`{"event":"order.created","order":{"id":"9"}}`)

		Expect(dispatcher.Dispatch(ctx, 1, model.EventOrderCreated, payload)).To(Succeed())

		Expect(received).To(HaveLen(2))
		for i, r := range received {
			Expect(r.Header.Get(webhook.HeaderEvent)).To(Equal(model.EventOrderCreated))
			Expect(r.Header.Get(webhook.HeaderSignature)).To(Equal(webhook.Sign("whsec_out", bodies[i])))
		}

		Expect(stores.deliveries.created).To(HaveLen(2))
		for _, d := range stores.deliveries.created {
			Expect(d.Success).To(BeTrue())
			Expect(*d.StatusCode).To(Equal(int32(200)))
			Expect(d.Attempts).To(Equal(int32(1)))
		}
	})

	It("records failed deliveries without retrying 4xx", func() {
		status = http.StatusGone
		stores.subscriptions.subs = []model.WebhookSubscription{subscription(1, model.EventWildcard)}

		Expect(dispatcher.Dispatch(ctx, 1, model.EventOrderCreated, nil)).To(Succeed())

		Expect(received).To(HaveLen(1))
		d := stores.deliveries.created[0]
		Expect(d.Success).To(BeFalse())
		Expect(*d.StatusCode).To(Equal(int32(http.StatusGone)))
		Expect(*d.Error).To(ContainSubstring("410"))
	})

	It("records subscriptions whose secret cannot be opened", func() {
		stores.subscriptions.subs = []model.WebhookSubscription{subscription(3, model.EventWildcard)}

		Expect(dispatcher.Dispatch(ctx, 1, model.EventOrderCreated, nil)).To(Succeed())

		Expect(received).To(BeEmpty())
		Expect(stores.deliveries.created).To(HaveLen(1))
		Expect(stores.deliveries.created[0].Success).To(BeFalse())
	})

	It("handles webhook_dispatch messages", func() {
		stores.subscriptions.subs = []model.WebhookSubscription{subscription(1, model.EventOrderCreated)}
		msg := queue.Message{
			TaskType:       queue.TaskTypeWebhookDispatch,
			OrganizationID: 1,
			EventType:      model.EventOrderCreated,
			Payload:        []byte(`{"a":1}`),
		}
		Expect(dispatcher.Handle(ctx, msg)).To(Succeed())
		Expect(bodies).To(HaveLen(1))
		Expect(stores.deliveries.created[0].Payload).To(MatchJSON(`{"a":1}`))
	})
})
