package webhook_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/webhook"
)

type captured struct {
	method  string
	headers http.Header
	body    string
}

var _ = Describe("Sender", func() {
	var (
		sender   *webhook.Sender
		server   *httptest.Server
		calls    atomic.Int32
		statuses []int
		last     atomic.Pointer[captured]
	)

	BeforeEach(func() {
		calls.Store(0)
		statuses = []int{http.StatusOK}
		sender = webhook.NewSender(webhook.Config{BaseBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond})
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := int(calls.Add(1))
			body, _ := io.ReadAll(r.Body)
			last.Store(&captured{method: r.Method, headers: r.Header.Clone(), body: string(body)})
			status := statuses[min(n, len(statuses))-1]
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		DeferCleanup(server.Close)
	})

	It("signs the JSON payload and sets event headers", func() {
		result := sender.Send(context.Background(), webhook.Request{
			URL:       server.URL,
			Payload:   map[string]any{"order_id": "1"},
			Secret:    "shh",
			EventType: "order.created",
		})

		Expect(result.Success).To(BeTrue())
		Expect(result.Attempts).To(Equal(1))
		Expect(result.StatusCode).To(Equal(http.StatusOK))

		req := last.Load()
		Expect(req.method).To(Equal(http.MethodPost))
		Expect(req.body).To(MatchJSON(`{"order_id":"1"}`))
		Expect(req.headers.Get("User-Agent")).To(Equal(webhook.DefaultUserAgent))
		Expect(req.headers.Get("Content-Type")).To(Equal("application/json"))
		Expect(req.headers.Get(webhook.HeaderEvent)).To(Equal("order.created"))
		Expect(req.headers.Get(webhook.HeaderSignature)).To(Equal(webhook.Sign("shh", []byte(req.body))))
	})

	It("defaults the event type and lets custom headers override defaults", func() {
		sender.Send(context.Background(), webhook.Request{
			URL:     server.URL,
			Payload: map[string]any{},
			Headers: map[string]string{"User-Agent": "custom/2.0"},
		})

		req := last.Load()
		Expect(req.headers.Get("User-Agent")).To(Equal("custom/2.0"))
		Expect(req.headers.Get(webhook.HeaderEvent)).To(Equal(webhook.DefaultEventType))
		Expect(req.headers.Get(webhook.HeaderSignature)).To(BeEmpty())
	})

	It("sends no body for GET", func() {
		sender.Send(context.Background(), webhook.Request{URL: server.URL, Method: "get", Payload: map[string]any{"a": 1}})
		req := last.Load()
		Expect(req.method).To(Equal(http.MethodGet))
		Expect(req.body).To(BeEmpty())
	})

	It("sends the string form for non-JSON content types", func() {
		sender.Send(context.Background(), webhook.Request{URL: server.URL, ContentType: "text/plain", Payload: "hello"})
		Expect(last.Load().body).To(Equal("hello"))
	})

	It("does not retry client errors", func() {
		statuses = []int{http.StatusUnprocessableEntity}
		result := sender.Send(context.Background(), webhook.Request{URL: server.URL, Payload: 1})

		Expect(result.Success).To(BeFalse())
		Expect(result.Attempts).To(Equal(1))
		Expect(result.ClientError()).To(BeTrue())
		Expect(result.Error).To(Equal("HTTP 422: Unprocessable Entity"))
		Expect(calls.Load()).To(Equal(int32(1)))
	})

	It("retries server errors until success", func() {
		statuses = []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusOK}
		result := sender.Send(context.Background(), webhook.Request{URL: server.URL, Payload: 1})

		Expect(result.Success).To(BeTrue())
		Expect(result.Attempts).To(Equal(3))
		Expect(result.Error).To(BeEmpty())
	})

	It("reports the last error after exhausting attempts", func() {
		statuses = []int{http.StatusInternalServerError}
		result := sender.Send(context.Background(), webhook.Request{URL: server.URL, Payload: 1, RetryAttempts: 2})

		Expect(result.Success).To(BeFalse())
		Expect(result.Attempts).To(Equal(2))
		Expect(result.Error).To(Equal("HTTP 500: Internal Server Error"))
		Expect(calls.Load()).To(Equal(int32(2)))
	})

	It("retries transport errors", func() {
		server.Close()
		result := sender.Send(context.Background(), webhook.Request{URL: server.URL, Payload: 1, RetryAttempts: 2})

		Expect(result.Success).To(BeFalse())
		Expect(result.Attempts).To(Equal(2))
		Expect(result.Error).NotTo(BeEmpty())
	})

	It("stops retrying on timeout", func() {
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		DeferCleanup(slow.Close)

		result := sender.Send(context.Background(), webhook.Request{URL: slow.URL, Payload: 1, Timeout: 20 * time.Millisecond})
		Expect(result.Success).To(BeFalse())
		Expect(result.Attempts).To(Equal(1))
	})

	Describe("Test", func() {
		It("sends one unsigned request with the tester user agent", func() {
			result := sender.Test(context.Background(), webhook.TestRequest{
				URL:     server.URL,
				Headers: []webhook.Header{{Key: "X-Debug", Value: "1"}},
				Body:    `{"ping":true}`,
			})

			Expect(result.Success).To(BeTrue())
			Expect(result.Body).To(MatchJSON(`{"ok":true}`))
			req := last.Load()
			Expect(req.headers.Get("User-Agent")).To(Equal(webhook.TesterUserAgent))
			Expect(req.headers.Get("X-Debug")).To(Equal("1"))
			Expect(req.headers.Get(webhook.HeaderSignature)).To(BeEmpty())
		})
	})
})

var _ = DescribeTable("Backoff",
	func(attempt int, expected time.Duration) {
		Expect(webhook.Backoff(attempt, time.Second, 10*time.Second)).To(Equal(expected))
	},
	Entry("first retry", 1, time.Second),
	Entry("second retry", 2, 2*time.Second),
	Entry("third retry", 3, 4*time.Second),
	Entry("capped", 5, 10*time.Second),
)
