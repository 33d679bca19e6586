package webhook_test

import (
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/webhook"
)

var _ = Describe("Verify", func() {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.UnixMilli(1_700_000_000_000)
	ts := strconv.FormatInt(now.UnixMilli(), 10)

	It("accepts a valid signature with timestamp in any header case", func() {
		headers := map[string]string{
			"x-signature": webhook.SignInbound("secret", payload, ts),
			"X-TIMESTAMP": ts,
		}
		Expect(webhook.Verify("secret", payload, headers, now)).To(Succeed())
	})

	It("accepts a signature without timestamp", func() {
		headers := map[string]string{"X-Signature": webhook.Sign("secret", payload)}
		Expect(webhook.Verify("secret", payload, headers, now)).To(Succeed())
	})

	It("requires a configured secret", func() {
		Expect(webhook.Verify("", payload, nil, now)).To(MatchError(webhook.ErrSecretNotConfigured))
	})

	It("requires a signature", func() {
		Expect(webhook.Verify("secret", payload, map[string]string{}, now)).To(MatchError(webhook.ErrMissingSignature))
	})

	It("rejects unparseable timestamps", func() {
		headers := map[string]string{"X-Signature": "sha256=00", "X-Timestamp": "yesterday"}
		Expect(webhook.Verify("secret", payload, headers, now)).To(MatchError(webhook.ErrInvalidTimestamp))
	})

	It("rejects replays older than five minutes", func() {
		old := strconv.FormatInt(now.Add(-6*time.Minute).UnixMilli(), 10)
		headers := map[string]string{
			"X-Signature": webhook.SignInbound("secret", payload, old),
			"X-Timestamp": old,
		}
		Expect(webhook.Verify("secret", payload, headers, now)).To(MatchError(webhook.ErrReplay))
	})

	It("rejects a signature made with another secret", func() {
		headers := map[string]string{"X-Signature": webhook.SignInbound("other", payload, ts), "X-Timestamp": ts}
		Expect(webhook.Verify("secret", payload, headers, now)).To(MatchError(webhook.ErrInvalidSignature))
	})

	It("binds the timestamp into the signature", func() {
		later := strconv.FormatInt(now.Add(time.Second).UnixMilli(), 10)
		headers := map[string]string{"X-Signature": webhook.SignInbound("secret", payload, ts), "X-Timestamp": later}
		Expect(webhook.Verify("secret", payload, headers, now.Add(time.Second))).To(MatchError(webhook.ErrInvalidSignature))
	})
})
