package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/common/logger"
)

var _ = Describe("TraceHandler", func() {
	var (
		buf *bytes.Buffer
		log *slog.Logger
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		log = slog.New(logger.NewTraceHandler(slog.NewJSONHandler(buf, nil)))
	})

	decode := func() map[string]any {
		var out map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &out)).To(Succeed())
		return out
	}

	It("adds context fields to every record", func() {
		ctx := logger.WithLogFields(context.Background(), logger.LogFields{
			OrganizationID: logger.Ptr(int64(7)),
			RunID:          logger.Ptr(int64(42)),
			Component:      "portal.test",
		})

		log.InfoContext(ctx, "hello")

		out := decode()
		Expect(out["organization_id"]).To(BeNumerically("==", 7))
		Expect(out["run_id"]).To(BeNumerically("==", 42))
		Expect(out["component"]).To(Equal("portal.test"))
		Expect(out).NotTo(HaveKey("trace_id"))
	})

	It("merges fields with newer values winning", func() {
		ctx := logger.WithLogFields(context.Background(), logger.LogFields{
			ScenarioID: logger.Ptr(int64(1)),
			Component:  "first",
		})
		ctx = logger.WithLogFields(ctx, logger.LogFields{
			ScenarioID:    logger.Ptr(int64(2)),
			CorrelationID: logger.Ptr("corr_1"),
		})

		fields := logger.GetLogFields(ctx)
		Expect(*fields.ScenarioID).To(Equal(int64(2)))
		Expect(*fields.CorrelationID).To(Equal("corr_1"))
		Expect(fields.Component).To(Equal("first"))
	})
})

var _ = Describe("Truncate", func() {
	It("leaves short strings alone", func() {
		Expect(logger.Truncate("abc", 5)).To(Equal("abc"))
	})

	It("cuts long strings", func() {
		Expect(logger.Truncate("abcdef", 3)).To(Equal("abc..."))
	})
})
