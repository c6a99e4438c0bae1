package logger_test

import (
	"bytes"
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/association-management/pkg/logger"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	It("writes JSON when asked to", func() {
		var buf bytes.Buffer
		l := logger.New(&buf, "info", "json")
		l.Info("hello", "k", "v")
		Expect(buf.String()).To(ContainSubstring(`"msg":"hello"`))
		Expect(buf.String()).To(ContainSubstring(`"k":"v"`))
	})

	It("drops records below the configured level", func() {
		var buf bytes.Buffer
		l := logger.New(&buf, "warn", "text")
		l.Info("quiet")
		Expect(buf.Len()).To(BeZero())
		l.Warn("loud")
		Expect(buf.String()).To(ContainSubstring("loud"))
	})

	It("keeps fields attached through the context", func() {
		ctx := logger.With(context.Background(), "traceID", "abc")
		Expect(logger.From(ctx)).NotTo(BeNil())
		Expect(logger.From(context.Background())).To(Equal(logger.LoggerWrapper()))
	})

	It("prefers the request logger over the fallback", func() {
		var buf bytes.Buffer
		fallback := logger.New(&buf, "info", "text")

		Expect(logger.FromOr(context.Background(), fallback)).To(BeIdenticalTo(fallback))

		ctx := logger.With(context.Background(), "request_id", "r-1")
		logger.FromOr(ctx, fallback).Info("scoped")
		Expect(buf.Len()).To(BeZero())
	})
})
