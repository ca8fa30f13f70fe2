package events_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/employee-records/internal/core/events"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var (
		bus    *events.EventBus
		logBuf *bytes.Buffer
	)

	BeforeEach(func() {
		logBuf = &bytes.Buffer{}
		logger := slog.New(slog.NewTextHandler(logBuf, nil))
		bus = events.NewEventBus(logger)
	})

	Describe("PublishSync", func() {
		It("should run subscribers before returning", func() {
			var seen []string
			bus.Subscribe(events.EmployeeCreated, func(_ context.Context, event events.Event) error {
				seen = append(seen, event.EventType())
				return nil
			})

			err := bus.PublishSync(context.Background(), events.NewEmployeeCreatedEvent("123451", "jd"))

			Expect(err).ToNot(HaveOccurred())
			Expect(seen).To(Equal([]string{events.EmployeeCreated}))
		})

		It("should surface a subscriber failure to the publisher", func() {
			bus.Subscribe(events.EmployeeDeleted, func(context.Context, events.Event) error {
				return fmt.Errorf("sink unavailable")
			})

			err := bus.PublishSync(context.Background(), events.NewEmployeeDeletedEvent("123451"))

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("sink unavailable"))
		})

		It("should tolerate events nobody subscribed to", func() {
			err := bus.PublishSync(context.Background(), events.NewEmployeeIDProofUpdatedEvent("123451", "proof.pdf"))
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("RegisterAuditLogger", func() {
		It("should write one audit record per lifecycle event", func() {
			auditBuf := &bytes.Buffer{}
			events.RegisterAuditLogger(bus, slog.New(slog.NewTextHandler(auditBuf, nil)))

			Expect(bus.PublishSync(context.Background(), events.NewEmployeeCreatedEvent("123451", "jd"))).To(Succeed())
			Expect(bus.PublishSync(context.Background(), events.NewEmployeeDeletedEvent("123451"))).To(Succeed())

			out := auditBuf.String()
			Expect(out).To(ContainSubstring("audit"))
			Expect(out).To(ContainSubstring(events.EmployeeCreated))
			Expect(out).To(ContainSubstring(events.EmployeeDeleted))
			Expect(out).To(ContainSubstring("123451"))
		})
	})
})
