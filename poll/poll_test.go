package poll_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	errs "github.com/giberode/gib/errors"
	"github.com/giberode/gib/poll"
)

var _ = Describe("Resource", func() {
	var calls atomic.Int32
	logger := zap.NewNop().Sugar()
	ctx := context.Background()

	BeforeEach(func() {
		calls.Store(0)
	})

	counter := func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	It("fetches immediately and then on every tick", func() {
		resource := poll.New("counter", 10*time.Millisecond, counter, logger)
		resource.Start(ctx)
		defer resource.Stop()

		Eventually(func() int { return resource.State().Data }).Should(BeNumerically(">=", 3))
		Expect(resource.State().Loaded).To(BeTrue())
	})

	It("fetches once with a zero interval", func() {
		resource := poll.New("once", 0, counter, logger)
		resource.Start(ctx)

		Eventually(func() int { return resource.State().Fetches }).Should(Equal(1))
		Consistently(func() int32 { return calls.Load() }, 50*time.Millisecond).Should(Equal(int32(1)))
		resource.Stop()
	})

	It("does not fetch after it is stopped", func() {
		resource := poll.New("counter", 5*time.Millisecond, counter, logger)
		resource.Start(ctx)
		Eventually(func() int32 { return calls.Load() }).Should(BeNumerically(">=", 2))

		resource.Stop()
		Expect(resource.Running()).To(BeFalse())
		stopped := calls.Load()
		Consistently(func() int32 { return calls.Load() }, 50*time.Millisecond).Should(Equal(stopped))
	})

	It("keeps polling after failures and keeps the previous data", func() {
		resource := poll.New("flaky", 5*time.Millisecond, func(ctx context.Context) (string, error) {
			switch calls.Add(1) {
			case 1:
				return "first", nil
			case 2, 3:
				return "", fmt.Errorf("%w: timeout", errs.Network)
			default:
				return "recovered", nil
			}
		}, logger)

		var failed atomic.Bool
		resource.Subscribe(func(s poll.Snapshot) {
			if s.Error != "" {
				Expect(s.Data).To(Equal("first"))
				Expect(s.Error).To(Equal("Network error. Please check your connection."))
				failed.Store(true)
			}
		})

		resource.Start(ctx)
		defer resource.Stop()

		Eventually(func() string { return resource.State().Data }).Should(Equal("recovered"))
		Expect(failed.Load()).To(BeTrue())
		Expect(resource.State().Error).To(BeEmpty())
	})

	It("shows loading only for the first fetch", func() {
		release := make(chan struct{})
		resource := poll.New("slow", time.Hour, func(ctx context.Context) (int, error) {
			select {
			case <-release:
			case <-ctx.Done():
				return 0, ctx.Err()
			}
			return int(calls.Add(1)), nil
		}, logger)

		resource.Start(ctx)
		Expect(resource.State().Loading).To(BeTrue())
		close(release)
		Eventually(func() bool { return resource.State().Loading }).Should(BeFalse())
		resource.Stop()

		resource.Start(ctx)
		Expect(resource.State().Loading).To(BeFalse())
		Eventually(func() int { return resource.State().Fetches }).Should(Equal(2))
		resource.Stop()
	})

	It("aborts the fetch in flight when stopped", func() {
		var aborted atomic.Bool
		resource := poll.New("blocked", time.Hour, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			aborted.Store(true)
			return 0, ctx.Err()
		}, logger)

		resource.Start(ctx)
		Expect(resource.Running()).To(BeTrue())
		resource.Stop()

		Expect(aborted.Load()).To(BeTrue())
		Expect(resource.State().Error).To(BeEmpty())
		Expect(resource.State().Fetches).To(Equal(0))
	})

	It("ignores a second start", func() {
		resource := poll.New("counter", time.Hour, counter, logger)
		resource.Start(ctx)
		resource.Start(ctx)
		defer resource.Stop()

		Eventually(func() int32 { return calls.Load() }).Should(Equal(int32(1)))
		Consistently(func() int32 { return calls.Load() }, 30*time.Millisecond).Should(Equal(int32(1)))
	})

	It("returns copies of the state", func() {
		resource := poll.New("slice", 0, func(ctx context.Context) ([]string, error) {
			return []string{"a", "b"}, nil
		}, logger)
		resource.Start(ctx)
		Eventually(func() bool { return resource.State().Loaded }).Should(BeTrue())
		resource.Stop()

		state := resource.State()
		state.Data[0] = "changed"
		Expect(resource.State().Data).To(Equal([]string{"a", "b"}))
	})

	It("reports errors through the snapshot", func() {
		resource := poll.New("broken", 0, func(ctx context.Context) (int, error) {
			return 0, errors.New("boom")
		}, logger)
		resource.Start(ctx)
		Eventually(func() int { return resource.Snapshot().Fetches }).Should(Equal(1))
		resource.Stop()

		snapshot := resource.Snapshot()
		Expect(snapshot.Name).To(Equal("broken"))
		Expect(snapshot.Error).To(Equal("boom"))
		Expect(snapshot.Loaded).To(BeFalse())
	})
})
