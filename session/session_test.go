package session_test

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/giberode/gib/session"
	sessionTest "github.com/giberode/gib/session/test"
	"github.com/giberode/gib/store"
)

var _ = Describe("Manager", func() {
	var manager *session.Manager
	var database *store.MemoryDatabase
	ctx := context.Background()

	BeforeEach(func() {
		database = store.NewMemoryDatabase()
		manager = session.NewManager(database, zap.NewNop().Sugar())
	})

	It("reports no session when nothing is stored", func() {
		_, err := manager.Current(ctx)
		Expect(err).To(MatchError(session.ErrNoSession))
	})

	It("persists a created session under the shared keys", func() {
		expected := sessionTest.RandomSession()
		_, err := manager.Create(ctx, expected)
		Expect(err).ToNot(HaveOccurred())

		current, err := manager.Current(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(current).To(Equal(expected))

		values, err := database.Namespace(store.SessionNamespace).MultiGet(ctx, session.Keys...)
		Expect(err).ToNot(HaveOccurred())
		Expect(values).To(HaveKeyWithValue("phone", expected.Phone))
		Expect(values).To(HaveKeyWithValue("APP_VERSION", expected.AppVersion))
	})

	It("refuses to create a session without a phone", func() {
		s := sessionTest.RandomSession()
		s.Phone = ""
		_, err := manager.Create(ctx, s)
		Expect(err).To(MatchError(session.ErrEmptyPhone))
	})

	It("overwrites the previous session on re-login", func() {
		first := sessionTest.RandomSession()
		first.ProfileImage = "https://example.com/first.png"
		_, err := manager.Create(ctx, first)
		Expect(err).ToNot(HaveOccurred())

		second := sessionTest.RandomSession()
		second.ProfileImage = ""
		_, err = manager.Create(ctx, second)
		Expect(err).ToNot(HaveOccurred())

		current, err := manager.Current(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(current.Phone).To(Equal(second.Phone))
		Expect(current.ProfileImage).To(BeEmpty())
	})

	It("clears every key", func() {
		_, err := manager.Create(ctx, sessionTest.RandomSession())
		Expect(err).ToNot(HaveOccurred())
		Expect(manager.Clear(ctx)).To(Succeed())

		keys, err := database.Namespace(store.SessionNamespace).Keys(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(keys).To(BeEmpty())
	})

	Describe("Epoch", func() {
		var epoch session.Epoch

		BeforeEach(func() {
			var err error
			epoch, err = manager.Create(ctx, sessionTest.RandomSession())
			Expect(err).ToNot(HaveOccurred())
		})

		It("applies writes from the current epoch", func() {
			Expect(manager.Update(ctx, epoch, map[string]string{session.KeyProfileImage: "https://example.com/new.png"})).To(Succeed())

			current, err := manager.Current(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(current.ProfileImage).To(Equal("https://example.com/new.png"))
		})

		It("rejects writes that started before a logout", func() {
			Expect(manager.Clear(ctx)).To(Succeed())

			err := manager.Update(ctx, epoch, map[string]string{session.KeyProfileImage: "https://example.com/late.png"})
			Expect(err).To(MatchError(session.ErrStaleEpoch))

			keys, err := database.Namespace(store.SessionNamespace).Keys(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(keys).To(BeEmpty())
		})

		It("rejects writes that started before a re-login", func() {
			_, err := manager.Create(ctx, sessionTest.RandomSession())
			Expect(err).ToNot(HaveOccurred())

			err = manager.Update(ctx, epoch, map[string]string{session.KeyName: "Stale"})
			Expect(err).To(MatchError(session.ErrStaleEpoch))
		})

		It("never leaves a stale write behind a concurrent clear", func() {
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					err := manager.Update(ctx, epoch, map[string]string{session.KeyProfileImage: "https://example.com/racing.png"})
					if err != nil {
						Expect(err).To(MatchError(session.ErrStaleEpoch))
					}
				}()
			}
			Expect(manager.Clear(ctx)).To(Succeed())
			wg.Wait()

			keys, err := database.Namespace(store.SessionNamespace).Keys(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(keys).To(BeEmpty())
		})

		It("clears the session of the current epoch", func() {
			Expect(manager.ClearEpoch(ctx, epoch)).To(Succeed())
			_, err := manager.Current(ctx)
			Expect(err).To(MatchError(session.ErrNoSession))
		})

		It("does not clear a session created after the epoch", func() {
			expected := sessionTest.RandomSession()
			_, err := manager.Create(ctx, expected)
			Expect(err).ToNot(HaveOccurred())

			Expect(manager.ClearEpoch(ctx, epoch)).To(MatchError(session.ErrStaleEpoch))
			current, err := manager.Current(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(current).To(Equal(expected))
		})

		It("returns the session with its epoch", func() {
			s, current, err := manager.Snapshot(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(current).To(Equal(epoch))
			Expect(s.Active()).To(BeTrue())
		})
	})
})
