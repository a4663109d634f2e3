package auth_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/giberode/gib/auth"
	authTest "github.com/giberode/gib/auth/test"
	"github.com/giberode/gib/config"
	"github.com/giberode/gib/navigation"
	"github.com/giberode/gib/notice"
	otpTest "github.com/giberode/gib/otp/test"
	"github.com/giberode/gib/remote"
	"github.com/giberode/gib/session"
	sessionTest "github.com/giberode/gib/session/test"
	"github.com/giberode/gib/store"
)

var _ = Describe("SessionPoller", func() {
	var ctrl *gomock.Controller
	var backend *authTest.MockBackend
	var provider *otpTest.MockProvider
	var database *store.MemoryDatabase
	var sessions *session.Manager
	var navigator *navigation.Navigator
	var notices *notice.Board
	var logout *auth.Logout
	var poller *auth.SessionPoller
	var s session.Session
	ctx := context.Background()

	BeforeEach(func() {
		var err error
		ctrl = gomock.NewController(GinkgoT())
		backend = authTest.NewMockBackend(ctrl)
		provider = otpTest.NewMockProvider(ctrl)
		database = store.NewMemoryDatabase()
		sessions = session.NewManager(database, zap.NewNop().Sugar())
		navigator, err = navigation.NewNavigator(zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
		Expect(navigator.Navigate(navigation.MainApp)).To(Succeed())
		notices = notice.NewBoard(4, zap.NewNop().Sugar())
		logout = auth.NewLogout(provider, sessions, navigator, zap.NewNop().Sugar())
		poller = auth.NewSessionPoller(&config.Config{DeviceCheckInterval: 10 * time.Millisecond}, backend, sessions, logout, notices, zap.NewNop().Sugar())

		s = sessionTest.RandomSession()
		_, err = sessions.Create(ctx, s)
		Expect(err).ToNot(HaveOccurred())
	})

	It("does nothing while the device is active", func() {
		backend.EXPECT().LogoutDevice(gomock.Any(), s.Phone).Return(&remote.DeviceStatus{DeviceID: s.DeviceID}, nil)

		check, err := poller.Check(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(check.Revoked).To(BeFalse())
		Expect(sessions.Current(ctx)).To(Equal(s))
		Expect(navigator.Current()).To(Equal(navigation.MainApp))
	})

	It("forces a logout when the backend revoked the device", func() {
		var unmounted bool
		logout.OnLogout(func(ctx context.Context) { unmounted = true })
		backend.EXPECT().LogoutDevice(gomock.Any(), s.Phone).Return(&remote.DeviceStatus{Revoked: true}, nil)
		provider.EXPECT().SignOut(gomock.Any()).Return(nil)

		check, err := poller.Check(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(check.Revoked).To(BeTrue())

		keys, err := database.Namespace(store.SessionNamespace).Keys(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(keys).To(BeEmpty())
		Expect(navigator.Current()).To(Equal(navigation.Login))
		Expect(unmounted).To(BeTrue())

		posted := notices.Drain()
		Expect(posted).To(HaveLen(1))
		Expect(posted[0].Text).To(Equal(auth.UnauthorizedAccessNotice))
	})

	It("does not call the backend without a stored phone", func() {
		Expect(sessions.Clear(ctx)).To(Succeed())

		check, err := poller.Check(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(check.Checked).To(BeFalse())
	})

	It("keeps a session created while the check was in flight", func() {
		replacement := sessionTest.RandomSession()
		backend.EXPECT().LogoutDevice(gomock.Any(), s.Phone).DoAndReturn(func(ctx context.Context, phone string) (*remote.DeviceStatus, error) {
			_, err := sessions.Create(ctx, replacement)
			Expect(err).ToNot(HaveOccurred())
			return &remote.DeviceStatus{Revoked: true}, nil
		})

		_, err := poller.Check(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(sessions.Current(ctx)).To(Equal(replacement))
		Expect(notices.Len()).To(Equal(0))
	})

	It("polls until stopped", func() {
		backend.EXPECT().LogoutDevice(gomock.Any(), s.Phone).Return(&remote.DeviceStatus{DeviceID: s.DeviceID}, nil).MinTimes(2)

		poller.Start(ctx)
		Eventually(func() int { return poller.Snapshot().Fetches }).Should(BeNumerically(">=", 2))
		poller.Stop()
	})
})
