package app_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/giberode/gib/app"
	"github.com/giberode/gib/auth"
	authTest "github.com/giberode/gib/auth/test"
	"github.com/giberode/gib/config"
	"github.com/giberode/gib/navigation"
	"github.com/giberode/gib/notice"
	"github.com/giberode/gib/otp"
	"github.com/giberode/gib/poll"
	"github.com/giberode/gib/remote"
	"github.com/giberode/gib/screens"
	"github.com/giberode/gib/session"
	"github.com/giberode/gib/store"
	"github.com/giberode/gib/version"
)

type publishedVersion string

func (p publishedVersion) AppVersion(ctx context.Context) (*remote.AppVersion, error) {
	return &remote.AppVersion{AndroidVersion: remote.Text(p)}, nil
}

type idleBuilder struct{}

func (idleBuilder) Build(name string) (*screens.Screen, error) {
	resource := poll.New(name, time.Hour, func(ctx context.Context) (string, error) {
		return name, nil
	}, zap.NewNop().Sugar())
	return screens.NewScreen(name, resource), nil
}

var _ = Describe("App", func() {
	var ctrl *gomock.Controller
	var backend *authTest.MockBackend
	var sessions *session.Manager
	var navigator *navigation.Navigator
	var host *screens.Host
	var notices *notice.Board
	var shell *app.App
	ctx := context.Background()
	logger := zap.NewNop().Sugar()

	const phone = "9876543210"

	build := func(published string) {
		cfg := &config.Config{AppVersion: "1.0.0", SplashDuration: 0}
		device := authTest.NewMockDeviceIdentity(ctrl)
		device.EXPECT().ID(gomock.Any()).Return("device-1", nil).AnyTimes()
		provider := otp.NewStaticProvider("123456")

		var err error
		navigator, err = navigation.NewNavigator(logger)
		Expect(err).ToNot(HaveOccurred())
		host = screens.NewHost(idleBuilder{}, logger)
		notices = notice.NewBoard(8, logger)

		shell = app.NewApp(app.Params{
			Gate:      auth.NewGate(cfg, sessions, logger),
			Login:     auth.NewLogin(cfg, backend, provider, sessions, device, logger),
			Logout:    auth.NewLogout(provider, sessions, navigator, logger),
			Sessions:  sessions,
			Navigator: navigator,
			Host:      host,
			Notices:   notices,
			Checker:   version.NewChecker(publishedVersion(published), cfg.AppVersion, "https://play.google.com", logger),
			Logger:    logger,
		})
	}

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		backend = authTest.NewMockBackend(ctrl)
		sessions = session.NewManager(store.NewMemoryDatabase(), logger)
		build("1.0.0")
	})

	AfterEach(func() {
		shell.Shutdown()
	})

	createSession := func(role, appVersion string) {
		_, err := sessions.Create(ctx, session.Session{Phone: phone, Name: "Kumar", Role: role, AppVersion: appVersion})
		Expect(err).ToNot(HaveOccurred())
	}

	Describe("Launch", func() {
		It("shows the login screen without a session", func() {
			result := shell.Launch(ctx)
			Expect(result.LoggedIn).To(BeFalse())
			Expect(shell.Ready()).To(BeTrue())
			Expect(navigator.Current()).To(Equal(navigation.Login))
		})

		It("mounts the tabs of a logged in member", func() {
			createSession("Executive", "1.0.0")

			result := shell.Launch(ctx)
			Expect(result.LoggedIn).To(BeTrue())
			Expect(navigator.Current()).To(Equal(navigation.MainApp))

			status, err := shell.Status(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(status.LoggedIn).To(BeTrue())
			Expect(status.Tabs).To(HaveLen(5))
			Expect(status.Focused).To(Equal(screens.Home))
			Expect(status.Session.Phone).To(Equal(phone))
		})

		It("logs out sessions saved by another version", func() {
			createSession("Executive", "0.9.0")

			result := shell.Launch(ctx)
			Expect(result.VersionReset).To(BeTrue())
			Expect(navigator.Current()).To(Equal(navigation.Login))

			stored, err := sessions.Load(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(stored.Active()).To(BeFalse())
		})

		It("reports sessions with an unknown role", func() {
			createSession("Admin", "1.0.0")

			shell.Launch(ctx)
			Expect(navigator.Current()).To(Equal(navigation.MainApp))
			Expect(host.Tabs()).To(BeEmpty())
			Expect(notices.Drain()).To(ContainElement(HaveField("Text", "Invalid role: Admin")))
		})

		It("asks for an update when a newer version is published", func() {
			build("1.2.0")
			shell.Launch(ctx)

			Eventually(func() *version.Status {
				status, _ := shell.Status(ctx)
				return status.Version
			}).ShouldNot(BeNil())

			status, err := shell.Status(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(status.Version.UpdateRequired).To(BeTrue())
			Expect(notices.Drain()).To(ContainElement(HaveField("Title", app.UpdateRequiredTitle)))
		})
	})

	It("mounts the tabs after signing in", func() {
		shell.Launch(ctx)

		doctor := &remote.User{Phone: phone, Name: "Dr. Priya", Role: "Doctors"}
		backend.EXPECT().CheckDeviceID(gomock.Any(), phone, "device-1").Return(&remote.StatusResponse{Status: "success"}, nil)
		backend.EXPECT().Login(gomock.Any(), phone).Return(&remote.LoginResponse{Status: "success", User: doctor}, nil).Times(2)
		backend.EXPECT().UpdateDeviceID(gomock.Any(), phone, "device-1").Return(&remote.StatusResponse{Status: "success"}, nil)

		Expect(shell.Login().SendCode(ctx, phone)).To(Succeed())
		s, err := shell.SignIn(ctx, "123456")
		Expect(err).ToNot(HaveOccurred())
		Expect(s.Role).To(Equal("Doctors"))

		Expect(navigator.Current()).To(Equal(navigation.MainApp))
		Expect(host.Focused()).To(Equal(screens.DoctorHome))
	})

	It("unmounts everything when signing out", func() {
		createSession("Non-Executive", "1.0.0")
		shell.Launch(ctx)
		Expect(host.Tabs()).To(HaveLen(2))

		Expect(shell.SignOut(ctx)).To(Succeed())
		Expect(navigator.Current()).To(Equal(navigation.Login))
		Expect(host.Tabs()).To(BeEmpty())

		status, err := shell.Status(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(status.LoggedIn).To(BeFalse())
	})
})
