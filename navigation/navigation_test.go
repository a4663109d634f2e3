package navigation_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/giberode/gib/navigation"
)

var _ = Describe("Navigator", func() {
	var navigator *navigation.Navigator

	BeforeEach(func() {
		var err error
		navigator, err = navigation.NewNavigator(zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
	})

	It("starts on the splash", func() {
		Expect(navigator.Current()).To(Equal(navigation.Splash))
	})

	It("follows the login flow", func() {
		Expect(navigator.Navigate(navigation.Login)).To(Succeed())
		Expect(navigator.Navigate(navigation.MainApp)).To(Succeed())
		Expect(navigator.Navigate(navigation.LogoutScreen)).To(Succeed())
		Expect(navigator.Navigate(navigation.Login)).To(Succeed())
		Expect(navigator.Current()).To(Equal(navigation.Login))
	})

	It("rejects transitions without an edge", func() {
		err := navigator.Navigate(navigation.LogoutScreen)
		Expect(errors.Is(err, navigation.ErrInvalidTransition)).To(BeTrue())
		Expect(navigator.Current()).To(Equal(navigation.Splash))
	})

	It("treats navigating to the current route as a no-op", func() {
		Expect(navigator.Navigate(navigation.Splash)).To(Succeed())
	})

	It("resets to any known route", func() {
		Expect(navigator.Navigate(navigation.MainApp)).To(Succeed())
		Expect(navigator.Reset(navigation.Login)).To(Succeed())
		Expect(navigator.Current()).To(Equal(navigation.Login))
	})

	It("rejects unknown routes", func() {
		Expect(errors.Is(navigator.Reset("Checkout"), navigation.ErrUnknownRoute)).To(BeTrue())
		Expect(errors.Is(navigator.Navigate("Checkout"), navigation.ErrUnknownRoute)).To(BeTrue())
	})
})
