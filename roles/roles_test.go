package roles_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/giberode/gib/roles"
)

var _ = Describe("Roles", func() {
	It("normalizes Doctors", func() {
		role, err := roles.Parse("Doctors")
		Expect(err).ToNot(HaveOccurred())
		Expect(role).To(Equal(roles.Doctor))
	})

	It("rejects unknown roles", func() {
		_, err := roles.Parse("Admin")
		Expect(err).To(MatchError("Invalid role: Admin"))

		invalid := roles.InvalidRoleError{}
		Expect(errors.As(err, &invalid)).To(BeTrue())
		Expect(invalid.Value).To(Equal("Admin"))
	})

	It("rejects an empty role", func() {
		_, err := roles.Parse("")
		Expect(err).To(HaveOccurred())
	})

	It("is case sensitive", func() {
		_, err := roles.Parse("executive")
		Expect(err).To(HaveOccurred())
	})

	It("returns the executive tabs in order", func() {
		screens := []string{}
		for _, tab := range roles.Executive.Tabs() {
			screens = append(screens, tab.Screen)
		}
		Expect(screens).To(Equal([]string{"Home", "About", "Settings", "Notifications", "Profile"}))
	})

	It("returns the doctor tabs in order", func() {
		tabs := roles.Doctor.Tabs()
		Expect(tabs).To(HaveLen(4))
		Expect(tabs[2]).To(Equal(roles.Tab{Screen: "Excecutive_Directory", Label: "Executives"}))
	})

	It("returns the non executive tabs", func() {
		Expect(roles.NonExecutive.Tabs()).To(Equal([]roles.Tab{
			{Screen: "Nonhome", Label: "Home"},
			{Screen: "MemberDic", Label: "Members"},
		}))
	})

	It("does not share the tab slice", func() {
		tabs := roles.Executive.Tabs()
		tabs[0].Screen = "Changed"
		Expect(roles.Executive.Tabs()[0].Screen).To(Equal("Home"))
	})

	It("checks screen membership", func() {
		Expect(roles.NonExecutive.HasScreen("MemberDic")).To(BeTrue())
		Expect(roles.NonExecutive.HasScreen("Settings")).To(BeFalse())
	})
})
