package roles

import (
	"fmt"
	"slices"
)

type Role string

const (
	Executive    Role = "Executive"
	Doctor       Role = "Doctor"
	NonExecutive Role = "Non-Executive"
)

// Tab is one entry of the bottom tab bar. Screen names the screen definition
// mounted for the tab.
type Tab struct {
	Screen string `json:"screen" yaml:"screen"`
	Label  string `json:"label" yaml:"label"`
}

var tabs = map[Role][]Tab{
	Executive: {
		{Screen: "Home", Label: "Home"},
		{Screen: "About", Label: "Directory"},
		{Screen: "Settings", Label: "Thanks Note"},
		{Screen: "Notifications", Label: "Meeting"},
		{Screen: "Profile", Label: "Profile"},
	},
	Doctor: {
		{Screen: "Doctorhome", Label: "Home"},
		{Screen: "Directory", Label: "Directory"},
		{Screen: "Excecutive_Directory", Label: "Executives"},
		{Screen: "DoctorProfile", Label: "Profile"},
	},
	NonExecutive: {
		{Screen: "Nonhome", Label: "Home"},
		{Screen: "MemberDic", Label: "Members"},
	},
}

type InvalidRoleError struct {
	Value string
}

func (e InvalidRoleError) Error() string {
	return fmt.Sprintf("Invalid role: %s", e.Value)
}

// Normalize maps the plural "Doctors" some accounts were created with
func Normalize(role string) string {
	if role == "Doctors" {
		return string(Doctor)
	}
	return role
}

func Parse(role string) (Role, error) {
	r := Role(Normalize(role))
	if _, ok := tabs[r]; !ok {
		return "", InvalidRoleError{Value: role}
	}
	return r, nil
}

// Tabs returns the ordered tab set of the role
func (r Role) Tabs() []Tab {
	return slices.Clone(tabs[r])
}

func (r Role) HasScreen(screen string) bool {
	return slices.ContainsFunc(tabs[r], func(t Tab) bool {
		return t.Screen == screen
	})
}

func All() []Role {
	return []Role{Executive, Doctor, NonExecutive}
}
