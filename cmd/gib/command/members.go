package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giberode/gib/members"
	"github.com/giberode/gib/remote"
)

var membersListParams = struct {
	Search     string
	BloodGroup string
}{}

var recipientsParams = struct {
	Search string
}{}

var doctorsListParams = struct {
	Search     string
	Specialist string
}{}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Member directory",
}

var membersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List members",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listMembers) },
}

func listMembers(service *members.Service) error {
	list, err := service.Directory(context.TODO())
	if err != nil {
		return err
	}
	list = members.Search(list, membersListParams.Search)
	list = members.FilterBloodGroup(list, membersListParams.BloodGroup)

	return render(list, []string{"NAME", "PHONE", "BUSINESS", "TEAM", "BLOOD GROUP"}, func() [][]string {
		rows := make([][]string, 0, len(list))
		for _, m := range list {
			rows = append(rows, []string{m.Name, m.Phone.String(), orEmpty(m.BusinessName), orEmpty(m.TeamName), orEmpty(m.BloodGroup)})
		}
		return rows
	})
}

var membersRecipientsCmd = &cobra.Command{
	Use:   "recipients",
	Short: "Search the members a thanks note can be given to",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listRecipients) },
}

func listRecipients(service *members.Service) error {
	list, err := service.Recipients(context.TODO())
	if err != nil {
		return err
	}
	list = members.Search(list, recipientsParams.Search)

	return render(list, []string{"NAME", "PHONE", "BUSINESS"}, func() [][]string {
		rows := make([][]string, 0, len(list))
		for _, m := range list {
			rows = append(rows, []string{m.Name, m.Phone.String(), orEmpty(m.BusinessName)})
		}
		return rows
	})
}

var membersScoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show the profile score and the eligibility of the logged in member",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(showScore) },
}

func showScore(service *members.Service) error {
	eligibility, err := service.Eligibility(context.TODO())
	if err != nil {
		return err
	}
	return render(eligibility, []string{"SCORE", "ELIGIBLE"}, func() [][]string {
		return [][]string{{fmt.Sprintf("%d%%", eligibility.Score), fmt.Sprint(eligibility.Eligible)}}
	})
}

var doctorsCmd = &cobra.Command{
	Use:   "doctors",
	Short: "Doctor directory",
}

var doctorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List doctors",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listDoctors) },
}

func listDoctors(service *members.Service) error {
	list, err := service.Doctors(context.TODO())
	if err != nil {
		return err
	}
	list = members.SearchDoctors(list, doctorsListParams.Search)
	list = members.FilterSpecialist(list, doctorsListParams.Specialist)

	return render(list, []string{"NAME", "PHONE", "SPECIALIST", "HOSPITAL", "LOCATION"}, func() [][]string {
		return doctorRows(list)
	})
}

func doctorRows(list []remote.Doctor) [][]string {
	rows := make([][]string, 0, len(list))
	for _, d := range list {
		rows = append(rows, []string{d.Name, d.Phone.String(), orEmpty(d.Specialist), orEmpty(d.HospitalName), orEmpty(d.ServiceLocation)})
	}
	return rows
}

var doctorsSpecialistsCmd = &cobra.Command{
	Use:   "specialists",
	Short: "List the specialities of the doctors",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listSpecialists) },
}

func listSpecialists(service *members.Service) error {
	list, err := service.Doctors(context.TODO())
	if err != nil {
		return err
	}
	specialists := members.Specialists(list)
	return render(specialists, []string{"SPECIALIST"}, func() [][]string {
		rows := make([][]string, 0, len(specialists))
		for _, s := range specialists {
			rows = append(rows, []string{s})
		}
		return rows
	})
}

func init() {
	membersListCmd.Flags().StringVar(&membersListParams.Search, "search", "", "Match name, phone, business or address")
	membersListCmd.Flags().StringVar(&membersListParams.BloodGroup, "blood-group", members.AllBloodGroups, "Only list members of this blood group")
	membersRecipientsCmd.Flags().StringVar(&recipientsParams.Search, "search", "", "Match name, phone or business")
	doctorsListCmd.Flags().StringVar(&doctorsListParams.Search, "search", "", "Match name, speciality or hospital")
	doctorsListCmd.Flags().StringVar(&doctorsListParams.Specialist, "specialist", members.AllSpecialists, "Only list doctors of this speciality")

	membersCmd.AddCommand(membersListCmd)
	membersCmd.AddCommand(membersRecipientsCmd)
	membersCmd.AddCommand(membersScoreCmd)
	doctorsCmd.AddCommand(doctorsListCmd)
	doctorsCmd.AddCommand(doctorsSpecialistsCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(doctorsCmd)
}
