package remote

import (
	"context"

	errs "github.com/giberode/gib/errors"
)

type Member struct {
	ID             Text   `json:"id"`
	Name           string `json:"name"`
	Phone          Text   `json:"phone"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ProfileImage   string `json:"profile_image"`
	BusinessName   string `json:"business_name"`
	BusinessNature string `json:"BusinessNature"`
	CompanyAddress string `json:"company_address"`
	Kootam         string `json:"kootam"`
	BloodGroup     string `json:"blood_group"`
	TeamName       string `json:"team_name"`
}

type Doctor struct {
	ID               Text   `json:"id"`
	Name             string `json:"name"`
	Phone            Text   `json:"phone"`
	EduQualification string `json:"edu_qualification"`
	Specialist       string `json:"specialist"`
	HospitalName     string `json:"hospital_name"`
	ServiceLocation  string `json:"service_location"`
	NativeAddress    string `json:"native_address"`
	ProfileImage     string `json:"profile_image"`
}

type Score struct {
	Percentage *Number `json:"profile_score_percentage"`
}

type usersResponse struct {
	Success Flag     `json:"success"`
	Message string   `json:"message"`
	Users   []Member `json:"users"`
}

type doctorsResponse struct {
	Data []Doctor `json:"data"`
}

func (c *Client) AllUsers(ctx context.Context) ([]Member, error) {
	return c.users(ctx, "get_all_users.php")
}

// SearchUsers returns the members offered as thanks note recipients
func (c *Client) SearchUsers(ctx context.Context) ([]Member, error) {
	return c.users(ctx, "search_userbyname.php")
}

func (c *Client) users(ctx context.Context, endpoint string) ([]Member, error) {
	body, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	res, err := decode[usersResponse](endpoint, body, usersSchema)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, errs.WithMessage(errs.Parse, orDefault(res.Message, "Failed to fetch users"))
	}
	return res.Users, nil
}

func (c *Client) Doctors(ctx context.Context) ([]Doctor, error) {
	body, err := c.get(ctx, "doctorusers.php", nil)
	if err != nil {
		return nil, err
	}
	res, err := decode[doctorsResponse]("doctorusers.php", body, doctorsSchema)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (c *Client) UserScore(ctx context.Context, phone string) (*Score, error) {
	body, err := c.postJSON(ctx, "get_user_score.php", map[string]string{"phone": phone})
	if err != nil {
		return nil, err
	}
	return decode[Score]("get_user_score.php", body, scoreSchema)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
