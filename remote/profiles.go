package remote

import (
	"context"
	"encoding/json"
	"path/filepath"

	errs "github.com/giberode/gib/errors"
)

type Profile struct {
	ID               Text   `json:"id"`
	Name             string `json:"name"`
	Phone            Text   `json:"phone"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	ProfileImage     string `json:"profile_image"`
	BusinessName     string `json:"business_name"`
	TeamName         string `json:"team_name"`
	Kootam           string `json:"kootam"`
	BloodGroup       string `json:"blood_group"`
	EduQualification string `json:"edu_qualification"`
	NativeAddress    string `json:"native_address"`
}

type profileResponse struct {
	Success Flag     `json:"success"`
	Message string   `json:"message"`
	User    *Profile `json:"user"`
}

type uploadResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	ImageURL string `json:"image_url"`
}

type registrationProfileResponse struct {
	Status Flag           `json:"status"`
	Data   map[string]any `json:"data"`
}

func (c *Client) Profile(ctx context.Context, phone string) (*Profile, error) {
	body, err := c.postJSON(ctx, "selected_data.php", map[string]string{"phone": phone})
	if err != nil {
		return nil, err
	}
	res, err := decode[profileResponse]("selected_data.php", body, profileSchema)
	if err != nil {
		return nil, err
	}
	if !res.Success || res.User == nil {
		return nil, errs.WithMessage(errs.Parse, orDefault(res.Message, "User not found."))
	}
	return res.User, nil
}

// UploadProfileImage stores a new profile image and returns its public url
func (c *Client) UploadProfileImage(ctx context.Context, phone string, image File) (string, error) {
	if image.Name == "" {
		image.Name = "profile.jpg"
	}
	image.Name = filepath.Base(image.Name)
	body, err := c.postMultipart(ctx, "upload_image.php", []formField{{"phone", phone}}, map[string]*File{"profile_image": &image})
	if err != nil {
		return "", err
	}
	res, err := decode[uploadResponse]("upload_image.php", body, uploadSchema)
	if err != nil {
		return "", err
	}
	if res.Status != "success" || res.ImageURL == "" {
		return "", errs.WithMessage(errs.Parse, orDefault(res.Message, "Upload failed"))
	}
	return res.ImageURL, nil
}

func (c *Client) ChangePassword(ctx context.Context, phone, password string) (*StatusResponse, error) {
	body, err := c.postJSON(ctx, "changepassword.php", map[string]string{
		"phone":        phone,
		"new_password": password,
	})
	if err != nil {
		return nil, err
	}
	return decode[StatusResponse]("changepassword.php", body, statusSchema)
}

// RegistrationProfile returns the flat registration record of phone
func (c *Client) RegistrationProfile(ctx context.Context, phone string) (map[string]any, error) {
	body, err := c.postJSON(ctx, "fetch_user_data_register.php", map[string]string{"phone": phone})
	if err != nil {
		return nil, err
	}
	res, err := decode[registrationProfileResponse]("fetch_user_data_register.php", body, registrationProfileSchema)
	if err != nil {
		return nil, err
	}
	if !res.Status || res.Data == nil {
		return nil, errs.WithMessage(errs.Parse, "Failed to fetch user data.")
	}
	return res.Data, nil
}

// UpdateRegistrationProfile sends a complete registration record, already JSON encoded
func (c *Client) UpdateRegistrationProfile(ctx context.Context, record json.RawMessage) (*StatusResponse, error) {
	body, err := c.postJSON(ctx, "get_user_data_register.php", record)
	if err != nil {
		return nil, err
	}
	res, err := decode[StatusResponse]("get_user_data_register.php", body, statusSchema)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, errs.WithMessage(errs.Parse, "Failed to update profile.")
	}
	return res, nil
}
