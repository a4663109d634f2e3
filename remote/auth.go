package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
)

type User struct {
	ID           Text   `json:"id"`
	Phone        Text   `json:"phone"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	ProfileImage string `json:"profile_image"`
	Email        string `json:"email"`
	BusinessName string `json:"business_name"`
}

type LoginResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	User    *User  `json:"user"`
}

// Registered reports whether the backend recognised the phone
func (l *LoginResponse) Registered() bool {
	return l.Status != "error"
}

// DeviceStatus is the answer of the device liveness check
type DeviceStatus struct {
	// Revoked is set only when the backend answered with an explicit null device id
	Revoked  bool
	DeviceID string
}

type AppVersion struct {
	AndroidVersion Text `json:"android_version"`
}

func (c *Client) Login(ctx context.Context, phone string) (*LoginResponse, error) {
	body, err := c.postJSON(ctx, "login.php", map[string]string{"phone": phone})
	if err != nil {
		return nil, err
	}
	return decode[LoginResponse]("login.php", body, loginSchema)
}

func (c *Client) CheckDeviceID(ctx context.Context, phone, deviceID string) (*StatusResponse, error) {
	body, err := c.postForm(ctx, "check_device_id.php", url.Values{
		"phone":     {phone},
		"device_id": {deviceID},
	})
	if err != nil {
		return nil, err
	}
	return decode[StatusResponse]("check_device_id.php", body, statusSchema)
}

func (c *Client) UpdateDeviceID(ctx context.Context, phone, deviceID string) (*StatusResponse, error) {
	body, err := c.postForm(ctx, "update_device_id.php", url.Values{
		"phone":     {phone},
		"device_id": {deviceID},
	})
	if err != nil {
		return nil, err
	}
	return c.acknowledgement("update_device_id.php", body), nil
}

func (c *Client) ClearDeviceID(ctx context.Context, phone string) (*StatusResponse, error) {
	body, err := c.postJSON(ctx, "cleardevice_id.php", map[string]string{"phone": phone})
	if err != nil {
		return nil, err
	}
	return c.acknowledgement("cleardevice_id.php", body), nil
}

// acknowledgement decodes the body of an endpoint whose answer is informational.
// Bodies that are not a status object are logged and read as an empty status.
func (c *Client) acknowledgement(endpoint string, body []byte) *StatusResponse {
	res, err := decode[StatusResponse](endpoint, body, statusSchema)
	if err != nil {
		c.logger.Warnw("ignoring unexpected response", "endpoint", endpoint, "body", string(body), "error", err)
		return &StatusResponse{}
	}
	return res
}

func (c *Client) LogoutDevice(ctx context.Context, phone string) (*DeviceStatus, error) {
	body, err := c.postJSON(ctx, "logoutdevice.php", map[string]string{"phone": phone})
	if err != nil {
		return nil, err
	}
	fields, err := decode[map[string]json.RawMessage]("logoutdevice.php", body, deviceSchema)
	if err != nil {
		return nil, err
	}

	status := &DeviceStatus{}
	raw, ok := (*fields)["device_id"]
	if !ok {
		return status, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), null) {
		status.Revoked = true
		return status, nil
	}

	var id Text
	if err := json.Unmarshal(raw, &id); err == nil {
		status.DeviceID = id.String()
	}
	return status, nil
}

func (c *Client) RegisterMember(ctx context.Context, name, phone, email string) (*StatusResponse, error) {
	body, err := c.postForm(ctx, "registrationNonExce.php", url.Values{
		"name":  {name},
		"phone": {phone},
		"email": {email},
	})
	if err != nil {
		return nil, err
	}
	return decode[StatusResponse]("registrationNonExce.php", body, statusSchema)
}

func (c *Client) AppVersion(ctx context.Context) (*AppVersion, error) {
	body, err := c.get(ctx, "app_version.php", nil)
	if err != nil {
		return nil, err
	}
	return decode[AppVersion]("app_version.php", body, appVersionSchema)
}
