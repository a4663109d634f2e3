package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/TwiN/deepmerge"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	errs "github.com/giberode/gib/errors"
	"github.com/giberode/gib/remote"
	"github.com/giberode/gib/session"
)

const (
	DefaultImage = "https://www.giberode.com/giberode_app/logo/icon.png"
	MaxChildren  = 4
)

var (
	ErrPasswordRequired = errs.WithMessage(errs.BadRequest, "Please fill in both fields.")
	ErrPasswordMismatch = errs.WithMessage(errs.BadRequest, "Passwords do not match.")
	ErrEmptyImage       = errs.WithMessage(errs.BadRequest, "Image selection failed.")
	ErrTooManyChildren  = errs.WithMessage(errs.BadRequest, fmt.Sprintf("At most %d children can be listed.", MaxChildren))
)

type Backend interface {
	Profile(ctx context.Context, phone string) (*remote.Profile, error)
	UploadProfileImage(ctx context.Context, phone string, image remote.File) (string, error)
	ChangePassword(ctx context.Context, phone, password string) (*remote.StatusResponse, error)
	RegistrationProfile(ctx context.Context, phone string) (map[string]any, error)
	UpdateRegistrationProfile(ctx context.Context, record json.RawMessage) (*remote.StatusResponse, error)
}

type Service struct {
	backend  Backend
	sessions *session.Manager
	logger   *zap.SugaredLogger
}

func NewService(backend Backend, sessions *session.Manager, logger *zap.SugaredLogger) *Service {
	return &Service{
		backend:  backend,
		sessions: sessions,
		logger:   logger,
	}
}

// Profile returns the profile of the logged in member
func (s *Service) Profile(ctx context.Context) (*remote.Profile, error) {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.backend.Profile(ctx, current.Phone)
	if err != nil {
		return nil, err
	}
	if profile.ProfileImage == "" {
		profile.ProfileImage = DefaultImage
	}
	return profile, nil
}

// UploadImage replaces the profile image and stores its url in the session. The session
// write is dropped when the member logged out while the upload was in flight.
func (s *Service) UploadImage(ctx context.Context, image remote.File) (string, error) {
	if len(image.Content) == 0 {
		return "", ErrEmptyImage
	}

	current, epoch, err := s.sessions.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	if !current.Active() {
		return "", session.ErrNoSession
	}

	imageURL, err := s.backend.UploadProfileImage(ctx, current.Phone, image)
	if err != nil {
		s.logger.Errorw("unable to upload profile image", "phone", current.Phone, "error", err)
		return "", err
	}
	if err := s.sessions.Update(ctx, epoch, map[string]string{session.KeyProfileImage: imageURL}); err != nil {
		return "", err
	}

	s.logger.Infow("profile image updated", "phone", current.Phone, "url", imageURL)
	return imageURL, nil
}

func (s *Service) ChangePassword(ctx context.Context, password, confirmation string) error {
	if password == "" || confirmation == "" {
		return ErrPasswordRequired
	}
	if password != confirmation {
		return ErrPasswordMismatch
	}

	current, err := s.sessions.Current(ctx)
	if err != nil {
		return err
	}
	res, err := s.backend.ChangePassword(ctx, current.Phone, password)
	if err != nil {
		return err
	}
	if res.Status.String() != "success" {
		message := res.Message
		if message == "" {
			message = "Failed to update password."
		}
		return errs.WithMessage(errs.BadRequest, message)
	}
	return nil
}

// Child is one of the children slots of the registration record
type Child struct {
	Name   string `mapstructure:"name" json:"name" yaml:"name"`
	AgeDOB string `mapstructure:"age_dob" json:"ageDob" yaml:"ageDob"`
	School string `mapstructure:"school" json:"school" yaml:"school"`
}

// Registration is the editable registration record. The backend keeps it flat with
// numbered children keys.
type Registration struct {
	Name                        string `mapstructure:"name" json:"name,omitempty"`
	DateBirth                   string `mapstructure:"date_birth" json:"date_birth,omitempty"`
	BloodGroup                  string `mapstructure:"blood_group" json:"blood_group,omitempty"`
	Aadhaar                     string `mapstructure:"aadhaar" json:"aadhaar,omitempty"`
	EduQualification            string `mapstructure:"edu_qualification" json:"edu_qualification,omitempty"`
	NativeAddress               string `mapstructure:"native_address" json:"native_address,omitempty"`
	FatherName                  string `mapstructure:"father_name" json:"father_name,omitempty"`
	Kootam                      string `mapstructure:"kootam" json:"kootam,omitempty"`
	SpouseName                  string `mapstructure:"spouse_name" json:"spouse_name,omitempty"`
	SpouseKootam                string `mapstructure:"spouse_kootam" json:"spouse_kootam,omitempty"`
	SpouseOccupation            string `mapstructure:"spouse_occupation" json:"spouse_occupation,omitempty"`
	SpousePhone                 string `mapstructure:"spouse_phone" json:"spouse_phone,omitempty"`
	BusinessName                string `mapstructure:"business_name" json:"business_name,omitempty"`
	TeamName                    string `mapstructure:"team_name" json:"team_name,omitempty"`
	BusinessNature              string `mapstructure:"BusinessNature" json:"BusinessNature,omitempty"`
	CompanyAddress              string `mapstructure:"company_address" json:"company_address,omitempty"`
	CompanyPostalCode           string `mapstructure:"company_postalcode" json:"company_postalcode,omitempty"`
	MapURL                      string `mapstructure:"map_url" json:"map_url,omitempty"`
	GenerationOfBusiness        string `mapstructure:"generation_of_business" json:"generation_of_business,omitempty"`
	NoEmployees                 string `mapstructure:"no_employees" json:"no_employees,omitempty"`
	OwnershipType               string `mapstructure:"ownership_type" json:"ownership_type,omitempty"`
	PartnerNameCommunity        string `mapstructure:"partner_name_community" json:"partner_name_community,omitempty"`
	WebsiteURL                  string `mapstructure:"website_url" json:"website_url,omitempty"`
	OtherOrganizationMembership string `mapstructure:"other_organization_membership" json:"other_organization_membership,omitempty"`
	ExpectationsFromGib         string `mapstructure:"expectations_from_gib" json:"expectations_from_gib,omitempty"`
	Email                       string `mapstructure:"email" json:"email,omitempty"`
	Native                      string `mapstructure:"native" json:"native,omitempty"`
	City                        string `mapstructure:"city" json:"city,omitempty"`
	State                       string `mapstructure:"state" json:"state,omitempty"`
	PostalCode                  string `mapstructure:"postal_code" json:"postal_code,omitempty"`

	Children []Child `mapstructure:"-" json:"-"`
}

func decode(input any, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// DecodeRegistration converts the flat backend record into a Registration
func DecodeRegistration(data map[string]any) (*Registration, error) {
	registration := &Registration{}
	if err := decode(data, registration); err != nil {
		return nil, fmt.Errorf("%w: unable to decode registration: %w", errs.Parse, err)
	}

	for i := 1; i <= MaxChildren; i++ {
		name, _ := data[fmt.Sprintf("children_name_%d", i)].(string)
		if name == "" {
			continue
		}
		child := Child{}
		err := decode(map[string]any{
			"name":    name,
			"age_dob": data[fmt.Sprintf("children_%d_age_dob", i)],
			"school":  data[fmt.Sprintf("children_%d_school", i)],
		}, &child)
		if err != nil {
			return nil, fmt.Errorf("%w: unable to decode child %d: %w", errs.Parse, i, err)
		}
		registration.Children = append(registration.Children, child)
	}
	return registration, nil
}

// Flatten returns the backend representation of r. Every children slot is sent so
// removed children are cleared.
func (r *Registration) Flatten() (map[string]any, error) {
	if len(r.Children) > MaxChildren {
		return nil, ErrTooManyChildren
	}

	encoded, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	flat := map[string]any{}
	if err := json.Unmarshal(encoded, &flat); err != nil {
		return nil, err
	}

	for i := 1; i <= MaxChildren; i++ {
		child := Child{}
		if i <= len(r.Children) {
			child = r.Children[i-1]
		}
		flat[fmt.Sprintf("children_name_%d", i)] = child.Name
		flat[fmt.Sprintf("children_%d_age_dob", i)] = child.AgeDOB
		flat[fmt.Sprintf("children_%d_school", i)] = child.School
	}
	return flat, nil
}

func (s *Service) Registration(ctx context.Context) (*Registration, error) {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	data, err := s.backend.RegistrationProfile(ctx, current.Phone)
	if err != nil {
		return nil, err
	}
	return DecodeRegistration(data)
}

// UpdateRegistration merges edits into the stored registration record and saves it.
// Keys unknown to Registration are preserved.
func (s *Service) UpdateRegistration(ctx context.Context, edits *Registration) error {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return err
	}

	flat, err := edits.Flatten()
	if err != nil {
		return err
	}
	flat[session.KeyPhone] = current.Phone

	stored, err := s.backend.RegistrationProfile(ctx, current.Phone)
	if err != nil {
		return err
	}

	dst, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	src, err := json.Marshal(flat)
	if err != nil {
		return err
	}
	merged, err := deepmerge.JSON(dst, src, deepmerge.Config{})
	if err != nil {
		return fmt.Errorf("unable to merge registration: %w", err)
	}

	if _, err := s.backend.UpdateRegistrationProfile(ctx, merged); err != nil {
		var public errs.Public
		if errors.As(err, &public) {
			return err
		}
		s.logger.Errorw("unable to update registration", "phone", current.Phone, "error", err)
		return errs.WithMessage(errs.Kind(err), "Something went wrong while submitting.")
	}

	s.logger.Infow("registration updated", "phone", current.Phone)
	return nil
}
