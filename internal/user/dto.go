// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

// Fallbacks rendered in place of unset profile fields.
const (
	NoFile         = "no_file"
	NoAddress      = "no_address"
	NoPhoneNumber  = "no_phone_number"
	NoDescription  = "no_description"
	NoWorkingHours = "no_working_hours"
)

type UpdateProfileRequest struct {
	FirstName    *string `json:"first_name,omitempty"    validate:"omitempty,max=150"`
	LastName     *string `json:"last_name,omitempty"     validate:"omitempty,max=150"`
	Email        *string `json:"email,omitempty"         validate:"omitempty,email,max=255"`
	File         *string `json:"file,omitempty"          validate:"omitempty,max=2048"`
	Location     *string `json:"location,omitempty"      validate:"omitempty,max=255"`
	Tel          *string `json:"tel,omitempty"           validate:"omitempty,max=50"`
	Description  *string `json:"description,omitempty"   validate:"omitempty,max=5000"`
	WorkingHours *string `json:"working_hours,omitempty" validate:"omitempty,max=100"`
}

type ProfileResponse struct {
	User         int64     `json:"user"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	File         string    `json:"file"`
	Location     string    `json:"location"`
	Tel          string    `json:"tel"`
	Description  string    `json:"description"`
	WorkingHours string    `json:"working_hours"`
	Type         string    `json:"type"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

type BusinessProfileResponse struct {
	User         int64  `json:"user"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	File         string `json:"file"`
	Location     string `json:"location"`
	Tel          string `json:"tel"`
	Description  string `json:"description"`
	WorkingHours string `json:"working_hours"`
	Type         string `json:"type"`
}

type CustomerProfileResponse struct {
	User       int64     `json:"user"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	File       string    `json:"file"`
	UploadedAt time.Time `json:"uploaded_at"`
	Type       string    `json:"type"`
}

func orPlaceholder(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func ToProfileResponse(u *User) ProfileResponse {
	return ProfileResponse{
		User:         u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		File:         orPlaceholder(u.File, NoFile),
		Location:     orPlaceholder(u.Location, NoAddress),
		Tel:          orPlaceholder(u.Tel, NoPhoneNumber),
		Description:  orPlaceholder(u.Description, NoDescription),
		WorkingHours: orPlaceholder(u.WorkingHours, NoWorkingHours),
		Type:         u.Type,
		Email:        u.Email,
		CreatedAt:    u.CreatedAt,
	}
}

func ToBusinessProfiles(users []User) []BusinessProfileResponse {
	out := make([]BusinessProfileResponse, 0, len(users))
	for i := range users {
		p := ToProfileResponse(&users[i])
		out = append(out, BusinessProfileResponse{
			User:         p.User,
			Username:     p.Username,
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			File:         p.File,
			Location:     p.Location,
			Tel:          p.Tel,
			Description:  p.Description,
			WorkingHours: p.WorkingHours,
			Type:         p.Type,
		})
	}
	return out
}

func ToCustomerProfiles(users []User) []CustomerProfileResponse {
	out := make([]CustomerProfileResponse, 0, len(users))
	for i := range users {
		u := &users[i]
		out = append(out, CustomerProfileResponse{
			User:       u.ID,
			Username:   u.Username,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			File:       orPlaceholder(u.File, NoFile),
			UploadedAt: u.UpdatedAt,
			Type:       u.Type,
		})
	}
	return out
}
