package craftsman

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ========================================
// REQUEST DTOs
// ========================================

// OnboardRequest turns an authenticated user into a craftsman with an
// unverified, INACTIVE profile.
type OnboardRequest struct {
	BusinessName    string `json:"business_name" binding:"required"`
	Description     string `json:"description"`
	Category        string `json:"category" binding:"required"`
	County          string `json:"county" binding:"required"`
	City            string `json:"city" binding:"required"`
	Address         string `json:"address,omitempty"`
	Phone           string `json:"phone,omitempty"`
	ExperienceYears int    `json:"experience_years"`
}

func (r OnboardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BusinessName, validation.Required, validation.Length(2, 150)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.Category, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.County, validation.Required, validation.Length(2, 50)),
		validation.Field(&r.City, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.ExperienceYears, validation.Min(0), validation.Max(70)),
	)
}

type UpdateProfileRequest struct {
	BusinessName    string `json:"business_name,omitempty"`
	Description     string `json:"description,omitempty"`
	Category        string `json:"category,omitempty"`
	County          string `json:"county,omitempty"`
	City            string `json:"city,omitempty"`
	Address         string `json:"address,omitempty"`
	Phone           string `json:"phone,omitempty"`
	ExperienceYears *int   `json:"experience_years,omitempty"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BusinessName,
			validation.When(r.BusinessName != "", validation.Length(2, 150)),
		),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.ExperienceYears,
			validation.When(r.ExperienceYears != nil, validation.Min(0), validation.Max(70)),
		),
	)
}

// ApproveRequest optionally picks the plan; BASIC when omitted.
type ApproveRequest struct {
	Plan string `json:"plan,omitempty"`
}

func (r ApproveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Plan,
			validation.When(r.Plan != "", validation.In("BASIC", "PREMIUM").Error("plan must be BASIC or PREMIUM")),
		),
	)
}

// ListRequest covers both the public directory and the admin listing.
// Public reads force verified ACTIVE rows only.
type ListRequest struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	County   string `form:"county"`
	Category string `form:"category"`
	Search   string `form:"search"`
	Status   string `form:"status"` // admin listing only

	PublicOnly bool `form:"-"`
}

func (r *ListRequest) SetDefaults() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 10
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
}
