package model

// Profile roles
const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
)

// Profile statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Profile là row của bảng profiles (id = auth user id).
// Status là omitempty: chỉ được ghi khi import quyết định ghi.
type Profile struct {
	ID          string            `json:"id"`
	Role        string            `json:"role"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	Bio         *string           `json:"bio"`
	PhotoURL    *string           `json:"photo_url"`
	SocialLinks map[string]string `json:"social_links"`
	AuthorType  *string           `json:"author_type"`
	Status      *string           `json:"status,omitempty"`
}

// ExistingProfile is the slice of a destination profile the import needs
// for its decisions.
type ExistingProfile struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

func (p ExistingProfile) RoleIs(role string) bool {
	return p.Role != nil && *p.Role == role
}

func (p ExistingProfile) HasStatus() bool {
	return p.Status != nil && *p.Status != ""
}
