package dto

import "github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"

type AddMemberRequest struct {
	Name      string `json:"name" binding:"required"`
	Role      string `json:"role" binding:"required"`
	Image     string `json:"image"`
	About     string `json:"about"`
	Instagram string `json:"instagram"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
}

func (r *AddMemberRequest) ToModel() *models.Member {
	return &models.Member{
		Name:      r.Name,
		Role:      r.Role,
		Image:     nullString(r.Image),
		About:     nullString(r.About),
		Instagram: nullString(r.Instagram),
		LinkedIn:  nullString(r.LinkedIn),
		GitHub:    nullString(r.GitHub),
	}
}

type BlockEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type MemberResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Image     string `json:"image,omitempty"`
	About     string `json:"about,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
}

func FromMember(m *models.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Role:      m.Role,
		Image:     m.Image.String,
		About:     m.About.String,
		Instagram: m.Instagram.String,
		LinkedIn:  m.LinkedIn.String,
		GitHub:    m.GitHub.String,
	}
}

func FromMembers(members []*models.Member) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, FromMember(m))
	}
	return out
}
