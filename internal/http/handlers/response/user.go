package response

import (
	"authfront/internal/core/domain/user"
	"time"
)

type User struct {
	ID        int64     `json:"id"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Name      *string   `json:"name"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) FromDomainUser(du user.User) {
	u.ID = int64(du.ID)
	if du.Email.IsPresent {
		email := string(du.Email.Value)
		u.Email = &email
	}
	if du.Phone.IsPresent {
		phone := string(du.Phone.Value)
		u.Phone = &phone
	}
	if du.Name.IsPresent {
		u.Name = &du.Name.Value
	}
	if du.Image.IsPresent {
		u.Image = &du.Image.Value
	}
	u.CreatedAt = du.CreatedAt
}
