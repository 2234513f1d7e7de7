package handler

import (
	"time"

	"github.com/estagiarios/e-commerce/internal/core/domain"
	"github.com/estagiarios/e-commerce/internal/core/ports"
)

const dateLayout = "2006-01-02"

// --- Request → Service input ---

// toRegisterInput assumes req already passed validation, so BirthDate parses.
func toRegisterInput(req registerRequest) (ports.RegisterInput, error) {
	birthDate, err := time.Parse(dateLayout, req.BirthDate)
	if err != nil {
		return ports.RegisterInput{}, domain.ErrInvalidBirthDate
	}
	return ports.RegisterInput{
		Name:       req.Name,
		NationalID: req.NationalID,
		BirthDate:  birthDate,
		Email:      req.Email,
		Password:   req.Password,
	}, nil
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Name:       u.Name,
		NationalID: u.NationalID,
		BirthDate:  u.BirthDate.Format(dateLayout),
		Email:      u.Email,
		Roles:      domain.Authorities(u.Roles),
		Active:     u.Active,
		CreatedAt:  u.CreatedAt,
	}
}

func toLoginResponse(res *ports.LoginResult) loginResponse {
	p := res.Principal
	return loginResponse{
		Token:      res.Token,
		TokenType:  "Bearer",
		ExpiresAt:  res.ExpiresAt,
		UserID:     p.ID,
		Name:       p.Name,
		Email:      p.Email,
		NationalID: p.NationalID,
		Roles:      p.Authorities(),
	}
}
