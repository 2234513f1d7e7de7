package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse acknowledges an operation that returns no resource.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

type loginRequest struct {
	NationalID string `json:"nationalId" validate:"required,cpf_format"`
	Password   string `json:"password"   validate:"required,login_password"`
}

type loginResponse struct {
	Token      string    `json:"token"`
	TokenType  string    `json:"tokenType"`
	ExpiresAt  time.Time `json:"expiresAt"`
	UserID     int64     `json:"userId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	NationalID string    `json:"nationalId"`
	Roles      []string  `json:"roles"`
}

// registerRequest fields are declared in the order they are checked, so the
// first reported failure matches the directory's own validation order.
type registerRequest struct {
	NationalID string `json:"nationalId" validate:"required,cpf"`
	Email      string `json:"email"      validate:"required,email_light"`
	Name       string `json:"name"       validate:"required,personname"`
	Password   string `json:"password"   validate:"required,password"`
	BirthDate  string `json:"birthDate"  validate:"required,datetime=2006-01-02"`
}

type registerResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type forgotPasswordRequest struct {
	NationalID  string `json:"nationalId"  validate:"required,cpf_format"`
	BirthDate   string `json:"birthDate"   validate:"required,datetime=2006-01-02"`
	NewPassword string `json:"newPassword" validate:"required,reset_password"`
}

type userResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	NationalID string    `json:"nationalId"`
	BirthDate  string    `json:"birthDate"`
	Email      string    `json:"email"`
	Roles      []string  `json:"roles"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}

type findByEmailRequest struct {
	Email string `query:"email" validate:"required,email_light"`
}

type userIDRequest struct {
	ID int64 `param:"id" validate:"required,gt=0"`
}
