package domain

type User struct {
	ID               int64   `json:"id"`
	FirstName        string  `json:"firstname"`
	LastName         string  `json:"lastname"`
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	PasswordHash     string  `json:"-"`
	Role             string  `json:"role"`
	Verified         bool    `json:"accountVerified"`
	VerificationCode *string `json:"-"`
}
