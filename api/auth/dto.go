package auth

type LoginBody struct {
	Password string `json:"password" validate:"required"`
}
