package dto

type UserSignupRequestDTO struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type UserSignupResponseDTO struct {
	Message string `json:"message"`
}
