package types

type TokenRequest struct {
	UserID string `json:"userId"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
