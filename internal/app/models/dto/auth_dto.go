package dto

// TokenObtainRequest exchanges credentials for a token pair. Username may also
// hold the account email.
type TokenObtainRequest struct {
	Username string `json:"username" form:"username" binding:"required" example:"asha"`
	Password string `json:"password" form:"password" binding:"required"`
}

// TokenRefreshRequest exchanges a refresh token for a new pair
type TokenRefreshRequest struct {
	Refresh string `json:"refresh" form:"refresh" binding:"required"`
}

// TokenPairResponse carries the signed access and refresh tokens
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
