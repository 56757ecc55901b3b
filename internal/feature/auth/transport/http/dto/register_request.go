package dto

// RegisterReq represents the request body for the /users/register endpoint.
// personname and username are custom tags registered by handler.RegisterValidators.
type RegisterReq struct {
	Name     string `json:"name" binding:"required,personname"`
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required"`
}
