package request

type SetConnectivityRequest struct {
	IsOnline *bool `json:"isOnline" validate:"required"`
}
