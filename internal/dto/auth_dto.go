package dto

type LoginRequest struct {
	Password     string `json:"password"      validate:"required"`
	OperatorName string `json:"operator_name" validate:"required,min=2"`
	StationID    string `json:"station_id"    validate:"required,min=1,max=40"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"` // seconds
	OperatorName string `json:"operator_name"`
	StationID    string `json:"station_id"`
}
