package models

// Farmer поставщик сырья
type Farmer struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	Region         string `json:"region"`
	GPSCoordinates string `json:"gps_coordinates"`
}
