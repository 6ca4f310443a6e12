package models

// Request payloads of the HTTP API. Query endpoints start from the configured
// default orb before binding, so an explicit orb=0 is kept. The JSON scan
// body carries the orb as a pointer for the same reason.

type ClassifyRequest struct {
	A   float64 `json:"a" validate:"finite"`
	B   float64 `json:"b" validate:"finite"`
	Orb float64 `json:"orb" validate:"gte=0,lte=180"`
}

type BodiesAspectRequest struct {
	A    string  `json:"a" validate:"required"`
	B    string  `json:"b" validate:"required"`
	Date string  `json:"date"`
	Orb  float64 `json:"orb" validate:"gte=0,lte=180"`
}

type ScanRequest struct {
	Bodies []string `json:"bodies" validate:"required,min=2,max=40,dive,required"`
	Date   string   `json:"date"`
	Orb    *float64 `json:"orb" validate:"omitempty,gte=0,lte=180"`
}

type HousesRequest struct {
	Date   string  `json:"date"`
	Lat    float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon    float64 `json:"lon" validate:"gte=-180,lte=180"`
	System string  `json:"system" default:"placidus"`
}

type HistoryRequest struct {
	Lat    float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon    float64 `json:"lon" validate:"gte=-180,lte=180"`
	System string  `json:"system" default:"placidus"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Limit  int     `json:"limit" default:"50" validate:"gte=1,lte=1000"`
}
