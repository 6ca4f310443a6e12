package models

import "time"

// AspectEvent is published when a body pair forms an aspect.
type AspectEvent struct {
	BodyA  string    `json:"body_a"`
	BodyB  string    `json:"body_b"`
	Date   time.Time `json:"date"`
	Orb    float64   `json:"orb"`
	Aspect Aspect    `json:"aspect"`
}

// LayoutEvent is published after a house layout has been computed.
type LayoutEvent struct {
	Layout    HouseLayout `json:"layout"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	System    HouseSystem `json:"system"`
}

// LayoutRequest asks for a layout to be computed and stored, e.g. via Kafka.
type LayoutRequest struct {
	Date      time.Time   `json:"date"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	System    HouseSystem `json:"system"`
}
