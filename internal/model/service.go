package model

import "time"

// Service is a catalog entry in the `services` collection.  Bookings copy
// Name and HourlyRate at creation time; editing a service afterwards
// affects only future bookings.  Deleting a service is a soft delete via
// IsActive so that historical bookings keep resolving their service id.
//
// Fields:
//  ID                – document id (UUID string).
//  Name              – display name of the service.
//  Description       – customer-facing description.
//  HourlyRate        – current price per hour.
//  EstimatedDuration – typical duration in minutes.
//  ImageURL          – illustration shown in the catalog.
//  IsActive          – whether the service is bookable.
//  CreatedAt         – timestamp of creation (UTC).
type Service struct {
    ID                string    `json:"id"`
    Name              string    `json:"name"`
    Description       string    `json:"description"`
    HourlyRate        float64   `json:"hourly_rate"`
    EstimatedDuration int       `json:"estimated_duration"`
    ImageURL          string    `json:"image_url"`
    IsActive          bool      `json:"is_active"`
    CreatedAt         time.Time `json:"created_at"`
}
