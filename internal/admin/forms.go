package admin

import (
	"strings"

	"travel/internal/schedule"
	"travel/pkg/apiclient"
)

func upperTrim(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeAirline uppercases the IATA code so "vn " is accepted as "VN".
func NormalizeAirline(in apiclient.AirlineInput) apiclient.AirlineInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = upperTrim(in.Code)
	in.Country = strings.TrimSpace(in.Country)
	in.LogoURL = strings.TrimSpace(in.LogoURL)
	return in
}

func NormalizeAircraft(in apiclient.AircraftInput) apiclient.AircraftInput {
	in.Model = strings.TrimSpace(in.Model)
	in.Manufacturer = strings.TrimSpace(in.Manufacturer)
	in.Registration = upperTrim(in.Registration)
	in.AirlineID = strings.TrimSpace(in.AirlineID)
	return in
}

func NormalizeFlight(in apiclient.FlightInput) apiclient.FlightInput {
	in.FlightNumber = strings.ReplaceAll(upperTrim(in.FlightNumber), " ", "")
	in.AirlineID = strings.TrimSpace(in.AirlineID)
	in.OriginCode = upperTrim(in.OriginCode)
	in.DestinationCode = upperTrim(in.DestinationCode)
	in.Status = upperTrim(in.Status)
	return in
}

func NormalizeHotel(in apiclient.HotelInput) apiclient.HotelInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func NormalizeAmenity(in apiclient.AmenityInput) apiclient.AmenityInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = upperTrim(in.Category)
	in.Icon = strings.TrimSpace(in.Icon)
	return in
}

func NormalizePartner(in apiclient.PartnerInput) apiclient.PartnerInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.ReplaceAll(strings.TrimSpace(in.Phone), " ", "")
	in.Type = upperTrim(in.Type)
	return in
}

func NormalizeSchedule(in schedule.Form) schedule.Form {
	in.FlightID = strings.TrimSpace(in.FlightID)
	in.AircraftID = strings.TrimSpace(in.AircraftID)
	in.Status = upperTrim(in.Status)
	return in
}
