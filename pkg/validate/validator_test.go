package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type carrier struct {
	Name string `json:"name" validate:"required,max=100"`
	Code string `json:"code" validate:"required,iata_airline"`
}

type leg struct {
	Origin string `json:"origin" validate:"required,iata_airport"`
	Number string `json:"flightNumber" validate:"omitempty,flight_number"`
}

type contact struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,phone"`
	Legs  []leg  `json:"legs" validate:"dive"`
}

func TestValidator_AirlineCodeLength(t *testing.T) {
	v := New()

	for n := 0; n <= 5; n++ {
		code := strings.Repeat("V", n)
		err := v.Struct(carrier{Name: "Vietnam Airlines", Code: code})
		if n == 2 {
			assert.NoError(t, err, "length %d", n)
			continue
		}

		var fe *FieldErrors
		require.True(t, errors.As(err, &fe), "length %d", n)
		assert.True(t, fe.Has("code"), "length %d", n)
	}
}

func TestValidator_AirlineCodeMustBeUppercase(t *testing.T) {
	err := New().Struct(carrier{Name: "Vietnam Airlines", Code: "vn"})

	var fe *FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "must be a 2-character IATA code", fe.Fields["code"])
}

func TestValidator_Messages(t *testing.T) {
	err := New().Struct(contact{
		Email: "not-an-email",
		Phone: "12",
		Legs:  []leg{{Origin: "HA", Number: "VN1"}},
	})

	var fe *FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "must be a valid email", fe.Fields["email"])
	assert.Equal(t, "must be a valid phone number", fe.Fields["phone"])
	assert.Equal(t, "must be a 3-letter IATA code", fe.Fields["legs[0].origin"])
	assert.False(t, fe.Has("legs[0].flightNumber"))
}

func TestValidator_Required(t *testing.T) {
	err := New().Struct(carrier{})

	var fe *FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "is required", fe.Fields["name"])
	assert.Equal(t, "is required", fe.Fields["code"])
}

func TestFieldErrors_Err(t *testing.T) {
	var fe FieldErrors
	assert.NoError(t, fe.Err())

	fe.Add("arrivalTime", "arrival time must be after departure time")
	fe.Add("arrivalTime", "ignored")
	require.Error(t, fe.Err())
	assert.Equal(t, "arrival time must be after departure time", fe.Fields["arrivalTime"])
	assert.Contains(t, fe.Error(), "arrivalTime")
}
