package schedule

import (
	"testing"
	"time"

	"travel/pkg/apiclient"
	"travel/pkg/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var fe *validate.FieldErrors
	require.ErrorAs(t, err, &fe)
	return fe.Fields
}

func TestOpenSuggestsArrival(t *testing.T) {
	f := Open(nil, at(time.Hour))

	require.NotNil(t, f.ArrivalTime)
	assert.Equal(t, now.Add(3*time.Hour), *f.ArrivalTime)
	assert.True(t, f.IsNew())
}

func TestSuggestArrivalKeepsUserValue(t *testing.T) {
	f := &Form{DepartureTime: at(time.Hour), ArrivalTime: at(90 * time.Minute)}

	assert.False(t, f.SuggestArrival())
	assert.Equal(t, now.Add(90*time.Minute), *f.ArrivalTime)
}

func TestOpenExisting(t *testing.T) {
	existing := &apiclient.FlightSchedule{
		ID:            "s1",
		FlightID:      "f1",
		AircraftID:    "ac1",
		DepartureTime: now.Add(-time.Hour),
		ArrivalTime:   now.Add(time.Hour),
		Status:        "DELAYED",
	}
	f := Open(existing, nil)

	assert.False(t, f.IsNew())
	assert.Equal(t, "ac1", f.AircraftID)
	assert.Equal(t, existing.ArrivalTime, *f.ArrivalTime)
}

func TestValidate(t *testing.T) {
	v := validate.New()

	tests := []struct {
		name  string
		form  Form
		field string
		msg   string
	}{
		{
			name:  "missing flight",
			form:  Form{AircraftID: "ac1", DepartureTime: at(time.Hour), ArrivalTime: at(3 * time.Hour)},
			field: "flightId",
			msg:   "is required",
		},
		{
			name:  "missing aircraft",
			form:  Form{FlightID: "f1", DepartureTime: at(time.Hour), ArrivalTime: at(3 * time.Hour)},
			field: "aircraftId",
			msg:   "is required",
		},
		{
			name:  "missing arrival",
			form:  Form{FlightID: "f1", AircraftID: "ac1", DepartureTime: at(time.Hour)},
			field: "arrivalTime",
			msg:   "is required",
		},
		{
			name:  "arrival before departure",
			form:  Form{FlightID: "f1", AircraftID: "ac1", DepartureTime: at(2 * time.Hour), ArrivalTime: at(time.Hour)},
			field: "arrivalTime",
			msg:   "arrival time must be after departure time",
		},
		{
			name:  "arrival equals departure",
			form:  Form{FlightID: "f1", AircraftID: "ac1", DepartureTime: at(2 * time.Hour), ArrivalTime: at(2 * time.Hour)},
			field: "arrivalTime",
			msg:   "arrival time must be after departure time",
		},
		{
			name:  "too short",
			form:  Form{FlightID: "f1", AircraftID: "ac1", DepartureTime: at(time.Hour), ArrivalTime: at(time.Hour + 5*time.Minute)},
			field: "arrivalTime",
			msg:   "duration must be at least 30 minutes",
		},
		{
			name:  "too long",
			form:  Form{FlightID: "f1", AircraftID: "ac1", DepartureTime: at(time.Hour), ArrivalTime: at(21*time.Hour + time.Minute)},
			field: "arrivalTime",
			msg:   "duration must not exceed 20 hours",
		},
		{
			name:  "departure in the past",
			form:  Form{FlightID: "f1", AircraftID: "ac1", DepartureTime: at(-time.Hour), ArrivalTime: at(time.Hour)},
			field: "departureTime",
			msg:   "departure time must be in the future",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := fieldErrors(t, tt.form.Validate(v, now))
			assert.Equal(t, tt.msg, fields[tt.field])
		})
	}
}

func TestValidateBoundaries(t *testing.T) {
	v := validate.New()

	exactMin := Form{FlightID: "f1", AircraftID: "ac1", DepartureTime: at(time.Hour), ArrivalTime: at(90 * time.Minute)}
	assert.NoError(t, exactMin.Validate(v, now))

	exactMax := Form{FlightID: "f1", AircraftID: "ac1", DepartureTime: at(time.Hour), ArrivalTime: at(21 * time.Hour)}
	assert.NoError(t, exactMax.Validate(v, now))
}

func TestValidateExistingMayDepartInPast(t *testing.T) {
	f := Open(&apiclient.FlightSchedule{
		ID:            "s1",
		FlightID:      "f1",
		AircraftID:    "ac1",
		DepartureTime: now.Add(-2 * time.Hour),
		ArrivalTime:   now.Add(-time.Hour),
	}, nil)

	assert.NoError(t, f.Validate(validate.New(), now))
}

func TestRequestMapping(t *testing.T) {
	f := Form{FlightID: "f1", AircraftID: "ac1", DepartureTime: at(time.Hour), ArrivalTime: at(3 * time.Hour), Status: "SCHEDULED"}

	create := f.CreateRequest()
	assert.Equal(t, "f1", create.FlightID)
	assert.Equal(t, now.Add(time.Hour), create.DepartureTime)

	update := f.UpdateRequest()
	assert.Equal(t, "ac1", update.AircraftID)
	assert.Equal(t, "SCHEDULED", update.Status)
	assert.Equal(t, now.Add(3*time.Hour), update.ArrivalTime)
}
