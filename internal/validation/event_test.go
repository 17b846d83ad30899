package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/havelockadmin/pkg/api"
)

func validEvent() api.EventInput {
	return api.EventInput{
		Title:    "Family shoot",
		Price:    120,
		Types:    []string{"family"},
		Duration: "30m",
		Date:     "2025-08-01T10:00:00Z",
		Location: "Havelock North",
		Schedule: []api.Schedule{
			{Date: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), StartTime: "09:00", EndTime: "11:00"},
		},
		Details: []api.EventDetailInput{{Types: []string{"kids"}}},
	}
}

func TestValidateEvent(t *testing.T) {
	tests := []struct {
		modify    func(*api.EventInput)
		name      string
		wantField string
	}{
		{name: "valid", modify: func(*api.EventInput) {}},
		{name: "empty title", modify: func(in *api.EventInput) { in.Title = "  " }, wantField: "title"},
		{name: "negative price", modify: func(in *api.EventInput) { in.Price = -1 }, wantField: "price"},
		{name: "no types", modify: func(in *api.EventInput) { in.Types = nil }, wantField: "type"},
		{name: "bad duration", modify: func(in *api.EventInput) { in.Duration = "30 minutes" }, wantField: "duration"},
		{name: "zero duration", modify: func(in *api.EventInput) { in.Duration = "0h" }, wantField: "duration"},
		{name: "bad date", modify: func(in *api.EventInput) { in.Date = "01/08/2025" }, wantField: "date"},
		{name: "no location", modify: func(in *api.EventInput) { in.Location = "" }, wantField: "location"},
		{name: "no schedule", modify: func(in *api.EventInput) { in.Schedule = nil }, wantField: "schedule"},
		{name: "bad start time", modify: func(in *api.EventInput) { in.Schedule[0].StartTime = "9am" }, wantField: "schedule.0.startTime"},
		{name: "detail without types", modify: func(in *api.EventInput) { in.Details[0].Types = nil }, wantField: "eventDetails.0.types"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validEvent()
			tt.modify(&in)

			err := ValidateEvent(in)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verrs Errors
			require.ErrorAs(t, err, &verrs)
			assert.NotNil(t, verrs.Field(tt.wantField), "expected error on %s, got %v", tt.wantField, err)
		})
	}
}

func TestValidateNewEvent_RequiresImages(t *testing.T) {
	in := validEvent()

	err := ValidateNewEvent(in)
	require.Error(t, err)
	var verrs Errors
	require.ErrorAs(t, err, &verrs)
	assert.NotNil(t, verrs.Field("thumbnail"))
	assert.NotNil(t, verrs.Field("eventDetails.0.image"))

	in.Thumbnail = &api.Upload{Filename: "t.jpg", Content: strings.NewReader("x")}
	in.Details[0].Image = &api.Upload{Filename: "d.jpg", Content: strings.NewReader("y")}
	assert.NoError(t, ValidateNewEvent(in))
}

func TestParseEventDuration(t *testing.T) {
	d, err := ParseEventDuration("45m")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, d)

	d, err = ParseEventDuration("2h")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, d)

	_, err = ParseEventDuration("2d")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateVideo(t *testing.T) {
	assert.NoError(t, ValidateVideo(api.VideoInput{
		Title: "Teaser",
		File:  api.Upload{Filename: "teaser.mp4", Content: strings.NewReader("mp4")},
	}))

	err := ValidateVideo(api.VideoInput{Title: "T"})
	require.Error(t, err)
	assert.Equal(t, "Add Title must be at least 2 characters.; Video file is required", err.Error())
}
