package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/havelockadmin/pkg/api"
)

var (
	clockPattern    = regexp.MustCompile(`^\d{2}:\d{2}$`)
	durationPattern = regexp.MustCompile(`^(\d+)([hm])$`)
)

// ValidateEvent - схема формы события (создание и редактирование)
func ValidateEvent(in api.EventInput) error {
	var c collector
	checkEvent(&c, in)
	return c.err()
}

// ValidateNewEvent дополнительно требует обложку и изображение у каждой детали
func ValidateNewEvent(in api.EventInput) error {
	var c collector
	checkEvent(&c, in)
	c.check(in.Thumbnail != nil, "thumbnail", "Thumbnail is required")
	for i, d := range in.Details {
		c.check(d.Image != nil, detailField(i, "image"), "Event detail image is required")
	}
	return c.err()
}

func checkEvent(c *collector, in api.EventInput) {
	c.check(strings.TrimSpace(in.Title) != "", "title", "Title is required")
	c.check(in.Price >= 0, "price", "Price must be non-negative")
	c.check(len(in.Types) > 0, "type", "At least one type is required")

	if _, err := ParseEventDuration(in.Duration); err != nil {
		c.add("duration", err.Error())
	}
	if in.Date != "" {
		_, err := time.Parse(time.RFC3339, in.Date)
		c.check(err == nil, "date", "Invalid date format")
	}
	c.check(strings.TrimSpace(in.Location) != "", "location", "Location is required")

	c.check(len(in.Schedule) > 0, "schedule", "At least one schedule is required")
	for i, s := range in.Schedule {
		c.check(!s.Date.IsZero(), scheduleField(i, "date"), "Invalid date format")
		c.check(clockPattern.MatchString(s.StartTime), scheduleField(i, "startTime"),
			"Invalid startTime format. Expected HH:mm")
		c.check(clockPattern.MatchString(s.EndTime), scheduleField(i, "endTime"),
			"Invalid endTime format. Expected HH:mm")
	}

	for i, d := range in.Details {
		c.check(len(d.Types) > 0, detailField(i, "types"), "At least one type is required")
	}
}

// ParseEventDuration разбирает длительность вида "30m" или "2h"
func ParseEventDuration(s string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, &Error{Field: "duration", Message: "Duration must look like 30m or 2h"}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, &Error{Field: "duration", Message: "Duration value must be positive"}
	}
	if m[2] == "h" {
		return time.Duration(n) * time.Hour, nil
	}
	return time.Duration(n) * time.Minute, nil
}

func scheduleField(i int, name string) string {
	return "schedule." + strconv.Itoa(i) + "." + name
}

func detailField(i int, name string) string {
	return "eventDetails." + strconv.Itoa(i) + "." + name
}
