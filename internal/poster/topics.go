package poster

import "time"

// Weekday is resolved in UTC. The cron fires at 12:30-13:30 UTC, well away
// from any ET day boundary, so the UTC day and the ET day always agree at
// trigger time.
var topicsByWeekday = map[time.Weekday]string{
	time.Monday:    "NFL",
	time.Tuesday:   "NBA",
	time.Wednesday: "NHL",
	time.Thursday:  "Golf",
	time.Friday:    "NCAAF",
	time.Saturday:  "NCAAB",
	time.Sunday:    "wildcard (any sport)",
}

// TopicForDay maps t's UTC weekday to the day's fixed topic.
func TopicForDay(t time.Time) string {
	return topicsByWeekday[t.UTC().Weekday()]
}
