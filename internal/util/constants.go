package util

const (
	// ActivityPageSize is how many entries the recent-activity feed returns.
	ActivityPageSize = 10

	// DefaultLessonTitle stands in for a result submitted without a lesson title.
	DefaultLessonTitle = "a lesson"

	RegisteredActivityText = "New Member Joined"
	LoginActivityText      = "Accessing App"
)
