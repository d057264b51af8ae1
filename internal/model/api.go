package model

// Response bodies shared by the API handlers and the API client.

type DeleteLessonResponse struct {
	Message             string `json:"message"`
	DeletedResultsCount int64  `json:"deletedResultsCount"`
}

type ToggleBookmarkResponse struct {
	Action string `json:"action"`
}
