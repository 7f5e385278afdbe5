package types

type ScheduleItem struct {
	PlaceID      uint   `json:"placeId"`
	PlaceName    string `json:"placeName"`
	PlaceAddress string `json:"placeAddress"`
	PlaceImage   string `json:"placeImage"`
}

type CourseRequest struct {
	UserID            uint           `json:"user_id"`
	CourseName        string         `json:"course_name"`
	CourseDescription string         `json:"course_description"`
	Hashtags          []string       `json:"hashtags"`
	SelectedDate      string         `json:"selected_date"`
	WithWho           []string       `json:"with_who"`
	Purpose           []string       `json:"purpose"`
	Schedules         []ScheduleItem `json:"schedules"`
}

type ScheduleReplaceRequest struct {
	Schedules []ScheduleItem `json:"schedules"`
}

type CourseFilter struct {
	Place   string
	WithWho []string
	Purpose []string
}
