package types

type ReportRequest struct {
	UserID   uint   `json:"user_id"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

// Resolution closes a report. AdminID and Message together trigger a chat
// notice to the reporter.
type Resolution struct {
	DeleteSubject bool
	AdminID       uint
	Message       string
}

type PlaceReportResolveRequest struct {
	DeletePlace bool   `json:"delete_place"`
	Message     string `json:"message"`
	UserID      uint   `json:"user_id"`
}

type PostReportResolveRequest struct {
	DeletePost bool   `json:"delete_post"`
	Message    string `json:"message"`
	UserID     uint   `json:"user_id"`
}
