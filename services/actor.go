package services

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID  uint
	IsAdmin bool
}

func (a Actor) owns(userID uint) bool {
	return a.IsAdmin || (a.UserID != 0 && a.UserID == userID)
}
