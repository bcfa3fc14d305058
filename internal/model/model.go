package model

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string    `json:"token"`
	User  Principal `json:"user"`
}

// Principal is the authenticated account plus its derived role.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// MenuUpdateRequest carries a partial menu; nil fields are left
// untouched by the merge-write.
type MenuUpdateRequest struct {
	Breakfast *string `json:"breakfast"`
	Lunch     *string `json:"lunch"`
	Dinner    *string `json:"dinner"`
}

type AnnouncementCreateRequest struct {
	Title    string `json:"title" binding:"required"`
	Message  string `json:"message" binding:"required"`
	Priority string `json:"priority"`
}

type AnnouncementToggleRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
	Type     string `json:"type"`
}

type ComplaintRequest struct {
	Complaint string `json:"complaint" binding:"required"`
	Category  string `json:"category"`
}

type ComplaintStatusRequest struct {
	Status   string `json:"status" binding:"required,oneof=pending reviewing resolved"`
	Response string `json:"response"`
}

type MealSelectionRequest struct {
	Date       string     `json:"date" binding:"required"`
	Selections Selections `json:"selections"`
}

// UserFeedback is the student's own submissions across both
// collections.
type UserFeedback struct {
	Feedback   []Feedback  `json:"feedback"`
	Complaints []Complaint `json:"complaints"`
}
