package model

// Collection names in the document store.
const (
	CollUsers          = "users"
	CollMess           = "mess"
	CollAnnouncements  = "announcements"
	CollFeedback       = "feedback"
	CollComplaints     = "complaints"
	CollMealSelections = "meal_selections"
)

// DailyMenuID keys the singleton menu document inside the mess
// collection.
const DailyMenuID = "daily_menu"

// Roles derived from the account email.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Announcement priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Feedback/complaint statuses.
const (
	StatusPending   = "pending"
	StatusReviewing = "reviewing"
	StatusResolved  = "resolved"
)

// Complaint categories.
const (
	CategoryGeneral     = "general"
	CategoryFoodQuality = "food_quality"
	CategoryService     = "service"
	CategoryTiming      = "timing"
	CategoryHygiene     = "hygiene"
)

// Timestamps are stored as fixed-width ISO 8601 strings, so createdAt
// ordering is plain string ordering in both store backends.

type User struct {
	ID        string `bson:"-" json:"id"`
	Email     string `bson:"email" json:"email"`
	Password  string `bson:"password" json:"-"`
	CreatedAt string `bson:"createdAt" json:"createdAt"`
}

// Menu is the singleton daily menu; no history is kept and updates
// merge field by field.
type Menu struct {
	Breakfast string `bson:"breakfast" json:"breakfast"`
	Lunch     string `bson:"lunch" json:"lunch"`
	Dinner    string `bson:"dinner" json:"dinner"`
}

type Announcement struct {
	ID        string `bson:"-" json:"id"`
	Title     string `bson:"title" json:"title"`
	Message   string `bson:"message" json:"message"`
	Priority  string `bson:"priority" json:"priority"`
	IsActive  bool   `bson:"isActive" json:"isActive"`
	CreatedAt string `bson:"createdAt" json:"createdAt"`
	CreatedBy string `bson:"createdBy" json:"createdBy"`
	UpdatedAt string `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type Feedback struct {
	ID        string `bson:"-" json:"id"`
	UserID    string `bson:"userId" json:"userId"`
	UserEmail string `bson:"userEmail" json:"userEmail"`
	Feedback  string `bson:"feedback" json:"feedback"`
	Type      string `bson:"type" json:"type"`
	Status    string `bson:"status" json:"status"`
	CreatedAt string `bson:"createdAt" json:"createdAt"`
}

type Complaint struct {
	ID            string `bson:"-" json:"id"`
	UserID        string `bson:"userId" json:"userId"`
	UserEmail     string `bson:"userEmail" json:"userEmail"`
	Complaint     string `bson:"complaint" json:"complaint"`
	Category      string `bson:"category" json:"category"`
	Status        string `bson:"status" json:"status"`
	CreatedAt     string `bson:"createdAt" json:"createdAt"`
	ResolvedAt    string `bson:"resolvedAt" json:"resolvedAt"`
	AdminResponse string `bson:"adminResponse" json:"adminResponse"`
	UpdatedAt     string `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type Selections struct {
	Breakfast bool `bson:"breakfast" json:"breakfast"`
	Lunch     bool `bson:"lunch" json:"lunch"`
	Dinner    bool `bson:"dinner" json:"dinner"`
}

// MealSelection is keyed userId_YYYY-MM-DD: one record per user per
// calendar day, merged into on resubmission.
type MealSelection struct {
	UserID     string     `bson:"userId" json:"userId"`
	Date       string     `bson:"date" json:"date"`
	Selections Selections `bson:"selections" json:"selections"`
	CreatedAt  string     `bson:"createdAt" json:"createdAt"`
	UpdatedAt  string     `bson:"updatedAt" json:"updatedAt"`
}

// MealStats aggregates one day's selections. Total counts distinct
// submitting users, not meals.
type MealStats struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
	Total     int `json:"total"`
}
