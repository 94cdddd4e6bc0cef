package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// AuthStatus is the resolved authentication phase for a session.
type AuthStatus string

const (
	StatusUnauthenticated      AuthStatus = "unauthenticated"
	StatusFirstTimeUser        AuthStatus = "first_time_user"
	StatusProfileSetupRequired AuthStatus = "profile_setup_required"
	StatusAuthenticated        AuthStatus = "authenticated"
)

// Bid statuses. Mutated only by the assignment owner.
const (
	BidPending  = "pending"
	BidAccepted = "accepted"
	BidRejected = "rejected"
)

type User struct {
	ID                   string `json:"id" db:"id"`
	Name                 string `json:"name" db:"name"`
	Email                string `json:"email" db:"email" validate:"required,email"`
	PasswordHash         string `json:"-" db:"password_hash"`
	EmailVerified        bool   `json:"email_verified" db:"email_verified"`
	OnboardingComplete   bool   `json:"onboarding_complete" db:"onboarding_complete"`
	ProfileSetupComplete bool   `json:"profile_setup_complete" db:"profile_setup_complete"`
	RememberMe           bool   `json:"remember_me" db:"remember_me"`
	VerifyToken          string `json:"-" db:"verify_token"`
	ResetToken           string `json:"-" db:"reset_token"`
	Updated              int64  `json:"updated" db:"updated"`
}

type Profile struct {
	UserID          string   `json:"user_id" db:"user_id"`
	Bio             string   `json:"bio,omitempty" db:"bio"`
	CollegeName     string   `json:"college_name,omitempty" db:"college_name"`
	Semester        string   `json:"semester,omitempty" db:"semester"`
	CollegeLocation string   `json:"college_location,omitempty" db:"college_location"`
	Skills          []string `json:"skills,omitempty" db:"skills"`
	ProfilePhotoID  int      `json:"profile_photo_id" db:"profile_photo_id"`
	Updated         int64    `json:"updated" db:"updated"`
}

// Assignment is a posted task owned by its creator. Deadline is stored as the
// client sent it (locale-formatted string, no canonical form enforced).
type Assignment struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Subject     string `json:"subject" db:"subject"`
	Deadline    string `json:"deadline" db:"deadline"`
	Budget      int    `json:"budget" db:"budget"`
	CreatedBy   string `json:"createdBy" db:"created_by"`
	Created     int64  `json:"timestamp" db:"created"`
}

// Bid is an offer by a non-owner to complete an assignment. BidderName is a
// denormalized snapshot taken at submission time.
type Bid struct {
	ID             string `json:"id" db:"id"`
	AssignmentID   string `json:"assignmentId" db:"assignment_id"`
	BidderID       string `json:"bidderId" db:"bidder_id"`
	BidderName     string `json:"bidderName" db:"bidder_name"`
	BidAmount      int    `json:"bidAmount" db:"bid_amount"`
	Status         string `json:"status" db:"status"`
	CompletionDate string `json:"enterCompletionDate" db:"completion_date"`
	Created        int64  `json:"timestamp" db:"created"`
}

// Schema is a stored JSON schema used to validate documents at the
// persistence-adapter boundary.
type Schema struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	SchemaJSON  string `json:"schema_json" db:"schema_json"`
	Created     int64  `json:"created" db:"created"`
	Updated     int64  `json:"updated" db:"updated"`
}
