package model

import (
	"prestige/shared/model"
	"prestige/shared/timezone"
	"time"
)

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID          = "id"
	FieldBookingID   = "booking_id"
	FieldRating      = "rating"
	FieldComment     = "comment"
	FieldIsPublic    = "is_public"
	FieldIsModerated = "is_moderated"
)

const (
	CacheKeyGetAll = "review:gets"
	CacheKeyLatest = "review:latest"
)

// LowRatingThreshold is the highest rating that is hidden until an administrator looks at it.
const LowRatingThreshold = 2

type Review struct {
	ID           string  `db:"id"`
	BookingID    string  `db:"booking_id"`
	Rating       int     `db:"rating"`
	Comment      string  `db:"comment"`
	IsPublic     bool    `db:"is_public"`
	IsModerated  bool    `db:"is_moderated"`
	UserID       string  `db:"user_id"       table:"bookings" column:"user_id"`
	VehicleID    string  `db:"vehicle_id"    table:"bookings" column:"vehicle_id"`
	VehicleName  string  `db:"vehicle_name"  table:"vehicles" column:"name"`
	ReviewerName *string `db:"reviewer_name" table:"users"    column:"full_name"`
	model.Metadata
}

func (Review) GetJoinQuery() string {
	return "INNER JOIN bookings ON bookings.id = reviews.booking_id " +
		"INNER JOIN vehicles ON vehicles.id = bookings.vehicle_id " +
		"INNER JOIN users ON users.id = bookings.user_id"
}

// ApplyVisibilityRules forces low ratings out of public view and back into moderation.
// It runs on every write, so a moderator cannot publish a low rating either.
func (r *Review) ApplyVisibilityRules() {
	if r.Rating <= LowRatingThreshold {
		r.IsPublic = false
		r.IsModerated = false
	}
}

// Edit applies an owner change. A new rating or comment resets moderation.
func (r *Review) Edit(rating *int, comment *string, isPublic *bool) {
	if rating != nil && *rating != r.Rating {
		r.Rating = *rating
		r.IsModerated = false
	}

	if comment != nil && *comment != r.Comment {
		r.Comment = *comment
		r.IsModerated = false
	}

	if isPublic != nil {
		r.IsPublic = *isPublic
	}

	r.ApplyVisibilityRules()
}

// Qualifies reports whether the review counts towards ratings and public listings.
func (r *Review) Qualifies() bool {
	return r.IsPublic && r.IsModerated
}

type Eligibility int

const (
	NotEligible Eligibility = iota
	Eligible
	Reviewed
)

func (e Eligibility) String() string {
	switch e {
	case Eligible:
		return "eligible"
	case Reviewed:
		return "reviewed"
	default:
		return "not_eligible"
	}
}

// EligibilityOf places a booking in the review lifecycle. Only confirmed bookings whose last
// day is today or earlier may be reviewed, once.
func EligibilityOf(confirmed bool, endDate, today time.Time, hasReview bool) Eligibility {
	if hasReview {
		return Reviewed
	}

	if confirmed && !timezone.DateOf(endDate).After(timezone.DateOf(today)) {
		return Eligible
	}

	return NotEligible
}

// Orderings maps the public ordering keys to columns.
var Orderings = map[string]string{
	"rating":     TableName + "." + FieldRating,
	"created_at": TableName + ".created_at",
}

const DefaultOrdering = "-created_at"
