package dto

import (
	"prestige/internal/domains/review/model"
	"prestige/shared"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	gModel "prestige/shared/model"
	"prestige/shared/timezone"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	BookingID string `json:"booking_id" validate:"required_without=VehicleID,omitempty,uuid"`
	VehicleID string `json:"vehicle_id" validate:"required_without=BookingID,omitempty,uuid"`
	Rating    int    `json:"rating"     validate:"required,min=1,max=5"`
	Comment   string `json:"comment"    validate:"omitempty,max=2000"`
	IsPublic  *bool  `json:"is_public"  validate:"omitempty"`
}

// ToModel builds a pending review. New reviews wait for moderation and low ratings are hidden.
func (c *CreateReviewRequest) ToModel(bookingID, user string) model.Review {
	public := true
	if c.IsPublic != nil {
		public = *c.IsPublic
	}

	review := model.Review{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		Rating:    c.Rating,
		Comment:   c.Comment,
		IsPublic:  public,
		Metadata:  gModel.NewMetadata(user),
	}
	review.ApplyVisibilityRules()

	return review
}

type UpdateReviewRequest struct {
	Rating   *int    `json:"rating"    validate:"omitempty,min=1,max=5"`
	Comment  *string `json:"comment"   validate:"omitempty,max=2000"`
	IsPublic *bool   `json:"is_public" validate:"omitempty"`
}

func (u *UpdateReviewRequest) IsEmpty() bool {
	return u.Rating == nil && u.Comment == nil && u.IsPublic == nil
}

type ModerateReviewRequest struct {
	IsPublic    *bool `json:"is_public"    validate:"required"`
	IsModerated *bool `json:"is_moderated" validate:"required"`
}

type ReviewResponse struct {
	ID           string  `json:"id"`
	BookingID    string  `json:"booking_id"`
	VehicleID    string  `json:"vehicle_id"`
	VehicleName  string  `json:"vehicle_name"`
	ReviewerName *string `json:"reviewer_name"`
	Rating       int     `json:"rating"`
	Comment      string  `json:"comment"`
	IsPublic     bool    `json:"is_public"`
	IsModerated  bool    `json:"is_moderated"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(model model.Review) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.VehicleID = model.VehicleID
	r.VehicleName = model.VehicleName
	r.ReviewerName = model.ReviewerName
	r.Rating = model.Rating
	r.Comment = model.Comment
	r.IsPublic = model.IsPublic
	r.IsModerated = model.IsModerated
	r.Metadata.FromModel(model.Metadata)
}

type GetReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reviews = FromModels(models)
}

func FromModels(models []model.Review) []ReviewResponse {
	res := make([]ReviewResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

type EligibilityResponse struct {
	CanReview  bool   `json:"can_review"`
	HasBooking bool   `json:"has_booking"`
	HasReview  bool   `json:"has_review"`
	BookingID  string `json:"booking_id,omitempty"`
	State      string `json:"state"`
}

// ReviewCreatedEvent is published after a review is stored.
type ReviewCreatedEvent struct {
	ReviewID    string `json:"review_id"`
	BookingID   string `json:"booking_id"`
	VehicleID   string `json:"vehicle_id"`
	VehicleName string `json:"vehicle_name"`
	UserID      string `json:"user_id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	IsPublic    bool   `json:"is_public"`
	CreatedAt   string `json:"created_at"`
}

func (e *ReviewCreatedEvent) FromModel(model model.Review) {
	e.ReviewID = model.ID
	e.BookingID = model.BookingID
	e.VehicleID = model.VehicleID
	e.VehicleName = model.VehicleName
	e.UserID = model.UserID
	e.Rating = model.Rating
	e.Comment = model.Comment
	e.IsPublic = model.IsPublic
	e.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}
