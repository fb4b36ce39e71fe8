package dto

import (
	"mime/multipart"
	"path/filepath"
	"prestige/internal/domains/vehicleimage/model"
	gDto "prestige/shared/dto"
	gModel "prestige/shared/model"
	"strings"

	"github.com/google/uuid"
)

type UploadImageRequest struct {
	Image       *multipart.FileHeader `json:"image"       swaggerignore:"true" validate:"required,mimetypes=image/png image/jpeg image/jpg image/gif,maxfilesize"`
	ImageFile   multipart.File        `json:"-"`
	Title       string                `json:"title"       validate:"omitempty,max=200"`
	Description string                `json:"description" validate:"omitempty"`
	IsMain      bool                  `json:"is_main"`
	IsActive    *bool                 `json:"is_active"`
	SortOrder   int                   `json:"sort_order"  validate:"min=0"`
}

// ObjectName is the unique storage name of the upload, keeping the original extension.
func (u *UploadImageRequest) ObjectName(id string) string {
	return id + strings.ToLower(filepath.Ext(u.Image.Filename))
}

// ToModel defaults the title to the file name without extension.
func (u *UploadImageRequest) ToModel(vehicleID, url, user string) model.VehicleImage {
	title := u.Title
	if title == "" {
		title = strings.TrimSuffix(u.Image.Filename, filepath.Ext(u.Image.Filename))
	}

	active := true
	if u.IsActive != nil {
		active = *u.IsActive
	}

	return model.VehicleImage{
		ID:          uuid.NewString(),
		VehicleID:   vehicleID,
		ImageURL:    url,
		Title:       title,
		Description: u.Description,
		IsMain:      u.IsMain,
		IsActive:    active,
		SortOrder:   u.SortOrder,
		Metadata:    gModel.NewMetadata(user),
	}
}

type UpdateImageRequest struct {
	Title       *string `db:"title"       json:"title"       validate:"omitempty,max=200"`
	Description *string `db:"description" json:"description"`
	IsMain      *bool   `db:"is_main"     json:"is_main"`
	IsActive    *bool   `db:"is_active"   json:"is_active"`
	SortOrder   *int    `db:"sort_order"  json:"sort_order"  validate:"omitempty,min=0"`
}

func (u *UpdateImageRequest) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.IsMain == nil && u.IsActive == nil && u.SortOrder == nil
}

type ReorderImagesRequest struct {
	ImageIDs []string `json:"image_ids" validate:"required,min=1,dive,uuid"`
}

type ReorderImagesResponse struct {
	Updated int `json:"updated"`
}

type ImageResponse struct {
	ID          string `json:"id"`
	VehicleID   string `json:"vehicle_id"`
	ImageURL    string `json:"image_url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsMain      bool   `json:"is_main"`
	IsActive    bool   `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
	gDto.Metadata
}

func (r *ImageResponse) FromModel(model model.VehicleImage) {
	r.ID = model.ID
	r.VehicleID = model.VehicleID
	r.ImageURL = model.ImageURL
	r.Title = model.Title
	r.Description = model.Description
	r.IsMain = model.IsMain
	r.IsActive = model.IsActive
	r.SortOrder = model.SortOrder
	r.Metadata.FromModel(model.Metadata)
}

type GetImagesResponse struct {
	VehicleID string          `json:"vehicle_id"`
	Images    []ImageResponse `json:"images"`
}

func (r *GetImagesResponse) FromModels(vehicleID string, models []model.VehicleImage) {
	r.VehicleID = vehicleID

	r.Images = make([]ImageResponse, len(models))
	for i, m := range models {
		r.Images[i].FromModel(m)
	}
}
