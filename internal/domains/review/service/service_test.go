package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"prestige/config"
	kafkaMocks "prestige/infras/kafka/mocks"
	"prestige/infras/otel/mocks"
	bookingMocks "prestige/internal/domains/booking/mocks"
	bookingModel "prestige/internal/domains/booking/model"
	"prestige/internal/domains/review/aggregator"
	reviewMocks "prestige/internal/domains/review/mocks"
	"prestige/internal/domains/review/model"
	"prestige/internal/domains/review/model/dto"
	"prestige/internal/domains/review/service"
	cacheMocks "prestige/shared/cache/mocks"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/failure"
	"prestige/shared/timezone"
)

const (
	userID    = "8f14e45f-ceea-467a-9575-7c5a1b2c3d4e"
	otherUser = "c9f0f895-fb98-4b91-8f1f-2a6c0a3f5b6d"
	vehicleID = "45c48cce-2e2d-4fbd-b0a3-3f8e5f0d7d1a"
	bookingID = "d3d94468-2d2f-4b61-a9e2-77c1d3e0f9a2"
	reviewID  = "6512bd43-d9ca-4b6f-8d7e-0c1f5a3b9e21"
)

type fixture struct {
	repo       *reviewMocks.MockReview
	booking    *bookingMocks.MockBooking
	aggregator *reviewMocks.MockAggregator
	kafka      *kafkaMocks.MockClient
	cache      *cacheMocks.MockRedisCache
	svc        service.Review
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:       reviewMocks.NewMockReview(ctrl),
		booking:    bookingMocks.NewMockBooking(ctrl),
		aggregator: reviewMocks.NewMockAggregator(ctrl),
		kafka:      kafkaMocks.NewMockClient(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.booking, f.aggregator, f.kafka, &config.Config{}, f.cache, mocks.NewOtel())

	return f
}

func userContext(id string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, id)
}

func finishedBooking() bookingModel.Booking {
	return bookingModel.Booking{
		ID:          bookingID,
		UserID:      userID,
		VehicleID:   vehicleID,
		VehicleName: "911 Carrera",
		StartDate:   timezone.Today().AddDate(0, 0, -5),
		EndDate:     timezone.Today().AddDate(0, 0, -1),
		Status:      bookingModel.StatusConfirmed,
	}
}

func storedReview(rating int) model.Review {
	return model.Review{
		ID:          reviewID,
		BookingID:   bookingID,
		UserID:      userID,
		VehicleID:   vehicleID,
		Rating:      rating,
		Comment:     "smooth ride",
		IsPublic:    true,
		IsModerated: true,
	}
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func TestReviewService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateReviewRequest
		setupMock func(f fixture)
		wantCode  int
		wantErr   error
		check     func(t *testing.T, res dto.ReviewResponse)
	}{
		{
			name: "success publishes and recomputes",
			req:  dto.CreateReviewRequest{BookingID: bookingID, Rating: 5, Comment: "great"},
			setupMock: func(f fixture) {
				f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(finishedBooking(), nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.aggregator.EXPECT().Recompute(gomock.Any(), vehicleID).Return(aggregator.Result{}, nil)
				f.kafka.EXPECT().SendMessages(gomock.Any(), "prestige.review.created", gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, res dto.ReviewResponse) {
				assert.True(t, res.IsPublic)
				assert.False(t, res.IsModerated)
				assert.Equal(t, vehicleID, res.VehicleID)
			},
		},
		{
			name: "low rating is hidden",
			req:  dto.CreateReviewRequest{BookingID: bookingID, Rating: 2, IsPublic: boolPtr(true)},
			setupMock: func(f fixture) {
				f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(finishedBooking(), nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.aggregator.EXPECT().Recompute(gomock.Any(), vehicleID).Return(aggregator.Result{}, nil)
				f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, res dto.ReviewResponse) {
				assert.False(t, res.IsPublic)
				assert.False(t, res.IsModerated)
			},
		},
		{
			name: "publish failure does not fail the request",
			req:  dto.CreateReviewRequest{BookingID: bookingID, Rating: 4},
			setupMock: func(f fixture) {
				f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(finishedBooking(), nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.aggregator.EXPECT().Recompute(gomock.Any(), vehicleID).Return(aggregator.Result{}, errors.New("db down"))
				f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
			},
		},
		{
			name: "second review for the same booking",
			req:  dto.CreateReviewRequest{BookingID: bookingID, Rating: 5},
			setupMock: func(f fixture) {
				f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(finishedBooking(), nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
			wantErr:  service.ErrAlreadyReviewed,
		},
		{
			name: "concurrent duplicate caught by the unique index",
			req:  dto.CreateReviewRequest{BookingID: bookingID, Rating: 5},
			setupMock: func(f fixture) {
				f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(finishedBooking(), nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: http.StatusConflict,
			wantErr:  service.ErrAlreadyReviewed,
		},
		{
			name: "booking not finished",
			req:  dto.CreateReviewRequest{BookingID: bookingID, Rating: 5},
			setupMock: func(f fixture) {
				booking := finishedBooking()
				booking.EndDate = timezone.Today().AddDate(0, 0, 1)
				f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusBadRequest,
			wantErr:  service.ErrNotEligible,
		},
		{
			name: "booking not confirmed",
			req:  dto.CreateReviewRequest{BookingID: bookingID, Rating: 5},
			setupMock: func(f fixture) {
				booking := finishedBooking()
				booking.Status = bookingModel.StatusPending
				f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusBadRequest,
			wantErr:  service.ErrNotEligible,
		},
		{
			name: "booking of another user",
			req:  dto.CreateReviewRequest{BookingID: bookingID, Rating: 5},
			setupMock: func(f fixture) {
				booking := finishedBooking()
				booking.UserID = otherUser
				f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "booking not found",
			req:  dto.CreateReviewRequest{BookingID: bookingID, Rating: 5},
			setupMock: func(f fixture) {
				f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "by vehicle picks the unreviewed booking",
			req:  dto.CreateReviewRequest{VehicleID: vehicleID, Rating: 4},
			setupMock: func(f fixture) {
				reviewed := finishedBooking()
				reviewed.ID = "reviewed"
				f.booking.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{reviewed, finishedBooking()}, nil)
				gomock.InOrder(
					f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil),
					f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil),
					f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil),
				)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.aggregator.EXPECT().Recompute(gomock.Any(), vehicleID).Return(aggregator.Result{}, nil)
				f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, res dto.ReviewResponse) {
				assert.Equal(t, bookingID, res.BookingID)
			},
		},
		{
			name: "by vehicle without finished booking",
			req:  dto.CreateReviewRequest{VehicleID: vehicleID, Rating: 4},
			setupMock: func(f fixture) {
				f.booking.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{}, nil)
			},
			wantCode: http.StatusBadRequest,
			wantErr:  service.ErrNotEligible,
		},
		{
			name: "by vehicle with every booking reviewed",
			req:  dto.CreateReviewRequest{VehicleID: vehicleID, Rating: 4},
			setupMock: func(f fixture) {
				f.booking.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{finishedBooking()}, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
			wantErr:  service.ErrAlreadyReviewed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(userContext(userID), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)

			if tt.check != nil {
				tt.check(t, res)
			}

			time.Sleep(10 * time.Millisecond)
		})
	}
}

func TestReviewService_Update(t *testing.T) {
	t.Run("comment change resets moderation", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedReview(5), nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, false, fields[model.FieldIsModerated])
				assert.Equal(t, "changed", fields[model.FieldComment])

				return nil
			})
		f.aggregator.EXPECT().Recompute(gomock.Any(), vehicleID).Return(aggregator.Result{}, nil)

		res, err := f.svc.Update(userContext(userID), dto.UpdateReviewRequest{Comment: strPtr("changed")}, reviewID)

		require.NoError(t, err)
		assert.False(t, res.IsModerated)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("lowering the rating hides it", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedReview(5), nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.aggregator.EXPECT().Recompute(gomock.Any(), vehicleID).Return(aggregator.Result{}, nil)

		res, err := f.svc.Update(userContext(userID), dto.UpdateReviewRequest{Rating: intPtr(1)}, reviewID)

		require.NoError(t, err)
		assert.False(t, res.IsPublic)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("other user", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedReview(5), nil)

		_, err := f.svc.Update(userContext(otherUser), dto.UpdateReviewRequest{Rating: intPtr(4)}, reviewID)

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(userContext(userID), dto.UpdateReviewRequest{}, reviewID)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Review{}, nil)

		_, err := f.svc.Update(userContext(userID), dto.UpdateReviewRequest{Rating: intPtr(4)}, reviewID)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestReviewService_Moderate(t *testing.T) {
	t.Run("publishes a good review", func(t *testing.T) {
		f := newFixture(t)

		review := storedReview(4)
		review.IsModerated = false
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(review, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.aggregator.EXPECT().Recompute(gomock.Any(), vehicleID).Return(aggregator.Result{}, nil)

		res, err := f.svc.Moderate(userContext(userID), dto.ModerateReviewRequest{IsPublic: boolPtr(true), IsModerated: boolPtr(true)}, reviewID)

		require.NoError(t, err)
		assert.True(t, res.IsPublic)
		assert.True(t, res.IsModerated)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("low rating stays hidden", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedReview(1), nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.aggregator.EXPECT().Recompute(gomock.Any(), vehicleID).Return(aggregator.Result{}, nil)

		res, err := f.svc.Moderate(userContext(userID), dto.ModerateReviewRequest{IsPublic: boolPtr(true), IsModerated: boolPtr(true)}, reviewID)

		require.NoError(t, err)
		assert.False(t, res.IsPublic)
		assert.False(t, res.IsModerated)

		time.Sleep(10 * time.Millisecond)
	})
}

func TestReviewService_Delete(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedReview(5), nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	f.aggregator.EXPECT().Recompute(gomock.Any(), vehicleID).Return(aggregator.Result{}, nil)

	require.NoError(t, f.svc.Delete(userContext(userID), reviewID))

	time.Sleep(10 * time.Millisecond)
}

func TestReviewService_Eligibility(t *testing.T) {
	tests := []struct {
		name      string
		bookings  []bookingModel.Booking
		reviewed  []bool
		canReview bool
		hasReview bool
		state     string
	}{
		{name: "no booking", state: "not_eligible"},
		{name: "eligible", bookings: []bookingModel.Booking{finishedBooking()}, reviewed: []bool{false}, canReview: true, state: "eligible"},
		{name: "reviewed", bookings: []bookingModel.Booking{finishedBooking()}, reviewed: []bool{true}, hasReview: true, state: "reviewed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.booking.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.bookings, nil)
			for _, reviewed := range tt.reviewed {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(reviewed, nil)
			}

			res, err := f.svc.Eligibility(userContext(userID), vehicleID)

			require.NoError(t, err)
			assert.Equal(t, len(tt.bookings) > 0, res.HasBooking)
			assert.Equal(t, tt.canReview, res.CanReview)
			assert.Equal(t, tt.hasReview, res.HasReview)
			assert.Equal(t, tt.state, res.State)
		})
	}
}

func TestReviewService_GetPublic(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Review, error) {
			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "reviews.is_public")
			assert.Contains(t, where, "reviews.is_moderated")
			assert.Equal(t, vehicleID, args["vehicle_id"])

			return []model.Review{storedReview(5)}, nil
		})

	res, err := f.svc.GetPublic(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, vehicleID)

	require.NoError(t, err)
	assert.Len(t, res.Reviews, 1)
	assert.Equal(t, 1, res.TotalPage)

	time.Sleep(10 * time.Millisecond)
}

func TestReviewService_GetLatest(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetLatestPerVehicle(gomock.Any(), service.DefaultLatestLimit).Return([]model.Review{storedReview(5)}, nil)

	res, err := f.svc.GetLatest(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, res, 1)

	time.Sleep(10 * time.Millisecond)
}
