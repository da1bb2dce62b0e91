package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/mock/gomock"

	"guestroom/infras/otel/mocks"
	logMocks "guestroom/internal/domains/auditlog/mocks"
	"guestroom/internal/domains/auditlog/model"
	"guestroom/internal/domains/auditlog/model/dto"
	"guestroom/internal/domains/auditlog/service"
	"guestroom/shared/constant"
	gDto "guestroom/shared/dto"
)

func TestAuditlogService_Record(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		wantActor string
		repoErr   error
	}{
		{
			name:      "actor taken from the caller",
			ctx:       context.WithValue(context.Background(), constant.ContextKeyUserEmail, "admin@example.edu"),
			wantActor: "admin@example.edu",
		},
		{
			name:      "anonymous caller is the system",
			ctx:       context.Background(),
			wantActor: constant.ContextSystem,
		},
		{
			name:      "insert failure is swallowed",
			ctx:       context.Background(),
			wantActor: constant.ContextSystem,
			repoErr:   errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := logMocks.NewMockLog(ctrl)
			svc := service.New(mockRepo, mocks.NewOtel())

			mockRepo.EXPECT().
				Insert(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, entry model.Log) error {
					assert.NotEmpty(t, entry.ID)
					assert.False(t, entry.CreatedAt.IsZero())
					assert.Equal(t, tt.wantActor, entry.Actor)
					assert.Equal(t, model.ActionCancel, entry.Action)

					return tt.repoErr
				})

			svc.Record(tt.ctx, model.Log{
				Action:   model.ActionCancel,
				Entity:   model.EntityBooking,
				EntityID: "b-1",
				Hostel:   "Aravali",
				Details:  "guest withdrew",
			})
		})
	}
}

func TestAuditlogService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := logMocks.NewMockLog(ctrl)
	svc := service.New(mockRepo, mocks.NewOtel())

	tests := []struct {
		name      string
		params    gDto.QueryParams
		setupMock func()
		wantTotal int
		wantErr   bool
	}{
		{
			name:   "unknown sort field falls back to created_at",
			params: gDto.QueryParams{Page: 1, Limit: 10, SortBy: "details"},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: "DESC"}, gomock.Any()).
					Return([]model.Log{{ID: "l-1", Action: model.ActionCreate}}, nil)
				mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(11, nil)
			},
			wantTotal: 11,
		},
		{
			name:   "repository error",
			params: gDto.QueryParams{Page: 1, Limit: 10},
			setupMock: func() {
				mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.List(context.Background(), tt.params, dto.LogFilter{Entity: model.EntityBooking})
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.TotalData)
			assert.Equal(t, 2, res.TotalPage)
			assert.Len(t, res.Logs, 1)
		})
	}
}

func TestAuditlogService_ListFailureMarksSpan(t *testing.T) {
	ctrl := gomock.NewController(t)

	tracer, spans := mocks.NewRecorder()
	mockRepo := logMocks.NewMockLog(ctrl)
	svc := service.New(mockRepo, tracer)

	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))

	_, err := svc.List(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.LogFilter{})
	require.Error(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.NotEmpty(t, ended[0].Events())
}
