package attachment_test

import (
	"context"
	"errors"
	"guestroom/infras/s3/mocks"
	"guestroom/shared/attachment"
	"guestroom/shared/failure"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	pdf  = "data:application/pdf;base64,JVBERi0xLjQK"
	text = "data:text/plain;base64,aGVsbG8="
)

func TestStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockS3(ctrl)

	var key string

	store.EXPECT().Upload(gomock.Any(), gomock.Any(), "application/pdf", []byte("%PDF-1.4\n")).
		DoAndReturn(func(_ context.Context, k, _ string, _ []byte) (string, error) {
			key = k

			return "https://files.example.edu/" + k, nil
		})

	urls, err := attachment.Store(context.Background(), store, "bookings", []string{"https://files.example.edu/old.pdf", pdf}, 5)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "bookings/"))
	assert.Equal(t, []string{"https://files.example.edu/old.pdf", "https://files.example.edu/" + key}, urls)
}

func TestStore_RollsBackOnFailure(t *testing.T) {
	t.Run("invalid type", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockS3(ctrl)

		var stored string

		store.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, k, _ string, _ []byte) (string, error) {
				stored = k

				return "https://files.example.edu/" + k, nil
			})
		store.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, k string) error {
			assert.Equal(t, stored, k)

			return nil
		})

		_, err := attachment.Store(context.Background(), store, "enquiries", []string{pdf, text}, 5)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.ErrorContains(t, err, "file 2")
	})

	t.Run("upload error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockS3(ctrl)

		store.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("bucket unavailable"))

		_, err := attachment.Store(context.Background(), store, "enquiries", []string{pdf}, 5)

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestRemoveURLs(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockS3(ctrl)

	store.EXPECT().KeyFromURL("https://files.example.edu/bookings/a.pdf").Return("bookings/a.pdf")
	store.EXPECT().KeyFromURL("https://elsewhere.example.org/b.pdf").Return("")
	store.EXPECT().Delete(gomock.Any(), "bookings/a.pdf").Return(errors.New("already gone"))

	attachment.RemoveURLs(context.Background(), store, []string{
		"https://files.example.edu/bookings/a.pdf",
		"https://elsewhere.example.org/b.pdf",
	})
}

func TestUploaded(t *testing.T) {
	input := []string{"https://files.example.edu/old.pdf", pdf}
	stored := []string{"https://files.example.edu/old.pdf", "https://files.example.edu/bookings/new.pdf"}

	assert.Equal(t, []string{"https://files.example.edu/bookings/new.pdf"}, attachment.Uploaded(input, stored))
}
