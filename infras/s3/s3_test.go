package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromURL(t *testing.T) {
	svc := &s3Impl{
		bucket:       "guestroom",
		publicDomain: "https://files.example.edu",
		apiEndpoint:  "https://storage.example.com",
	}

	assert.Equal(t, "https://files.example.edu/enquiries/a.pdf", svc.url("enquiries/a.pdf"))
	assert.Equal(t, "enquiries/a.pdf", svc.KeyFromURL("https://files.example.edu/enquiries/a.pdf"))
	assert.Equal(t, "bookings/b.png", svc.KeyFromURL("https://storage.example.com/guestroom/bookings/b.png"))
	assert.Empty(t, svc.KeyFromURL("https://elsewhere.example.org/a.pdf"))

	svc.publicDomain = ""

	assert.Equal(t, "https://storage.example.com/guestroom/enquiries/a.pdf", svc.url("enquiries/a.pdf"))
	assert.Equal(t, "enquiries/a.pdf", svc.KeyFromURL(svc.url("enquiries/a.pdf")))
}
