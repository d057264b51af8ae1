package util

import (
	"errors"
	"fmt"
	"net/http"
	"nihongo_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: Validationf("title is required"), want: http.StatusBadRequest},
		{name: "invalid record", err: fmt.Errorf("wrap: %w", model.ErrInvalidRecord), want: http.StatusBadRequest},
		{name: "not found", err: NotFoundf("lesson %s", "x"), want: http.StatusNotFound},
		{name: "forbidden", err: fmt.Errorf("%w: admin only", ErrForbidden), want: http.StatusForbidden},
		{name: "store failure", err: errors.New("connection refused"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFromError(tc.err))
		})
	}
}

func TestMessage_StripsSentinel(t *testing.T) {
	assert.Equal(t, "Lesson not found", Message(NotFoundf("Lesson not found")))
	assert.Equal(t, "title is required", Message(fmt.Errorf("%w: title is required", model.ErrInvalidRecord)))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}

func TestSessionToken_RoundTrip(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	user := &model.User{ID: "u-1", Username: "hana", Role: model.Teacher}

	token, err := GenerateSessionToken(user, secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "hana", claims.Username)
	assert.Equal(t, model.Teacher, claims.Role)

	_, err = ParseSessionToken(token, "another-secret-another-secret-xx")
	assert.Error(t, err)
}

func TestSessionToken_Expired(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	token, err := GenerateSessionToken(&model.User{Username: "ken", Role: model.Student}, secret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, secret)
	assert.Error(t, err)
}
