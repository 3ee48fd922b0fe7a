package server

import (
	"errors"
	"net/http"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "story ID", humanizeParam("storyId"))
	assert.Equal(t, "library story ID", humanizeParam("libraryStoryId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.NewNotFoundError("Story", 1), http.StatusNotFound},
		{models.NewAlreadyExistsError("dup"), http.StatusConflict},
		{models.NewInvalidOperationError("self"), http.StatusBadRequest},
		{models.NewValidationError("bad"), http.StatusBadRequest},
		{models.NewForbiddenError("no"), http.StatusForbidden},
		{models.NewUnauthorizedError("who"), http.StatusUnauthorized},
		{models.NewInternalError(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "%v", tt.err)
	}
}
