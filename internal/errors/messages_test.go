package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/cristianoliveira/appwish/internal/catalog"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid url", fmt.Errorf("%w: bad", domain.ErrInvalidURL), "That doesn't look like an App Store link"},
		{"already exists", domain.ErrAlreadyExists, "already on your wishlist"},
		{"update in progress", domain.ErrUpdateInProgress, "already running"},
		{"permission", domain.ErrPermissionDenied, "Notifications are not allowed"},
		{"catalog not found", fmt.Errorf("catalog lookup 1: %w", catalog.ErrNotFound), "no app with that id"},
		{"wishlist not found", domain.ErrNotFound, "not on your wishlist"},
		{"rate limited", catalog.ErrRateLimited, "limiting requests"},
		{"bad request", catalog.ErrBadRequest, "rejected the request"},
		{"decoding", catalog.ErrInvalidResponse, "could not be read"},
		{"server error", &catalog.StatusError{Code: 502}, "having problems (HTTP 502)"},
		{"unexpected", &catalog.StatusError{Code: 418}, "unexpected status (HTTP 418)"},
		{"timeout", &catalog.NetworkError{Op: "lookup", Err: context.DeadlineExceeded}, "timed out"},
		{"network", &catalog.NetworkError{Op: "lookup", Err: stderrors.New("dial tcp")}, "Could not reach the App Store"},
		{"invalid input", fmt.Errorf("%w: threshold 7", domain.ErrInvalidInput), "Invalid input: threshold 7"},
		{"unknown", stderrors.New("disk full"), "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Message(tt.err), tt.want)
		})
	}
}

func TestIsWarning(t *testing.T) {
	assert.True(t, IsWarning(domain.ErrAlreadyExists))
	assert.True(t, IsWarning(fmt.Errorf("refresh: %w", domain.ErrUpdateInProgress)))
	assert.False(t, IsWarning(domain.ErrNotFound))
}
