// Package errors maps domain and transport failures to the messages shown
// to users and prints them through the console handler.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/cristianoliveira/appwish/internal/catalog"
	"github.com/cristianoliveira/appwish/internal/domain"
)

// Message returns the human-readable text for err. Callers display it
// verbatim. Unknown errors fall back to err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var status *catalog.StatusError
	var network *catalog.NetworkError
	switch {
	case stderrors.Is(err, domain.ErrInvalidURL):
		return "That doesn't look like an App Store link. Paste a link like https://apps.apple.com/app/id123456789 or the numeric app id."
	case stderrors.Is(err, domain.ErrAlreadyExists):
		return "This app is already on your wishlist."
	case stderrors.Is(err, domain.ErrUpdateInProgress):
		return "A price update is already running. Try again when it finishes."
	case stderrors.Is(err, domain.ErrPermissionDenied):
		return "Notifications are not allowed. Enable them to get price drop alerts."
	case stderrors.Is(err, catalog.ErrNotFound):
		return "The App Store has no app with that id in your region."
	case stderrors.Is(err, domain.ErrNotFound):
		return "That app is not on your wishlist."
	case stderrors.Is(err, catalog.ErrRateLimited):
		return "The App Store is limiting requests right now. Wait a few minutes and try again."
	case stderrors.Is(err, catalog.ErrBadRequest):
		return "The App Store rejected the request."
	case stderrors.Is(err, catalog.ErrInvalidResponse):
		return "The App Store sent a response that could not be read."
	case stderrors.As(err, &status) && status.IsServerError():
		return fmt.Sprintf("The App Store is having problems (HTTP %d). Try again later.", status.Code)
	case stderrors.As(err, &status):
		return fmt.Sprintf("The App Store answered with an unexpected status (HTTP %d).", status.Code)
	case stderrors.Is(err, context.DeadlineExceeded):
		return "The request timed out. Check your connection and try again."
	case stderrors.As(err, &network):
		return "Could not reach the App Store. Check your internet connection and try again."
	case stderrors.Is(err, domain.ErrInvalidInput):
		msg := err.Error()
		if i := strings.LastIndex(msg, domain.ErrInvalidInput.Error()+": "); i >= 0 {
			msg = msg[i+len(domain.ErrInvalidInput.Error())+2:]
		}
		return "Invalid input: " + msg
	}
	return err.Error()
}

// IsWarning reports errors that describe a state rather than a failure.
func IsWarning(err error) bool {
	return stderrors.Is(err, domain.ErrAlreadyExists) || stderrors.Is(err, domain.ErrUpdateInProgress)
}
