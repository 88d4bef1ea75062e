package guilddiscord

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "sentinel", err: fmt.Errorf("wrapped: %w", ErrMemberNotFound), want: true},
		{
			name: "unknown member code",
			err: &discordgo.RESTError{
				Response: &http.Response{StatusCode: http.StatusNotFound},
				Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember},
			},
			want: true,
		},
		{
			name: "unknown user code",
			err: &discordgo.RESTError{
				Response: &http.Response{StatusCode: http.StatusNotFound},
				Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownUser},
			},
			want: true,
		},
		{
			name: "unknown role is not a missing member",
			err: &discordgo.RESTError{
				Response: &http.Response{StatusCode: http.StatusNotFound},
				Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownRole},
			},
			want: false,
		},
		{
			name: "bare 404",
			err:  &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}},
			want: false,
		},
		{
			name: "403 missing permissions",
			err: &discordgo.RESTError{
				Response: &http.Response{StatusCode: http.StatusForbidden},
				Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUnknownRole(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "sentinel", err: fmt.Errorf("%w: 42", ErrRoleNotFound), want: true},
		{
			name: "unknown role code",
			err: &discordgo.RESTError{
				Response: &http.Response{StatusCode: http.StatusNotFound},
				Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownRole},
			},
			want: true,
		},
		{
			name: "unknown member code",
			err: &discordgo.RESTError{
				Response: &http.Response{StatusCode: http.StatusNotFound},
				Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUnknownRole(tt.err); got != tt.want {
				t.Errorf("IsUnknownRole() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cb := newBreaker(BreakerSettings{FailureThreshold: 2, OpenTimeout: time.Minute, Interval: time.Minute}, logger)

	failing := func() (int, error) { return 0, errors.New("503") }
	for range 2 {
		if _, err := execute(cb, failing); err == nil {
			t.Fatal("expected failure")
		}
	}

	_, err := execute(cb, func() (int, error) { return 1, nil })
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable once open, got %v", err)
	}
}

func TestBreaker_NotFoundDoesNotTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cb := newBreaker(BreakerSettings{FailureThreshold: 1, OpenTimeout: time.Minute, Interval: time.Minute}, logger)

	notFound := func() (int, error) { return 0, ErrMemberNotFound }
	for range 3 {
		if _, err := execute(cb, notFound); !errors.Is(err, ErrMemberNotFound) {
			t.Fatalf("expected ErrMemberNotFound, got %v", err)
		}
	}

	got, err := execute(cb, func() (int, error) { return 42, nil })
	if err != nil || got != 42 {
		t.Fatalf("expected breaker to stay closed, got %d, %v", got, err)
	}
}
