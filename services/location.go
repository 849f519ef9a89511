package services

import (
	"context"
	"errors"
	"strings"

	"termometro/geo"
)

var (
	ErrLocationDenied      = errors.New("location permission denied")
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrLocationUnsupported = errors.New("location not supported")
)

// LocationProvider resolves the device position for one submission.
// Implementations should honor ctx, but the gate does not rely on it.
type LocationProvider interface {
	CurrentPosition(ctx context.Context) (geo.Coordinate, error)
}

// LocationFunc adapts a plain function to LocationProvider.
type LocationFunc func(ctx context.Context) (geo.Coordinate, error)

func (f LocationFunc) CurrentPosition(ctx context.Context) (geo.Coordinate, error) {
	return f(ctx)
}

// ReportedPosition is a position the client already obtained, or the reason
// it could not.
type ReportedPosition struct {
	Coordinate *geo.Coordinate
	Err        error
}

func (p ReportedPosition) CurrentPosition(ctx context.Context) (geo.Coordinate, error) {
	if p.Err != nil {
		return geo.Coordinate{}, p.Err
	}
	if p.Coordinate == nil {
		return geo.Coordinate{}, ErrLocationUnsupported
	}
	return *p.Coordinate, nil
}

// PositionFromClient builds a ReportedPosition from the request fields.
// reason is the client's error code when it has no coordinate: "unsupported",
// "denied", "timeout" or "unavailable". No coordinate and no reason counts as
// unsupported.
func PositionFromClient(coord *geo.Coordinate, reason string) ReportedPosition {
	switch strings.ToLower(strings.TrimSpace(reason)) {
	case "":
		return ReportedPosition{Coordinate: coord}
	case "unsupported":
		return ReportedPosition{Err: ErrLocationUnsupported}
	case "denied", "permission_denied":
		return ReportedPosition{Err: ErrLocationDenied}
	default:
		return ReportedPosition{Err: ErrLocationUnavailable}
	}
}
