package domain

import "errors"

// ErrChannelNotConfigured indicates no delivery adapter is registered
// for the requested channel.
var ErrChannelNotConfigured = errors.New("channel not configured")
