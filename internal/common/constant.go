package common

// AuthorizationHeaderName carries the bearer access token on outbound
// requests and on the websocket handshake.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in the authorization header.
const BearerPrefix = "Bearer "

// MaxAudioUploadBytes is the default client-side ceiling for audio payloads.
// Uploads above it are rejected before any network traffic.
const MaxAudioUploadBytes = 100 * 1024 * 1024
