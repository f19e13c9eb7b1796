package common

// AuthorizationHeader carries the bearer token on inbound HTTP requests.
const AuthorizationHeader = "Authorization"

// BearerScheme is the expected authorization scheme.
const BearerScheme = "Bearer"
