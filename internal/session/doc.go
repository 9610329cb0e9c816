// Package session gates the remote behind a valid credential.
//
// # Authorization
//
// [NewAuthorization] prepares one authorization-code request for the process lifetime: a random state and a PKCE
// verifier. The URL is shown to the user (log line and QR code); the local callback listener completes it with
// [Authorization.Exchange] and writes the token to the [CredentialStore].
//
// # Gate
//
// [Gate] moves NoToken → AwaitingUserAction → Authenticated. The transition to Authenticated is observed by polling
// the store once per second; after the first valid token the gate stops polling and is never re-entered. Refreshing
// tokens belongs to the HTTP client built by [NewHTTPClient], which persists every refreshed token.
package session
