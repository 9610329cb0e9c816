// Package server provides HTTP routing, middleware, and the OAuth callback listener.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns.
//
// # OAuth Callback Handler
//
// [CallbackHandler] is the terminal node of the authorization-code redirect. It validates the state parameter,
// exchanges the code (with the PKCE verifier held by [session.Authorization]) and writes the token to the
// credential store. It answers with a static confirmation page. Nothing else crosses back into the remote: the
// auth gate notices the stored token on its next poll.
//
// # Lifetime
//
// [Listen] runs the listener for the whole process on the configured address and shuts it down with the context.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
