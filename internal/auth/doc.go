// Package auth holds the session-identity core of postboard: bcrypt credential
// records, signed session tokens, the cookie gate that turns a request's cookie
// jar into an identity, and the ownership check applied to posts.
//
// Every guard returns a Decision instead of writing to the response. The HTTP
// layer decides how a Deny, Forbidden or Redirect is rendered.
package auth
