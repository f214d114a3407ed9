// Package policy holds the authorization rules of the HR platform.
//
// Every rule is a pure function of a principal and, where relevant, the
// identifier of the resource owner:
//   - full profile view and profile edit: the owner or any manager
//   - absence request review: managers only
//   - feedback: anyone except on their own profile
//
// Callers must reject unauthenticated requests before consulting a rule.
package policy
