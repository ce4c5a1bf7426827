// Package auth implements the credential and session-token lifecycle for
// souqworks services: password hashing, signed access/refresh token
// issuance and verification, cookie-based session propagation, and a
// uniform response envelope for HTTP handlers.
//
// Token rotation:
//   - Each login or refresh mints a fresh access/refresh pair and persists
//     the refresh token reference on the user record, invalidating the
//     previous one. Logout clears the reference so a captured refresh
//     token cannot mint further access tokens.
//
// Error taxonomy:
//   - All failure paths surface go-errors categories. Validation and
//     conflict errors short-circuit flows as soon as detected; hashing,
//     signing, and store failures are internal errors that the response
//     sink logs in full and reports to clients as a generic message.
package auth
