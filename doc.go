// Package auth implements the credential lifecycle for the bookti API:
// signup, login, JWT access/refresh token issuance and rotation, and
// password reset by email.
//
// Token lifecycle:
//   - TokenService mints access/refresh pairs and validates them. Every
//     refresh token carries a unique jti that is checked against a
//     RevocationLedger, so a cryptographically valid token can still be
//     rejected after rotation or logout.
//   - Refresh rotates both tokens and revokes the presented jti. Signature
//     and expiry are always verified before the ledger is consulted, so an
//     expired token reports expiry even when it also appears in the ledger.
//
// Password reset:
//   - ResetTokenIssuer owns the per-user state machine. Issuing a token
//     supersedes (deletes) any active one, a consumed token is deleted, and
//     an expired token is treated as absent on lookup.
//
// Auther composes the credential store, the bcrypt hasher, the token
// service, and the reset issuer into the five operations the HTTP layer
// exposes under /authorize.
package auth
