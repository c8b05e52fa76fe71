// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

// Package auth guards mutating admin routes with HS256 bearer tokens.
//
// Auth is optional. When security.jwt_secret is empty the API is open and
// RequireToken is not mounted. When set, every POST, PUT and DELETE under
// /api/v1 needs "Authorization: Bearer <token>" signed with that secret and
// issued by security.jwt_issuer. Tokens are minted out of band with
// `tidewatch -issue-token <subject>`.
package auth
