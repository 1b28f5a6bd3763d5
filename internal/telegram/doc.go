// Package telegram posts announcement digests of newly found events to
// the MeowAfisha channel via the Bot API.
package telegram
