// Package fuzzutil backs fuzz corpus crash-reproduction: given an input that
// made qadom return an unexpected error, it uses a second, independent
// decoder to tell "this input isn't valid JSON" apart from "qadom mis-parsed
// valid JSON".
package fuzzutil

import "github.com/bytedance/sonic"

// LikelyValidJSON reports whether sonic considers data well-formed JSON.
// It is intentionally a second, independently-implemented decoder rather
// than encoding/json, so a bug shared between qadom and the standard
// library's grammar assumptions doesn't mask a real qadom defect.
func LikelyValidJSON(data []byte) bool {
	return sonic.Valid(data)
}

// Classification distinguishes a qadom parse outcome that is expected (both
// decoders agree) from one that warrants investigation (sonic accepted the
// input but qadom rejected it, or vice versa).
type Classification int

const (
	// BothRejected means qadom and sonic agree the input is malformed.
	BothRejected Classification = iota
	// BothAccepted means qadom and sonic agree the input is valid.
	BothAccepted
	// QadomOnlyRejected means sonic accepted the input but qadom did not —
	// worth a closer look at qadom's grammar.
	QadomOnlyRejected
	// QadomOnlyAccepted means qadom accepted the input but sonic did not —
	// qadom may be too permissive.
	QadomOnlyAccepted
)

// Classify reports which decoder(s) accepted data, given whether qadom's own
// parse of data failed.
func Classify(data []byte, qadomFailed bool) Classification {
	sonicOK := LikelyValidJSON(data)
	switch {
	case !qadomFailed && sonicOK:
		return BothAccepted
	case qadomFailed && !sonicOK:
		return BothRejected
	case qadomFailed && sonicOK:
		return QadomOnlyRejected
	default:
		return QadomOnlyAccepted
	}
}
