package results

import "strings"

type Reason string

const (
	// ReasonUnknown is default reason. Occurrences of this reason in reports
	// indicate a bug, a failure to identify the reason for an error somewhere.
	ReasonUnknown Reason = "unknown"

	// ReasonEmptyInput is used when there are no execution records to work with.
	ReasonEmptyInput Reason = "empty_input"
	// ReasonDataIntegrity is used when derived data breaks an invariant that
	// upstream stages should have guaranteed.
	ReasonDataIntegrity Reason = "data_integrity"
	// ReasonMalformedRecord is used when an execution record can not be ingested.
	ReasonMalformedRecord Reason = "malformed_record"
	// ReasonInvalidConfiguration is used when selection settings are out of range.
	ReasonInvalidConfiguration Reason = "invalid_configuration"
	// ReasonLoadingRecords is used when a record source fails.
	ReasonLoadingRecords Reason = "loading_records"
	// ReasonWritingOutput is used when writing or uploading results fails.
	ReasonWritingOutput Reason = "writing_output"
)

// FullReason joins all reason chains of an error into a single string.
// Errors that carry no reason report ReasonUnknown.
func FullReason(err error) string {
	if err == nil {
		return ""
	}
	reasons := Reasons(err)
	if len(reasons) == 0 {
		return string(ReasonUnknown)
	}
	return strings.Join(reasons, ",")
}

// HasReason determines if any chain of the error carries the given reason.
func HasReason(err error, reason Reason) bool {
	for _, chain := range Reasons(err) {
		for _, r := range strings.Split(chain, ":") {
			if r == string(reason) {
				return true
			}
		}
	}
	return false
}
