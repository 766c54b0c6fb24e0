// Package project defines the project record and the rules for turning user
// input into one.
//
// Record:
//
// A Project carries a server-assigned ID, a name, a single-line description
// and start/end values stored as "YYYY-MM-DD HH:MM". The client never
// generates IDs.
//
// Drafts:
//
// A Draft holds raw form values. Validate reports every failing field in an
// ErrorSet; an empty set means the draft may be submitted. FromDraft then
// normalizes the description and converts 12-hour clocks:
//
//	errs := project.Validate(draft)
//	if !errs.Empty() {
//	    // show errs to the user
//	}
//	p, err := project.FromDraft(draft)
//
// End dates are compared with start dates by calendar day only.
package project
