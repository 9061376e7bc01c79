package model

import "strings"

// PolicySentinel marks the appended end-call policy clause inside a system
// prompt. It is a pure presence flag: the dashboard strips everything from
// the sentinel onward for display and re-appends the full clause on save.
const PolicySentinel = "[[MYNA_END_CALL_POLICY_V1]]"

// PolicyClause is the canonical end-call policy text, sentinel included
const PolicyClause = "\n\n" + PolicySentinel + "\nIf the caller asks to end the call, or the conversation has clearly concluded, say a brief goodbye and end the call."

// HasPolicyClause reports whether the prompt carries the policy sentinel
func HasPolicyClause(prompt string) bool {
	return strings.Contains(prompt, PolicySentinel)
}

// StripPolicyClause removes the appended policy clause for display. Text
// before the sentinel is kept with trailing whitespace trimmed.
func StripPolicyClause(prompt string) string {
	idx := strings.Index(prompt, PolicySentinel)
	if idx < 0 {
		return prompt
	}
	return strings.TrimRight(prompt[:idx], " \t\r\n")
}

// AppendPolicyClause re-attaches the canonical policy clause before
// persisting. Any existing clause is stripped first so the operation is
// idempotent.
func AppendPolicyClause(prompt string) string {
	return StripPolicyClause(prompt) + PolicyClause
}
