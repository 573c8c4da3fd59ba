package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeHashtag strips the leading '#' and whitespace and case-folds the
// tag so config entries match tags however users typed them
func NormalizeHashtag(tag string) string {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	return cases.Fold().String(norm.NFKC.String(tag))
}

// NormalizeAcct strips the leading '@' and whitespace and case-folds an
// account handle for allowlist comparison
func NormalizeAcct(acct string) string {
	acct = strings.TrimPrefix(strings.TrimSpace(acct), "@")
	return cases.Fold().String(norm.NFKC.String(acct))
}
