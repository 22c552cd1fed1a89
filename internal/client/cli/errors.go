package cli

import "github.com/dmitrijs2005/nkitsi/internal/common"

// describeError renders err for the user: the primary message, then the
// detail in parentheses when there is one.
func describeError(err error) string {
	msg := common.MessageOf(err)
	if d := common.DetailOf(err); d != "" {
		msg += " (" + d + ")"
	}
	return "Error: " + msg
}
