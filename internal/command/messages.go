package command

// Fixed user-facing replies. Every handler resolves to exactly one of
// these or to a composed report; raw error shapes never reach the chat.
const (
	msgInsufficientPrivilege = "You don't have permission to act on another user."
	msgGenericFailure        = "The request failed. Please try again later."

	msgMissingAmount  = "Please provide an amount."
	msgInvalidAmount  = "That amount doesn't look like a number."
	msgMissingMachine = "Please provide a machine name."
	msgMissingCode    = "Please provide a redemption code."
	msgMissingUser    = "Please provide a target user."

	msgRegistered     = "Registered. Welcome aboard!"
	msgCheckedIn      = "Checked in. Have a good time!"
	msgNoActiveUsers  = "No active occupants."
	msgNothingGranted = "The code granted nothing."
)
