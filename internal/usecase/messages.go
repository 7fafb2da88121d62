package usecase

import (
	"fmt"
	"time"
)

// User-facing copy. Group-context replies are deliberately generic: no
// identifier ever appears outside a private delivery.
const (
	adminsOnlyMessage = "Sorry, only group admins can use this command."

	transientFailureMessage = "I couldn't verify your admin status just now. Please try again in a moment."

	deliveredMessage = "✅ Group ID sent privately! Check your messages with me."

	alreadySentMessage = "I already sent this group's ID recently. Check your private messages with me!"

	deliveryFailedMessage = "I couldn't message you privately. Open a private chat with me, send /bandaid there, then try again here."
)

func privateWelcomeMessage(ttl time.Duration) string {
	return fmt.Sprintf(
		"🎸 Hey there! I'm Penny Lane, your group ID band aid.\n\n"+
			"Here's how this works:\n"+
			"1. Add me to any group you manage\n"+
			"2. Send /bandaid in that group\n"+
			"3. I'll privately message you the group's ID\n"+
			"4. I forget everything after %d minutes for your privacy!\n\n"+
			"Ready when you are! 🎵",
		ttlMinutes(ttl),
	)
}

func deliveryMessage(groupTitle string, groupID int64, ttl time.Duration) string {
	if groupTitle == "" {
		groupTitle = "Unnamed Group"
	}
	return fmt.Sprintf(
		"🎵 New group detected!\n\n"+
			"📝 Title: %s\n"+
			"🆔 ID: %d\n\n"+
			"Copy the ID above. I'll forget it in %d minutes.",
		groupTitle, groupID, ttlMinutes(ttl),
	)
}

func ttlMinutes(ttl time.Duration) int {
	minutes := int(ttl.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
