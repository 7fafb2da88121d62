package telegram

import (
	"fmt"

	"github.com/sssalamanders/penny-lane/internal/core/domain"
	"github.com/sssalamanders/penny-lane/internal/infra/config"
)

const helpMessage = "🎸 Penny Lane - Group ID Bot\n\n" +
	"I help you get Telegram group IDs safely and privately!\n\n" +
	"How to use:\n" +
	"1. Start me in a private chat with /bandaid\n" +
	"2. Add me to your group\n" +
	"3. Send /bandaid in that group\n" +
	"4. I'll DM you the group ID\n\n" +
	"Privacy: I only keep info in memory for a few minutes, then forget everything completely.\n\n" +
	"Commands:\n" +
	"/bandaid - Register privately or get a group ID\n" +
	"/help - Show this help message\n" +
	"/status - Show current memory usage"

const fallbackMessage = "Hey! Use /bandaid to get started, or /help for more info. 🎸"

func statusMessage(status domain.RelayStatus, registry config.RegistrySettings) string {
	return fmt.Sprintf(
		"🎵 Penny Lane Status\n\n"+
			"📊 Active registrations: %d\n"+
			"⏱️ TTL: %d seconds\n"+
			"🧹 Sweep interval: %d seconds\n\n"+
			"All data is stored in RAM only and automatically expires!",
		status.LiveEntries,
		int(registry.TTL.Seconds()),
		int(registry.SweepInterval.Seconds()),
	)
}
