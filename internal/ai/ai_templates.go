package ai

import "fmt"

// SkipToken is the reply the model gives for events that need no stocking advice.
const SkipToken = "SKIP"

const systemInstruction = `You advise owners of small Indian neighbourhood grocery (Kirana) stores.
Answer in plain text without markdown headings. Keep product names short and concrete.`

const festivalPromptTemplate = "Event: %s. " +
	"Context: You are a retail expert for Indian Kirana stores. " +
	"If this is any part of Holi (Lathmar, Holika Dahan, Dhulandi) or any major festival, " +
	"list 5 MUST-STOCK items. Be very specific (e.g., 'Herbal Gulal', 'Mustard Oil'). " +
	"If it is a general holiday or personal event, reply ONLY with '" + SkipToken + "'."

// FestivalPrompt builds the stocking-advice prompt for a calendar event.
func FestivalPrompt(eventName string) string {
	return fmt.Sprintf(festivalPromptTemplate, eventName)
}
