package content

import (
	"fmt"

	"smiledesk/internal/models"
)

const systemInstruction = `You are the social media voice of a dental practice.
Write warm, professional posts that build trust with patients. Keep the tone
friendly and informative. Never give medical advice, never mention prices,
and never reference specific patients. Return only the post text, no
preamble and no markdown fences.`

// buildPrompt composes the user prompt for one draft request.
func buildPrompt(platform models.Platform, topic string) string {
	switch platform {
	case models.PlatformInstagram:
		return fmt.Sprintf("Write an Instagram caption about: %s. Keep it under 150 words, end with 3-5 relevant hashtags.", topic)
	default:
		return fmt.Sprintf("Write a Facebook post about: %s. Keep it under 200 words, conversational, with a gentle call to action to book an appointment.", topic)
	}
}
