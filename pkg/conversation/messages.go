package conversation

import (
	"fmt"
	"strings"

	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
)

const (
	AssistantName = "Videa"

	Greeting = "Hi! I'm Videa, your personal training advisor. I'm here to help you find the perfect learning path for your professional development. Tell me, what brings you here today? What are you hoping to learn or improve?"

	NoCollectionMessage = "I have a good sense of what you need, but I'm having trouble finding the perfect collection. Let me connect you with a human advisor who can help."

	EnrolledMessage = "🎉 Perfect! You're all enrolled.\n\n📧 Check your email for access details and next steps. We've sent you:\n\n✓ Login credentials for your personalized learning portal\n✓ Links to all your videos\n✓ A getting started guide\n\nWelcome aboard, and happy learning!"

	DeclinedMessage = "No problem! Would you like to tell me more about what you're looking for, or would you prefer to speak with a human advisor?"

	AlreadyEnrolledMessage = "You're already enrolled in this learning path. Check your email for access details, or start a new conversation to explore something else."
)

// RecommendationMessage presents the matched persona and its collection.
func RecommendationMessage(personaName string, match intakev1.PersonaMatch, collection *intakev1.Collection) string {
	videos := make([]string, 0, len(collection.Videos))
	for i, v := range collection.Videos {
		videos = append(videos, fmt.Sprintf("  %d. %s (%d min)", i+1, v.Title, v.DurationMinutes))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Based on everything you've shared, I believe you match the **%s** profile.\n\n", personaName)
	if match.Reasoning != "" {
		fmt.Fprintf(&sb, "%s\n\n", match.Reasoning)
	}
	fmt.Fprintf(&sb, "I recommend our **%s** learning path:\n\n", collection.Name)
	fmt.Fprintf(&sb, "📚 %d videos • %d minutes total\n\n", collection.TotalVideos, collection.EstimatedDurationMinutes)
	if len(videos) > 0 {
		fmt.Fprintf(&sb, "%s\n\n", strings.Join(videos, "\n"))
	}
	fmt.Fprintf(&sb, "This collection is designed to %s.\n\n", strings.TrimSuffix(strings.ToLower(collection.Description), "."))
	sb.WriteString("Would you like to enroll in this learning path?")
	return sb.String()
}
