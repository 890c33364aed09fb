package generate

import (
	"fmt"
	"strings"
)

const docSystemPrompt = "You are a helpful assistant that generates questions and answers about technical documentation. " +
	"Format your response as JSON. Keep answers concise and factual. " +
	"Focus on the technical details and functionality being described."

const releaseSystemPrompt = "You are a helpful assistant that generates questions and answers about software release notes. " +
	"Format your response as JSON. Keep answers concise and factual. " +
	"Focus on the specific changes and improvements in this version."

// IsReleaseNotes reports whether text looks like release notes or a
// changelog. Only the instructional framing changes; the parsing contract
// is the same either way.
func IsReleaseNotes(text string) bool {
	return strings.Contains(text, "# Release Notes") || strings.Contains(text, "# Changelog")
}

// BuildPrompts composes the system and user messages for a chunk,
// requesting exactly count pairs.
func BuildPrompts(text string, count int) (system, user string) {
	var instruction string
	if IsReleaseNotes(text) {
		system = releaseSystemPrompt
		instruction = fmt.Sprintf(
			"Generate exactly %d unique questions and answers from these release notes. "+
				"Focus on specific changes, features, and improvements. "+
				"Format as JSON array with 'question' and 'answer' fields. "+
				"Questions should be detailed and specific to the version mentioned in the notes.",
			count)
	} else {
		system = docSystemPrompt
		instruction = fmt.Sprintf(
			"Generate exactly %d unique questions and answers from this documentation. "+
				"Focus on key concepts, features, and usage. "+
				"Format as JSON array with 'question' and 'answer' fields.",
			count)
	}
	user = instruction + "\nContent: " + text
	return system, user
}
