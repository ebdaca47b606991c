package chat

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"healthchat/internal/models"
)

// Persona is the fixed system instruction sent with every upstream call.
const Persona = "You are a helpful and friendly AI assistant for healthcare questions. " +
	"Provide informative and safe advice. Disclaimer: You are an AI assistant and not " +
	"a medical professional. Always consult with a doctor for any medical concerns."

// HistoryWindow is the maximum number of prior turns included in the context.
const HistoryWindow = 6

const historyHeader = "Previous conversation:"

// AssembleParts builds the ordered upstream content parts for one request.
//
// With history, the prior turns (at most the last HistoryWindow) and the
// current prompt collapse into a single text part; the raw prompt is not
// emitted separately. Without history, a non-empty prompt becomes one verbatim
// text part. An image contributes an inline-data part followed by an analysis
// instruction.
func AssembleParts(prompt string, history []models.Turn, image *models.ImageAttachment) ([]*genai.Part, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" && len(history) == 0 && image == nil {
		return nil, ErrEmptyRequest
	}

	var parts []*genai.Part
	if len(history) > 0 {
		parts = append(parts, genai.NewPartFromText(renderHistory(prompt, history)))
	} else if prompt != "" {
		parts = append(parts, genai.NewPartFromText(prompt))
	}

	if image != nil {
		data, err := imageBytes(image)
		if err != nil {
			return nil, err
		}
		parts = append(parts, genai.NewPartFromBytes(data, image.MimeType))
		instruction := "Please analyze this image for any visible health concerns and describe what you see."
		if prompt != "" {
			instruction = fmt.Sprintf("Please analyze this image in the context of: %s", prompt)
		}
		parts = append(parts, genai.NewPartFromText(instruction))
	}
	return parts, nil
}

func renderHistory(prompt string, history []models.Turn) string {
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	var b strings.Builder
	b.WriteString(historyHeader)
	for _, turn := range history {
		b.WriteString("\n")
		b.WriteString(roleLabel(turn.Role))
		b.WriteString(": ")
		b.WriteString(turn.Content)
	}
	b.WriteString("\n\nCurrent message: ")
	b.WriteString(prompt)
	return b.String()
}

func roleLabel(r models.Role) string {
	if r == models.RoleAssistant {
		return "Assistant"
	}
	return "User"
}
