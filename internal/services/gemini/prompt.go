package gemini

import "fmt"

// BuildPrompt combines a transcript and a summarization instruction into the
// fixed framing the model receives. Both inputs are embedded verbatim.
func BuildPrompt(transcript, instruction string) string {
	return fmt.Sprintf(`Transcript:
%s

Instruction:
%s

Please provide a well-structured summary based on the instruction above.`, transcript, instruction)
}
