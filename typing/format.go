package typing

import "strings"

// AssistantPrefix labels assistant turns on the chat surface
const AssistantPrefix = "(Dezzy) "

// assistantSeparator goes between an existing transcript and a new turn
const assistantSeparator = "\n\n" + AssistantPrefix

// AssistantJob builds the typing job for one assistant reply. An empty
// surface is overwritten with a prefixed turn; a surface with history gets
// the turn appended after a blank line. The prefix is applied at most once
// even if the model echoed it back.
func AssistantJob(surface, existing, reply string) Job {
	reply = strings.TrimPrefix(reply, AssistantPrefix)

	if strings.TrimSpace(existing) == "" {
		return Job{
			Surface: surface,
			Text:    AssistantPrefix + reply,
			Mode:    Overwrite,
			Rich:    true,
		}
	}
	return Job{
		Surface: surface,
		Text:    assistantSeparator + reply,
		Mode:    Append,
		Rich:    true,
	}
}

// CodeJob builds the typing job for generated code. Code always overwrites
// the output surface and types at the faster plain pacing.
func CodeJob(surface, code string) Job {
	return Job{
		Surface: surface,
		Text:    code,
		Mode:    Overwrite,
	}
}
